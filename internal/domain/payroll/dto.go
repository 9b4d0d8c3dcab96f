package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/validator"
)

// ========== RUN DTOs ==========

type PreviewRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r *PreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not precede period_start"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateRunRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PayDate     string `json:"pay_date"`
	Mode        string `json:"mode"`
}

func (r *CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not precede period_start"})
	}
	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.Mode != string(ModePerStaff) && r.Mode != string(ModePerShift) {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "must be 'per_staff' or 'per_shift'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== LINE EDIT DTOs ==========

type SetLineRateRequest struct {
	RunID   string          `json:"-"`
	StaffID string          `json:"-"`
	Rate    decimal.Decimal `json:"rate"`
}

func (r *SetLineRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OverrideShiftRequest struct {
	RunID       string  `json:"-"`
	StaffID     string  `json:"-"`
	ShiftID     string  `json:"-"`
	Start       *string `json:"start,omitempty"`
	End         *string `json:"end,omitempty"`
	Excluded    *bool   `json:"excluded,omitempty"`
	ExpenseDate *string `json:"expense_date,omitempty"`
	// Reset clears every override on the shift row.
	Reset bool `json:"reset,omitempty"`
}

func (r *OverrideShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Start != nil {
		if _, ok := validator.IsValidDateTime(*r.Start); !ok {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "must be an ISO8601 timestamp"})
		}
	}
	if r.End != nil {
		if _, ok := validator.IsValidDateTime(*r.End); !ok {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "must be an ISO8601 timestamp"})
		}
	}
	if r.ExpenseDate != nil {
		if _, ok := validator.IsValidDate(*r.ExpenseDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "expense_date", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddAdjustmentRequest struct {
	RunID   string          `json:"-"`
	StaffID string          `json:"-"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
}

func (r *AddAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "is required"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAdjustmentRequest struct {
	RunID        string           `json:"-"`
	StaffID      string           `json:"-"`
	AdjustmentID string           `json:"-"`
	Label        *string          `json:"label,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
}

func (r *UpdateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Label != nil && validator.IsEmpty(*r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "must not be empty"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RESPONSES ==========

type ShiftRowResponse struct {
	ShiftID       string          `json:"shift_id"`
	Start         *time.Time      `json:"start,omitempty"`
	End           *time.Time      `json:"end,omitempty"`
	OverrideStart *time.Time      `json:"override_start,omitempty"`
	OverrideEnd   *time.Time      `json:"override_end,omitempty"`
	Excluded      bool            `json:"excluded"`
	ExpenseDate   *time.Time      `json:"expense_date,omitempty"`
	MinutesUsed   int             `json:"minutes_used"`
	Hours         decimal.Decimal `json:"hours"`
	Shortage      decimal.Decimal `json:"shortage"`
	Advances      decimal.Decimal `json:"advances"`
}

type AdjustmentResponse struct {
	ID                  string          `json:"id"`
	Kind                string          `json:"kind"`
	Label               string          `json:"label"`
	Amount              decimal.Decimal `json:"amount"`
	SourceTransactionID *string         `json:"source_transaction_id,omitempty"`
}

type LineResponse struct {
	StaffID         string               `json:"staff_id"`
	StaffName       string               `json:"staff_name"`
	Rate            decimal.Decimal      `json:"rate"`
	RateSource      string               `json:"rate_source"`
	Minutes         int                  `json:"minutes"`
	Hours           decimal.Decimal      `json:"hours"`
	Gross           decimal.Decimal      `json:"gross"`
	AdvancesTotal   decimal.Decimal      `json:"advances_total"`
	ShortagesTotal  decimal.Decimal      `json:"shortages_total"`
	OtherDeductions decimal.Decimal      `json:"other_deductions"`
	Net             decimal.Decimal      `json:"net"`
	Shifts          []ShiftRowResponse   `json:"shifts"`
	Adjustments     []AdjustmentResponse `json:"adjustments,omitempty"`
}

type RunResponse struct {
	ID              string          `json:"id"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	PayDate         string          `json:"pay_date"`
	Mode            string          `json:"mode"`
	Status          string          `json:"status"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	PostAttempt     int             `json:"post_attempt"`
	PostedAt        *time.Time      `json:"posted_at,omitempty"`
	Lines           []LineResponse  `json:"lines,omitempty"`
}

type PaystubShiftResponse struct {
	ShiftID string          `json:"shift_id"`
	Date    *time.Time      `json:"date,omitempty"`
	Minutes int             `json:"minutes"`
	Hours   decimal.Decimal `json:"hours"`
}

type PaystubDeductionResponse struct {
	Kind    string          `json:"kind"`
	Label   string          `json:"label"`
	ShiftID *string         `json:"shift_id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
}

type PaystubResponse struct {
	RunID           string                     `json:"run_id"`
	StaffID         string                     `json:"staff_id"`
	StaffName       string                     `json:"staff_name"`
	Rate            decimal.Decimal            `json:"rate"`
	Shifts          []PaystubShiftResponse     `json:"shifts"`
	Deductions      []PaystubDeductionResponse `json:"deductions"`
	Gross           decimal.Decimal            `json:"gross"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	NetPay          decimal.Decimal            `json:"net_pay"`
}
