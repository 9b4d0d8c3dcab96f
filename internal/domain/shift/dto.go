package shift

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	StaffID string `json:"staff_id"`
	Start   string `json:"start,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.Start != "" {
		if _, ok := validator.IsValidDateTime(r.Start); !ok {
			errs = append(errs, validator.ValidationError{Field: "start", Message: "must be an ISO8601 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	ShiftID       string           `json:"-"`
	End           string           `json:"end,omitempty"`
	CashCount     map[string]int   `json:"cash_count"`
	TotalCash     *decimal.Decimal `json:"total_cash,omitempty"`
	ExpensesTotal *decimal.Decimal `json:"expenses_total,omitempty"`
	SystemTotal   *decimal.Decimal `json:"system_total,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.End != "" {
		if _, ok := validator.IsValidDateTime(r.End); !ok {
			errs = append(errs, validator.ValidationError{Field: "end", Message: "must be an ISO8601 timestamp"})
		}
	}
	for face, count := range r.CashCount {
		if count < 0 {
			errs = append(errs, validator.ValidationError{Field: "cash_count." + face, Message: "count must be non-negative"})
		}
	}
	if r.TotalCash == nil && r.SystemTotal == nil {
		errs = append(errs, validator.ValidationError{Field: "total_cash", Message: "either total_cash or system_total is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListShiftsFilter struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	StaffID     *string
}

type ShiftResponse struct {
	ID            string           `json:"id"`
	StaffID       string           `json:"staff_id"`
	StaffName     *string          `json:"staff_name,omitempty"`
	Start         *time.Time       `json:"start,omitempty"`
	End           *time.Time       `json:"end,omitempty"`
	MinutesWorked int              `json:"minutes_worked"`
	CashCount     map[string]int   `json:"cash_count,omitempty"`
	TotalCash     *decimal.Decimal `json:"total_cash,omitempty"`
	ExpensesTotal *decimal.Decimal `json:"expenses_total,omitempty"`
	SystemTotal   *decimal.Decimal `json:"system_total,omitempty"`
	ExpectedCash  decimal.Decimal  `json:"expected_cash"`
	Shortage      decimal.Decimal  `json:"shortage"`
	PayrollRunID  *string          `json:"payroll_run_id,omitempty"`
}
