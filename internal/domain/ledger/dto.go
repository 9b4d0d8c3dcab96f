package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/validator"
)

type CreateTransactionRequest struct {
	Category           string          `json:"category"`
	Amount             decimal.Decimal `json:"amount"`
	OccurredAt         string          `json:"occurred_at,omitempty"`
	StaffID            string          `json:"staff_id"`
	ShiftID            *string         `json:"shift_id,omitempty"`
	ExpenseType        *string         `json:"expense_type,omitempty"`
	BeneficiaryStaffID *string         `json:"beneficiary_staff_id,omitempty"`
	BeneficiaryName    *string         `json:"beneficiary_name,omitempty"`
}

func (r *CreateTransactionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Category != string(CategoryDebit) && r.Category != string(CategoryCredit) {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be 'debit' or 'credit'"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if validator.IsEmpty(r.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.OccurredAt != "" {
		if _, ok := validator.IsValidDateTime(r.OccurredAt); !ok {
			errs = append(errs, validator.ValidationError{Field: "occurred_at", Message: "must be an ISO8601 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TransactionFilter struct {
	Category      *Category
	ExpenseType   *string
	ShiftID       *string
	PayrollRunID  *string
	StaffID       *string
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
}

type TransactionResponse struct {
	ID                 string          `json:"id"`
	Category           string          `json:"category"`
	Amount             decimal.Decimal `json:"amount"`
	OccurredAt         time.Time       `json:"occurred_at"`
	StaffID            string          `json:"staff_id"`
	StaffName          *string         `json:"staff_name,omitempty"`
	ShiftID            *string         `json:"shift_id,omitempty"`
	ExpenseType        *string         `json:"expense_type,omitempty"`
	BeneficiaryStaffID *string         `json:"beneficiary_staff_id,omitempty"`
	BeneficiaryName    *string         `json:"beneficiary_name,omitempty"`
	PayrollRunID       *string         `json:"payroll_run_id,omitempty"`
	Voided             bool            `json:"voided"`
}
