package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category enum: debit entries are sales, credit entries are expenses.
type Category string

const (
	CategoryDebit  Category = "debit"
	CategoryCredit Category = "credit"
)

// Well-known expense types consumed and produced by the payroll engine.
const (
	ExpenseTypeSalaryAdvance = "Salary Advance"
	ExpenseTypeSalary        = "Salary"
)

// Transaction is a single-sided ledger entry. Amounts are immutable once
// written; corrections void the entry and create a new one.
type Transaction struct {
	ID         string
	Category   Category
	Amount     decimal.Decimal
	OccurredAt time.Time

	// StaffID is the staff member who recorded the entry.
	StaffID string

	ShiftID     *string
	ExpenseType *string

	// Intended beneficiary, when it differs from the recording staff.
	// A salary advance rung up on staff A's shift but owed by staff B
	// carries B here.
	BeneficiaryStaffID *string
	BeneficiaryName    *string

	PayrollRunID *string
	Voided       bool
	IsDeleted    bool
	CreatedAt    time.Time

	// Joined
	StaffName *string
}

// BeneficiaryID returns the staff the entry is owed by: the explicit
// beneficiary when present, the recording staff otherwise.
func (t *Transaction) BeneficiaryID() string {
	if t.BeneficiaryStaffID != nil && *t.BeneficiaryStaffID != "" {
		return *t.BeneficiaryStaffID
	}
	return t.StaffID
}

// IsSalaryAdvance reports whether the entry is a live salary advance.
func (t *Transaction) IsSalaryAdvance() bool {
	return t.ExpenseType != nil &&
		*t.ExpenseType == ExpenseTypeSalaryAdvance &&
		!t.Voided && !t.IsDeleted
}
