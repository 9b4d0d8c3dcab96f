package shift

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/money"
)

// Shift is one staff member's timed work session with an associated cash
// drawer count. A shift is created at clock-in, closed at clock-out, and
// tagged with a payroll run id once its pay has been posted (never deleted).
type Shift struct {
	ID      string
	StaffID string
	Start   *time.Time
	End     *time.Time

	// CashCount maps denomination face value ("1000", "0.25") to piece count.
	CashCount map[string]int

	// Newer shifts carry the (TotalCash, ExpensesTotal) pair; legacy shifts
	// carry only SystemTotal.
	TotalCash     *decimal.Decimal
	ExpensesTotal *decimal.Decimal
	SystemTotal   *decimal.Decimal

	PayrollRunID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined
	StaffName *string
}

// ExpectedCash returns the cash the drawer should hold at clock-out.
func (s *Shift) ExpectedCash() decimal.Decimal {
	if s.TotalCash != nil {
		expenses := decimal.Zero
		if s.ExpensesTotal != nil {
			expenses = *s.ExpensesTotal
		}
		return s.TotalCash.Sub(expenses)
	}
	if s.SystemTotal != nil {
		return *s.SystemTotal
	}
	return decimal.Zero
}

// Shortage returns the cash shortfall between expected and counted drawer
// cash. A surplus yields zero, never a negative deduction.
func (s *Shift) Shortage() decimal.Decimal {
	shortage := s.ExpectedCash().Sub(money.SumDenominations(s.CashCount)).Round(2)
	if shortage.IsNegative() {
		return decimal.Zero
	}
	return shortage
}

// MinutesWorked returns the recorded worked minutes; shifts missing either
// timestamp contribute zero.
func (s *Shift) MinutesWorked() int {
	return money.MinutesBetween(s.Start, s.End)
}
