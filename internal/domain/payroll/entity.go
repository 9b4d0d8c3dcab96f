package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/money"
)

// RunStatus enum. A run is created in draft, locked with a conditional
// transition to posting when finalize starts, and ends posted. A separate
// administrative action moves posted to voided. No other transitions exist.
type RunStatus string

const (
	RunStatusDraft   RunStatus = "draft"
	RunStatusPosting RunStatus = "posting"
	RunStatusPosted  RunStatus = "posted"
	RunStatusVoided  RunStatus = "voided"
)

// PostingMode decides the granularity of the ledger entries a finalized run
// produces: one expense per staff at the pay date, or one per shift at each
// shift's own expense-recognition date.
type PostingMode string

const (
	ModePerStaff PostingMode = "per_staff"
	ModePerShift PostingMode = "per_shift"
)

// PayrollRun is one payroll-period batch computation/posting unit.
type PayrollRun struct {
	ID          string
	PeriodStart time.Time
	PeriodEnd   time.Time
	PayDate     time.Time
	Mode        PostingMode
	Status      RunStatus

	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal

	// PostAttempt increments every time posting starts, so an interrupted
	// finalize (status stuck in posting with attempt > 0) is detectable.
	PostAttempt int
	PostedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Editable reports whether line edits and saves are still allowed.
func (r *PayrollRun) Editable() bool {
	return r.Status == RunStatusDraft
}

// ShiftRow is one source shift inside a payroll line, carrying any override
// applied by the administrator and the values recomputed from it.
type ShiftRow struct {
	ShiftID string
	Start   *time.Time
	End     *time.Time

	OverrideStart *time.Time
	OverrideEnd   *time.Time
	Excluded      bool
	// ExpenseDate is the explicit expense-recognition date, used only when
	// the run posts per shift.
	ExpenseDate *time.Time

	MinutesUsed int
	Shortage    decimal.Decimal
}

// EffectiveStart returns the override start when set, the clocked start
// otherwise.
func (s *ShiftRow) EffectiveStart() *time.Time {
	if s.OverrideStart != nil {
		return s.OverrideStart
	}
	return s.Start
}

func (s *ShiftRow) EffectiveEnd() *time.Time {
	if s.OverrideEnd != nil {
		return s.OverrideEnd
	}
	return s.End
}

// HasOverride reports whether the row deviates from the raw shift and must
// be stored as an override document.
func (s *ShiftRow) HasOverride() bool {
	return s.OverrideStart != nil || s.OverrideEnd != nil || s.Excluded || s.ExpenseDate != nil
}

// AdjustmentKind enum
type AdjustmentKind string

const (
	// AdjustmentManualDeduction is an ad-hoc deduction entered by the
	// administrator.
	AdjustmentManualDeduction AdjustmentKind = "manual_deduction"
	// AdjustmentExtraAdvance is a salary advance recorded on another staff
	// member's shift but owed by this line's staff.
	AdjustmentExtraAdvance AdjustmentKind = "extra_advance"
)

type Adjustment struct {
	ID     string
	Kind   AdjustmentKind
	Label  string
	Amount decimal.Decimal
	// SourceTransactionID links an extra advance back to its ledger entry.
	SourceTransactionID *string
}

// AdvanceRecord is a salary advance taken on one of this line's own shifts.
type AdvanceRecord struct {
	TransactionID string
	ShiftID       string
	Amount        decimal.Decimal
}

// PayrollLine is one staff member's computed pay within a run. All derived
// fields are produced by Recalc; mutations must call it before the line is
// read or persisted.
type PayrollLine struct {
	RunID      string
	StaffID    string
	StaffName  string
	Rate       decimal.Decimal
	RateSource string

	Shifts      []ShiftRow
	Advances    []AdvanceRecord
	Adjustments []Adjustment

	Minutes         int
	Gross           decimal.Decimal
	AdvancesTotal   decimal.Decimal
	ShortagesTotal  decimal.Decimal
	OtherDeductions decimal.Decimal
	Net             decimal.Decimal
}

// Recalc recomputes every derived value on the line from its shift rows,
// advances and adjustments. It touches no other line and has no side
// effects outside the receiver.
func (l *PayrollLine) Recalc() {
	minutes := 0
	shortages := decimal.Zero
	for i := range l.Shifts {
		row := &l.Shifts[i]
		if row.Excluded {
			row.MinutesUsed = 0
			continue
		}
		row.MinutesUsed = money.MinutesBetween(row.EffectiveStart(), row.EffectiveEnd())
		minutes += row.MinutesUsed
		shortages = shortages.Add(row.Shortage)
	}

	advances := decimal.Zero
	for _, a := range l.Advances {
		advances = advances.Add(a.Amount)
	}

	other := decimal.Zero
	for _, adj := range l.Adjustments {
		other = other.Add(adj.Amount)
	}

	l.Minutes = minutes
	l.Gross = money.HourlyAmount(minutes, l.Rate)
	l.AdvancesTotal = advances.Round(2)
	l.ShortagesTotal = shortages.Round(2)
	l.OtherDeductions = other.Round(2)
	l.Net = l.Gross.Sub(l.AdvancesTotal).Sub(l.ShortagesTotal).Sub(l.OtherDeductions).Round(2)
}

// ShiftRowByID returns the row for a shift id, or nil.
func (l *PayrollLine) ShiftRowByID(shiftID string) *ShiftRow {
	for i := range l.Shifts {
		if l.Shifts[i].ShiftID == shiftID {
			return &l.Shifts[i]
		}
	}
	return nil
}

// AdvancesForShift sums the line's own advances taken on a shift.
func (l *PayrollLine) AdvancesForShift(shiftID string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.Advances {
		if a.ShiftID == shiftID {
			total = total.Add(a.Amount)
		}
	}
	return total.Round(2)
}

// ShiftOverride is the stored form of a non-default shift row. Overrides
// are fully cleared and rewritten on every save so stale ones cannot
// linger.
type ShiftOverride struct {
	RunID       string
	StaffID     string
	ShiftID     string
	Start       *time.Time
	End         *time.Time
	Excluded    bool
	MinutesUsed int
	ExpenseDate *time.Time
}

// PaystubShift is one shift as it appears on a paystub.
type PaystubShift struct {
	ShiftID string
	Date    *time.Time
	Minutes int
	Hours   decimal.Decimal
}

type PaystubDeduction struct {
	Kind    string
	Label   string
	ShiftID *string
	Amount  decimal.Decimal
}

// Paystub is the immutable per-staff snapshot written at finalize.
type Paystub struct {
	RunID           string
	StaffID         string
	StaffName       string
	Rate            decimal.Decimal
	Shifts          []PaystubShift
	Deductions      []PaystubDeduction
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	CreatedAt       time.Time
}
