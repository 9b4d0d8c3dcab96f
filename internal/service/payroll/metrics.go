package payroll

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
)

// buildLines derives one pay line per staff from the period's shifts and
// their salary advances. Advances recorded on one staff member's shift but
// owed by another are moved to the beneficiary's line as an extra-advance
// adjustment; a beneficiary with no shifts of their own still gets a line.
func buildLines(
	shifts []shift.Shift,
	profiles map[string]staff.PayrollProfile,
	names map[string]string,
	advances []ledger.Transaction,
	asOf time.Time,
	logger *slog.Logger,
) []payroll.PayrollLine {
	lines := make(map[string]*payroll.PayrollLine)

	ensureLine := func(staffID string) *payroll.PayrollLine {
		if line, ok := lines[staffID]; ok {
			return line
		}
		var profile *staff.PayrollProfile
		if p, ok := profiles[staffID]; ok {
			profile = &p
		}
		resolved, source := profile.RateAsOf(asOf)
		if source == staff.RateSourceNone {
			logger.Warn("no pay rate configured for staff, using zero",
				"staff_id", staffID,
				"staff_name", names[staffID],
			)
		}
		line := &payroll.PayrollLine{
			StaffID:    staffID,
			StaffName:  names[staffID],
			Rate:       resolved,
			RateSource: string(source),
		}
		lines[staffID] = line
		return line
	}

	shiftOwner := make(map[string]string, len(shifts))
	for _, sh := range shifts {
		shiftOwner[sh.ID] = sh.StaffID
		line := ensureLine(sh.StaffID)
		line.Shifts = append(line.Shifts, payroll.ShiftRow{
			ShiftID:  sh.ID,
			Start:    sh.Start,
			End:      sh.End,
			Shortage: sh.Shortage(),
		})
	}

	for _, tx := range advances {
		if !tx.IsSalaryAdvance() || tx.ShiftID == nil {
			continue
		}
		owner, ok := shiftOwner[*tx.ShiftID]
		if !ok {
			continue
		}
		beneficiary := tx.BeneficiaryID()
		if beneficiary == owner {
			line := ensureLine(owner)
			line.Advances = append(line.Advances, payroll.AdvanceRecord{
				TransactionID: tx.ID,
				ShiftID:       *tx.ShiftID,
				Amount:        tx.Amount,
			})
			continue
		}

		// Reattribution: the advance reduces the beneficiary's pay, not
		// the pay of the staff whose shift recorded it.
		if _, known := names[beneficiary]; !known && tx.BeneficiaryName != nil {
			names[beneficiary] = *tx.BeneficiaryName
		}
		line := ensureLine(beneficiary)
		txID := tx.ID
		line.Adjustments = append(line.Adjustments, payroll.Adjustment{
			ID:                  uuid.NewString(),
			Kind:                payroll.AdjustmentExtraAdvance,
			Label:               "Salary advance taken on " + names[owner] + "'s shift",
			Amount:              tx.Amount,
			SourceTransactionID: &txID,
		})
	}

	result := make([]payroll.PayrollLine, 0, len(lines))
	for _, line := range lines {
		sort.Slice(line.Shifts, func(i, j int) bool {
			a, b := line.Shifts[i].Start, line.Shifts[j].Start
			if a == nil || b == nil {
				return b == nil && a != nil
			}
			return a.Before(*b)
		})
		line.Recalc()
		result = append(result, *line)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StaffName != result[j].StaffName {
			return result[i].StaffName < result[j].StaffName
		}
		return result[i].StaffID < result[j].StaffID
	})
	return result
}

// applyOverride copies a stored override document onto its shift row.
func applyOverride(line *payroll.PayrollLine, o payroll.ShiftOverride) {
	row := line.ShiftRowByID(o.ShiftID)
	if row == nil {
		return
	}
	row.OverrideStart = o.Start
	row.OverrideEnd = o.End
	row.Excluded = o.Excluded
	row.ExpenseDate = o.ExpenseDate
}

// expenseDate resolves the recognition date for one shift row when the run
// posts per shift: the explicit override wins, then the worked day, then the
// run's pay date.
func expenseDate(row *payroll.ShiftRow, payDate time.Time) time.Time {
	if row.ExpenseDate != nil {
		return *row.ExpenseDate
	}
	if end := row.EffectiveEnd(); end != nil {
		return end.Truncate(24 * time.Hour)
	}
	if start := row.EffectiveStart(); start != nil {
		return start.Truncate(24 * time.Hour)
	}
	return payDate
}
