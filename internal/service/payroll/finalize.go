package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/pkg/money"
)

// ========== FINALIZE ==========

// Finalize posts a run: persist the last-seen edits, take the posting lock,
// void any ledger entries a previous attempt left behind, re-derive every
// line from authoritative store state, snapshot paystubs, post fresh ledger
// entries per the run's mode, tag the consumed shifts and mark the run
// posted. A failure mid-sequence leaves the run in posting; calling Finalize
// again resumes safely because the old entries are voided before new ones
// are written.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRun(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	lines, err := s.loadRunState(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	applyTotals(&run, lines)
	if run.Editable() {
		if err := s.runRepo.SaveDraft(ctx, run, lines); err != nil {
			return payroll.RunResponse{}, err
		}
	}

	attempt, err := s.runRepo.BeginPosting(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	s.logger.Info("posting payroll run", "run_id", runID, "attempt", attempt, "mode", run.Mode)

	voided, err := s.txRepo.VoidByRunID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if voided > 0 {
		s.logger.Info("voided ledger entries from previous attempt", "run_id", runID, "count", voided)
	}

	stubs := make([]payroll.Paystub, 0, len(lines))
	for i := range lines {
		stubs = append(stubs, buildPaystub(runID, &lines[i]))
	}
	if err := s.runRepo.ReplacePaystubs(ctx, runID, stubs); err != nil {
		return payroll.RunResponse{}, err
	}

	entries := s.postingEntries(run, lines)
	if err := s.txRepo.CreateBatch(ctx, entries); err != nil {
		return payroll.RunResponse{}, err
	}

	shiftIDs := make([]string, 0)
	for i := range lines {
		for _, row := range lines[i].Shifts {
			shiftIDs = append(shiftIDs, row.ShiftID)
		}
	}
	if err := s.shiftRepo.TagPayrollRun(ctx, shiftIDs, runID); err != nil {
		return payroll.RunResponse{}, err
	}

	postedAt := s.now()
	if err := s.runRepo.MarkPosted(ctx, run, postedAt); err != nil {
		return payroll.RunResponse{}, err
	}

	run.Status = payroll.RunStatusPosted
	run.PostAttempt = attempt
	run.PostedAt = &postedAt
	return toRunResponse(run, lines), nil
}

// postingEntries builds the salary expense transactions a finalized run
// writes to the ledger.
func (s *PayrollServiceImpl) postingEntries(run payroll.PayrollRun, lines []payroll.PayrollLine) []ledger.Transaction {
	var entries []ledger.Transaction

	newEntry := func(line *payroll.PayrollLine, amount decimal.Decimal, occurredAt time.Time) ledger.Transaction {
		expenseType := ledger.ExpenseTypeSalary
		runID := run.ID
		return ledger.Transaction{
			ID:           uuid.NewString(),
			Category:     ledger.CategoryCredit,
			Amount:       amount,
			OccurredAt:   occurredAt,
			StaffID:      line.StaffID,
			ExpenseType:  &expenseType,
			PayrollRunID: &runID,
		}
	}

	for i := range lines {
		line := &lines[i]
		if line.Net.IsNegative() {
			s.logger.Warn("negative net pay, posting as-is",
				"run_id", run.ID, "staff_id", line.StaffID, "net", line.Net)
		}

		if run.Mode == payroll.ModePerStaff {
			if !line.Net.IsZero() {
				entries = append(entries, newEntry(line, line.Net, run.PayDate))
			}
			continue
		}

		// Per-shift: each shift posts its own share of the pay at its
		// expense-recognition date. Deductions not tied to a shift land in
		// one residual entry at the pay date, so the posted sum still
		// equals the line's net.
		posted := decimal.Zero
		for j := range line.Shifts {
			row := &line.Shifts[j]
			if row.Excluded {
				continue
			}
			amount := money.HourlyAmount(row.MinutesUsed, line.Rate).
				Sub(line.AdvancesForShift(row.ShiftID)).
				Sub(row.Shortage).
				Round(2)
			if amount.IsZero() {
				continue
			}
			tx := newEntry(line, amount, expenseDate(row, run.PayDate))
			shiftID := row.ShiftID
			tx.ShiftID = &shiftID
			entries = append(entries, tx)
			posted = posted.Add(amount)
		}
		if residual := line.Net.Sub(posted).Round(2); !residual.IsZero() {
			entries = append(entries, newEntry(line, residual, run.PayDate))
		}
	}
	return entries
}

func buildPaystub(runID string, line *payroll.PayrollLine) payroll.Paystub {
	stub := payroll.Paystub{
		RunID:           runID,
		StaffID:         line.StaffID,
		StaffName:       line.StaffName,
		Rate:            line.Rate,
		Gross:           line.Gross,
		TotalDeductions: line.AdvancesTotal.Add(line.ShortagesTotal).Add(line.OtherDeductions).Round(2),
		NetPay:          line.Net,
	}

	for i := range line.Shifts {
		row := &line.Shifts[i]
		if row.Excluded {
			continue
		}
		stub.Shifts = append(stub.Shifts, payroll.PaystubShift{
			ShiftID: row.ShiftID,
			Date:    row.EffectiveStart(),
			Minutes: row.MinutesUsed,
			Hours:   money.ToHours(row.MinutesUsed),
		})
		if row.Shortage.IsPositive() {
			shiftID := row.ShiftID
			stub.Deductions = append(stub.Deductions, payroll.PaystubDeduction{
				Kind:    "shortage",
				Label:   "Cash shortage",
				ShiftID: &shiftID,
				Amount:  row.Shortage,
			})
		}
	}
	for _, adv := range line.Advances {
		shiftID := adv.ShiftID
		stub.Deductions = append(stub.Deductions, payroll.PaystubDeduction{
			Kind:    "advance",
			Label:   "Salary advance",
			ShiftID: &shiftID,
			Amount:  adv.Amount,
		})
	}
	for _, adj := range line.Adjustments {
		stub.Deductions = append(stub.Deductions, payroll.PaystubDeduction{
			Kind:   string(adj.Kind),
			Label:  adj.Label,
			Amount: adj.Amount,
		})
	}
	return stub
}

// ========== VOID ==========

func (s *PayrollServiceImpl) VoidRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRun(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if run.Status != payroll.RunStatusPosted {
		return payroll.RunResponse{}, payroll.ErrRunNotPosted
	}

	voided, err := s.txRepo.VoidByRunID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if err := s.shiftRepo.ClearPayrollRun(ctx, runID); err != nil {
		return payroll.RunResponse{}, err
	}
	if err := s.runRepo.MarkVoided(ctx, runID); err != nil {
		return payroll.RunResponse{}, err
	}
	s.logger.Info("voided payroll run", "run_id", runID, "ledger_entries_voided", voided)

	run.Status = payroll.RunStatusVoided
	return toRunResponse(run, nil), nil
}

// ========== PAYSTUBS ==========

func (s *PayrollServiceImpl) ListPaystubs(ctx context.Context, runID string) ([]payroll.PaystubResponse, error) {
	stubs, err := s.runRepo.ListPaystubs(ctx, runID)
	if err != nil {
		return nil, err
	}
	responses := make([]payroll.PaystubResponse, 0, len(stubs))
	for i := range stubs {
		responses = append(responses, toPaystubResponse(&stubs[i]))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) GetPaystub(ctx context.Context, runID, staffID string) (payroll.PaystubResponse, error) {
	stub, err := s.runRepo.GetPaystub(ctx, runID, staffID)
	if err != nil {
		return payroll.PaystubResponse{}, err
	}
	return toPaystubResponse(&stub), nil
}

func toPaystubResponse(stub *payroll.Paystub) payroll.PaystubResponse {
	resp := payroll.PaystubResponse{
		RunID:           stub.RunID,
		StaffID:         stub.StaffID,
		StaffName:       stub.StaffName,
		Rate:            stub.Rate,
		Gross:           stub.Gross,
		TotalDeductions: stub.TotalDeductions,
		NetPay:          stub.NetPay,
	}
	for _, sh := range stub.Shifts {
		resp.Shifts = append(resp.Shifts, payroll.PaystubShiftResponse{
			ShiftID: sh.ShiftID,
			Date:    sh.Date,
			Minutes: sh.Minutes,
			Hours:   sh.Hours,
		})
	}
	for _, d := range stub.Deductions {
		resp.Deductions = append(resp.Deductions, payroll.PaystubDeductionResponse{
			Kind:    d.Kind,
			Label:   d.Label,
			ShiftID: d.ShiftID,
			Amount:  d.Amount,
		})
	}
	return resp
}
