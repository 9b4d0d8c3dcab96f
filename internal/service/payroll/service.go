package payroll

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
	"github.com/tindago/shop-backend-go/internal/pkg/money"
)

type PayrollServiceImpl struct {
	runRepo   payroll.RunRepository
	shiftRepo shift.ShiftRepository
	staffRepo staff.StaffRepository
	txRepo    ledger.TransactionRepository
	logger    *slog.Logger
	now       func() time.Time
}

func NewPayrollService(
	runRepo payroll.RunRepository,
	shiftRepo shift.ShiftRepository,
	staffRepo staff.StaffRepository,
	txRepo ledger.TransactionRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		runRepo:   runRepo,
		shiftRepo: shiftRepo,
		staffRepo: staffRepo,
		txRepo:    txRepo,
		logger:    logger,
		now:       time.Now,
	}
}

const dateLayout = "2006-01-02"

// endOfDay widens an inclusive period-end date to cover its whole day.
func endOfDay(d time.Time) time.Time {
	return d.Add(24*time.Hour - time.Nanosecond)
}

// ========== PREVIEW ==========

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.PreviewRequest) ([]payroll.LineResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start, _ := time.Parse(dateLayout, req.PeriodStart)
	end, _ := time.Parse(dateLayout, req.PeriodEnd)

	shifts, err := s.periodShifts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	lines, err := s.deriveLines(ctx, shifts, end)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.LineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, toLineResponse(&lines[i]))
	}
	return responses, nil
}

// periodShifts loads the period's shifts, skipping those already consumed by
// another payroll run.
func (s *PayrollServiceImpl) periodShifts(ctx context.Context, start, end time.Time) ([]shift.Shift, error) {
	all, err := s.shiftRepo.ListByPeriod(ctx, start, endOfDay(end))
	if err != nil {
		return nil, err
	}
	free := make([]shift.Shift, 0, len(all))
	for _, sh := range all {
		if sh.PayrollRunID != nil && *sh.PayrollRunID != "" {
			continue
		}
		free = append(free, sh)
	}
	return free, nil
}

// deriveLines runs the full metric pass on a shift set: salary advances,
// profiles and display names are read fresh from the stores every time.
func (s *PayrollServiceImpl) deriveLines(ctx context.Context, shifts []shift.Shift, asOf time.Time) ([]payroll.PayrollLine, error) {
	shiftIDs := make([]string, 0, len(shifts))
	names := make(map[string]string)
	for _, sh := range shifts {
		shiftIDs = append(shiftIDs, sh.ID)
		if sh.StaffName != nil {
			names[sh.StaffID] = *sh.StaffName
		}
	}

	advances, err := s.txRepo.ListSalaryAdvancesByShiftIDs(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}

	staffIDs := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for id := range names {
		staffIDs = append(staffIDs, id)
		seen[id] = true
	}
	for _, tx := range advances {
		ben := tx.BeneficiaryID()
		if !seen[ben] {
			staffIDs = append(staffIDs, ben)
			seen[ben] = true
			if tx.BeneficiaryName != nil {
				names[ben] = *tx.BeneficiaryName
			}
		}
	}

	profiles, err := s.staffRepo.GetProfiles(ctx, staffIDs)
	if err != nil {
		return nil, err
	}

	return buildLines(shifts, profiles, names, advances, asOf, s.logger), nil
}

// ========== RUN CRUD ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	start, _ := time.Parse(dateLayout, req.PeriodStart)
	end, _ := time.Parse(dateLayout, req.PeriodEnd)
	payDate, _ := time.Parse(dateLayout, req.PayDate)

	run, err := s.runRepo.CreateRun(ctx, payroll.PayrollRun{
		ID:              uuid.NewString(),
		PeriodStart:     start,
		PeriodEnd:       end,
		PayDate:         payDate,
		Mode:            payroll.PostingMode(req.Mode),
		Status:          payroll.RunStatusDraft,
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	shifts, err := s.periodShifts(ctx, start, end)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	lines, err := s.deriveLines(ctx, shifts, end)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	for i := range lines {
		lines[i].RunID = run.ID
	}

	applyTotals(&run, lines)
	if err := s.runRepo.SaveDraft(ctx, run, lines); err != nil {
		return payroll.RunResponse{}, err
	}
	return toRunResponse(run, lines), nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRun(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	lines, err := s.loadRunState(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return toRunResponse(run, lines), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context) ([]payroll.RunResponse, error) {
	runs, err := s.runRepo.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toRunResponse(run, nil))
	}
	return responses, nil
}

// loadRunState rebuilds a run's lines from authoritative store state: the
// run's own shifts, their current salary advances, and the stored overrides.
// Stored per-line edits survive the rebuild: manual rates, manual deductions,
// and the identities of already-attributed extra advances.
func (s *PayrollServiceImpl) loadRunState(ctx context.Context, run payroll.PayrollRun) ([]payroll.PayrollLine, error) {
	stored, err := s.runRepo.LoadLines(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	shiftIDs := make([]string, 0)
	for _, line := range stored {
		for _, row := range line.Shifts {
			shiftIDs = append(shiftIDs, row.ShiftID)
		}
	}
	shifts, err := s.shiftRepo.ListByIDs(ctx, shiftIDs)
	if err != nil {
		return nil, err
	}
	// A draft does not tag its shifts, so another run over the same period
	// may have claimed one since. A shift tagged by a different run is
	// theirs now, not ours.
	free := make([]shift.Shift, 0, len(shifts))
	for _, sh := range shifts {
		if sh.PayrollRunID != nil && *sh.PayrollRunID != "" && *sh.PayrollRunID != run.ID {
			s.logger.Warn("dropping shift consumed by another payroll run",
				"run_id", run.ID, "shift_id", sh.ID, "consumed_by", *sh.PayrollRunID)
			continue
		}
		free = append(free, sh)
	}

	lines, err := s.deriveLines(ctx, free, run.PeriodEnd)
	if err != nil {
		return nil, err
	}

	storedByStaff := make(map[string]*payroll.PayrollLine, len(stored))
	for i := range stored {
		storedByStaff[stored[i].StaffID] = &stored[i]
	}

	for i := range lines {
		line := &lines[i]
		line.RunID = run.ID

		prev, ok := storedByStaff[line.StaffID]
		if !ok {
			continue
		}
		line.Rate = prev.Rate
		line.RateSource = prev.RateSource
		if line.StaffName == "" {
			line.StaffName = prev.StaffName
		}
		line.Adjustments = mergeAdjustments(prev.Adjustments, line.Adjustments)
	}

	// A stored line can lose its fresh counterpart entirely: a beneficiary
	// line whose only reason to exist was a cross-staff advance that has
	// since been voided. Its manual deductions still stand, so the line
	// comes back with those and nothing else.
	derived := make(map[string]bool, len(lines))
	for i := range lines {
		derived[lines[i].StaffID] = true
	}
	for i := range stored {
		prev := &stored[i]
		if derived[prev.StaffID] {
			continue
		}
		kept := mergeAdjustments(prev.Adjustments, nil)
		if len(kept) == 0 {
			continue
		}
		lines = append(lines, payroll.PayrollLine{
			RunID:       run.ID,
			StaffID:     prev.StaffID,
			StaffName:   prev.StaffName,
			Rate:        prev.Rate,
			RateSource:  prev.RateSource,
			Adjustments: kept,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].StaffName != lines[j].StaffName {
			return lines[i].StaffName < lines[j].StaffName
		}
		return lines[i].StaffID < lines[j].StaffID
	})

	overrides, err := s.runRepo.LoadOverrides(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	byStaff := make(map[string]*payroll.PayrollLine, len(lines))
	for i := range lines {
		byStaff[lines[i].StaffID] = &lines[i]
	}
	for _, o := range overrides {
		if line, ok := byStaff[o.StaffID]; ok {
			applyOverride(line, o)
		}
	}

	for i := range lines {
		lines[i].Recalc()
	}
	return lines, nil
}

// mergeAdjustments reconciles stored adjustments with a freshly derived set.
// Manual deductions always survive. An extra advance keeps its stored
// identity while its source transaction is still live, takes the fresh
// amount, and disappears when the source was voided or deleted.
func mergeAdjustments(stored, fresh []payroll.Adjustment) []payroll.Adjustment {
	freshBySource := make(map[string]payroll.Adjustment, len(fresh))
	for _, adj := range fresh {
		if adj.Kind == payroll.AdjustmentExtraAdvance && adj.SourceTransactionID != nil {
			freshBySource[*adj.SourceTransactionID] = adj
		}
	}

	var result []payroll.Adjustment
	for _, adj := range stored {
		switch adj.Kind {
		case payroll.AdjustmentManualDeduction:
			result = append(result, adj)
		case payroll.AdjustmentExtraAdvance:
			if adj.SourceTransactionID == nil {
				continue
			}
			if current, ok := freshBySource[*adj.SourceTransactionID]; ok {
				adj.Amount = current.Amount
				result = append(result, adj)
				delete(freshBySource, *adj.SourceTransactionID)
			}
		}
	}
	for _, adj := range fresh {
		if adj.Kind != payroll.AdjustmentExtraAdvance || adj.SourceTransactionID == nil {
			result = append(result, adj)
			continue
		}
		if _, ok := freshBySource[*adj.SourceTransactionID]; ok {
			result = append(result, adj)
		}
	}
	return result
}

// ========== LINE EDITOR ==========

// mutateLine applies one edit to one line, recomputes that line only, and
// persists the whole draft.
func (s *PayrollServiceImpl) mutateLine(ctx context.Context, runID, staffID string, edit func(*payroll.PayrollLine) error) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRun(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !run.Editable() {
		return payroll.RunResponse{}, payroll.ErrRunNotEditable
	}

	lines, err := s.loadRunState(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	var target *payroll.PayrollLine
	for i := range lines {
		if lines[i].StaffID == staffID {
			target = &lines[i]
			break
		}
	}
	if target == nil {
		return payroll.RunResponse{}, payroll.ErrLineNotFound
	}

	if err := edit(target); err != nil {
		return payroll.RunResponse{}, err
	}
	target.Recalc()

	applyTotals(&run, lines)
	if err := s.runRepo.SaveDraft(ctx, run, lines); err != nil {
		return payroll.RunResponse{}, err
	}
	return toRunResponse(run, lines), nil
}

func (s *PayrollServiceImpl) SetLineRate(ctx context.Context, req payroll.SetLineRateRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateLine(ctx, req.RunID, req.StaffID, func(line *payroll.PayrollLine) error {
		line.Rate = req.Rate
		line.RateSource = string(staff.RateSourceManual)
		return nil
	})
}

func (s *PayrollServiceImpl) OverrideShift(ctx context.Context, req payroll.OverrideShiftRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateLine(ctx, req.RunID, req.StaffID, func(line *payroll.PayrollLine) error {
		row := line.ShiftRowByID(req.ShiftID)
		if row == nil {
			return payroll.ErrShiftNotInLine
		}
		if req.Reset {
			row.OverrideStart = nil
			row.OverrideEnd = nil
			row.Excluded = false
			row.ExpenseDate = nil
			return nil
		}
		if req.Start != nil {
			t, _ := time.Parse(time.RFC3339, *req.Start)
			row.OverrideStart = &t
		}
		if req.End != nil {
			t, _ := time.Parse(time.RFC3339, *req.End)
			row.OverrideEnd = &t
		}
		if req.Excluded != nil {
			row.Excluded = *req.Excluded
		}
		if req.ExpenseDate != nil {
			d, _ := time.Parse(dateLayout, *req.ExpenseDate)
			row.ExpenseDate = &d
		}
		return nil
	})
}

func (s *PayrollServiceImpl) AddAdjustment(ctx context.Context, req payroll.AddAdjustmentRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateLine(ctx, req.RunID, req.StaffID, func(line *payroll.PayrollLine) error {
		line.Adjustments = append(line.Adjustments, payroll.Adjustment{
			ID:     uuid.NewString(),
			Kind:   payroll.AdjustmentManualDeduction,
			Label:  req.Label,
			Amount: req.Amount,
		})
		return nil
	})
}

func (s *PayrollServiceImpl) UpdateAdjustment(ctx context.Context, req payroll.UpdateAdjustmentRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}
	return s.mutateLine(ctx, req.RunID, req.StaffID, func(line *payroll.PayrollLine) error {
		for i := range line.Adjustments {
			adj := &line.Adjustments[i]
			if adj.ID != req.AdjustmentID || adj.Kind != payroll.AdjustmentManualDeduction {
				continue
			}
			if req.Label != nil {
				adj.Label = *req.Label
			}
			if req.Amount != nil {
				adj.Amount = *req.Amount
			}
			return nil
		}
		return payroll.ErrAdjustmentNotFound
	})
}

func (s *PayrollServiceImpl) RemoveAdjustment(ctx context.Context, runID, staffID, adjustmentID string) (payroll.RunResponse, error) {
	return s.mutateLine(ctx, runID, staffID, func(line *payroll.PayrollLine) error {
		for i := range line.Adjustments {
			if line.Adjustments[i].ID != adjustmentID || line.Adjustments[i].Kind != payroll.AdjustmentManualDeduction {
				continue
			}
			line.Adjustments = append(line.Adjustments[:i], line.Adjustments[i+1:]...)
			return nil
		}
		return payroll.ErrAdjustmentNotFound
	})
}

func (s *PayrollServiceImpl) SaveDraft(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRun(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !run.Editable() {
		return payroll.RunResponse{}, payroll.ErrRunNotEditable
	}
	lines, err := s.loadRunState(ctx, run)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	applyTotals(&run, lines)
	if err := s.runRepo.SaveDraft(ctx, run, lines); err != nil {
		return payroll.RunResponse{}, err
	}
	return toRunResponse(run, lines), nil
}

// ========== RESPONSES ==========

func applyTotals(run *payroll.PayrollRun, lines []payroll.PayrollLine) {
	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range lines {
		line := &lines[i]
		gross = gross.Add(line.Gross)
		deductions = deductions.Add(line.AdvancesTotal).Add(line.ShortagesTotal).Add(line.OtherDeductions)
		net = net.Add(line.Net)
	}
	run.TotalGross = gross.Round(2)
	run.TotalDeductions = deductions.Round(2)
	run.TotalNet = net.Round(2)
}

func toLineResponse(line *payroll.PayrollLine) payroll.LineResponse {
	shifts := make([]payroll.ShiftRowResponse, 0, len(line.Shifts))
	for i := range line.Shifts {
		row := &line.Shifts[i]
		shifts = append(shifts, payroll.ShiftRowResponse{
			ShiftID:       row.ShiftID,
			Start:         row.Start,
			End:           row.End,
			OverrideStart: row.OverrideStart,
			OverrideEnd:   row.OverrideEnd,
			Excluded:      row.Excluded,
			ExpenseDate:   row.ExpenseDate,
			MinutesUsed:   row.MinutesUsed,
			Hours:         money.ToHours(row.MinutesUsed),
			Shortage:      row.Shortage,
			Advances:      line.AdvancesForShift(row.ShiftID),
		})
	}

	adjustments := make([]payroll.AdjustmentResponse, 0, len(line.Adjustments))
	for _, adj := range line.Adjustments {
		adjustments = append(adjustments, payroll.AdjustmentResponse{
			ID:                  adj.ID,
			Kind:                string(adj.Kind),
			Label:               adj.Label,
			Amount:              adj.Amount,
			SourceTransactionID: adj.SourceTransactionID,
		})
	}

	return payroll.LineResponse{
		StaffID:         line.StaffID,
		StaffName:       line.StaffName,
		Rate:            line.Rate,
		RateSource:      line.RateSource,
		Minutes:         line.Minutes,
		Hours:           money.ToHours(line.Minutes),
		Gross:           line.Gross,
		AdvancesTotal:   line.AdvancesTotal,
		ShortagesTotal:  line.ShortagesTotal,
		OtherDeductions: line.OtherDeductions,
		Net:             line.Net,
		Shifts:          shifts,
		Adjustments:     adjustments,
	}
}

func toRunResponse(run payroll.PayrollRun, lines []payroll.PayrollLine) payroll.RunResponse {
	resp := payroll.RunResponse{
		ID:              run.ID,
		PeriodStart:     run.PeriodStart.Format(dateLayout),
		PeriodEnd:       run.PeriodEnd.Format(dateLayout),
		PayDate:         run.PayDate.Format(dateLayout),
		Mode:            string(run.Mode),
		Status:          string(run.Status),
		TotalGross:      run.TotalGross,
		TotalDeductions: run.TotalDeductions,
		TotalNet:        run.TotalNet,
		PostAttempt:     run.PostAttempt,
		PostedAt:        run.PostedAt,
	}
	for i := range lines {
		resp.Lines = append(resp.Lines, toLineResponse(&lines[i]))
	}
	return resp
}
