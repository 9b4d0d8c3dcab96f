package payroll

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
)

// ========== FAKES ==========

type fakeRunRepo struct {
	runs      map[string]payroll.PayrollRun
	lines     map[string][]payroll.PayrollLine
	overrides map[string][]payroll.ShiftOverride
	stubs     map[string][]payroll.Paystub
	saves     int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{
		runs:      make(map[string]payroll.PayrollRun),
		lines:     make(map[string][]payroll.PayrollLine),
		overrides: make(map[string][]payroll.ShiftOverride),
		stubs:     make(map[string][]payroll.Paystub),
	}
}

func (f *fakeRunRepo) CreateRun(_ context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	run.CreatedAt = time.Now()
	f.runs[run.ID] = run
	return run, nil
}

func (f *fakeRunRepo) GetRun(_ context.Context, id string) (payroll.PayrollRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeRunRepo) ListRuns(_ context.Context) ([]payroll.PayrollRun, error) {
	var runs []payroll.PayrollRun
	for _, run := range f.runs {
		runs = append(runs, run)
	}
	return runs, nil
}

func (f *fakeRunRepo) SaveDraft(_ context.Context, run payroll.PayrollRun, lines []payroll.PayrollLine) error {
	stored, ok := f.runs[run.ID]
	if !ok {
		return payroll.ErrRunNotFound
	}
	stored.PayDate = run.PayDate
	stored.Mode = run.Mode
	stored.TotalGross = run.TotalGross
	stored.TotalDeductions = run.TotalDeductions
	stored.TotalNet = run.TotalNet
	f.runs[run.ID] = stored

	// Mimic the store: line documents keep shift ids and adjustments,
	// override documents are rewritten from scratch.
	storedLines := make([]payroll.PayrollLine, 0, len(lines))
	var storedOverrides []payroll.ShiftOverride
	for _, line := range lines {
		copied := line
		copied.Shifts = nil
		copied.Advances = nil
		copied.Adjustments = append([]payroll.Adjustment(nil), line.Adjustments...)
		for _, row := range line.Shifts {
			copied.Shifts = append(copied.Shifts, payroll.ShiftRow{ShiftID: row.ShiftID})
			if row.HasOverride() {
				storedOverrides = append(storedOverrides, payroll.ShiftOverride{
					RunID:       run.ID,
					StaffID:     line.StaffID,
					ShiftID:     row.ShiftID,
					Start:       row.OverrideStart,
					End:         row.OverrideEnd,
					Excluded:    row.Excluded,
					MinutesUsed: row.MinutesUsed,
					ExpenseDate: row.ExpenseDate,
				})
			}
		}
		storedLines = append(storedLines, copied)
	}
	f.lines[run.ID] = storedLines
	f.overrides[run.ID] = storedOverrides
	f.saves++
	return nil
}

func (f *fakeRunRepo) LoadLines(_ context.Context, runID string) ([]payroll.PayrollLine, error) {
	return append([]payroll.PayrollLine(nil), f.lines[runID]...), nil
}

func (f *fakeRunRepo) LoadOverrides(_ context.Context, runID string) ([]payroll.ShiftOverride, error) {
	return append([]payroll.ShiftOverride(nil), f.overrides[runID]...), nil
}

func (f *fakeRunRepo) BeginPosting(_ context.Context, runID string) (int, error) {
	run, ok := f.runs[runID]
	if !ok {
		return 0, payroll.ErrRunNotFound
	}
	switch run.Status {
	case payroll.RunStatusDraft, payroll.RunStatusPosting:
		run.Status = payroll.RunStatusPosting
		run.PostAttempt++
		f.runs[runID] = run
		return run.PostAttempt, nil
	case payroll.RunStatusPosted:
		return 0, payroll.ErrRunAlreadyPosted
	default:
		return 0, payroll.ErrRunNotEditable
	}
}

func (f *fakeRunRepo) MarkPosted(_ context.Context, run payroll.PayrollRun, postedAt time.Time) error {
	stored, ok := f.runs[run.ID]
	if !ok || stored.Status != payroll.RunStatusPosting {
		return payroll.ErrRunNotFound
	}
	stored.Status = payroll.RunStatusPosted
	stored.TotalGross = run.TotalGross
	stored.TotalDeductions = run.TotalDeductions
	stored.TotalNet = run.TotalNet
	stored.PostedAt = &postedAt
	f.runs[run.ID] = stored
	return nil
}

func (f *fakeRunRepo) MarkVoided(_ context.Context, runID string) error {
	run, ok := f.runs[runID]
	if !ok || run.Status != payroll.RunStatusPosted {
		return payroll.ErrRunNotPosted
	}
	run.Status = payroll.RunStatusVoided
	f.runs[runID] = run
	return nil
}

func (f *fakeRunRepo) ReplacePaystubs(_ context.Context, runID string, stubs []payroll.Paystub) error {
	f.stubs[runID] = append([]payroll.Paystub(nil), stubs...)
	return nil
}

func (f *fakeRunRepo) ListPaystubs(_ context.Context, runID string) ([]payroll.Paystub, error) {
	return append([]payroll.Paystub(nil), f.stubs[runID]...), nil
}

func (f *fakeRunRepo) GetPaystub(_ context.Context, runID, staffID string) (payroll.Paystub, error) {
	for _, stub := range f.stubs[runID] {
		if stub.StaffID == staffID {
			return stub, nil
		}
	}
	return payroll.Paystub{}, payroll.ErrPaystubNotFound
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]shift.Shift)}
}

func (f *fakeShiftRepo) Create(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetOpenByStaffID(_ context.Context, staffID string) (shift.Shift, error) {
	for _, s := range f.shifts {
		if s.StaffID == staffID && s.End == nil {
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrShiftNotFound
}

func (f *fakeShiftRepo) Close(_ context.Context, s shift.Shift) (shift.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) ListByPeriod(_ context.Context, start, end time.Time) ([]shift.Shift, error) {
	var result []shift.Shift
	for _, s := range f.shifts {
		if s.Start == nil || s.Start.Before(start) || s.Start.After(end) {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeShiftRepo) ListByIDs(_ context.Context, ids []string) ([]shift.Shift, error) {
	var result []shift.Shift
	for _, id := range ids {
		if s, ok := f.shifts[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeShiftRepo) TagPayrollRun(_ context.Context, shiftIDs []string, runID string) error {
	for _, id := range shiftIDs {
		if s, ok := f.shifts[id]; ok {
			s.PayrollRunID = &runID
			f.shifts[id] = s
		}
	}
	return nil
}

func (f *fakeShiftRepo) ClearPayrollRun(_ context.Context, runID string) error {
	for id, s := range f.shifts {
		if s.PayrollRunID != nil && *s.PayrollRunID == runID {
			s.PayrollRunID = nil
			f.shifts[id] = s
		}
	}
	return nil
}

type fakeStaffRepo struct {
	members  map[string]staff.Staff
	profiles map[string]staff.PayrollProfile
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		members:  make(map[string]staff.Staff),
		profiles: make(map[string]staff.PayrollProfile),
	}
}

func (f *fakeStaffRepo) Create(_ context.Context, s staff.Staff) (staff.Staff, error) {
	f.members[s.ID] = s
	return s, nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (staff.Staff, error) {
	s, ok := f.members[id]
	if !ok {
		return staff.Staff{}, staff.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeStaffRepo) GetByEmployeeCode(_ context.Context, code string) (staff.Staff, error) {
	for _, s := range f.members {
		if s.EmployeeCode == code {
			return s, nil
		}
	}
	return staff.Staff{}, staff.ErrStaffNotFound
}

func (f *fakeStaffRepo) List(_ context.Context, role *staff.Role, activeOnly bool) ([]staff.Staff, error) {
	var result []staff.Staff
	for _, s := range f.members {
		if role != nil && s.Role != *role {
			continue
		}
		if activeOnly && !s.IsActive {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeStaffRepo) GetProfile(_ context.Context, staffID string) (staff.PayrollProfile, error) {
	p, ok := f.profiles[staffID]
	if !ok {
		return staff.PayrollProfile{}, staff.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeStaffRepo) GetProfiles(_ context.Context, staffIDs []string) (map[string]staff.PayrollProfile, error) {
	result := make(map[string]staff.PayrollProfile)
	for _, id := range staffIDs {
		if p, ok := f.profiles[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (f *fakeStaffRepo) UpsertDefaultRate(_ context.Context, staffID string, rate decimal.Decimal) error {
	p := f.profiles[staffID]
	p.StaffID = staffID
	p.DefaultRate = rate
	f.profiles[staffID] = p
	return nil
}

func (f *fakeStaffRepo) AppendRateChange(_ context.Context, staffID string, rate decimal.Decimal, effectiveFrom time.Time) error {
	p := f.profiles[staffID]
	p.StaffID = staffID
	p.History = append(p.History, staff.RateChange{Rate: rate, EffectiveFrom: effectiveFrom})
	f.profiles[staffID] = p
	return nil
}

type fakeTxRepo struct {
	txs  map[string]ledger.Transaction
	seq  int
	once []string
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[string]ledger.Transaction)}
}

func (f *fakeTxRepo) Create(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	f.seq++
	t.CreatedAt = time.Now()
	f.txs[t.ID] = t
	f.once = append(f.once, t.ID)
	return t, nil
}

func (f *fakeTxRepo) CreateBatch(ctx context.Context, ts []ledger.Transaction) error {
	for _, t := range ts {
		if _, err := f.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTxRepo) GetByID(_ context.Context, id string) (ledger.Transaction, error) {
	t, ok := f.txs[id]
	if !ok {
		return ledger.Transaction{}, ledger.ErrTransactionNotFound
	}
	return t, nil
}

func (f *fakeTxRepo) List(_ context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	var result []ledger.Transaction
	for _, id := range f.once {
		t := f.txs[id]
		if t.IsDeleted {
			continue
		}
		if !filter.IncludeVoided && t.Voided {
			continue
		}
		if filter.PayrollRunID != nil && (t.PayrollRunID == nil || *t.PayrollRunID != *filter.PayrollRunID) {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeTxRepo) ListSalaryAdvancesByShiftIDs(_ context.Context, shiftIDs []string) ([]ledger.Transaction, error) {
	wanted := make(map[string]bool, len(shiftIDs))
	for _, id := range shiftIDs {
		wanted[id] = true
	}
	var result []ledger.Transaction
	for _, id := range f.once {
		t := f.txs[id]
		if !t.IsSalaryAdvance() || t.ShiftID == nil || !wanted[*t.ShiftID] {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeTxRepo) SetVoided(_ context.Context, id string, voided bool) error {
	t, ok := f.txs[id]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	t.Voided = voided
	f.txs[id] = t
	return nil
}

func (f *fakeTxRepo) SoftDelete(_ context.Context, id string) error {
	t, ok := f.txs[id]
	if !ok {
		return ledger.ErrTransactionNotFound
	}
	t.IsDeleted = true
	f.txs[id] = t
	return nil
}

func (f *fakeTxRepo) VoidByRunID(_ context.Context, runID string) (int, error) {
	count := 0
	for id, t := range f.txs {
		if t.PayrollRunID == nil || *t.PayrollRunID != runID || t.Voided || t.IsDeleted {
			continue
		}
		t.Voided = true
		f.txs[id] = t
		count++
	}
	return count, nil
}

// ========== HELPERS ==========

type fixture struct {
	svc       *PayrollServiceImpl
	runRepo   *fakeRunRepo
	shiftRepo *fakeShiftRepo
	staffRepo *fakeStaffRepo
	txRepo    *fakeTxRepo
}

func newFixture() *fixture {
	f := &fixture{
		runRepo:   newFakeRunRepo(),
		shiftRepo: newFakeShiftRepo(),
		staffRepo: newFakeStaffRepo(),
		txRepo:    newFakeTxRepo(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewPayrollService(f.runRepo, f.shiftRepo, f.staffRepo, f.txRepo, logger).(*PayrollServiceImpl)
	return f
}

func ts(day, hour int) *time.Time {
	t := time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) addStaff(id, name string, rate string) {
	f.staffRepo.members[id] = staff.Staff{ID: id, Name: name, Role: staff.RoleCashier, IsActive: true}
	f.staffRepo.profiles[id] = staff.PayrollProfile{
		StaffID: id,
		History: []staff.RateChange{{Rate: dec(rate), EffectiveFrom: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}},
	}
}

func (f *fixture) addShift(id, staffID, staffName string, start, end *time.Time, expected, counted string) {
	total := dec(expected)
	f.shiftRepo.shifts[id] = shift.Shift{
		ID:        id,
		StaffID:   staffID,
		StaffName: &staffName,
		Start:     start,
		End:       end,
		TotalCash: &total,
		CashCount: map[string]int{counted: 1},
	}
}

func (f *fixture) addAdvance(id, shiftID, staffID, amount string, beneficiaryID, beneficiaryName *string) {
	expenseType := ledger.ExpenseTypeSalaryAdvance
	sID := shiftID
	f.txRepo.txs[id] = ledger.Transaction{
		ID:                 id,
		Category:           ledger.CategoryCredit,
		Amount:             dec(amount),
		OccurredAt:         *ts(2, 12),
		StaffID:            staffID,
		ShiftID:            &sID,
		ExpenseType:        &expenseType,
		BeneficiaryStaffID: beneficiaryID,
		BeneficiaryName:    beneficiaryName,
	}
	f.txRepo.once = append(f.txRepo.once, id)
}

func (f *fixture) createRun(t *testing.T, mode string) payroll.RunResponse {
	t.Helper()
	run, err := f.svc.CreateRun(context.Background(), payroll.CreateRunRequest{
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-15",
		PayDate:     "2025-06-16",
		Mode:        mode,
	})
	require.NoError(t, err)
	return run
}

// ========== PREVIEW ==========

func TestPreviewSingleShiftWithShortage(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	// 8 hours, expected 500 in drawer but only 400 counted.
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "500", "400")

	lines, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-01", PeriodEnd: "2025-06-15",
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, 480, line.Minutes)
	assert.True(t, line.Gross.Equal(dec("400")), "gross = %s", line.Gross)
	assert.True(t, line.ShortagesTotal.Equal(dec("100")), "shortages = %s", line.ShortagesTotal)
	assert.True(t, line.Net.Equal(dec("300")), "net = %s", line.Net)
	assert.Equal(t, string(staff.RateSourceHistory), line.RateSource)
}

func TestPreviewRejectsInvertedPeriod(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-15", PeriodEnd: "2025-06-01",
	})
	require.Error(t, err)
}

func TestPreviewSkipsConsumedShifts(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	otherRun := "other-run"
	sh := f.shiftRepo.shifts["s1"]
	sh.PayrollRunID = &otherRun
	f.shiftRepo.shifts["s1"] = sh

	lines, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-01", PeriodEnd: "2025-06-15",
	})
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestPreviewMissingRateDegradesToZero(t *testing.T) {
	f := newFixture()
	f.staffRepo.members["a"] = staff.Staff{ID: "a", Name: "Ana", IsActive: true}
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")

	lines, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-01", PeriodEnd: "2025-06-15",
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 480, lines[0].Minutes)
	assert.True(t, lines[0].Gross.IsZero())
	assert.Equal(t, string(staff.RateSourceNone), lines[0].RateSource)
}

// ========== REATTRIBUTION ==========

func TestAdvanceReattribution(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addStaff("b", "Ben", "60")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	// Advance rung up on Ana's shift but owed by Ben, who has no shifts.
	benID, benName := "b", "Ben"
	f.addAdvance("adv1", "s1", "a", "150", &benID, &benName)

	lines, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-01", PeriodEnd: "2025-06-15",
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	byName := map[string]payroll.LineResponse{}
	for _, l := range lines {
		byName[l.StaffName] = l
	}

	ana := byName["Ana"]
	assert.True(t, ana.Net.Equal(dec("400")), "Ana's net must not be reduced, got %s", ana.Net)
	assert.True(t, ana.AdvancesTotal.IsZero())

	ben := byName["Ben"]
	assert.Equal(t, 0, ben.Minutes)
	require.Len(t, ben.Adjustments, 1)
	assert.Equal(t, string(payroll.AdjustmentExtraAdvance), ben.Adjustments[0].Kind)
	assert.True(t, ben.OtherDeductions.Equal(dec("150")))
	assert.True(t, ben.Net.Equal(dec("-150")))
}

func TestOwnShiftAdvanceStaysOnOwner(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	f.addAdvance("adv1", "s1", "a", "150", nil, nil)

	lines, err := f.svc.Preview(context.Background(), payroll.PreviewRequest{
		PeriodStart: "2025-06-01", PeriodEnd: "2025-06-15",
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].AdvancesTotal.Equal(dec("150")))
	assert.True(t, lines[0].Net.Equal(dec("250")))
}

func TestVoidedAdvanceDropsFromLine(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addStaff("b", "Ben", "60")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	benID, benName := "b", "Ben"
	f.addAdvance("adv1", "s1", "a", "150", &benID, &benName)
	run := f.createRun(t, "per_staff")

	require.NoError(t, f.txRepo.SetVoided(context.Background(), "adv1", true))

	reloaded, err := f.svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	for _, line := range reloaded.Lines {
		assert.Empty(t, line.Adjustments, "voided advance must not linger on %s's line", line.StaffName)
	}
}

func TestManualDeductionSurvivesVoidedAdvance(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addStaff("b", "Ben", "60")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	benID, benName := "b", "Ben"
	f.addAdvance("adv1", "s1", "a", "150", &benID, &benName)
	run := f.createRun(t, "per_staff")

	_, err := f.svc.AddAdjustment(context.Background(), payroll.AddAdjustmentRequest{
		RunID: run.ID, StaffID: "b", Label: "Uniform", Amount: dec("75"),
	})
	require.NoError(t, err)

	// Voiding the advance removes Ben's reason to have a line, but not the
	// deduction the admin recorded on it.
	require.NoError(t, f.txRepo.SetVoided(context.Background(), "adv1", true))

	reloaded, err := f.svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)

	var ben *payroll.LineResponse
	for i := range reloaded.Lines {
		if reloaded.Lines[i].StaffID == "b" {
			ben = &reloaded.Lines[i]
		}
	}
	require.NotNil(t, ben, "Ben's line must survive the voided advance")
	require.Len(t, ben.Adjustments, 1)
	assert.Equal(t, string(payroll.AdjustmentManualDeduction), ben.Adjustments[0].Kind)
	assert.True(t, ben.OtherDeductions.Equal(dec("75")))
	assert.True(t, ben.Net.Equal(dec("-75")))
}

// ========== DRAFT PERSISTENCE ==========

func TestSaveDraftIdempotent(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "500", "400")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.SaveDraft(context.Background(), run.ID)
	require.NoError(t, err)
	firstLines := append([]payroll.PayrollLine(nil), f.runRepo.lines[run.ID]...)
	firstOverrides := append([]payroll.ShiftOverride(nil), f.runRepo.overrides[run.ID]...)

	_, err = f.svc.SaveDraft(context.Background(), run.ID)
	require.NoError(t, err)

	assert.Equal(t, firstLines, f.runRepo.lines[run.ID])
	assert.Equal(t, firstOverrides, f.runRepo.overrides[run.ID])
}

// ========== LINE EDITOR ==========

func TestSetLineRate(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	updated, err := f.svc.SetLineRate(context.Background(), payroll.SetLineRateRequest{
		RunID: run.ID, StaffID: "a", Rate: dec("75"),
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Lines[0].Gross.Equal(dec("600")))
	assert.Equal(t, string(staff.RateSourceManual), updated.Lines[0].RateSource)

	// The manual rate survives a reload from the store.
	reloaded, err := f.svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Lines[0].Rate.Equal(dec("75")))
}

func TestOverrideShiftExclusion(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "500", "400")
	f.addAdvance("adv1", "s1", "a", "150", nil, nil)
	run := f.createRun(t, "per_staff")

	excluded := true
	updated, err := f.svc.OverrideShift(context.Background(), payroll.OverrideShiftRequest{
		RunID: run.ID, StaffID: "a", ShiftID: "s1", Excluded: &excluded,
	})
	require.NoError(t, err)

	line := updated.Lines[0]
	assert.Equal(t, 0, line.Minutes)
	assert.True(t, line.Gross.IsZero())
	assert.True(t, line.ShortagesTotal.IsZero(), "excluded shift contributes no shortage")
	// The advance is real money already handed out; exclusion does not
	// erase the debt.
	assert.True(t, line.AdvancesTotal.Equal(dec("150")))
	assert.True(t, line.Net.Equal(dec("-150")))
}

func TestOverrideShiftShortensHours(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	end := ts(2, 13).Format(time.RFC3339)
	updated, err := f.svc.OverrideShift(context.Background(), payroll.OverrideShiftRequest{
		RunID: run.ID, StaffID: "a", ShiftID: "s1", End: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 240, updated.Lines[0].Minutes)
	assert.True(t, updated.Lines[0].Gross.Equal(dec("200")))

	// Reset restores the clocked times.
	restored, err := f.svc.OverrideShift(context.Background(), payroll.OverrideShiftRequest{
		RunID: run.ID, StaffID: "a", ShiftID: "s1", Reset: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 480, restored.Lines[0].Minutes)
}

func TestOverrideUnknownShiftRejected(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	excluded := true
	_, err := f.svc.OverrideShift(context.Background(), payroll.OverrideShiftRequest{
		RunID: run.ID, StaffID: "a", ShiftID: "nope", Excluded: &excluded,
	})
	assert.ErrorIs(t, err, payroll.ErrShiftNotInLine)
}

func TestAdjustmentLifecycle(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	added, err := f.svc.AddAdjustment(context.Background(), payroll.AddAdjustmentRequest{
		RunID: run.ID, StaffID: "a", Label: "Broken plate", Amount: dec("25"),
	})
	require.NoError(t, err)
	require.Len(t, added.Lines[0].Adjustments, 1)
	assert.True(t, added.Lines[0].Net.Equal(dec("375")))
	adjID := added.Lines[0].Adjustments[0].ID

	newAmount := dec("40")
	updated, err := f.svc.UpdateAdjustment(context.Background(), payroll.UpdateAdjustmentRequest{
		RunID: run.ID, StaffID: "a", AdjustmentID: adjID, Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.True(t, updated.Lines[0].Net.Equal(dec("360")))

	removed, err := f.svc.RemoveAdjustment(context.Background(), run.ID, "a", adjID)
	require.NoError(t, err)
	assert.Empty(t, removed.Lines[0].Adjustments)
	assert.True(t, removed.Lines[0].Net.Equal(dec("400")))
}

func TestEditsRejectedOncePosted(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)

	_, err = f.svc.SetLineRate(context.Background(), payroll.SetLineRateRequest{
		RunID: run.ID, StaffID: "a", Rate: dec("75"),
	})
	assert.ErrorIs(t, err, payroll.ErrRunNotEditable)
	_, err = f.svc.SaveDraft(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotEditable)
}

// ========== FINALIZE ==========

func runEntries(f *fixture, runID string, includeVoided bool) []ledger.Transaction {
	entries, _ := f.txRepo.List(context.Background(), ledger.TransactionFilter{
		PayrollRunID:  &runID,
		IncludeVoided: includeVoided,
	})
	return entries
}

func TestFinalizePerStaff(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "500", "400")
	run := f.createRun(t, "per_staff")

	posted, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusPosted), posted.Status)
	assert.Equal(t, 1, posted.PostAttempt)
	assert.NotNil(t, posted.PostedAt)

	entries := runEntries(f, run.ID, false)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(dec("300")))
	assert.Equal(t, ledger.CategoryCredit, entries[0].Category)
	require.NotNil(t, entries[0].ExpenseType)
	assert.Equal(t, ledger.ExpenseTypeSalary, *entries[0].ExpenseType)
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), entries[0].OccurredAt)

	sh := f.shiftRepo.shifts["s1"]
	require.NotNil(t, sh.PayrollRunID)
	assert.Equal(t, run.ID, *sh.PayrollRunID)

	stubs, err := f.svc.ListPaystubs(context.Background(), run.ID)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.True(t, stubs[0].NetPay.Equal(dec("300")))
	assert.True(t, stubs[0].TotalDeductions.Equal(dec("100")))
	require.Len(t, stubs[0].Shifts, 1)
	assert.True(t, stubs[0].Shifts[0].Hours.Equal(dec("8")))
}

func TestFinalizeRejectedWhenAlreadyPosted(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)
	_, err = f.svc.Finalize(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunAlreadyPosted)
}

func TestFinalizeResumeAfterInterruption(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "500", "400")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)

	// Simulate a crash after the ledger write but before the run flips to
	// posted: the run is stuck in posting and finalize is re-invoked.
	stuck := f.runRepo.runs[run.ID]
	stuck.Status = payroll.RunStatusPosting
	f.runRepo.runs[run.ID] = stuck

	resumed, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, resumed.PostAttempt)

	// Void-then-recreate: the earlier entries are neutralized, exactly one
	// live set remains.
	live := runEntries(f, run.ID, false)
	require.Len(t, live, 1)
	assert.True(t, live[0].Amount.Equal(dec("300")))
	all := runEntries(f, run.ID, true)
	assert.Len(t, all, 2)
}

func TestFinalizeSkipsShiftClaimedByOtherRun(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")

	// Two drafts over the same period both see s1: drafts don't tag their
	// shifts, only finalize does.
	first := f.createRun(t, "per_staff")
	second := f.createRun(t, "per_staff")

	_, err := f.svc.Finalize(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = f.svc.Finalize(context.Background(), second.ID)
	require.NoError(t, err)

	firstEntries := runEntries(f, first.ID, false)
	require.Len(t, firstEntries, 1)
	assert.True(t, firstEntries[0].Amount.Equal(dec("400")))
	assert.Empty(t, runEntries(f, second.ID, false), "the second run must not pay a shift the first already consumed")

	sh := f.shiftRepo.shifts["s1"]
	require.NotNil(t, sh.PayrollRunID)
	assert.Equal(t, first.ID, *sh.PayrollRunID)
}

func TestFinalizePerShiftMatchesPerStaffTotal(t *testing.T) {
	setup := func(mode string) (*fixture, payroll.RunResponse) {
		f := newFixture()
		f.addStaff("a", "Ana", "50")
		f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
		f.addShift("s2", "a", "Ana", ts(4, 9), ts(4, 13), "0", "0")
		run := f.createRun(t, mode)
		_, err := f.svc.Finalize(context.Background(), run.ID)
		require.NoError(t, err)
		return f, run
	}

	fStaff, runStaff := setup("per_staff")
	staffEntries := runEntries(fStaff, runStaff.ID, false)
	require.Len(t, staffEntries, 1)

	fShift, runShift := setup("per_shift")
	shiftEntries := runEntries(fShift, runShift.ID, false)
	require.Len(t, shiftEntries, 2)

	dates := map[time.Time]bool{}
	total := decimal.Zero
	for _, e := range shiftEntries {
		require.NotNil(t, e.ShiftID)
		dates[e.OccurredAt] = true
		total = total.Add(e.Amount)
	}
	assert.Len(t, dates, 2, "each shift posts at its own expense date")
	assert.True(t, total.Equal(staffEntries[0].Amount),
		"per-shift entries must sum to the per-staff net: %s vs %s", total, staffEntries[0].Amount)
}

func TestFinalizePerShiftResidualCoversManualDeductions(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_shift")

	_, err := f.svc.AddAdjustment(context.Background(), payroll.AddAdjustmentRequest{
		RunID: run.ID, StaffID: "a", Label: "Uniform", Amount: dec("50"),
	})
	require.NoError(t, err)

	posted, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)

	entries := runEntries(f, run.ID, false)
	require.Len(t, entries, 2)
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	assert.True(t, total.Equal(posted.TotalNet))
}

// ========== VOID ==========

func TestVoidRun(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.Finalize(context.Background(), run.ID)
	require.NoError(t, err)

	voided, err := f.svc.VoidRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.RunStatusVoided), voided.Status)

	assert.Empty(t, runEntries(f, run.ID, false))
	assert.Nil(t, f.shiftRepo.shifts["s1"].PayrollRunID)

	// A voided run cannot be voided or finalized again.
	_, err = f.svc.VoidRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotPosted)
	_, err = f.svc.Finalize(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotEditable)
}

func TestVoidDraftRejected(t *testing.T) {
	f := newFixture()
	f.addStaff("a", "Ana", "50")
	f.addShift("s1", "a", "Ana", ts(2, 9), ts(2, 17), "0", "0")
	run := f.createRun(t, "per_staff")

	_, err := f.svc.VoidRun(context.Background(), run.ID)
	assert.ErrorIs(t, err, payroll.ErrRunNotPosted)
}
