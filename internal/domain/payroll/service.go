package payroll

import "context"

// PayrollService drives the payroll run engine: preview, interactive
// correction, idempotent draft persistence, and the finalize state machine.
type PayrollService interface {
	// Preview computes pay lines for a period without persisting anything.
	Preview(ctx context.Context, req PreviewRequest) ([]LineResponse, error)

	CreateRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string) (RunResponse, error)
	ListRuns(ctx context.Context) ([]RunResponse, error)

	// Line editor operations. Each recomputes the touched line only and
	// persists through SaveDraft; all are rejected once the run has left
	// draft.
	SetLineRate(ctx context.Context, req SetLineRateRequest) (RunResponse, error)
	OverrideShift(ctx context.Context, req OverrideShiftRequest) (RunResponse, error)
	AddAdjustment(ctx context.Context, req AddAdjustmentRequest) (RunResponse, error)
	UpdateAdjustment(ctx context.Context, req UpdateAdjustmentRequest) (RunResponse, error)
	RemoveAdjustment(ctx context.Context, runID, staffID, adjustmentID string) (RunResponse, error)

	SaveDraft(ctx context.Context, runID string) (RunResponse, error)

	// Finalize transitions the run from draft to posted: void previously
	// posted ledger entries, re-derive every line, write paystub snapshots,
	// post new ledger entries per the run's mode, tag consumed shifts.
	Finalize(ctx context.Context, runID string) (RunResponse, error)
	// VoidRun is the administrative posted -> voided transition.
	VoidRun(ctx context.Context, runID string) (RunResponse, error)

	ListPaystubs(ctx context.Context, runID string) ([]PaystubResponse, error)
	GetPaystub(ctx context.Context, runID, staffID string) (PaystubResponse, error)
}
