package payroll

import (
	"context"
	"time"
)

// RunRepository defines data access for the run store: a run document with
// nested line, shift-override and paystub sub-collections.
type RunRepository interface {
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRun(ctx context.Context, id string) (PayrollRun, error)
	ListRuns(ctx context.Context) ([]PayrollRun, error)

	// SaveDraft idempotently upserts the run's aggregate totals, fully
	// replaces its line documents, and clears-then-rewrites the override
	// documents (only rows with a non-default override are stored).
	SaveDraft(ctx context.Context, run PayrollRun, lines []PayrollLine) error

	LoadLines(ctx context.Context, runID string) ([]PayrollLine, error)
	LoadOverrides(ctx context.Context, runID string) ([]ShiftOverride, error)

	// BeginPosting performs the conditional draft/posting -> posting
	// transition, incrementing the attempt counter. Returns ErrRunLocked
	// when the run is in neither state.
	BeginPosting(ctx context.Context, runID string) (attempt int, err error)
	MarkPosted(ctx context.Context, run PayrollRun, postedAt time.Time) error
	MarkVoided(ctx context.Context, runID string) error

	ReplacePaystubs(ctx context.Context, runID string, stubs []Paystub) error
	ListPaystubs(ctx context.Context, runID string) ([]Paystub, error)
	GetPaystub(ctx context.Context, runID, staffID string) (Paystub, error)
}
