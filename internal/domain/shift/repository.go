package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for the shift store. Shifts are read
// back fresh on every payroll pass; nothing is cached between calls.
type ShiftRepository interface {
	Create(ctx context.Context, s Shift) (Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	GetOpenByStaffID(ctx context.Context, staffID string) (Shift, error)
	Close(ctx context.Context, s Shift) (Shift, error)

	// ListByPeriod returns shifts whose start falls within [start, end].
	ListByPeriod(ctx context.Context, start, end time.Time) ([]Shift, error)
	ListByIDs(ctx context.Context, ids []string) ([]Shift, error)

	// TagPayrollRun marks shifts as consumed by a payroll run.
	TagPayrollRun(ctx context.Context, shiftIDs []string, runID string) error
	// ClearPayrollRun removes the run tag from all shifts of a voided run.
	ClearPayrollRun(ctx context.Context, runID string) error
}

// ShiftService is the clock-in/clock-out surface around the shift store.
type ShiftService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (ShiftResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (ShiftResponse, error)
	Get(ctx context.Context, id string) (ShiftResponse, error)
	ListByPeriod(ctx context.Context, start, end time.Time) ([]ShiftResponse, error)
}
