package staff

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StaffRepository defines data access for the staff directory, including
// the effective-dated pay-rate history.
type StaffRepository interface {
	Create(ctx context.Context, s Staff) (Staff, error)
	GetByID(ctx context.Context, id string) (Staff, error)
	GetByEmployeeCode(ctx context.Context, code string) (Staff, error)
	List(ctx context.Context, role *Role, activeOnly bool) ([]Staff, error)

	GetProfile(ctx context.Context, staffID string) (PayrollProfile, error)
	GetProfiles(ctx context.Context, staffIDs []string) (map[string]PayrollProfile, error)
	UpsertDefaultRate(ctx context.Context, staffID string, rate decimal.Decimal) error
	AppendRateChange(ctx context.Context, staffID string, rate decimal.Decimal, effectiveFrom time.Time) error
}
