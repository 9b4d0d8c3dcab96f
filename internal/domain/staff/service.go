package staff

import "context"

type StaffService interface {
	Create(ctx context.Context, req CreateStaffRequest) (StaffResponse, error)
	Get(ctx context.Context, id string) (StaffResponse, error)
	List(ctx context.Context, role *Role, activeOnly bool) ([]StaffResponse, error)

	GetProfile(ctx context.Context, staffID string) (PayrollProfileResponse, error)
	UpdateDefaultRate(ctx context.Context, req UpdateDefaultRateRequest) (PayrollProfileResponse, error)
	AddRateChange(ctx context.Context, req AddRateChangeRequest) (PayrollProfileResponse, error)
}
