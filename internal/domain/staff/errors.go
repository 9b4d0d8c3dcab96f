package staff

import "errors"

var (
	ErrStaffNotFound       = errors.New("staff not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrProfileNotFound     = errors.New("payroll profile not found")
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrStaffInactive       = errors.New("staff member is inactive")
	ErrInvalidRole         = errors.New("invalid staff role")
)
