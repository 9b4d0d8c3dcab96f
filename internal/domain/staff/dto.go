package staff

import (
	"github.com/shopspring/decimal"
	"github.com/tindago/shop-backend-go/internal/pkg/validator"
)

type CreateStaffRequest struct {
	Name         string `json:"name"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"role"`
	Password     string `json:"password"`
}

func (r *CreateStaffRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "must be 4-20 letters, digits or dashes"})
	}
	if r.Role != string(RoleAdmin) && r.Role != string(RoleCashier) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "must be 'admin' or 'cashier'"})
	}
	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "must be at least 8 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddRateChangeRequest struct {
	StaffID       string          `json:"-"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveFrom string          `json:"effective_from"`
}

func (r *AddRateChangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDefaultRateRequest struct {
	StaffID     string          `json:"-"`
	DefaultRate decimal.Decimal `json:"default_rate"`
}

func (r *UpdateDefaultRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DefaultRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "default_rate", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateChangeResponse struct {
	Rate          decimal.Decimal `json:"rate"`
	EffectiveFrom string          `json:"effective_from"`
}

type PayrollProfileResponse struct {
	StaffID     string               `json:"staff_id"`
	DefaultRate decimal.Decimal      `json:"default_rate"`
	History     []RateChangeResponse `json:"history"`
}

type StaffResponse struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	EmployeeCode string                  `json:"employee_code"`
	Role         string                  `json:"role"`
	IsActive     bool                    `json:"is_active"`
	Profile      *PayrollProfileResponse `json:"payroll_profile,omitempty"`
}
