package response

import (
	"errors"
	"net/http"

	"github.com/tindago/shop-backend-go/internal/domain/auth"
	"github.com/tindago/shop-backend-go/internal/domain/ledger"
	"github.com/tindago/shop-backend-go/internal/domain/payroll"
	"github.com/tindago/shop-backend-go/internal/domain/shift"
	"github.com/tindago/shop-backend-go/internal/domain/staff"
	"github.com/tindago/shop-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Staff domain errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff not found")
	case errors.Is(err, staff.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, staff.ErrProfileNotFound):
		NotFound(w, "Payroll profile not found")
	case errors.Is(err, staff.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, staff.ErrStaffInactive):
		Forbidden(w, "Staff member is inactive")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftAlreadyOpen):
		Conflict(w, "Staff member already has an open shift")
	case errors.Is(err, shift.ErrShiftAlreadyClosed):
		Conflict(w, "Shift already closed")

	// Ledger domain errors
	case errors.Is(err, ledger.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, ledger.ErrTransactionPosted):
		Conflict(w, "Transaction belongs to a posted payroll run")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrLineNotFound):
		NotFound(w, "Payroll line not found")
	case errors.Is(err, payroll.ErrShiftNotInLine):
		NotFound(w, "Shift does not belong to this payroll line")
	case errors.Is(err, payroll.ErrAdjustmentNotFound):
		NotFound(w, "Adjustment not found")
	case errors.Is(err, payroll.ErrPaystubNotFound):
		NotFound(w, "Paystub not found")
	case errors.Is(err, payroll.ErrRunNotEditable):
		Conflict(w, "Payroll run is no longer editable")
	case errors.Is(err, payroll.ErrRunAlreadyPosted):
		Conflict(w, "Payroll run already posted")
	case errors.Is(err, payroll.ErrRunNotPosted):
		Conflict(w, "Payroll run is not posted")
	case errors.Is(err, payroll.ErrRunLocked):
		Locked(w, "Payroll run is being posted by another actor")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
