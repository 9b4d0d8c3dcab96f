package payroll

import "errors"

var (
	ErrRunNotFound        = errors.New("payroll run not found")
	ErrLineNotFound       = errors.New("payroll line not found")
	ErrShiftNotInLine     = errors.New("shift does not belong to this payroll line")
	ErrAdjustmentNotFound = errors.New("adjustment not found")
	ErrPaystubNotFound    = errors.New("paystub not found")

	// ErrRunNotEditable is returned for any mutation attempted once the run
	// has left draft.
	ErrRunNotEditable = errors.New("payroll run is no longer editable")
	// ErrRunAlreadyPosted guards re-finalizing a posted run.
	ErrRunAlreadyPosted = errors.New("payroll run already posted")
	ErrRunNotPosted     = errors.New("payroll run is not posted")
	// ErrRunLocked is returned when another actor holds the posting lock.
	ErrRunLocked = errors.New("payroll run is being posted by another actor")
)
