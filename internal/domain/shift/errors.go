package shift

import "errors"

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftAlreadyOpen   = errors.New("staff member already has an open shift")
	ErrShiftAlreadyClosed = errors.New("shift already closed")
	ErrShiftNotClosed     = errors.New("shift not closed yet")
)
