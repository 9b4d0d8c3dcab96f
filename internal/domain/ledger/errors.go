package ledger

import "errors"

var (
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionAlreadyVoided = errors.New("transaction already voided")
	ErrTransactionPosted        = errors.New("transaction belongs to a posted payroll run")
	ErrInvalidCategory          = errors.New("invalid transaction category")
)
