package transaction

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyCompleted    = errors.New("transaction already completed")
	ErrNotPending          = errors.New("transaction is not pending")
)
