package service

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrNotRecurring        = errors.New("transaction is not recurring")
	ErrTransactionConflict = errors.New("transaction was modified concurrently")

	// ErrBalanceNotApplied means the transaction record was written but the
	// wallet increment failed. The stored balance has drifted and needs a
	// reconciliation pass.
	ErrBalanceNotApplied = errors.New("wallet balance update failed")
)

// ValidationError reports malformed input. Message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
