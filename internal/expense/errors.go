package expense

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount   = errors.New("amount must be a positive number of at most 15 significant digits")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrCorruptSnapshot = errors.New("corrupt ledger snapshot")
	ErrClosed          = errors.New("ledger closed")
)

// ValidationError reports a rejected field of a new record. It unwraps to one
// of the ErrInvalid* sentinels.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
