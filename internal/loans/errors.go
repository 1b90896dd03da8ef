package loans

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("invalid loan")
	// ErrStoreUnavailable matches any *StoreUnavailableError.
	ErrStoreUnavailable = errors.New("loan store unavailable")
	// ErrNotFound indicates the loan does not exist for this owner.
	ErrNotFound = errors.New("loan not found")
	// ErrReminderNotDue indicates a reminder was recorded outside the policy window.
	ErrReminderNotDue = errors.New("reminder not due")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreUnavailableError wraps a failure returned by the Store.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStoreUnavailable) match.
func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// storeErr passes through ErrNotFound and ErrReminderNotDue and wraps
// everything else as unavailable.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrReminderNotDue) {
		return err
	}
	return &StoreUnavailableError{Op: op, Err: err}
}
