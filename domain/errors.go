package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRepeatRule is returned when a recurring rule cannot produce a next trigger time
	ErrInvalidRepeatRule = errors.New("invalid repeat rule")

	// ErrJobNotFound is returned when a scheduled message does not exist in the guild
	ErrJobNotFound = errors.New("scheduled message not found")

	// ErrDailyAlreadyClaimed is returned when the daily reward was already claimed today
	ErrDailyAlreadyClaimed = errors.New("daily reward already claimed today")

	// ErrNotJobOwner is returned when a user tries to cancel someone else's message
	ErrNotJobOwner = errors.New("only the creator can cancel this scheduled message")
)

// ValidationError reports bad user input
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientFundsError is returned when a debit would overdraw a balance
type InsufficientFundsError struct {
	Available int64
	Required  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Available, e.Required)
}

// DeliveryError wraps a failure to post a message to a channel
type DeliveryError struct {
	ChannelID int64
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message to channel %d: %v", e.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a storage failure for the named operation
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsUserFacing reports whether err carries a message that can be shown to the user as is
func IsUserFacing(err error) bool {
	var validationErr *ValidationError
	var fundsErr *InsufficientFundsError
	return errors.As(err, &validationErr) ||
		errors.As(err, &fundsErr) ||
		errors.Is(err, ErrDailyAlreadyClaimed) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrNotJobOwner)
}
