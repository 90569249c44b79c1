package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection reset")

	deliveryErr := fmt.Errorf("firing job: %w", &DeliveryError{ChannelID: 42, Err: cause})
	var target *DeliveryError
	assert.True(t, errors.As(deliveryErr, &target))
	assert.Equal(t, int64(42), target.ChannelID)
	assert.ErrorIs(t, deliveryErr, cause)

	persistErr := &PersistenceError{Op: "delete job", Err: cause}
	assert.ErrorIs(t, persistErr, cause)
	assert.Equal(t, "delete job: connection reset", persistErr.Error())
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", NewValidationError("amount", "must be positive"), true},
		{"wrapped funds", fmt.Errorf("debit: %w", &InsufficientFundsError{Available: 1, Required: 2}), true},
		{"daily", ErrDailyAlreadyClaimed, true},
		{"not found", ErrJobNotFound, true},
		{"persistence", &PersistenceError{Op: "x", Err: errors.New("boom")}, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUserFacing(tt.err))
		})
	}
}
