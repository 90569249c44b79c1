package common

import (
	"errors"
	"fmt"
	"testing"

	"guildbot/domain"
	"guildbot/domain/games"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "insufficient funds",
			err:  fmt.Errorf("failed to take stake: %w", &domain.InsufficientFundsError{Available: 1500, Required: 20000}),
			want: "Insufficient balance. You have **1,500 bits** but need **20,000 bits**.",
		},
		{
			name: "validation",
			err:  domain.NewValidationError("amount", "must be positive"),
			want: "Invalid amount: must be positive.",
		},
		{
			name: "daily already claimed",
			err:  domain.ErrDailyAlreadyClaimed,
			want: "You already claimed your daily reward today. Come back tomorrow!",
		},
		{
			name: "hand finished",
			err:  games.ErrHandFinished,
			want: "That hand is already over.",
		},
		{
			name: "bot user error",
			err:  NewUserError("You cannot donate to yourself.", "self donation"),
			want: "You cannot donate to yourself.",
		},
		{
			name: "persistence failure is hidden",
			err:  &domain.PersistenceError{Op: "claim daily", Err: errors.New("connection reset")},
			want: genericFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestIsExpected(t *testing.T) {
	assert.True(t, isExpected(domain.ErrJobNotFound))
	assert.True(t, isExpected(NewUserError("nope", "nope")))
	assert.False(t, isExpected(NewSystemError(errors.New("db"), "failed")))
	assert.False(t, isExpected(errors.New("boom")))
}

func TestBotError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewSystemError(inner, "failed to load balance")
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "failed to load balance: boom", err.Error())
}

func TestOutcomeColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, OutcomeColor(games.OutcomeWin))
	assert.Equal(t, ColorWarning, OutcomeColor(games.OutcomePush))
	assert.Equal(t, ColorDanger, OutcomeColor(games.OutcomeLoss))
}
