package utils

import (
	"context"
	"errors"
	"testing"

	"guildbot/domain/entities"
	"guildbot/domain/testhelpers"
	"guildbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func payoutHistory() *entities.BalanceHistory {
	return &entities.BalanceHistory{
		GuildID:         789,
		UserID:          123456,
		BalanceBefore:   1000,
		BalanceAfter:    1500,
		ChangeAmount:    500,
		TransactionType: entities.TransactionTypeGamePayout,
	}
}

func TestRecordBalanceChange(t *testing.T) {
	ctx := context.Background()
	historyRepo := new(testhelpers.MockBalanceHistoryRepository)
	publisher := new(testhelpers.MockEventPublisher)

	history := payoutHistory()
	historyRepo.On("Record", ctx, history).Return(nil)
	publisher.On("Publish", events.BalanceChangeEvent{
		GuildID:         789,
		UserID:          123456,
		OldBalance:      1000,
		NewBalance:      1500,
		TransactionType: entities.TransactionTypeGamePayout,
		ChangeAmount:    500,
	}).Return(nil)

	require.NoError(t, RecordBalanceChange(ctx, historyRepo, publisher, history))
	assert.NotNil(t, history.TransactionMetadata)

	historyRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRecordBalanceChange_RejectsInconsistentHistory(t *testing.T) {
	historyRepo := new(testhelpers.MockBalanceHistoryRepository)
	publisher := new(testhelpers.MockEventPublisher)

	history := payoutHistory()
	history.ChangeAmount = 400

	err := RecordBalanceChange(context.Background(), historyRepo, publisher, history)
	assert.ErrorContains(t, err, "inconsistent")
	historyRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestRecordBalanceChange_RecordFails(t *testing.T) {
	ctx := context.Background()
	historyRepo := new(testhelpers.MockBalanceHistoryRepository)
	publisher := new(testhelpers.MockEventPublisher)

	historyRepo.On("Record", ctx, mock.Anything).Return(errors.New("db down"))

	err := RecordBalanceChange(ctx, historyRepo, publisher, payoutHistory())
	assert.ErrorContains(t, err, "db down")
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestRecordBalanceChange_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	historyRepo := new(testhelpers.MockBalanceHistoryRepository)
	publisher := new(testhelpers.MockEventPublisher)

	historyRepo.On("Record", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything).Return(errors.New("bus closed"))

	assert.NoError(t, RecordBalanceChange(ctx, historyRepo, publisher, payoutHistory()))
}
