package testutil

import (
	"time"

	"guildbot/domain/entities"
)

// CreateTestBalanceHistory creates a balance history entry with a +1000 change
func CreateTestBalanceHistory(userID int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return CreateTestBalanceHistoryWithAmounts(userID, 10000, 11000, 1000, transactionType)
}

// CreateTestBalanceHistoryWithAmounts creates a balance history entry with explicit amounts
func CreateTestBalanceHistoryWithAmounts(userID, before, after, change int64, transactionType entities.TransactionType) *entities.BalanceHistory {
	return &entities.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        change,
		TransactionType:     transactionType,
		TransactionMetadata: map[string]any{"source": "test"},
	}
}

// CreateTestOneTimeJob creates a one-time scheduled message
func CreateTestOneTimeJob(id string, guildID int64, trigger time.Time) *entities.OneTimeJob {
	return &entities.OneTimeJob{JobHeader: entities.JobHeader{
		ID:          id,
		GuildID:     guildID,
		ChannelID:   1001,
		UserID:      2002,
		TriggerTime: trigger,
		Message:     "reminder",
		CreatedAt:   time.Now(),
	}}
}

// CreateTestRecurringJob creates a recurring scheduled message
func CreateTestRecurringJob(id string, guildID int64, trigger time.Time, rule entities.RepeatRule) *entities.RecurringJob {
	return &entities.RecurringJob{
		JobHeader: entities.JobHeader{
			ID:          id,
			GuildID:     guildID,
			ChannelID:   1001,
			UserID:      2002,
			TriggerTime: trigger,
			Message:     "recurring reminder",
			CreatedAt:   time.Now(),
		},
		Rule: rule,
	}
}
