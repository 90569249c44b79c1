package utils

import (
	"context"
	"fmt"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/events"

	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange stores a ledger change in balance history, then announces it on the
// bus. Inconsistent records are rejected before anything is written. A failed publish is
// logged and does not undo the history row.
func RecordBalanceChange(ctx context.Context, historyRepo interfaces.BalanceHistoryRepository, publisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if err := history.Validate(); err != nil {
		return fmt.Errorf("rejected %s for user %d: %w", history.TransactionType, history.UserID, err)
	}
	if history.TransactionMetadata == nil {
		history.TransactionMetadata = map[string]any{}
	}

	if err := historyRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record %s for user %d: %w", history.TransactionType, history.UserID, err)
	}

	if err := publisher.Publish(BalanceChangeEvent(history)); err != nil {
		log.WithFields(log.Fields{
			"guild_id":         history.GuildID,
			"user_id":          history.UserID,
			"transaction_type": history.TransactionType,
		}).WithError(err).Warn("Balance change recorded but not published")
	}
	return nil
}

// BalanceChangeEvent is the bus event for a recorded history row
func BalanceChangeEvent(history *entities.BalanceHistory) events.BalanceChangeEvent {
	return events.BalanceChangeEvent{
		GuildID:         history.GuildID,
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
}
