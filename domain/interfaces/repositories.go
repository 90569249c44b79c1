package interfaces

import (
	"context"
	"time"

	"guildbot/domain/entities"
	"guildbot/events"
)

// LedgerRepository provides guild-scoped access to ledger entries
type LedgerRepository interface {
	// GetEntry returns the user's entry, or nil when the user has none
	GetEntry(ctx context.Context, userID int64) (*entities.LedgerEntry, error)

	// GetOrCreateForUpdate returns the user's entry locked for the rest of the
	// transaction, creating it with startingBalance when missing
	GetOrCreateForUpdate(ctx context.Context, userID int64, startingBalance int64) (*entities.LedgerEntry, error)

	// SetBalance upserts the user's balance
	SetBalance(ctx context.Context, userID int64, amount int64) error

	// AddBalance applies delta in a single statement. It returns false without
	// changing anything when the result would be negative.
	AddBalance(ctx context.Context, userID int64, delta int64) (newBalance int64, applied bool, err error)

	// ClaimDaily credits amount and stamps last_daily = today unless the user already
	// claimed on that date. The check and the write are one statement.
	ClaimDaily(ctx context.Context, userID int64, today time.Time, amount int64, startingBalance int64) (newBalance int64, claimed bool, err error)

	// RecordOutcome increments the aggregate and per-game win or loss counter
	RecordOutcome(ctx context.Context, userID int64, game string, won bool) error

	// GetLeaderboard returns the richest entries in the guild
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.LedgerEntry, error)

	// GetGameStats returns per-game counters for a user
	GetGameStats(ctx context.Context, userID int64) ([]*entities.GameStats, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns the most recent balance history for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)
}

// ScheduledJobRepository stores scheduled messages. It is not guild-scoped because the
// poller looks at every guild at once.
type ScheduledJobRepository interface {
	Create(ctx context.Context, job entities.ScheduledJob) error

	// GetDue returns every job whose trigger time is at or before now
	GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledJob, error)

	// ListByGuild returns a guild's jobs ordered by trigger time
	ListByGuild(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error)

	// GetByID returns the job, or nil when it does not exist in the guild
	GetByID(ctx context.Context, guildID int64, id string) (entities.ScheduledJob, error)

	UpdateTriggerTime(ctx context.Context, id string, triggerTime time.Time) error

	Delete(ctx context.Context, id string) error
}

// MessageDeliverer posts plain text to a channel
type MessageDeliverer interface {
	Deliver(ctx context.Context, channelID int64, content string) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
