package interfaces

import (
	"context"
	"time"

	"guildbot/domain/entities"
	"guildbot/domain/games"
)

// LedgerService manages balances, daily rewards and win/loss stats within one guild
type LedgerService interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	SetBalance(ctx context.Context, userID int64, amount int64) error

	CanClaimDaily(ctx context.Context, userID int64, today time.Time) (bool, error)
	ClaimDaily(ctx context.Context, userID int64, today time.Time) (newBalance int64, err error)

	RecordOutcome(ctx context.Context, userID int64, game string, won bool) error

	Transfer(ctx context.Context, senderID, receiverID int64, amount int64) (*entities.TransferResult, error)

	// Credit adds amount and records the change under txType
	Credit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	// Debit subtracts amount, failing with InsufficientFundsError instead of overdrawing
	Debit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error)

	Leaderboard(ctx context.Context, limit int) ([]*entities.LedgerEntry, error)
	Stats(ctx context.Context, userID int64) (*entities.UserStats, error)
}

// GameSettlement is a settled game and the resulting balance
type GameSettlement struct {
	games.Result
	BalanceAfter int64
}

// GamingService settles mini-games on the ledger
type GamingService interface {
	// PlayInstant checks funds, resolves the game, and applies stake and payout
	PlayInstant(ctx context.Context, userID int64, stake int64, resolve func() (games.Result, error)) (*GameSettlement, error)

	// OpenStake debits the stake for an interactive game
	OpenStake(ctx context.Context, userID int64, game string, stake int64) (balanceAfter int64, err error)

	// SettleStake pays out a finished interactive game whose stake was already taken
	SettleStake(ctx context.Context, userID int64, result games.Result) (*GameSettlement, error)
}

// SchedulerService creates, lists, cancels and fires scheduled messages
type SchedulerService interface {
	ScheduleOnce(ctx context.Context, guildID, channelID, userID int64, when time.Time, message string) (*entities.OneTimeJob, error)
	ScheduleRecurring(ctx context.Context, guildID, channelID, userID int64, rule entities.RepeatRule, message string) (*entities.RecurringJob, error)
	ListJobs(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error)
	CancelJob(ctx context.Context, guildID, userID int64, id string) error
	PollAndFire(ctx context.Context, now time.Time) (*entities.FireReport, error)
}
