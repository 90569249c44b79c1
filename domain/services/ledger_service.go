package services

import (
	"context"
	"time"

	"guildbot/domain"
	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/utils"

	log "github.com/sirupsen/logrus"
)

// recentActivityLimit is how many history rows Stats returns.
const recentActivityLimit = 5

// LedgerSettings are the economy values taken from configuration
type LedgerSettings struct {
	StartingBalance int64
	DailyReward     int64
}

type ledgerService struct {
	guildID            int64
	ledgerRepo         interfaces.LedgerRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	settings           LedgerSettings
}

// NewLedgerService creates a ledger service over guild-scoped repositories. Callers
// that need several operations to be atomic run them inside one unit of work.
func NewLedgerService(guildID int64, ledgerRepo interfaces.LedgerRepository, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, settings LedgerSettings) interfaces.LedgerService {
	return &ledgerService{
		guildID:            guildID,
		ledgerRepo:         ledgerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		settings:           settings,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	entry, err := s.ledgerRepo.GetEntry(ctx, userID)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "get balance", Err: err}
	}
	if entry == nil {
		return s.settings.StartingBalance, nil
	}
	return entry.Balance, nil
}

func (s *ledgerService) SetBalance(ctx context.Context, userID int64, amount int64) error {
	entry, err := s.ledgerRepo.GetOrCreateForUpdate(ctx, userID, s.settings.StartingBalance)
	if err != nil {
		return &domain.PersistenceError{Op: "lock ledger entry", Err: err}
	}

	if err := s.ledgerRepo.SetBalance(ctx, userID, amount); err != nil {
		return &domain.PersistenceError{Op: "set balance", Err: err}
	}

	if amount == entry.Balance {
		return nil
	}
	return s.record(ctx, userID, entry.Balance, amount, entities.TransactionTypeAdjustment, nil)
}

func (s *ledgerService) CanClaimDaily(ctx context.Context, userID int64, today time.Time) (bool, error) {
	entry, err := s.ledgerRepo.GetEntry(ctx, userID)
	if err != nil {
		return false, &domain.PersistenceError{Op: "get ledger entry", Err: err}
	}
	if entry == nil || entry.LastDaily == nil {
		return true, nil
	}
	return !entities.SameDate(*entry.LastDaily, today), nil
}

func (s *ledgerService) ClaimDaily(ctx context.Context, userID int64, today time.Time) (int64, error) {
	newBalance, claimed, err := s.ledgerRepo.ClaimDaily(ctx, userID, today, s.settings.DailyReward, s.settings.StartingBalance)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "claim daily", Err: err}
	}
	if !claimed {
		return 0, domain.ErrDailyAlreadyClaimed
	}

	before := newBalance - s.settings.DailyReward
	if err := s.record(ctx, userID, before, newBalance, entities.TransactionTypeDaily, map[string]any{
		"date": today.Format(time.DateOnly),
	}); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"guild_id": s.guildID,
		"user_id":  userID,
		"amount":   s.settings.DailyReward,
	}).Info("Daily reward claimed")

	return newBalance, nil
}

func (s *ledgerService) RecordOutcome(ctx context.Context, userID int64, game string, won bool) error {
	if err := s.ledgerRepo.RecordOutcome(ctx, userID, game, won); err != nil {
		return &domain.PersistenceError{Op: "record outcome", Err: err}
	}
	return nil
}

func (s *ledgerService) Transfer(ctx context.Context, senderID, receiverID int64, amount int64) (*entities.TransferResult, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}
	if senderID == receiverID {
		return nil, domain.NewValidationError("recipient", "cannot transfer to yourself")
	}

	// Lock rows in a stable order so concurrent opposite transfers cannot deadlock.
	first, second := senderID, receiverID
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]*entities.LedgerEntry, 2)
	for _, id := range []int64{first, second} {
		entry, err := s.ledgerRepo.GetOrCreateForUpdate(ctx, id, s.settings.StartingBalance)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "lock ledger entry", Err: err}
		}
		locked[id] = entry
	}

	sender := locked[senderID]
	if sender.Balance < amount {
		return nil, &domain.InsufficientFundsError{Available: sender.Balance, Required: amount}
	}

	senderBalance, err := s.applyDelta(ctx, sender, -amount, entities.TransactionTypeTransferOut, map[string]any{
		"recipient_id": receiverID,
	})
	if err != nil {
		return nil, err
	}
	receiverBalance, err := s.applyDelta(ctx, locked[receiverID], amount, entities.TransactionTypeTransferIn, map[string]any{
		"sender_id": senderID,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"guild_id":    s.guildID,
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"amount":      amount,
	}).Info("Transfer completed")

	return &entities.TransferResult{
		Amount:          amount,
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
	}, nil
}

func (s *ledgerService) Credit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount", "must be positive")
	}
	entry, err := s.ledgerRepo.GetOrCreateForUpdate(ctx, userID, s.settings.StartingBalance)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "lock ledger entry", Err: err}
	}
	return s.applyDelta(ctx, entry, amount, txType, metadata)
}

func (s *ledgerService) Debit(ctx context.Context, userID int64, amount int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, domain.NewValidationError("amount", "must be positive")
	}
	entry, err := s.ledgerRepo.GetOrCreateForUpdate(ctx, userID, s.settings.StartingBalance)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "lock ledger entry", Err: err}
	}
	if entry.Balance < amount {
		return 0, &domain.InsufficientFundsError{Available: entry.Balance, Required: amount}
	}
	return s.applyDelta(ctx, entry, -amount, txType, metadata)
}

func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	entries, err := s.ledgerRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get leaderboard", Err: err}
	}
	return entries, nil
}

func (s *ledgerService) Stats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	entry, err := s.ledgerRepo.GetEntry(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get ledger entry", Err: err}
	}
	if entry == nil {
		entry = &entities.LedgerEntry{GuildID: s.guildID, UserID: userID, Balance: s.settings.StartingBalance}
	}

	games, err := s.ledgerRepo.GetGameStats(ctx, userID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get game stats", Err: err}
	}

	recent, err := s.balanceHistoryRepo.GetByUser(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get balance history", Err: err}
	}

	return &entities.UserStats{Entry: entry, Games: games, Recent: recent}, nil
}

// applyDelta runs the conditional update for an entry locked by the caller and records it
func (s *ledgerService) applyDelta(ctx context.Context, entry *entities.LedgerEntry, delta int64, txType entities.TransactionType, metadata map[string]any) (int64, error) {
	newBalance, applied, err := s.ledgerRepo.AddBalance(ctx, entry.UserID, delta)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "update balance", Err: err}
	}
	if !applied {
		return 0, &domain.InsufficientFundsError{Available: entry.Balance, Required: -delta}
	}

	before := newBalance - delta
	entry.Balance = newBalance
	if err := s.record(ctx, entry.UserID, before, newBalance, txType, metadata); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *ledgerService) record(ctx context.Context, userID, before, after int64, txType entities.TransactionType, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	history := &entities.BalanceHistory{
		GuildID:             s.guildID,
		UserID:              userID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        after - before,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return &domain.PersistenceError{Op: "record balance change", Err: err}
	}
	return nil
}

