package services

import (
	"context"
	"fmt"

	"guildbot/domain"
	"guildbot/domain/entities"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"
	"guildbot/events"

	log "github.com/sirupsen/logrus"
)

type gamingService struct {
	guildID        int64
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewGamingService creates a gaming service that settles games through ledger
func NewGamingService(guildID int64, ledger interfaces.LedgerService, eventPublisher interfaces.EventPublisher) interfaces.GamingService {
	return &gamingService{
		guildID:        guildID,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

func (s *gamingService) PlayInstant(ctx context.Context, userID int64, stake int64, resolve func() (games.Result, error)) (*interfaces.GameSettlement, error) {
	if stake <= 0 {
		return nil, domain.NewValidationError("bet", "must be positive")
	}

	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < stake {
		return nil, &domain.InsufficientFundsError{Available: balance, Required: stake}
	}

	result, err := resolve()
	if err != nil {
		return nil, err
	}
	if result.Bet != stake {
		return nil, fmt.Errorf("game %s resolved a bet of %d for a stake of %d", result.Game, result.Bet, stake)
	}

	if _, err := s.OpenStake(ctx, userID, result.Game, stake); err != nil {
		return nil, err
	}
	return s.SettleStake(ctx, userID, result)
}

func (s *gamingService) OpenStake(ctx context.Context, userID int64, game string, stake int64) (int64, error) {
	balance, err := s.ledger.Debit(ctx, userID, stake, entities.TransactionTypeGameStake, map[string]any{
		"game": game,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to take stake: %w", err)
	}
	return balance, nil
}

func (s *gamingService) SettleStake(ctx context.Context, userID int64, result games.Result) (*interfaces.GameSettlement, error) {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	if result.Payout > 0 {
		txType := entities.TransactionTypeGamePayout
		if result.Outcome == games.OutcomePush {
			txType = entities.TransactionTypeGameRefund
		}
		balance, err = s.ledger.Credit(ctx, userID, result.Payout, txType, map[string]any{
			"game":    result.Game,
			"bet":     result.Bet,
			"outcome": result.Outcome.String(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to pay out: %w", err)
		}
	}

	if result.Outcome != games.OutcomePush {
		if err := s.ledger.RecordOutcome(ctx, userID, result.Game, result.Won()); err != nil {
			return nil, err
		}
	}

	if err := s.eventPublisher.Publish(events.GameSettledEvent{
		GuildID: s.guildID,
		UserID:  userID,
		Game:    result.Game,
		Stake:   result.Bet,
		Payout:  result.Payout,
		Won:     result.Won(),
	}); err != nil {
		log.WithError(err).Error("Failed to publish game settled event")
	}

	log.WithFields(log.Fields{
		"guild_id": s.guildID,
		"user_id":  userID,
		"game":     result.Game,
		"bet":      result.Bet,
		"payout":   result.Payout,
		"outcome":  result.Outcome.String(),
	}).Debug("Game settled")

	return &interfaces.GameSettlement{Result: result, BalanceAfter: balance}, nil
}
