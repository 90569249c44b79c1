package common

import (
	"context"
	"fmt"

	"guildbot/domain/games"
	"guildbot/domain/interfaces"
	"guildbot/domain/services"

	log "github.com/sirupsen/logrus"
)

// Economy bundles what ledger-backed features need to build guild-scoped services
type Economy struct {
	UoWFactory interfaces.UnitOfWorkFactory
	Settings   services.LedgerSettings
}

// InGuild runs fn inside one guild-scoped unit of work and commits when fn succeeds.
// Events raised by the services are delivered only after the commit.
func (e Economy) InGuild(ctx context.Context, guildID int64, fn func(ledger interfaces.LedgerService, gaming interfaces.GamingService) error) error {
	uow := e.UoWFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			log.WithError(err).Warn("Failed to roll back unit of work")
		}
	}()

	ledger := services.NewLedgerService(
		guildID,
		uow.LedgerRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
		e.Settings,
	)
	gaming := services.NewGamingService(guildID, ledger, uow.EventBus())

	if err := fn(ledger, gaming); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// OpenStake takes the stake for an interactive game in its own transaction
func (e Economy) OpenStake(ctx context.Context, guildID, userID int64, game string, stake int64) (int64, error) {
	var balance int64
	err := e.InGuild(ctx, guildID, func(_ interfaces.LedgerService, gaming interfaces.GamingService) error {
		var err error
		balance, err = gaming.OpenStake(ctx, userID, game, stake)
		return err
	})
	return balance, err
}

// SettleStake pays out a finished interactive game in its own transaction
func (e Economy) SettleStake(ctx context.Context, guildID, userID int64, result games.Result) (*interfaces.GameSettlement, error) {
	var settlement *interfaces.GameSettlement
	err := e.InGuild(ctx, guildID, func(_ interfaces.LedgerService, gaming interfaces.GamingService) error {
		var err error
		settlement, err = gaming.SettleStake(ctx, userID, result)
		return err
	})
	return settlement, err
}
