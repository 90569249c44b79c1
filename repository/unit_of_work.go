package repository

import (
	"context"
	"errors"
	"fmt"

	"guildbot/database"
	"guildbot/domain/interfaces"
	"guildbot/events"

	"github.com/jackc/pgx/v5"
)

var (
	errTxActive   = errors.New("unit of work already begun")
	errTxInactive = errors.New("unit of work has no open transaction")
)

// scopedRepos are the guild-scoped repositories bound to one open transaction.
type scopedRepos struct {
	ledger  *LedgerRepository
	history *BalanceHistoryRepository
}

type unitOfWork struct {
	db      *database.DB
	guildID int64
	pending *events.TransactionalBus

	ctx   context.Context
	tx    pgx.Tx
	repos *scopedRepos
}

type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory builds guild-scoped units of work on db. Events published inside
// one reach bus only after it commits.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, bus: bus}
}

func (f *unitOfWorkFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	return &unitOfWork{
		db:      f.db,
		guildID: guildID,
		pending: events.NewTransactionalBus(f.bus),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errTxActive
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction for guild %d: %w", u.guildID, err)
	}

	u.ctx, u.tx = ctx, tx
	u.repos = &scopedRepos{
		ledger:  NewLedgerRepositoryScoped(tx, u.guildID),
		history: NewBalanceHistoryRepositoryScoped(tx, u.guildID),
	}
	return nil
}

// Commit makes the writes durable and then releases the held events. A failed commit
// drops them.
func (u *unitOfWork) Commit() error {
	tx, err := u.detach()
	if err != nil {
		return err
	}
	if err := tx.Commit(u.ctx); err != nil {
		u.pending.Discard()
		return fmt.Errorf("committing transaction for guild %d: %w", u.guildID, err)
	}
	return u.pending.Flush(u.ctx)
}

// Rollback undoes the writes and drops held events. It is a no-op once the unit of work
// has finished, so it can always be deferred.
func (u *unitOfWork) Rollback() error {
	tx, err := u.detach()
	if err != nil {
		return nil
	}
	u.pending.Discard()
	if err := tx.Rollback(u.ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rolling back transaction for guild %d: %w", u.guildID, err)
	}
	return nil
}

// detach hands out the open transaction and marks the unit of work finished.
func (u *unitOfWork) detach() (pgx.Tx, error) {
	if u.tx == nil {
		return nil, errTxInactive
	}
	tx := u.tx
	u.tx = nil
	return tx, nil
}

func (u *unitOfWork) mustRepos() *scopedRepos {
	if u.repos == nil {
		panic("unit of work used before Begin")
	}
	return u.repos
}

func (u *unitOfWork) LedgerRepository() interfaces.LedgerRepository {
	return u.mustRepos().ledger
}

func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.mustRepos().history
}

func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.pending
}
