package common

import (
	"context"
	"errors"
	"testing"

	"guildbot/domain/entities"
	"guildbot/domain/interfaces"
	"guildbot/domain/services"
	"guildbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeUnitOfWork struct {
	beginErr   error
	began      bool
	committed  bool
	rolledBack bool

	ledgerRepo  *testhelpers.MockLedgerRepository
	historyRepo *testhelpers.MockBalanceHistoryRepository
	publisher   *testhelpers.MockEventPublisher
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.began = true
	return u.beginErr
}

func (u *fakeUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *fakeUnitOfWork) LedgerRepository() interfaces.LedgerRepository { return u.ledgerRepo }

func (u *fakeUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.historyRepo
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

type fakeFactory struct {
	uow     *fakeUnitOfWork
	guildID int64
}

func (f *fakeFactory) CreateForGuild(guildID int64) interfaces.UnitOfWork {
	f.guildID = guildID
	return f.uow
}

func newEconomy() (Economy, *fakeFactory) {
	factory := &fakeFactory{uow: &fakeUnitOfWork{
		ledgerRepo:  new(testhelpers.MockLedgerRepository),
		historyRepo: new(testhelpers.MockBalanceHistoryRepository),
		publisher:   new(testhelpers.MockEventPublisher),
	}}
	return Economy{UoWFactory: factory, Settings: services.LedgerSettings{DailyReward: 10000}}, factory
}

func TestEconomy_InGuild_Commits(t *testing.T) {
	economy, factory := newEconomy()
	factory.uow.ledgerRepo.On("GetEntry", mock.Anything, int64(7)).
		Return(&entities.LedgerEntry{GuildID: 42, UserID: 7, Balance: 500}, nil)

	var balance int64
	err := economy.InGuild(context.Background(), 42, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		var err error
		balance, err = ledger.GetBalance(context.Background(), 7)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)
	assert.Equal(t, int64(42), factory.guildID)
	assert.True(t, factory.uow.committed)
	assert.False(t, factory.uow.rolledBack)
}

func TestEconomy_InGuild_RollsBackOnError(t *testing.T) {
	economy, factory := newEconomy()
	boom := errors.New("boom")

	err := economy.InGuild(context.Background(), 42, func(interfaces.LedgerService, interfaces.GamingService) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, factory.uow.committed)
	assert.True(t, factory.uow.rolledBack)
}

func TestEconomy_InGuild_BeginFails(t *testing.T) {
	economy, factory := newEconomy()
	factory.uow.beginErr = errors.New("pool closed")

	called := false
	err := economy.InGuild(context.Background(), 42, func(interfaces.LedgerService, interfaces.GamingService) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
}
