package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"guildbot/domain"
	"guildbot/domain/entities"
	"guildbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testGuildID int64 = 555

var testSettings = LedgerSettings{StartingBalance: 0, DailyReward: 10000}

type ledgerMocks struct {
	ledgerRepo  *testhelpers.MockLedgerRepository
	historyRepo *testhelpers.MockBalanceHistoryRepository
	publisher   *testhelpers.MockEventPublisher
}

func newLedgerMocks() *ledgerMocks {
	m := &ledgerMocks{
		ledgerRepo:  new(testhelpers.MockLedgerRepository),
		historyRepo: new(testhelpers.MockBalanceHistoryRepository),
		publisher:   new(testhelpers.MockEventPublisher),
	}
	m.publisher.On("Publish", mock.Anything).Return(nil)
	return m
}

func (m *ledgerMocks) service() *ledgerService {
	return NewLedgerService(testGuildID, m.ledgerRepo, m.historyRepo, m.publisher, testSettings).(*ledgerService)
}

func historyMatching(userID, before, after int64, txType entities.TransactionType) interface{} {
	return mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.GuildID == testGuildID &&
			h.UserID == userID &&
			h.BalanceBefore == before &&
			h.BalanceAfter == after &&
			h.ChangeAmount == after-before &&
			h.TransactionType == txType
	})
}

func TestLedgerService_GetBalance(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	m.ledgerRepo.On("GetEntry", ctx, int64(1)).Return(&entities.LedgerEntry{UserID: 1, Balance: 750}, nil)
	m.ledgerRepo.On("GetEntry", ctx, int64(2)).Return(nil, nil)

	balance, err := m.service().GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(750), balance)

	balance, err = m.service().GetBalance(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	m.ledgerRepo.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_SetBalance(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 100}, nil)
	m.ledgerRepo.On("SetBalance", ctx, int64(1), int64(500)).Return(nil)
	m.historyRepo.On("Record", ctx, historyMatching(1, 100, 500, entities.TransactionTypeAdjustment)).Return(nil).Once()

	require.NoError(t, m.service().SetBalance(ctx, 1, 500))

	// same value again: upsert runs, no history
	m2 := newLedgerMocks()
	m2.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 500}, nil)
	m2.ledgerRepo.On("SetBalance", ctx, int64(1), int64(500)).Return(nil)
	require.NoError(t, m2.service().SetBalance(ctx, 1, 500))
	m2.historyRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	m.historyRepo.AssertExpectations(t)
}

func TestLedgerService_CanClaimDaily(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, kst)
	yesterday := today.AddDate(0, 0, -1)

	m := newLedgerMocks()
	m.ledgerRepo.On("GetEntry", ctx, int64(1)).Return(nil, nil)
	m.ledgerRepo.On("GetEntry", ctx, int64(2)).Return(&entities.LedgerEntry{UserID: 2}, nil)
	m.ledgerRepo.On("GetEntry", ctx, int64(3)).Return(&entities.LedgerEntry{UserID: 3, LastDaily: &yesterday}, nil)
	m.ledgerRepo.On("GetEntry", ctx, int64(4)).Return(&entities.LedgerEntry{UserID: 4, LastDaily: &today}, nil)

	svc := m.service()
	for userID, want := range map[int64]bool{1: true, 2: true, 3: true, 4: false} {
		got, err := svc.CanClaimDaily(ctx, userID, today)
		require.NoError(t, err)
		assert.Equal(t, want, got, "user %d", userID)
	}
}

func TestLedgerService_ClaimDaily(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, kst)

	t.Run("first claim credits reward", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("ClaimDaily", ctx, int64(1), today, int64(10000), int64(0)).Return(int64(10000), true, nil)
		m.historyRepo.On("Record", ctx, historyMatching(1, 0, 10000, entities.TransactionTypeDaily)).Return(nil)

		balance, err := m.service().ClaimDaily(ctx, 1, today)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), balance)
		m.historyRepo.AssertExpectations(t)
	})

	t.Run("second claim same day is rejected", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("ClaimDaily", ctx, int64(1), today, int64(10000), int64(0)).Return(int64(0), false, nil)

		_, err := m.service().ClaimDaily(ctx, 1, today)
		assert.ErrorIs(t, err, domain.ErrDailyAlreadyClaimed)
		m.historyRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("ClaimDaily", ctx, int64(1), today, int64(10000), int64(0)).Return(int64(0), false, errors.New("db down"))

		_, err := m.service().ClaimDaily(ctx, 1, today)
		var persistErr *domain.PersistenceError
		assert.True(t, errors.As(err, &persistErr))
	})
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 500}, nil)
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(2), int64(0)).Return(&entities.LedgerEntry{UserID: 2, Balance: 0}, nil)
		m.ledgerRepo.On("AddBalance", ctx, int64(1), int64(-200)).Return(int64(300), true, nil)
		m.ledgerRepo.On("AddBalance", ctx, int64(2), int64(200)).Return(int64(200), true, nil)
		m.historyRepo.On("Record", ctx, historyMatching(1, 500, 300, entities.TransactionTypeTransferOut)).Return(nil)
		m.historyRepo.On("Record", ctx, historyMatching(2, 0, 200, entities.TransactionTypeTransferIn)).Return(nil)

		result, err := m.service().Transfer(ctx, 1, 2, 200)
		require.NoError(t, err)
		assert.Equal(t, int64(300), result.SenderBalance)
		assert.Equal(t, int64(200), result.ReceiverBalance)
		m.ledgerRepo.AssertExpectations(t)
		m.historyRepo.AssertExpectations(t)
	})

	t.Run("insufficient funds before any mutation", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 100}, nil)
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(2), int64(0)).Return(&entities.LedgerEntry{UserID: 2, Balance: 0}, nil)

		_, err := m.service().Transfer(ctx, 1, 2, 200)
		var fundsErr *domain.InsufficientFundsError
		require.True(t, errors.As(err, &fundsErr))
		assert.Equal(t, int64(100), fundsErr.Available)
		assert.Equal(t, int64(200), fundsErr.Required)
		m.ledgerRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		m := newLedgerMocks()
		svc := m.service()

		for _, tc := range []struct {
			sender, receiver, amount int64
		}{
			{1, 2, 0},
			{1, 2, -5},
			{1, 1, 10},
		} {
			_, err := svc.Transfer(ctx, tc.sender, tc.receiver, tc.amount)
			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		}
		m.ledgerRepo.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("conditional update refused", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 100}, nil)
		m.ledgerRepo.On("AddBalance", ctx, int64(1), int64(-100)).Return(int64(0), false, nil)

		_, err := m.service().Debit(ctx, 1, 100, entities.TransactionTypeGameStake, nil)
		var fundsErr *domain.InsufficientFundsError
		assert.True(t, errors.As(err, &fundsErr))
	})

	t.Run("overdraw rejected up front", func(t *testing.T) {
		m := newLedgerMocks()
		m.ledgerRepo.On("GetOrCreateForUpdate", ctx, int64(1), int64(0)).Return(&entities.LedgerEntry{UserID: 1, Balance: 99}, nil)

		_, err := m.service().Debit(ctx, 1, 100, entities.TransactionTypeGameStake, nil)
		var fundsErr *domain.InsufficientFundsError
		assert.True(t, errors.As(err, &fundsErr))
		m.ledgerRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerService_Stats(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	m.ledgerRepo.On("GetEntry", ctx, int64(1)).Return(nil, nil)
	m.ledgerRepo.On("GetGameStats", ctx, int64(1)).Return([]*entities.GameStats{}, nil)
	m.historyRepo.On("GetByUser", ctx, int64(1), recentActivityLimit).Return([]*entities.BalanceHistory{}, nil)

	stats, err := m.service().Stats(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stats.Recent)
	assert.Equal(t, int64(1), stats.Entry.UserID)
	assert.Equal(t, 0, stats.Entry.GamesPlayed())
	assert.Equal(t, 0.0, stats.Entry.WinRate())
}
