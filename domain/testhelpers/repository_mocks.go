package testhelpers

import (
	"context"
	"time"

	"guildbot/domain/entities"
	"guildbot/events"

	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetEntry(ctx context.Context, userID int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetOrCreateForUpdate(ctx context.Context, userID int64, startingBalance int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, userID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SetBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockLedgerRepository) AddBalance(ctx context.Context, userID int64, delta int64) (int64, bool, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) ClaimDaily(ctx context.Context, userID int64, today time.Time, amount int64, startingBalance int64) (int64, bool, error) {
	args := m.Called(ctx, userID, today, amount, startingBalance)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) RecordOutcome(ctx context.Context, userID int64, game string, won bool) error {
	args := m.Called(ctx, userID, game, won)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetLeaderboard(ctx context.Context, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetGameStats(ctx context.Context, userID int64) ([]*entities.GameStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameStats), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockScheduledJobRepository is a mock implementation of ScheduledJobRepository
type MockScheduledJobRepository struct {
	mock.Mock
}

func (m *MockScheduledJobRepository) Create(ctx context.Context, job entities.ScheduledJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockScheduledJobRepository) GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledJob, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScheduledJob), args.Error(1)
}

func (m *MockScheduledJobRepository) ListByGuild(ctx context.Context, guildID int64) ([]entities.ScheduledJob, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ScheduledJob), args.Error(1)
}

func (m *MockScheduledJobRepository) GetByID(ctx context.Context, guildID int64, id string) (entities.ScheduledJob, error) {
	args := m.Called(ctx, guildID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.ScheduledJob), args.Error(1)
}

func (m *MockScheduledJobRepository) UpdateTriggerTime(ctx context.Context, id string, triggerTime time.Time) error {
	args := m.Called(ctx, id, triggerTime)
	return args.Error(0)
}

func (m *MockScheduledJobRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageDeliverer is a mock implementation of MessageDeliverer
type MockMessageDeliverer struct {
	mock.Mock
}

func (m *MockMessageDeliverer) Deliver(ctx context.Context, channelID int64, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
