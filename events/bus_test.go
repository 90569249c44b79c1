package events

import (
	"context"
	"sync"
	"testing"

	"guildbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(_ context.Context, e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestTransactionalBus_HoldsUntilFlush(t *testing.T) {
	bus := NewBus()
	seen := &collector{}
	bus.Subscribe(EventTypeBalanceChange, seen.handle)

	tx := NewTransactionalBus(bus)
	change := BalanceChangeEvent{
		GuildID:         789,
		UserID:          123456,
		OldBalance:      1000,
		NewBalance:      1500,
		TransactionType: entities.TransactionTypeGamePayout,
		ChangeAmount:    500,
	}
	require.NoError(t, tx.Publish(change))

	bus.Wait()
	assert.Empty(t, seen.received())

	require.NoError(t, tx.Flush(context.Background()))
	bus.Wait()
	assert.Equal(t, []Event{change}, seen.received())
}

func TestTransactionalBus_FlushesEveryEvent(t *testing.T) {
	bus := NewBus()
	seen := &collector{}
	bus.Subscribe(EventTypeBalanceChange, seen.handle)

	tx := NewTransactionalBus(bus)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, tx.Publish(BalanceChangeEvent{UserID: id, GuildID: 100, ChangeAmount: 100}))
	}
	require.NoError(t, tx.Flush(context.Background()))
	bus.Wait()

	users := map[int64]bool{}
	for _, e := range seen.received() {
		users[e.(BalanceChangeEvent).UserID] = true
	}
	assert.Len(t, users, 3)
}

func TestTransactionalBus_Discard(t *testing.T) {
	bus := NewBus()
	seen := &collector{}
	bus.Subscribe(EventTypeBalanceChange, seen.handle)

	tx := NewTransactionalBus(bus)
	require.NoError(t, tx.Publish(BalanceChangeEvent{UserID: 1, GuildID: 2, ChangeAmount: 5}))
	tx.Discard()
	require.NoError(t, tx.Flush(context.Background()))
	bus.Wait()

	assert.Empty(t, seen.received())
}

func TestBus_RoutesByType(t *testing.T) {
	bus := NewBus()
	games, fired := &collector{}, &collector{}
	bus.Subscribe(EventTypeGameSettled, games.handle)
	bus.Subscribe(EventTypeScheduledMessageFired, fired.handle)

	require.NoError(t, bus.Publish(GameSettledEvent{Game: "dice"}))
	bus.Wait()

	assert.Len(t, games.received(), 1)
	assert.Empty(t, fired.received())
}

func TestBus_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewBus()
	seen := &collector{}
	bus.Subscribe(EventTypeGameSettled, func(context.Context, Event) { panic("boom") })
	bus.Subscribe(EventTypeGameSettled, seen.handle)

	require.NoError(t, bus.Publish(GameSettledEvent{Game: "coinflip"}))
	bus.Wait()

	assert.Len(t, seen.received(), 1)
}
