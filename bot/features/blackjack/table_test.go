package blackjack

import (
	"context"
	"sync"
	"testing"
	"time"

	"guildbot/bot/session"
	"guildbot/domain"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStakes keeps one balance per user and applies stakes and payouts to it
type fakeStakes struct {
	mu       sync.Mutex
	balance  int64
	settled  []games.Result
	openErrs int
}

func (f *fakeStakes) OpenStake(_ context.Context, _, _ int64, _ string, stake int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balance < stake {
		return 0, &domain.InsufficientFundsError{Available: f.balance, Required: stake}
	}
	f.balance -= stake
	return f.balance, nil
}

func (f *fakeStakes) SettleStake(_ context.Context, _, _ int64, result games.Result) (*interfaces.GameSettlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance += result.Payout
	f.settled = append(f.settled, result)
	return &interfaces.GameSettlement{Result: result, BalanceAfter: f.balance}, nil
}

func (f *fakeStakes) settledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.settled)
}

func spades(ranks ...int) []games.Card {
	cards := make([]games.Card, len(ranks))
	for i, r := range ranks {
		cards[i] = games.Card{Rank: r, Suit: games.Spades}
	}
	return cards
}

func newTestDealer(stakes *fakeStakes, timeout time.Duration, onExpire TimeoutNotifier, ranks ...int) *Dealer {
	d := NewDealer(stakes, nil, timeout, onExpire)
	d.newGame = func(bet int64) (*games.Blackjack, error) {
		return games.NewBlackjackFromShoe(bet, spades(ranks...)), nil
	}
	return d
}

func TestDealer_StandAndWin(t *testing.T) {
	stakes := &fakeStakes{balance: 1000}
	// player 10+9, dealer 10+7 stands
	d := newTestDealer(stakes, time.Minute, nil, 10, 9, 10, 7)
	defer d.Close()

	table, settlement, err := d.Deal(context.Background(), 1, 2, 300, nil)
	require.NoError(t, err)
	assert.Nil(t, settlement)
	assert.False(t, table.Game.Finished)
	assert.Equal(t, int64(700), stakes.balance)

	_, settlement, err = d.Play(context.Background(), 1, 2, ActionStand)
	require.NoError(t, err)
	require.NotNil(t, settlement)
	assert.Equal(t, games.OutcomeWin, settlement.Outcome)
	assert.Equal(t, int64(1300), settlement.BalanceAfter)

	_, _, err = d.Play(context.Background(), 1, 2, ActionHit)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestDealer_NaturalSettlesImmediately(t *testing.T) {
	stakes := &fakeStakes{balance: 1000}
	d := newTestDealer(stakes, time.Minute, nil, 1, 13, 9, 8)
	defer d.Close()

	_, settlement, err := d.Deal(context.Background(), 1, 2, 200, nil)
	require.NoError(t, err)
	require.NotNil(t, settlement)
	assert.Equal(t, int64(500), settlement.Payout)
	assert.Equal(t, int64(1300), stakes.balance)
}

func TestDealer_OneHandAtATime(t *testing.T) {
	stakes := &fakeStakes{balance: 1000}
	d := newTestDealer(stakes, time.Minute, nil, 10, 6, 10, 7, 10, 6, 10, 7)
	defer d.Close()

	_, _, err := d.Deal(context.Background(), 1, 2, 100, nil)
	require.NoError(t, err)
	_, _, err = d.Deal(context.Background(), 1, 2, 100, nil)
	assert.ErrorIs(t, err, session.ErrSessionExists)
	assert.Equal(t, int64(900), stakes.balance)
}

func TestDealer_DoubleTakesSecondStake(t *testing.T) {
	stakes := &fakeStakes{balance: 1000}
	// player 5+6, dealer 10+7, double draws 10 for 21
	d := newTestDealer(stakes, time.Minute, nil, 5, 6, 10, 7, 10)
	defer d.Close()

	_, _, err := d.Deal(context.Background(), 1, 2, 200, nil)
	require.NoError(t, err)

	table, settlement, err := d.Play(context.Background(), 1, 2, ActionDouble)
	require.NoError(t, err)
	require.NotNil(t, settlement)
	assert.True(t, table.Game.Doubled)
	assert.Equal(t, int64(400), settlement.Bet)
	assert.Equal(t, int64(1400), stakes.balance)
}

func TestDealer_DoubleWithoutFundsKeepsHand(t *testing.T) {
	stakes := &fakeStakes{balance: 300}
	d := newTestDealer(stakes, time.Minute, nil, 5, 6, 10, 7, 10)
	defer d.Close()

	_, _, err := d.Deal(context.Background(), 1, 2, 200, nil)
	require.NoError(t, err)

	_, settlement, err := d.Play(context.Background(), 1, 2, ActionDouble)
	var fundsErr *domain.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Nil(t, settlement)

	table, _, err := d.Play(context.Background(), 1, 2, ActionHit)
	require.NoError(t, err)
	assert.Len(t, table.Game.Player, 3)
}

func TestDealer_TimeoutForfeitsOnce(t *testing.T) {
	stakes := &fakeStakes{balance: 1000}
	expired := make(chan *interfaces.GameSettlement, 2)
	d := newTestDealer(stakes, 20*time.Millisecond, func(_ *Table, s *interfaces.GameSettlement) {
		expired <- s
	}, 10, 6, 10, 7)
	defer d.Close()

	_, _, err := d.Deal(context.Background(), 1, 2, 100, nil)
	require.NoError(t, err)

	select {
	case s := <-expired:
		assert.Equal(t, games.OutcomeLoss, s.Outcome)
		assert.Equal(t, int64(900), s.BalanceAfter)
	case <-time.After(time.Second):
		t.Fatal("hand did not time out")
	}

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, stakes.settledCount())

	_, _, err = d.Play(context.Background(), 1, 2, ActionStand)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestTableEmbed_HidesHoleCard(t *testing.T) {
	table := &Table{UserID: 2, Game: games.NewBlackjackFromShoe(100, spades(10, 6, 10, 7))}

	embed := tableEmbed(table, nil, false)
	assert.Equal(t, "10♠ 🂠", embed.Fields[1].Value)
	assert.Len(t, tableComponents(table), 1)

	require.NoError(t, table.Game.Stand())
	settlement := &interfaces.GameSettlement{Result: table.Game.Result, BalanceAfter: 900}
	embed = tableEmbed(table, settlement, true)
	assert.Equal(t, "10♠ 7♠ (17)", embed.Fields[1].Value)
	assert.Contains(t, embed.Description, "timed out")
	assert.Nil(t, tableComponents(table))
}
