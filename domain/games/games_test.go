package games

import (
	"errors"
	"math/rand"
	"testing"

	"guildbot/domain"
	"guildbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinflip(t *testing.T) {
	t.Run("win pays double", func(t *testing.T) {
		// chance 30 + 20 = 50, roll 10 < 50
		rng := &testhelpers.ScriptedRandom{Ints: []int{20, 10}}
		result, err := Coinflip(300, Heads, rng)
		require.NoError(t, err)

		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Equal(t, int64(600), result.Payout)
		assert.Equal(t, Heads, result.Landed)
		assert.Equal(t, 50, result.WinChance)
		assert.Equal(t, int64(300), result.Net())
	})

	t.Run("loss pays nothing", func(t *testing.T) {
		rng := &testhelpers.ScriptedRandom{Ints: []int{0, 99}}
		result, err := Coinflip(300, Tails, rng)
		require.NoError(t, err)

		assert.Equal(t, OutcomeLoss, result.Outcome)
		assert.Equal(t, int64(0), result.Payout)
		assert.Equal(t, Heads, result.Landed)
		assert.Equal(t, 30, result.WinChance)
	})

	t.Run("chance stays in range", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 500; i++ {
			result, err := Coinflip(10, Heads, rng)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.WinChance, 30)
			assert.LessOrEqual(t, result.WinChance, 70)
		}
	})

	t.Run("rejects non-positive bet", func(t *testing.T) {
		_, err := Coinflip(0, Heads, DefaultSource())
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestParseSide(t *testing.T) {
	side, err := ParseSide("H")
	require.NoError(t, err)
	assert.Equal(t, Heads, side)

	_, err = ParseSide("edge")
	assert.Error(t, err)
}

func TestDice(t *testing.T) {
	tests := []struct {
		name    string
		rolls   []int
		outcome Outcome
		payout  int64
	}{
		{"player higher", []int{5, 2}, OutcomeWin, 200},
		{"tie refunds", []int{3, 3}, OutcomePush, 100},
		{"dealer higher", []int{0, 5}, OutcomeLoss, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Dice(100, &testhelpers.ScriptedRandom{Ints: tt.rolls})
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.payout, result.Payout)
			assert.Equal(t, tt.rolls[0]+1, result.PlayerRoll)
			assert.Equal(t, tt.rolls[1]+1, result.DealerRoll)
		})
	}
}

func TestRockPaperScissors(t *testing.T) {
	tests := []struct {
		player  Hand
		house   int
		outcome Outcome
		payout  int64
	}{
		{Rock, int(Scissors), OutcomeWin, 100},
		{Rock, int(Paper), OutcomeLoss, 0},
		{Rock, int(Rock), OutcomePush, 50},
		{Paper, int(Rock), OutcomeWin, 100},
		{Scissors, int(Paper), OutcomeWin, 100},
		{Scissors, int(Rock), OutcomeLoss, 0},
	}

	for _, tt := range tests {
		t.Run(tt.player.String()+"_vs_"+Hand(tt.house).String(), func(t *testing.T) {
			result, err := RockPaperScissors(50, tt.player, &testhelpers.ScriptedRandom{Ints: []int{tt.house}})
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.payout, result.Payout)
		})
	}
}

func TestSlots(t *testing.T) {
	t.Run("triple diamonds", func(t *testing.T) {
		// diamond occupies the last 3 weights: rolls 97..99
		rng := &testhelpers.ScriptedRandom{Ints: []int{97, 98, 99}}
		result, err := Slots(10, rng)
		require.NoError(t, err)
		assert.Equal(t, int64(100), result.Multiplier)
		assert.Equal(t, int64(1000), result.Payout)
		assert.Equal(t, OutcomeWin, result.Outcome)
	})

	t.Run("pair of cherries", func(t *testing.T) {
		rng := &testhelpers.ScriptedRandom{Ints: []int{0, 40, 34}}
		result, err := Slots(10, rng)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Multiplier)
		assert.Equal(t, int64(20), result.Payout)
	})

	t.Run("no match", func(t *testing.T) {
		rng := &testhelpers.ScriptedRandom{Ints: []int{0, 40, 70}}
		result, err := Slots(10, rng)
		require.NoError(t, err)
		assert.Equal(t, OutcomeLoss, result.Outcome)
		assert.Equal(t, int64(0), result.Payout)
	})

	t.Run("weights sum to 100", func(t *testing.T) {
		total := 0
		for _, s := range SlotSymbols {
			total += s.Weight
		}
		assert.Equal(t, 100, total)
	})
}

func TestLottery(t *testing.T) {
	tests := []struct {
		roll   float64
		tier   string
		payout int64
	}{
		{0.0005, "Jackpot", 100 * TicketPrice},
		{0.005, "Gold", 20 * TicketPrice},
		{0.03, "Silver", 5 * TicketPrice},
		{0.2, "Bronze", 2 * TicketPrice},
		{0.5, "", 0},
	}

	for _, tt := range tests {
		result := Lottery(&testhelpers.ScriptedRandom{Floats: []float64{tt.roll}})
		assert.Equal(t, tt.payout, result.Payout, "roll %v", tt.roll)
		assert.Equal(t, TicketPrice, result.Bet)
		if tt.tier == "" {
			assert.Nil(t, result.Tier)
			assert.Equal(t, OutcomeLoss, result.Outcome)
		} else {
			require.NotNil(t, result.Tier)
			assert.Equal(t, tt.tier, result.Tier.Name)
		}
	}
}

func TestLadder(t *testing.T) {
	t.Run("column count is validated", func(t *testing.T) {
		for _, columns := range []int{-1, 0, 1, 7} {
			_, err := NewLadder(columns, DefaultSource())
			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr), "columns %d", columns)
		}
	})

	t.Run("rungs never touch and trace is a permutation", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for columns := MinLadderColumns; columns <= MaxLadderColumns; columns++ {
			ladder, err := NewLadder(columns, rng)
			require.NoError(t, err)

			for _, row := range ladder.Rungs {
				for gap := 1; gap < len(row); gap++ {
					assert.False(t, row[gap] && row[gap-1])
				}
			}

			seen := make(map[int]bool)
			for start := 0; start < columns; start++ {
				end := ladder.Trace(start)
				assert.False(t, seen[end])
				seen[end] = true

				path := ladder.Path(start)
				assert.Equal(t, end, path[len(path)-1])
			}
			assert.Len(t, seen, columns)
		}
	})

	t.Run("winning slot pays columns times", func(t *testing.T) {
		ladder := &Ladder{Columns: 3, Rungs: [][]bool{{true, false}}, WinningSlot: 1}

		result, err := ladder.Play(100, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, result.End)
		assert.Equal(t, OutcomeWin, result.Outcome)
		assert.Equal(t, int64(300), result.Payout)

		result, err = ladder.Play(100, 2)
		require.NoError(t, err)
		assert.Equal(t, OutcomeLoss, result.Outcome)

		_, err = ladder.Play(100, 3)
		assert.Error(t, err)
	})
}
