package instant

import (
	"testing"

	"guildbot/bot/common"
	"guildbot/domain/games"
	"guildbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiceEmbed(t *testing.T) {
	res, err := games.Dice(300, &testhelpers.ScriptedRandom{Ints: []int{5, 2}})
	require.NoError(t, err)

	embed := diceEmbed(res, 1300)
	assert.Equal(t, common.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "You rolled **6**")
	assert.Contains(t, embed.Description, "Dealer rolled **3**")
	assert.Contains(t, embed.Description, "New balance: **1,300 bits**")
}

func TestRPSEmbed_Draw(t *testing.T) {
	res, err := games.RockPaperScissors(100, games.Rock, &testhelpers.ScriptedRandom{Ints: []int{int(games.Rock)}})
	require.NoError(t, err)

	embed := rpsEmbed(res, 1000)
	assert.Equal(t, common.ColorWarning, embed.Color)
	assert.Contains(t, embed.Description, "Push")
}

func TestCoinflipEmbed_Loss(t *testing.T) {
	// chance 30 + 0, roll 99 loses
	res, err := games.Coinflip(100, games.Heads, &testhelpers.ScriptedRandom{Ints: []int{0, 99}})
	require.NoError(t, err)

	embed := coinflipEmbed(res, 900)
	assert.Equal(t, common.ColorDanger, embed.Color)
	assert.Contains(t, embed.Description, "landed on **tails**")
	assert.Contains(t, embed.Description, "**30%**")
}

func TestLotteryEmbed(t *testing.T) {
	winner := games.Lottery(&testhelpers.ScriptedRandom{Floats: []float64{0.0005}})
	embed := lotteryEmbed(winner, 100000)
	assert.Contains(t, embed.Description, "Jackpot")

	loser := games.Lottery(&testhelpers.ScriptedRandom{Floats: []float64{0.99}})
	embed = lotteryEmbed(loser, 0)
	assert.Contains(t, embed.Description, "No prize")
}
