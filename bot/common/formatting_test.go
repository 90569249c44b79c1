package common

import (
	"testing"
	"time"

	"guildbot/domain/games"

	"github.com/stretchr/testify/assert"
)

func TestFormatGameResult(t *testing.T) {
	tests := []struct {
		name    string
		result  games.Result
		balance int64
		want    string
	}{
		{
			name:    "win",
			result:  games.Result{Game: games.GameDice, Bet: 300, Payout: 600, Outcome: games.OutcomeWin},
			balance: 1300,
			want:    "🎉 **You won!** You gained **300 bits**. New balance: **1,300 bits**",
		},
		{
			name:    "push",
			result:  games.Result{Game: games.GameDice, Bet: 300, Payout: 300, Outcome: games.OutcomePush},
			balance: 1000,
			want:    "🤝 **Push.** Your **300 bits** stake was returned. Balance: **1,000 bits**",
		},
		{
			name:    "loss",
			result:  games.Result{Game: games.GameDice, Bet: 300, Outcome: games.OutcomeLoss},
			balance: 700,
			want:    "😔 **You lost!** You lost **300 bits**. New balance: **700 bits**",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatGameResult(tt.result, tt.balance))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "< 1m", FormatDuration(30*time.Second))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "3h 45m", FormatDuration(3*time.Hour+45*time.Minute))
	assert.Equal(t, "2d 14h 30m", FormatDuration(62*time.Hour+30*time.Minute))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "안녕…", Truncate("안녕하세요", 3))
}
