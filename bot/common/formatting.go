package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"guildbot/domain/games"
	"guildbot/domain/utils"
)

// FormatBits formats an amount with thousand separators and the currency suffix
func FormatBits(amount int64) string {
	return utils.FormatBalance(amount) + " bits"
}

// FormatGameResult summarises a settled game for the player
func FormatGameResult(result games.Result, balanceAfter int64) string {
	switch result.Outcome {
	case games.OutcomeWin:
		return fmt.Sprintf("🎉 **You won!** You gained **%s**. New balance: **%s**",
			FormatBits(result.Net()), FormatBits(balanceAfter))
	case games.OutcomePush:
		return fmt.Sprintf("🤝 **Push.** Your **%s** stake was returned. Balance: **%s**",
			FormatBits(result.Bet), FormatBits(balanceAfter))
	default:
		return fmt.Sprintf("😔 **You lost!** You lost **%s**. New balance: **%s**",
			FormatBits(result.Bet), FormatBits(balanceAfter))
	}
}

// FormatTransferResult is the reply to a successful /donate.
func FormatTransferResult(amount int64, recipientID string, senderBalance int64) string {
	return fmt.Sprintf("✅ donated **%s** to <@%s>. Your balance: **%s**",
		FormatBits(amount), recipientID, FormatBits(senderBalance))
}

// FormatDiscordTimestamp renders t as a <t:unix:style> tag that each client shows in its
// own timezone. Styles used here are "f" (short date/time) and "F" (long date/time).
func FormatDiscordTimestamp(t time.Time, style string) string {
	return "<t:" + strconv.FormatInt(t.Unix(), 10) + ":" + style + ">"
}

var durationUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

// FormatDuration renders d as e.g. "2d 14h 30m", dropping zero units and seconds.
// Anything under a minute is "< 1m".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}
	var parts []string
	for _, unit := range durationUnits {
		if n := d / unit.size; n > 0 {
			parts = append(parts, strconv.FormatInt(int64(n), 10)+unit.suffix)
			d -= n * unit.size
		}
	}
	return strings.Join(parts, " ")
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
