package common

import "guildbot/domain/games"

// Embed colors
const (
	ColorPrimary = 0x5865F2
	ColorSuccess = 0x57F287
	ColorDanger  = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0x3498DB
)

// Discord limits
const (
	MaxButtonsPerRow  = 5
	MaxEmbedFields    = 25
	MaxMessageLength  = 2000
	CustomIDSeparator = ":"
)

const genericFailure = "Something went wrong. Please try again later."

// OutcomeColor picks the embed color for a settled game: green for a win, yellow for a
// refund, red otherwise.
func OutcomeColor(outcome games.Outcome) int {
	switch outcome {
	case games.OutcomeWin:
		return ColorSuccess
	case games.OutcomePush:
		return ColorWarning
	default:
		return ColorDanger
	}
}
