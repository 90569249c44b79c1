package games

import (
	"fmt"
	"strings"

	"guildbot/domain"
)

// Hand is a rock-paper-scissors throw
type Hand int

const (
	Rock Hand = iota
	Paper
	Scissors
)

func (h Hand) String() string {
	switch h {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	default:
		return "scissors"
	}
}

// Emoji returns the display emoji for the hand
func (h Hand) Emoji() string {
	switch h {
	case Rock:
		return "✊"
	case Paper:
		return "✋"
	default:
		return "✌️"
	}
}

// beats reports whether h beats other
func (h Hand) beats(other Hand) bool {
	return (h+3-other)%3 == 1
}

// ParseHand accepts rock/paper/scissors
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "s":
		return Scissors, nil
	}
	return 0, domain.NewValidationError("hand", fmt.Sprintf("expected rock, paper or scissors, got %q", s))
}

// RPSResult describes a resolved rock-paper-scissors round
type RPSResult struct {
	Result
	Player Hand
	House  Hand
}

// RockPaperScissors plays one round against the house. A win pays 2x, a draw refunds.
func RockPaperScissors(bet int64, player Hand, rng RandomSource) (*RPSResult, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}

	house := Hand(rng.Intn(3))

	outcome := OutcomeLoss
	switch {
	case player == house:
		outcome = OutcomePush
	case player.beats(house):
		outcome = OutcomeWin
	}

	return &RPSResult{
		Result: settle(GameRPS, bet, outcome, 2, 1),
		Player: player,
		House:  house,
	}, nil
}
