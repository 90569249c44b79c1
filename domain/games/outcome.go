package games

import (
	"fmt"

	"guildbot/domain"
)

// Game names used for stats and history metadata
const (
	GameCoinflip  = "coinflip"
	GameDice      = "dice"
	GameRPS       = "rps"
	GameSlots     = "slots"
	GameBlackjack = "blackjack"
	GameLottery   = "lottery"
	GameLadder    = "ladder"
)

// Outcome is the result of a resolved game from the player's side
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
	OutcomePush
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomePush:
		return "push"
	default:
		return "loss"
	}
}

// Result is what the ledger needs to settle a game. Payout is the total amount returned
// to the player, stake included; 0 on a loss, the stake on a push.
type Result struct {
	Game    string
	Bet     int64
	Payout  int64
	Outcome Outcome
}

// Won reports whether the game counts as a win for stats
func (r Result) Won() bool {
	return r.Outcome == OutcomeWin
}

// Net returns the balance change caused by the game
func (r Result) Net() int64 {
	return r.Payout - r.Bet
}

func settle(game string, bet int64, outcome Outcome, multiplierNum, multiplierDen int64) Result {
	r := Result{Game: game, Bet: bet, Outcome: outcome}
	switch outcome {
	case OutcomeWin:
		r.Payout = bet * multiplierNum / multiplierDen
	case OutcomePush:
		r.Payout = bet
	}
	return r
}

// ValidateBet rejects non-positive stakes
func ValidateBet(bet int64) error {
	if bet <= 0 {
		return domain.NewValidationError("bet", fmt.Sprintf("must be positive, got %d", bet))
	}
	return nil
}
