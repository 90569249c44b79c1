package games

import (
	"fmt"
	"strings"

	"guildbot/domain"
)

// Coin side
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// Win chance bounds in percent; each flip rolls a chance uniformly in this range.
const (
	coinflipMinChance = 30
	coinflipMaxChance = 70
)

// CoinflipResult describes a resolved flip
type CoinflipResult struct {
	Result
	Call      Side
	Landed    Side
	WinChance int
}

// ParseSide accepts heads/tails and their first letters
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heads", "h":
		return Heads, nil
	case "tails", "t":
		return Tails, nil
	}
	return "", domain.NewValidationError("side", fmt.Sprintf("expected heads or tails, got %q", s))
}

// Coinflip flips a coin whose win chance is itself random. A win pays 2x the stake.
func Coinflip(bet int64, call Side, rng RandomSource) (*CoinflipResult, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}
	if call != Heads && call != Tails {
		return nil, domain.NewValidationError("side", "expected heads or tails")
	}

	chance := coinflipMinChance + rng.Intn(coinflipMaxChance-coinflipMinChance+1)
	won := rng.Intn(100) < chance

	landed := call
	outcome := OutcomeWin
	if !won {
		landed = opposite(call)
		outcome = OutcomeLoss
	}

	return &CoinflipResult{
		Result:    settle(GameCoinflip, bet, outcome, 2, 1),
		Call:      call,
		Landed:    landed,
		WinChance: chance,
	}, nil
}

func opposite(s Side) Side {
	if s == Heads {
		return Tails
	}
	return Heads
}
