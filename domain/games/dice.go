package games

// DiceResult describes a resolved dice duel
type DiceResult struct {
	Result
	PlayerRoll int
	DealerRoll int
}

// Dice rolls 1d6 for the player and the dealer. Higher roll pays 2x, a tie refunds.
func Dice(bet int64, rng RandomSource) (*DiceResult, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}

	player := rng.Intn(6) + 1
	dealer := rng.Intn(6) + 1

	outcome := OutcomeLoss
	switch {
	case player > dealer:
		outcome = OutcomeWin
	case player == dealer:
		outcome = OutcomePush
	}

	return &DiceResult{
		Result:     settle(GameDice, bet, outcome, 2, 1),
		PlayerRoll: player,
		DealerRoll: dealer,
	}, nil
}
