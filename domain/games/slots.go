package games

// Symbol is a slot reel symbol
type Symbol struct {
	Name   string
	Emoji  string
	Weight int
	// Triple is the payout multiplier for three of this symbol
	Triple int64
}

// Reel symbols, shared by all three reels. Weights sum to 100.
var SlotSymbols = []Symbol{
	{Name: "cherry", Emoji: "🍒", Weight: 35, Triple: 5},
	{Name: "lemon", Emoji: "🍋", Weight: 25, Triple: 8},
	{Name: "orange", Emoji: "🍊", Weight: 18, Triple: 10},
	{Name: "bell", Emoji: "🔔", Weight: 12, Triple: 20},
	{Name: "star", Emoji: "⭐", Weight: 7, Triple: 50},
	{Name: "diamond", Emoji: "💎", Weight: 3, Triple: 100},
}

// cherryPairMultiplier pays when exactly two reels show a cherry
const cherryPairMultiplier = 2

// SlotsResult describes a resolved spin
type SlotsResult struct {
	Result
	Reels      [3]Symbol
	Multiplier int64
}

// Slots spins three weighted reels and pays from a fixed multiplier table
func Slots(bet int64, rng RandomSource) (*SlotsResult, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}

	var reels [3]Symbol
	for i := range reels {
		reels[i] = spinReel(rng)
	}

	multiplier := slotsMultiplier(reels)
	outcome := OutcomeLoss
	if multiplier > 0 {
		outcome = OutcomeWin
	}

	return &SlotsResult{
		Result:     settle(GameSlots, bet, outcome, multiplier, 1),
		Reels:      reels,
		Multiplier: multiplier,
	}, nil
}

func spinReel(rng RandomSource) Symbol {
	total := 0
	for _, s := range SlotSymbols {
		total += s.Weight
	}

	roll := rng.Intn(total)
	for _, s := range SlotSymbols {
		if roll < s.Weight {
			return s
		}
		roll -= s.Weight
	}
	return SlotSymbols[len(SlotSymbols)-1]
}

func slotsMultiplier(reels [3]Symbol) int64 {
	if reels[0].Name == reels[1].Name && reels[1].Name == reels[2].Name {
		return reels[0].Triple
	}

	cherries := 0
	for _, r := range reels {
		if r.Name == "cherry" {
			cherries++
		}
	}
	if cherries == 2 {
		return cherryPairMultiplier
	}
	return 0
}
