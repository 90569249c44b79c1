package games

// TicketPrice is the fixed cost of one instant lottery ticket
const TicketPrice int64 = 1000

// LotteryTier is one row of the instant lottery payout table
type LotteryTier struct {
	Name        string
	Probability float64
	Multiplier  int64
}

// LotteryTiers is checked in order against a single uniform roll using cumulative
// probability. A roll past the last tier loses.
var LotteryTiers = []LotteryTier{
	{Name: "Jackpot", Probability: 0.001, Multiplier: 100},
	{Name: "Gold", Probability: 0.01, Multiplier: 20},
	{Name: "Silver", Probability: 0.05, Multiplier: 5},
	{Name: "Bronze", Probability: 0.15, Multiplier: 2},
}

// LotteryResult describes a scratched ticket
type LotteryResult struct {
	Result
	Tier *LotteryTier
	Roll float64
}

// Lottery scratches one instant ticket at TicketPrice
func Lottery(rng RandomSource) *LotteryResult {
	roll := rng.Float64()

	var tier *LotteryTier
	cumulative := 0.0
	for i := range LotteryTiers {
		cumulative += LotteryTiers[i].Probability
		if roll < cumulative {
			tier = &LotteryTiers[i]
			break
		}
	}

	result := &LotteryResult{Roll: roll, Tier: tier}
	if tier == nil {
		result.Result = settle(GameLottery, TicketPrice, OutcomeLoss, 0, 1)
	} else {
		result.Result = settle(GameLottery, TicketPrice, OutcomeWin, tier.Multiplier, 1)
	}
	return result
}
