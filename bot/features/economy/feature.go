package economy

import (
	"time"

	"guildbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature serves the ledger commands: /balance, /daily, /donate, /leaderboard, /stats
// and the admin-only /setbalance
type Feature struct {
	economy  common.Economy
	location *time.Location
	now      func() time.Time
}

// NewFeature creates the economy feature. location decides when a new daily day starts.
func NewFeature(economy common.Economy, location *time.Location) *Feature {
	return &Feature{
		economy:  economy,
		location: location,
		now:      time.Now,
	}
}

// HandleCommand routes an economy slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleDaily(s, i)
	case "donate":
		f.handleDonate(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "stats":
		f.handleStats(s, i)
	case "setbalance":
		f.handleSetBalance(s, i)
	}
}
