package rank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guildbot/bot/common"
	"guildbot/infrastructure/riot"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const lookupTimeout = 15 * time.Second

// RankLookup resolves a Riot ID to its ranked standings
type RankLookup interface {
	LookupRank(ctx context.Context, riotID string) (*riot.RankSummary, error)
}

// Feature serves /rank
type Feature struct {
	lookup RankLookup
}

func NewFeature(lookup RankLookup) *Feature {
	return &Feature{lookup: lookup}
}

// HandleCommand looks up the requested Riot ID
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := common.OptionMap(i.ApplicationCommandData().Options)
	riotID := common.StringOption(opts, "riot_id", "")

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring /rank: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	summary, err := f.lookup.LookupRank(ctx, riotID)
	if err != nil {
		common.HandleError(s, i, translateError(riotID, err), true)
		return
	}

	embeds := []*discordgo.MessageEmbed{rankEmbed(summary)}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		log.Errorf("Error editing /rank response: %v", err)
	}
}

func rankEmbed(summary *riot.RankSummary) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 %s#%s", summary.Account.GameName, summary.Account.TagLine),
		Color: common.ColorInfo,
	}
	if len(summary.Entries) == 0 {
		embed.Description = "No ranked games this season."
		return embed
	}

	for _, entry := range summary.Entries {
		value := fmt.Sprintf("**%s**\n%dW %dL (%.1f%%)", entry.String(), entry.Wins, entry.Losses, entry.WinRate())
		if entry.HotStreak {
			value += " 🔥"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   riot.QueueName(entry.QueueType),
			Value:  value,
			Inline: true,
		})
	}
	return embed
}

func translateError(riotID string, err error) error {
	switch {
	case errors.Is(err, riot.ErrInvalidRiotID):
		return common.NewUserError("Riot IDs look like `name#tag`.", err.Error())
	case errors.Is(err, riot.ErrNotFound):
		return common.NewUserError(fmt.Sprintf("No Riot account named `%s` was found.", riotID), err.Error())
	}
	return common.NewSystemError(err, "rank lookup failed")
}
