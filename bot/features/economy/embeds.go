package economy

import (
	"fmt"
	"strings"

	"guildbot/bot/common"
	"guildbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

var medals = []string{"🥇", "🥈", "🥉"}

func buildLeaderboardEmbed(entries []*entities.LedgerEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Leaderboard",
		Color: common.ColorPrimary,
	}

	if len(entries) == 0 {
		embed.Description = "Nobody has any bits yet. Try `/daily`!"
		return embed
	}

	var b strings.Builder
	for idx, entry := range entries {
		rank := fmt.Sprintf("`#%d`", idx+1)
		if idx < len(medals) {
			rank = medals[idx]
		}
		fmt.Fprintf(&b, "%s %s **%s**\n", rank, common.GetUserMention(entry.UserID), common.FormatBits(entry.Balance))
	}
	embed.Description = b.String()
	return embed
}

func buildStatsEmbed(username string, stats *entities.UserStats) *discordgo.MessageEmbed {
	entry := stats.Entry
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Stats for %s", username),
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Balance", Value: common.FormatBits(entry.Balance), Inline: true},
			{Name: "Record", Value: fmt.Sprintf("%dW / %dL", entry.Wins, entry.Losses), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.1f%%", entry.WinRate()), Inline: true},
		},
	}

	if entry.LastDaily != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Last daily: " + entry.LastDaily.Format("2006-01-02"),
		}
	}

	for _, game := range stats.Games {
		if len(embed.Fields) >= common.MaxEmbedFields-1 {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   game.Game,
			Value:  fmt.Sprintf("%dW / %dL", game.Wins, game.Losses),
			Inline: true,
		})
	}

	if len(stats.Recent) > 0 {
		lines := make([]string, 0, len(stats.Recent))
		for _, h := range stats.Recent {
			lines = append(lines, fmt.Sprintf("`%+d` %s", h.ChangeAmount, h.Description()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent activity",
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
