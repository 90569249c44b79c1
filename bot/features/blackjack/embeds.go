package blackjack

import (
	"fmt"

	"guildbot/bot/common"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

const componentPrefix = "blackjack"

func handLine(hand games.BlackjackHand, hideHole bool) string {
	if hideHole && len(hand) > 1 {
		return fmt.Sprintf("%s 🂠", hand[0])
	}
	total, soft := hand.Value()
	label := fmt.Sprint(total)
	if soft && total < 21 {
		label = "soft " + label
	}
	return fmt.Sprintf("%s (%s)", hand, label)
}

func tableEmbed(table *Table, settlement *interfaces.GameSettlement, timedOut bool) *discordgo.MessageEmbed {
	game := table.Game
	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Color: common.ColorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Your hand", Value: handLine(game.Player, false), Inline: true},
			{Name: "Dealer", Value: handLine(game.Dealer, !game.Finished), Inline: true},
			{Name: "Bet", Value: common.FormatBits(game.Bet), Inline: true},
		},
	}

	if settlement == nil {
		embed.Description = fmt.Sprintf("%s, hit, stand or double down.", common.GetUserMention(table.UserID))
		return embed
	}

	embed.Color = common.OutcomeColor(settlement.Outcome)
	embed.Description = common.FormatGameResult(settlement.Result, settlement.BalanceAfter)
	if timedOut {
		embed.Description = "⏰ The hand timed out and was forfeited.\n" + embed.Description
	}
	return embed
}

func tableComponents(table *Table) []discordgo.MessageComponent {
	if table.Game.Finished {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Hit",
				Style:    discordgo.PrimaryButton,
				CustomID: common.ComponentID(componentPrefix, ActionHit, table.UserID),
			},
			discordgo.Button{
				Label:    "Stand",
				Style:    discordgo.SecondaryButton,
				CustomID: common.ComponentID(componentPrefix, ActionStand, table.UserID),
			},
			discordgo.Button{
				Label:    "Double",
				Style:    discordgo.SuccessButton,
				CustomID: common.ComponentID(componentPrefix, ActionDouble, table.UserID),
				Disabled: !table.Game.CanDouble(),
			},
		}},
	}
}
