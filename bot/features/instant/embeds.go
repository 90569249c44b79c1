package instant

import (
	"fmt"
	"strings"

	"guildbot/bot/common"
	"guildbot/domain/games"

	"github.com/bwmarrin/discordgo"
)

func resultEmbed(title, body string, result games.Result, balance int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: body + "\n\n" + common.FormatGameResult(result, balance),
		Color:       common.OutcomeColor(result.Outcome),
	}
}

func coinflipEmbed(res *games.CoinflipResult, balance int64) *discordgo.MessageEmbed {
	body := fmt.Sprintf("You called **%s**. The coin landed on **%s**.\nWin chance this flip: **%d%%**",
		res.Call, res.Landed, res.WinChance)
	return resultEmbed("🪙 Coin Flip", body, res.Result, balance)
}

func diceEmbed(res *games.DiceResult, balance int64) *discordgo.MessageEmbed {
	body := fmt.Sprintf("🎲 You rolled **%d**\n🎲 Dealer rolled **%d**", res.PlayerRoll, res.DealerRoll)
	return resultEmbed("🎲 Dice Duel", body, res.Result, balance)
}

func rpsEmbed(res *games.RPSResult, balance int64) *discordgo.MessageEmbed {
	body := fmt.Sprintf("You: %s **%s**\nHouse: %s **%s**",
		res.Player.Emoji(), res.Player, res.House.Emoji(), res.House)
	return resultEmbed("✂️ Rock Paper Scissors", body, res.Result, balance)
}

func slotsEmbed(res *games.SlotsResult, balance int64) *discordgo.MessageEmbed {
	reels := make([]string, len(res.Reels))
	for idx, sym := range res.Reels {
		reels[idx] = sym.Emoji
	}
	body := "| " + strings.Join(reels, " | ") + " |"
	if res.Multiplier > 0 {
		body += fmt.Sprintf("\nPays **%dx**", res.Multiplier)
	}
	return resultEmbed("🎰 Slots", body, res.Result, balance)
}

func lotteryEmbed(res *games.LotteryResult, balance int64) *discordgo.MessageEmbed {
	body := fmt.Sprintf("Ticket price: **%s**\nNo prize this time.", common.FormatBits(games.TicketPrice))
	if res.Tier != nil {
		body = fmt.Sprintf("Ticket price: **%s**\n🎟️ **%s** prize, **%dx**!",
			common.FormatBits(games.TicketPrice), res.Tier.Name, res.Tier.Multiplier)
	}
	return resultEmbed("🎟️ Instant Lottery", body, res.Result, balance)
}
