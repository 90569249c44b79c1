package economy

import (
	"context"
	"fmt"

	"guildbot/bot/common"
	"guildbot/domain/entities"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const leaderboardSize = 10

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	today := entities.Date(f.now(), f.location)
	var balance int64
	var dailyReady bool
	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		if balance, err = ledger.GetBalance(ctx, userID); err != nil {
			return err
		}
		dailyReady, err = ledger.CanClaimDaily(ctx, userID, today)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, balanceMessage(common.DisplayName(i), balance, dailyReady), true)
}

func balanceMessage(name string, balance int64, dailyReady bool) string {
	message := fmt.Sprintf("%s, your current balance: **%s**", name, common.FormatBits(balance))
	if dailyReady {
		message += "\n🎁 Your daily reward is ready, use `/daily` to claim it."
	}
	return message
}

// handleSetBalance is restricted to administrators through the command's default
// member permissions.
func (f *Feature) handleSetBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, adminID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	opts := common.OptionMap(i.ApplicationCommandData().Options)
	amount := common.IntOption(opts, "amount", 0)
	target := common.UserOption(i, opts, "user")
	if target == nil {
		common.HandleError(s, i, common.NewUserError("Invalid target user.", "setbalance without user"), false)
		return
	}
	targetID, err := common.ParseUserID(target.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse target user ID"), false)
		return
	}

	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		return ledger.SetBalance(ctx, targetID, amount)
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"admin_id": adminID,
		"user_id":  targetID,
		"balance":  amount,
	}).Info("Balance set by administrator")

	common.RespondWithContent(s, i, fmt.Sprintf("🛠️ Set <@%s>'s balance to **%s**.", target.ID, common.FormatBits(amount)), true)
}

func (f *Feature) handleDaily(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	today := entities.Date(f.now(), f.location)
	var balance int64
	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		balance, err = ledger.ClaimDaily(ctx, userID, today)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"balance":  balance,
	}).Info("Daily reward claimed")

	message := fmt.Sprintf("💰 You claimed your daily **%s**! New balance: **%s**",
		common.FormatBits(f.economy.Settings.DailyReward), common.FormatBits(balance))
	common.RespondWithContent(s, i, message, false)
}

func (f *Feature) handleDonate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, senderID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	opts := common.OptionMap(i.ApplicationCommandData().Options)
	amount := common.IntOption(opts, "amount", 0)
	recipient := common.UserOption(i, opts, "user")
	if recipient == nil {
		common.HandleError(s, i, common.NewUserError("Invalid recipient user.", "donate without recipient"), false)
		return
	}
	if recipient.Bot {
		common.HandleError(s, i, common.NewUserError("Bots don't need bits.", "donate to bot"), false)
		return
	}

	receiverID, err := common.ParseUserID(recipient.ID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to parse recipient ID"), false)
		return
	}
	if receiverID == senderID {
		common.HandleError(s, i, common.NewUserError("You cannot donate to yourself.", "self donation"), false)
		return
	}

	var result *entities.TransferResult
	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		result, err = ledger.Transfer(ctx, senderID, receiverID, amount)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithContent(s, i, common.FormatTransferResult(result.Amount, recipient.ID, result.SenderBalance), false)
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, _, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var entries []*entities.LedgerEntry
	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		entries, err = ledger.Leaderboard(ctx, leaderboardSize)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildLeaderboardEmbed(entries), nil, false); err != nil {
		log.Errorf("Error responding to leaderboard command: %v", err)
	}
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.GuildAndUser(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	target := common.InteractionUser(i)
	if u := common.UserOption(i, common.OptionMap(i.ApplicationCommandData().Options), "user"); u != nil {
		target = u
		if userID, err = common.ParseUserID(u.ID); err != nil {
			common.HandleError(s, i, common.NewSystemError(err, "failed to parse target user ID"), false)
			return
		}
	}

	var stats *entities.UserStats
	err = f.economy.InGuild(ctx, guildID, func(ledger interfaces.LedgerService, _ interfaces.GamingService) error {
		stats, err = ledger.Stats(ctx, userID)
		return err
	})
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildStatsEmbed(target.Username, stats), nil, false); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}
