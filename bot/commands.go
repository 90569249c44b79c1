package bot

import (
	"fmt"

	"guildbot/bot/common"
	"guildbot/domain/games"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var minBet = 1.0

var adminPermission int64 = discordgo.PermissionAdministrator

func betOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "bet",
		Description: description,
		Required:    required,
		MinValue:    &minBet,
	}
}

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Channel to post in (defaults to this one)",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

func messageOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message",
		Description: "Message to post",
		Required:    true,
		MaxLength:   common.MaxMessageLength,
	}
}

func economyCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "daily",
			Description: "Claim your daily reward",
		},
		{
			Name:        "donate",
			Description: "Transfer bits to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to donate to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to donate in bits",
					Required:    true,
					MinValue:    &minBet,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest members of this server",
		},
		{
			Name:        "stats",
			Description: "Show gambling stats",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
				},
			},
		},
		{
			Name:                     "setbalance",
			Description:              "Set a member's balance (administrators only)",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member whose balance to set",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "New balance in bits",
					Required:    true,
				},
			},
		},
	}
}

func gameCommands() []*discordgo.ApplicationCommand {
	maxColumns := float64(games.MaxLadderColumns)
	minColumns := float64(games.MinLadderColumns)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "coinflip",
			Description: "Flip a coin for double or nothing",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Amount to bet in bits", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "Heads or tails",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Heads", Value: string(games.Heads)},
						{Name: "Tails", Value: string(games.Tails)},
					},
				},
			},
		},
		{
			Name:        "dice",
			Description: "Roll a die against the dealer",
			Options:     []*discordgo.ApplicationCommandOption{betOption("Amount to bet in bits", true)},
		},
		{
			Name:        "rps",
			Description: "Play rock-paper-scissors against the bot",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Amount to bet in bits", true),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "hand",
					Description: "Your throw",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Rock", Value: "rock"},
						{Name: "Paper", Value: "paper"},
						{Name: "Scissors", Value: "scissors"},
					},
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options:     []*discordgo.ApplicationCommandOption{betOption("Amount to bet in bits", true)},
		},
		{
			Name:        "lottery",
			Description: fmt.Sprintf("Scratch an instant lottery ticket (%d bits)", games.TicketPrice),
		},
		{
			Name:        "blackjack",
			Description: "Play a hand of blackjack",
			Options:     []*discordgo.ApplicationCommandOption{betOption("Amount to bet in bits", true)},
		},
		{
			Name:        "ladder",
			Description: "Pick a column and follow the ladder down",
			Options: []*discordgo.ApplicationCommandOption{
				betOption("Amount to bet in bits", true),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "columns",
					Description: "Number of columns, the prize pays this many times your bet",
					MinValue:    &minColumns,
					MaxValue:    maxColumns,
				},
			},
		},
	}
}

func scheduleCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "schedule",
		Description: "Schedule messages in this server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "once",
				Description: "Post a message once at a given time",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "when",
						Description: "YYYY-MM-DD HH:MM, HH:MM, or an offset like 30m / 2h / 1d",
						Required:    true,
					},
					messageOption(),
					channelOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "recurring",
				Description: "Post a message on a repeating schedule",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "repeat",
						Description: "How often to post",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "Every N hours", Value: "hourly"},
							{Name: "Daily", Value: "daily"},
							{Name: "Weekly", Value: "weekly"},
							{Name: "Monthly", Value: "monthly"},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "value",
						Description: "Hours: 3 | Daily: 09:30 | Weekly: mon 09:30 | Monthly: 15 09:30",
						Required:    true,
					},
					messageOption(),
					channelOption(),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List scheduled messages",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cancel",
				Description: "Cancel one of your scheduled messages",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "ID shown by /schedule list",
						Required:    true,
					},
				},
			},
		},
	}
}

func assistantCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ask",
			Description: "Ask the assistant a question",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "question",
					Description: "What do you want to know?",
					Required:    true,
				},
			},
		},
		{
			Name:        "translate",
			Description: "Translate text",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Text to translate",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "language",
					Description: "Target language (defaults to English)",
				},
			},
		},
	}
}

func rankCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "rank",
		Description: "Look up League of Legends ranked standings",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "riot_id",
				Description: "Riot ID, e.g. Hide on bush#KR1",
				Required:    true,
			},
		},
	}
}

// registerCommands replaces the application's commands with the enabled ones
func (b *Bot) registerCommands() error {
	commands := make([]*discordgo.ApplicationCommand, 0, len(b.commands))
	for _, cmd := range b.commands {
		commands = append(commands, cmd.definition)
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	log.WithFields(log.Fields{
		"count":    len(registered),
		"guild_id": b.config.GuildID,
	}).Info("Registered slash commands")
	return nil
}
