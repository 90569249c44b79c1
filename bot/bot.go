package bot

import (
	"fmt"
	"time"

	"guildbot/bot/common"
	"guildbot/bot/features/assistant"
	"guildbot/bot/features/blackjack"
	"guildbot/bot/features/economy"
	"guildbot/bot/features/instant"
	"guildbot/bot/features/ladder"
	"guildbot/bot/features/rank"
	"guildbot/bot/features/scheduler"
	"guildbot/domain/games"
	"guildbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	GuildID     string
	Location    *time.Location
	GameTimeout time.Duration
}

// Dependencies are the services the features run on. Assistant and Ranks are optional;
// their commands are not registered when nil.
type Dependencies struct {
	Economy   common.Economy
	Scheduler interfaces.SchedulerService
	Random    games.RandomSource
	Assistant assistant.Assistant
	Ranks     rank.RankLookup
}

type commandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

type command struct {
	definition *discordgo.ApplicationCommand
	handle     commandHandler
}

type Bot struct {
	config    Config
	session   *discordgo.Session
	commands  map[string]command
	blackjack *blackjack.Feature
	ladder    *ladder.Feature
}

// NewSession creates the Discord session without connecting it
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return dg, nil
}

// New wires the features onto the session, connects and registers slash commands
func New(config Config, dg *discordgo.Session, deps Dependencies) (*Bot, error) {
	bot, err := newBot(config, dg, deps)
	if err != nil {
		return nil, err
	}

	dg.AddHandler(bot.handleInteraction)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Discord session ready")
	})

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func newBot(config Config, dg *discordgo.Session, deps Dependencies) (*Bot, error) {
	if deps.Random == nil {
		deps.Random = games.DefaultSource()
	}

	bot := &Bot{
		config:   config,
		session:  dg,
		commands: make(map[string]command),
	}

	economyFeature := economy.NewFeature(deps.Economy, config.Location)
	for _, def := range economyCommands() {
		bot.addCommand(def, economyFeature.HandleCommand)
	}

	instantFeature := instant.NewFeature(deps.Economy, deps.Random)
	bot.blackjack = blackjack.NewFeature(dg, deps.Economy, deps.Random, config.GameTimeout)
	ladderFeature, err := ladder.NewFeature(dg, deps.Economy, deps.Random, config.GameTimeout)
	if err != nil {
		return nil, fmt.Errorf("error creating ladder feature: %w", err)
	}
	bot.ladder = ladderFeature
	for _, def := range gameCommands() {
		switch def.Name {
		case "blackjack":
			bot.addCommand(def, bot.blackjack.HandleCommand)
		case "ladder":
			bot.addCommand(def, bot.ladder.HandleCommand)
		default:
			bot.addCommand(def, instantFeature.HandleCommand)
		}
	}

	scheduleFeature := scheduler.NewFeature(deps.Scheduler, config.Location)
	bot.addCommand(scheduleCommand(), scheduleFeature.HandleCommand)

	if deps.Assistant != nil {
		assistantFeature := assistant.NewFeature(deps.Assistant)
		for _, def := range assistantCommands() {
			bot.addCommand(def, assistantFeature.HandleCommand)
		}
	} else {
		log.Info("OpenAI key not configured, /ask and /translate disabled")
	}

	if deps.Ranks != nil {
		bot.addCommand(rankCommand(), rank.NewFeature(deps.Ranks).HandleCommand)
	} else {
		log.Info("Riot key not configured, /rank disabled")
	}

	return bot, nil
}

func (b *Bot) addCommand(def *discordgo.ApplicationCommand, handle commandHandler) {
	b.commands[def.Name] = command{definition: def, handle: handle}
}

// Close drops open game sessions and disconnects
func (b *Bot) Close() error {
	b.blackjack.Close()
	b.ladder.Close()
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.commands[name]
		if !ok {
			log.WithField("command", name).Warn("Unknown slash command")
			return
		}
		cmd.handle(s, i)

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case blackjack.IsBlackjackComponent(customID):
			b.blackjack.HandleInteraction(s, i)
		case ladder.IsLadderComponent(customID):
			b.ladder.HandleInteraction(s, i)
		default:
			log.WithField("custom_id", customID).Debug("Unhandled component interaction")
		}
	}
}
