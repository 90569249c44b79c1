package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"guildbot/bot"
	"guildbot/bot/common"
	"guildbot/config"
	"guildbot/database"
	"guildbot/domain/services"
	"guildbot/events"
	"guildbot/infrastructure"
	"guildbot/infrastructure/metrics"
	"guildbot/infrastructure/openai"
	"guildbot/infrastructure/riot"
	"guildbot/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	configureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting guildbot...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	// Initialize event bus and its subscribers
	eventBus := events.NewBus()
	metrics.Subscribe(eventBus)

	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		infrastructure.NewEventForwarder(natsClient).Attach(eventBus)
		log.Info("Forwarding events to NATS")
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	economy := common.Economy{
		UoWFactory: uowFactory,
		Settings: services.LedgerSettings{
			StartingBalance: cfg.StartingBalance,
			DailyReward:     cfg.DailyReward,
		},
	}

	// Discord session first: the scheduler delivers through it
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	scheduler := services.NewSchedulerService(
		repository.NewScheduledJobRepository(db),
		bot.NewChannelDeliverer(session),
		eventBus,
		cfg.Location(),
	)

	deps := bot.Dependencies{
		Economy:   economy,
		Scheduler: scheduler,
	}
	if cfg.OpenAIAPIKey != "" {
		deps.Assistant = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	if cfg.RiotAPIKey != "" {
		deps.Ranks = riot.NewClient(cfg.RiotAPIKey, cfg.RiotRegion, cfg.RiotPlatform)
	}

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		GuildID:     cfg.GuildID,
		Location:    cfg.Location(),
		GameTimeout: cfg.GameTimeout,
	}, session, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stop := bot.StartScheduleWorker(gctx, scheduler, cfg.SchedulerPollInterval)
		<-gctx.Done()
		stop()
		return nil
	})

	if cfg.MetricsAddr != "" {
		server := metrics.NewServer(cfg.MetricsAddr)
		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	err = g.Wait()

	log.Info("Shutting down bot...")
	if closeErr := discordBot.Close(); closeErr != nil {
		log.Errorf("Error closing Discord bot: %v", closeErr)
	}
	eventBus.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
