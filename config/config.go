package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"guildbot/database"
)

// Config holds all application configuration. It is loaded once at start-up and passed
// explicitly to every component that needs it.
type Config struct {
	// Discord configuration
	DiscordToken string `validate:"required_unless=Environment test"`
	GuildID      string // Register slash commands to this guild only (faster propagation)

	// Database configuration
	DatabaseURL  string `validate:"required_unless=Environment test"`
	DatabaseName string

	// Canonical timezone for schedules and daily resets
	Timezone string `validate:"required"`

	// Scheduler configuration
	SchedulerPollInterval time.Duration `validate:"min=1s"`

	// Economy configuration
	StartingBalance int64 `validate:"gte=0"`
	DailyReward     int64 `validate:"gt=0"`
	GameTimeout     time.Duration `validate:"min=10s,max=15m"`

	// OpenAI configuration (ask / translate are disabled when the key is empty)
	OpenAIAPIKey string
	OpenAIModel  string `validate:"required"`

	// Riot configuration (rank lookups are disabled when the key is empty)
	RiotAPIKey   string
	RiotRegion   string `validate:"oneof=americas asia europe sea"`
	RiotPlatform string `validate:"required"`

	// NATS configuration (event forwarding is disabled when empty)
	NATSServers string

	// Metrics endpoint, e.g. ":9100" (disabled when empty)
	MetricsAddr string

	LogLevel    string `validate:"oneof=trace debug info warn error"`
	Environment string `validate:"oneof=development production test"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		Timezone:              getEnvWithDefault("TIMEZONE", "Asia/Seoul"),
		SchedulerPollInterval: 30 * time.Second,

		StartingBalance: 0,
		DailyReward:     10000,
		GameTimeout:     120 * time.Second,

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),

		RiotAPIKey:   os.Getenv("RIOT_API_KEY"),
		RiotRegion:   getEnvWithDefault("RIOT_REGION", "asia"),
		RiotPlatform: getEnvWithDefault("RIOT_PLATFORM", "kr"),

		NATSServers: os.Getenv("NATS_SERVERS"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	var err error
	if cfg.SchedulerPollInterval, err = durationFromEnv("SCHEDULER_POLL_INTERVAL", cfg.SchedulerPollInterval); err != nil {
		return nil, err
	}
	if cfg.GameTimeout, err = durationFromEnv("GAME_TIMEOUT", cfg.GameTimeout); err != nil {
		return nil, err
	}
	if cfg.StartingBalance, err = int64FromEnv("STARTING_BALANCE", cfg.StartingBalance); err != nil {
		return nil, err
	}
	if cfg.DailyReward, err = int64FromEnv("DAILY_REWARD", cfg.DailyReward); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and that the timezone can be loaded.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the canonical timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the bot runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Timezone:              "Asia/Seoul",
		SchedulerPollInterval: 30 * time.Second,
		StartingBalance:       0,
		DailyReward:           10000,
		GameTimeout:           120 * time.Second,
		OpenAIModel:           "gpt-4o-mini",
		RiotRegion:            "asia",
		RiotPlatform:          "kr",
		LogLevel:              "debug",
		Environment:           "test",
	}
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}

func int64FromEnv(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}
