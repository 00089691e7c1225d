package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/haliguyr1-cmyk/RRTournament/database"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID, used for command registration when set

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated); empty disables forwarding

	// Browser intake API
	APIAddr    string // Listen address; empty disables the intake server
	APIGuildID int64  // Guild that browser registrations are posted into

	// Registration flow
	SessionTTL          time.Duration // Idle time before an in-progress /register session is dropped
	StalePendingAfter   time.Duration // Age at which unreviewed registrations are reported
	ReviewCategoryName  string
	ParticipantRoleName string
	ModeratorRoleName   string

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the bot runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadDotEnv reads a .env file into the environment if one exists
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}
}

// ConfigureLogging applies the configured level and format to the standard logger
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		APIAddr: ":8080",

		SessionTTL:          15 * time.Minute,
		StalePendingAfter:   24 * time.Hour,
		ReviewCategoryName:  getEnvWithDefault("REVIEW_CATEGORY_NAME", "REGISTRATIONS"),
		ParticipantRoleName: getEnvWithDefault("PARTICIPANT_ROLE_NAME", "Participant"),
		ModeratorRoleName:   getEnvWithDefault("MODERATOR_ROLE_NAME", "Moderator"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// An explicitly empty API_ADDR disables the intake server
	if addr, ok := os.LookupEnv("API_ADDR"); ok {
		config.APIAddr = addr
	}

	if guildID := os.Getenv("API_GUILD_ID"); guildID != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(guildID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("API_GUILD_ID must be a snowflake: %w", err)
		}
		config.APIGuildID = parsed
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("SESSION_TTL must be a positive duration, got %q", ttl)
		}
		config.SessionTTL = parsed
	}

	if stale := os.Getenv("STALE_PENDING_AFTER"); stale != "" {
		parsed, err := time.ParseDuration(stale)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("STALE_PENDING_AFTER must be a positive duration, got %q", stale)
		}
		config.StalePendingAfter = parsed
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.APIAddr != "" && config.APIGuildID == 0 {
			if config.GuildID == "" {
				return nil, fmt.Errorf("API_GUILD_ID or GUILD_ID is required when API_ADDR is set")
			}
			parsed, err := strconv.ParseInt(config.GuildID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("GUILD_ID must be a snowflake: %w", err)
			}
			config.APIGuildID = parsed
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		SessionTTL:          15 * time.Minute,
		StalePendingAfter:   24 * time.Hour,
		ReviewCategoryName:  "REGISTRATIONS",
		ParticipantRoleName: "Participant",
		ModeratorRoleName:   "Moderator",
		LogLevel:            "info",
	}
}
