package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// MemoryDSN keeps the session database inside the process.
const MemoryDSN = "file:mastermind?mode=memory&cache=shared"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    game.Config
	Daily   DailyConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP-related configuration
type ServerConfig struct {
	Port         string
	Env          string // "development" or "production"
	ClientOrigin string
	JWTSecret    string
	TicketTTL    time.Duration
	DSN          string
}

// DailyConfig holds daily challenge configuration
type DailyConfig struct {
	Salt string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables with defaults.
// Malformed numeric values are reported rather than silently defaulted.
func Load() (*Config, error) {
	pegs, err := getEnvInt("PEGS", game.DefaultPegs)
	if err != nil {
		return nil, err
	}
	turns, err := getEnvInt("TURNS", game.DefaultTurns)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvInt("TICKET_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5175"),
			Env:          getEnv("ENV", "development"),
			ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
			JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
			TicketTTL:    time.Duration(ttl) * time.Hour,
			DSN:          getEnv("DB_DSN", MemoryDSN),
		},
		Game: game.Config{Pegs: pegs, Turns: turns},
		Daily: DailyConfig{
			Salt: getEnv("DAILY_SALT", "local_dev_salt"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("config: PEGS/TURNS: %w", err)
	}
	if c.Server.TicketTTL <= 0 {
		return fmt.Errorf("config: TICKET_TTL_HOURS must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
