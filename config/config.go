package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	BotToken     string
	DataDir      string
	Timezone     string
	TickSeconds  int
	Port         string
	KeepaliveURL string
	Environment  string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:  env,
		BotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DataDir:      os.Getenv("DATA_DIR"),
		Timezone:     os.Getenv("BOT_TIMEZONE"),
		Port:         os.Getenv("PORT"),
		KeepaliveURL: os.Getenv("KEEPALIVE_URL"),
	}

	// Set defaults
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Berlin"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.TickSeconds = 30
	if s := os.Getenv("TICK_SECONDS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("TICK_SECONDS must be an integer: %w", err)
		}
		cfg.TickSeconds = n
	}
	// The scheduler compares minute-truncated instants, so a period above
	// 60s would skip notification minutes entirely.
	if cfg.TickSeconds < 5 {
		cfg.TickSeconds = 5
	}
	if cfg.TickSeconds > 60 {
		cfg.TickSeconds = 60
	}

	return cfg, nil
}

// Location resolves the configured IANA timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
