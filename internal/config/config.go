package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store backends accepted in RPG_STORE.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	SaveDir        string `env:"RPG_SAVE_DIR" envDefault:".saves"`
	Store          string `env:"RPG_STORE" envDefault:"file"`
	DatabaseURL    string `env:"DATABASE_URL"`
	GameConfigPath string `env:"RPG_GAME_CONFIG"`
	Seed           uint64 `env:"RPG_SEED"`
	LogFile        string `env:"RPG_LOG_FILE"`
	SessionID      string `env:"RPG_SESSION" envDefault:"current"`
	PlayerName     string `env:"RPG_PLAYER" envDefault:"adventurer"`

	// Game is the tuning table, loaded from GameConfigPath.
	Game *Game `env:"-"`
}

// LoadConfig loads the configuration from environment variables and the
// optional game tuning file.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreFile, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when RPG_STORE=%s", StorePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown RPG_STORE %q", cfg.Store)
	}

	game, err := LoadGame(cfg.GameConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Game = game

	return &cfg, nil
}

// NarrativeEnabled reports whether a Gemini key was supplied.
func (c *Config) NarrativeEnabled() bool {
	return c.GeminiAPIKey != ""
}
