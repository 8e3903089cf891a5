package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/store"
	"github.com/tatianab/text-rpg/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The UI owns the terminal, so logs go to a file or nowhere.
	logger := log.New(io.Discard, "", log.LstdFlags)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "rpg")
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.Default()
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}

	var narrator engine.Narrator = engine.Unavailable{}
	if cfg.NarrativeEnabled() {
		eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Game.LLMSystemPrompt, cfg.Game.LLMTemperature)
		if err != nil {
			fmt.Printf("Error creating engine: %v\n", err)
			os.Exit(1)
		}
		narrator = eng
	}

	roller := dice.NewRandom()
	if cfg.Seed != 0 {
		roller = dice.NewSeeded(cfg.Seed)
	}

	svc := game.NewService(cfg.Game, gen.New(cfg.Game, roller), st, narrator, logger)
	defer svc.Close()

	logger.Printf("starting with %s store, narration enabled: %v", cfg.Store, cfg.NarrativeEnabled())
	if err := tui.Run(svc, cfg.SessionID, cfg.PlayerName); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
				return nil, err
			}
			dsn = filepath.Join(cfg.SaveDir, "rpg.db")
		}
		return store.Open(store.DriverSQLite, dsn)
	case config.StorePostgres:
		return store.Open(store.DriverPostgres, cfg.DatabaseURL)
	default:
		return store.NewFileStore(cfg.SaveDir), nil
	}
}
