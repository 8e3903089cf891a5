package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/dice"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/gen"
	"github.com/tatianab/text-rpg/internal/store"
	"google.golang.org/api/option"
)

const maxTurns = 30

// randomCommands is what the player picks from when no model is available.
var randomCommands = []string{
	"n", "s", "e", "w", "look", "battle", "cast fire", "cast ice", "cast poison",
	"skill slash", "take 0", "use 0", "equip 0", "rune 0", "upgrade weapon 1", "rest", "status",
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir, err := os.MkdirTemp("", "rpg-sim-")
	if err != nil {
		log.Fatalf("Failed to create save dir: %v", err)
	}
	defer os.RemoveAll(dir)

	roller := dice.NewRandom()
	if cfg.Seed != 0 {
		roller = dice.NewSeeded(cfg.Seed)
	}

	var narrator engine.Narrator = engine.Unavailable{}
	var playerModel *genai.GenerativeModel
	if cfg.NarrativeEnabled() {
		// Initialize the narrator (the "Game Master")
		gm, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Game.LLMSystemPrompt, cfg.Game.LLMTemperature)
		if err != nil {
			log.Fatalf("Failed to create GM engine: %v", err)
		}
		narrator = gm

		// Initialize the Player LLM
		playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer playerClient.Close()
		playerModel = playerClient.GenerativeModel(cfg.GeminiModel)
	}

	svc := game.NewService(cfg.Game, gen.New(cfg.Game, roller), store.NewFileStore(dir), narrator, log.Default())
	defer svc.Close()

	sessionID := "sim-" + uuid.NewString()[:8]
	player := "autoplayer"
	for _, setup := range []string{"start " + sessionID, "create Simulated Hero"} {
		res, err := svc.Execute(ctx, sessionID, player, game.Parse(setup))
		if err != nil {
			log.Fatalf("%s: %v", setup, err)
		}
		printLines(res.Lines)
	}

	var history []string
	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		status := svc.Status(sessionID, player)
		action := nextAction(ctx, playerModel, roller, status, history)
		fmt.Printf("Player Action: %s\n", action)

		res, err := svc.Execute(ctx, sessionID, player, game.Parse(action))
		outcome := strings.Join(res.Lines, "\n")
		if err != nil {
			outcome = "Error: " + err.Error()
			var usageErr *game.UsageError
			if errors.As(err, &usageErr) {
				outcome += " (" + usageErr.Usage + ")"
			}
		}
		fmt.Println(outcome)
		fmt.Printf("Stats: HP=%d/%d, Level=%d, Gold=%d, Room=%s, Inventory=%v\n\n",
			res.Status.HP, res.Status.MaxHP, res.Status.Level, res.Status.Money, res.Status.Position, res.Status.Inventory)

		history = append(history, fmt.Sprintf("Action: %s\nOutcome: %s", action, firstLine(outcome)))
		if len(history) > 8 {
			history = history[len(history)-8:]
		}
	}
}

func nextAction(ctx context.Context, model *genai.GenerativeModel, roller *dice.Roller, st game.Status, history []string) string {
	if model == nil {
		return dice.Pick(roller, randomCommands)
	}

	prompt := fmt.Sprintf(`You are playing a text-based dungeon crawler.
You are at room %s. Exits: %v. Items here: %v.
HP %d/%d, level %d, gold %d. Weapon: %s. Skills: %v.
Inventory: %v

Recent turns:
%s

Commands you can use:
move <direction>, look, battle, cast <fire|ice|poison>, skill <name>, take <n>, use <n>,
equip <n>, rune <n>, upgrade weapon <points>, rest, narrate <prompt>

What is your next command? Return ONLY the command, no extra commentary.`,
		st.Position, st.Exits, st.RoomItems,
		st.HP, st.MaxHP, st.Level, st.Money, st.Weapon, st.Skills,
		st.Inventory,
		strings.Join(history, "\n"),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "look"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "look"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

func printLines(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
	fmt.Println()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
