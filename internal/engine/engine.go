package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/narrate.txt
var narratePrompt string

var narrateTemplate = template.Must(template.New("narrate").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(narratePrompt))

// ErrUnavailable is returned by narrators that have no provider behind them.
var ErrUnavailable = errors.New("narrative generation is unavailable: set GEMINI_API_KEY to enable it")

// Scene is everything the narrator is told about the current moment.
type Scene struct {
	System      string
	Coord       string
	Description string
	Doors       []string
	Character   string
	Log         []string
	Prompt      string
}

// Narrator turns a scene into prose.
type Narrator interface {
	Narrate(ctx context.Context, scene Scene) (string, error)
	Close() error
}

// BuildPrompt renders the narration prompt for scene.
func BuildPrompt(scene Scene) (string, error) {
	var buf bytes.Buffer
	if err := narrateTemplate.Execute(&buf, scene); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Engine narrates scenes with a Gemini model.
type Engine struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewEngine(ctx context.Context, apiKey, modelName, system string, temperature float32) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	return &Engine{
		client: client,
		model:  model,
	}, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}

// Narrate asks the model to describe scene.
func (e *Engine) Narrate(ctx context.Context, scene Scene) (string, error) {
	prompt, err := BuildPrompt(scene)
	if err != nil {
		return "", err
	}
	return e.Complete(ctx, prompt)
}

// Complete sends a raw prompt and returns the first text part of the reply.
func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

// Unavailable is the narrator used when no API key is configured.
type Unavailable struct{}

func (Unavailable) Narrate(context.Context, Scene) (string, error) { return "", ErrUnavailable }

func (Unavailable) Close() error { return nil }
