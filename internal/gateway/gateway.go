// Package gateway proxies design generation and code review requests to a
// generative AI model.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"github.com/terra-clan/robolearn/internal/models"
)

const (
	DefaultDesignModel = "gemini-2.5-pro"
	DefaultReviewModel = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultLanguage    = "Arduino (C++)"
)

// Messages shown to the user when a call fails
const (
	GenerationFailedMessage = "Failed to generate AI design. The model may be unavailable or the request was invalid."
	ReviewFailedMessage     = "Failed to get AI feedback. The model may be unavailable or the request was invalid."
)

var (
	ErrNotConfigured    = errors.New("AI API key is not configured")
	ErrEmptyInput       = errors.New("input is empty")
	ErrGenerationFailed = errors.New("design generation failed")
	ErrReviewFailed     = errors.New("code review failed")
)

// Languages offered for code review
var Languages = []string{"Arduino (C++)", "Python"}

// DesignExamples are sample project descriptions
var DesignExamples = []string{
	"a blinking LED using an Arduino",
	"a distance sensor with a buzzer alarm",
	"a simple light-following robot",
	"a temperature and humidity monitor on a Raspberry Pi",
}

// Error is a failed model call. Message is safe to show to the user; the
// cause is only logged.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Request is a single model invocation
type Request struct {
	Model       string
	Prompt      string
	Temperature *float32
	Schema      *genai.Schema // nil for free text
}

// Generator performs one model call and returns the response text
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config holds model settings. A nil Temperature means DefaultTemperature.
type Config struct {
	DesignModel string
	ReviewModel string
	Temperature *float32
}

// Gateway is stateless and safe for concurrent use. Every operation makes
// at most one outbound call with no retry.
type Gateway struct {
	gen      Generator
	cfg      Config
	validate *validator.Validate
}

// New creates a gateway. A nil generator means no API key was configured:
// every call fails with ErrNotConfigured.
func New(gen Generator, cfg Config) *Gateway {
	if cfg.DesignModel == "" {
		cfg.DesignModel = DefaultDesignModel
	}
	if cfg.ReviewModel == "" {
		cfg.ReviewModel = DefaultReviewModel
	}
	if cfg.Temperature == nil {
		cfg.Temperature = genai.Ptr[float32](DefaultTemperature)
	}
	return &Gateway{
		gen:      gen,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Configured reports whether calls can reach a model
func (g *Gateway) Configured() bool {
	return g.gen != nil
}

// Check reports ErrNotConfigured when no model is reachable
func (g *Gateway) Check(context.Context) error {
	if g.gen == nil {
		return ErrNotConfigured
	}
	return nil
}

// GenerateDesign asks the model for a component list, wiring steps, an
// explanation and code for the described project.
func (g *Gateway) GenerateDesign(ctx context.Context, description string) (*models.AIGeneratedDesign, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description", ErrEmptyInput)
	}
	if g.gen == nil {
		return nil, ErrNotConfigured
	}

	text, err := g.gen.Generate(ctx, Request{
		Model:       g.cfg.DesignModel,
		Prompt:      designPrompt(description),
		Temperature: g.cfg.Temperature,
		Schema:      DesignSchema(),
	})
	if err != nil {
		return nil, g.fail(ErrGenerationFailed, GenerationFailedMessage, err)
	}

	design, err := g.decodeDesign(text)
	if err != nil {
		return nil, g.fail(ErrGenerationFailed, GenerationFailedMessage, err)
	}

	slog.Info("design generated",
		"model", g.cfg.DesignModel,
		"components", len(design.Circuit.Components),
		"connections", len(design.Circuit.Connections),
	)
	return design, nil
}

// ReviewCode asks the model for Markdown feedback on code. An empty language
// means DefaultLanguage.
func (g *Gateway) ReviewCode(ctx context.Context, code, language string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: code", ErrEmptyInput)
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}
	if g.gen == nil {
		return "", ErrNotConfigured
	}

	text, err := g.gen.Generate(ctx, Request{
		Model:  g.cfg.ReviewModel,
		Prompt: reviewPrompt(code, language),
	})
	if err != nil {
		return "", g.fail(ErrReviewFailed, ReviewFailedMessage, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", g.fail(ErrReviewFailed, ReviewFailedMessage, errors.New("empty response"))
	}

	slog.Info("code reviewed", "model", g.cfg.ReviewModel, "language", language)
	return text, nil
}

func (g *Gateway) decodeDesign(text string) (*models.AIGeneratedDesign, error) {
	data := []byte(strings.TrimSpace(text))

	var design models.AIGeneratedDesign
	if err := json.Unmarshal(data, &design); err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	if err := g.validate.Struct(design); err != nil {
		return nil, fmt.Errorf("invalid design: %w", err)
	}
	if err := requireConnectionDetails(data); err != nil {
		return nil, err
	}
	return &design, nil
}

// requireConnectionDetails rejects connections without a detail key. An
// empty detail is allowed.
func requireConnectionDetails(data []byte) error {
	var raw struct {
		Circuit struct {
			Connections []struct {
				Detail *string `json:"detail"`
			} `json:"connections"`
		} `json:"circuit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode design: %w", err)
	}
	for i, c := range raw.Circuit.Connections {
		if c.Detail == nil {
			return fmt.Errorf("invalid design: connection %d has no detail", i)
		}
	}
	return nil
}

func (g *Gateway) fail(kind error, message string, cause error) error {
	slog.Error("AI request failed", "kind", kind.Error(), "error", cause)
	return &Error{Kind: kind, Message: message, Err: cause}
}
