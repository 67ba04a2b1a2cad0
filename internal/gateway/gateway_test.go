package gateway

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []Request
	text     string
	err      error
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.text, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const validDesign = `{
  "circuit": {
    "components": [{"name": "Arduino Uno", "quantity": 1}, {"name": "5mm Red LED", "quantity": 1}],
    "connections": [{"from": "Arduino Uno Pin 13", "to": "LED Anode", "detail": "via 220 Ohm Resistor"}],
    "explanation": "The LED blinks."
  },
  "code": {"language": "Arduino (C++)", "code": "void setup() {}"}
}`

func TestGenerateDesign(t *testing.T) {
	gen := &fakeGenerator{text: validDesign}
	g := New(gen, Config{})

	design, err := g.GenerateDesign(context.Background(), "  a blinking LED  ")
	if err != nil {
		t.Fatalf("GenerateDesign failed: %v", err)
	}

	if len(design.Circuit.Components) != 2 || design.Circuit.Components[0].Name != "Arduino Uno" {
		t.Errorf("unexpected components: %+v", design.Circuit.Components)
	}
	if design.Code.Language != "Arduino (C++)" {
		t.Errorf("unexpected language %q", design.Code.Language)
	}

	if gen.calls() != 1 {
		t.Fatalf("expected 1 call, got %d", gen.calls())
	}
	req := gen.requests[0]
	if req.Model != DefaultDesignModel {
		t.Errorf("expected model %q, got %q", DefaultDesignModel, req.Model)
	}
	if req.Schema == nil {
		t.Error("expected a response schema")
	}
	if req.Temperature == nil || *req.Temperature != DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", DefaultTemperature, req.Temperature)
	}
	if !strings.Contains(req.Prompt, `"a blinking LED"`) {
		t.Errorf("prompt does not embed the description: %s", req.Prompt)
	}
}

func TestGenerateDesignAllowsEmptyDetail(t *testing.T) {
	gen := &fakeGenerator{text: `{"circuit": {"components": [{"name": "LED", "quantity": 1}], "connections": [{"from": "Pin 13", "to": "LED", "detail": ""}], "explanation": "x"}, "code": {"language": "Python", "code": "pass"}}`}
	g := New(gen, Config{})

	design, err := g.GenerateDesign(context.Background(), "robot")
	if err != nil {
		t.Fatalf("GenerateDesign failed: %v", err)
	}
	if len(design.Circuit.Connections) != 1 || design.Circuit.Connections[0].Detail != "" {
		t.Errorf("unexpected connections: %+v", design.Circuit.Connections)
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want float32
	}{
		{name: "default", cfg: Config{}, want: DefaultTemperature},
		{name: "explicit zero", cfg: Config{Temperature: genai.Ptr[float32](0)}, want: 0},
		{name: "explicit", cfg: Config{Temperature: genai.Ptr[float32](1.2)}, want: 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{text: validDesign}
			if _, err := New(gen, tt.cfg).GenerateDesign(context.Background(), "robot"); err != nil {
				t.Fatalf("GenerateDesign failed: %v", err)
			}
			got := gen.requests[0].Temperature
			if got == nil || *got != tt.want {
				t.Errorf("expected temperature %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGenerateDesignRejectsBlankWithoutCalling(t *testing.T) {
	gen := &fakeGenerator{text: validDesign}
	g := New(gen, Config{})

	for _, d := range []string{"", "   ", "\n\t"} {
		if _, err := g.GenerateDesign(context.Background(), d); !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput for %q, got %v", d, err)
		}
	}
	if gen.calls() != 0 {
		t.Errorf("expected no outbound calls, got %d", gen.calls())
	}
}

func TestNotConfigured(t *testing.T) {
	g := New(nil, Config{})

	if g.Configured() {
		t.Error("expected gateway without generator to be unconfigured")
	}
	if _, err := g.GenerateDesign(context.Background(), "robot"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := g.ReviewCode(context.Background(), "int x;", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateDesignFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{name: "transport error", gen: &fakeGenerator{err: errors.New("503 unavailable")}},
		{name: "not json", gen: &fakeGenerator{text: "Sure! Here is your design."}},
		{name: "missing code", gen: &fakeGenerator{text: `{"circuit": {"components": [], "connections": [], "explanation": "x"}}`}},
		{name: "missing components", gen: &fakeGenerator{text: `{"circuit": {"connections": [], "explanation": "x"}, "code": {"language": "Python", "code": "pass"}}`}},
		{name: "missing detail", gen: &fakeGenerator{text: `{"circuit": {"components": [{"name": "LED", "quantity": 1}], "connections": [{"from": "Pin 13", "to": "LED"}], "explanation": "x"}, "code": {"language": "Python", "code": "pass"}}`}},
		{name: "zero quantity", gen: &fakeGenerator{text: `{"circuit": {"components": [{"name": "LED", "quantity": 0}], "connections": [], "explanation": "x"}, "code": {"language": "Python", "code": "pass"}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.gen, Config{})

			_, err := g.GenerateDesign(context.Background(), "robot")
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("expected ErrGenerationFailed, got %v", err)
			}

			var gwErr *Error
			if !errors.As(err, &gwErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if gwErr.Error() != GenerationFailedMessage {
				t.Errorf("unexpected message %q", gwErr.Error())
			}
			if tt.gen.calls() != 1 {
				t.Errorf("expected exactly one attempt, got %d", tt.gen.calls())
			}
		})
	}
}

func TestReviewCode(t *testing.T) {
	gen := &fakeGenerator{text: "## Looks good\nNice work."}
	g := New(gen, Config{})

	feedback, err := g.ReviewCode(context.Background(), "void loop() {}", "")
	if err != nil {
		t.Fatalf("ReviewCode failed: %v", err)
	}
	if feedback != "## Looks good\nNice work." {
		t.Errorf("expected raw markdown passthrough, got %q", feedback)
	}

	req := gen.requests[0]
	if req.Model != DefaultReviewModel {
		t.Errorf("expected model %q, got %q", DefaultReviewModel, req.Model)
	}
	if req.Schema != nil {
		t.Error("review must not use a response schema")
	}
	if !strings.Contains(req.Prompt, "```Arduino (C++)\nvoid loop() {}\n```") {
		t.Errorf("prompt does not embed code with default language: %s", req.Prompt)
	}
}

func TestReviewCodeFailures(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	g := New(gen, Config{})
	if _, err := g.ReviewCode(context.Background(), "  ", "Python"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if gen.calls() != 0 {
		t.Errorf("expected no outbound calls, got %d", gen.calls())
	}

	g = New(&fakeGenerator{err: errors.New("boom")}, Config{})
	_, err := g.ReviewCode(context.Background(), "print(1)", "Python")
	if !errors.Is(err, ErrReviewFailed) || err.Error() != ReviewFailedMessage {
		t.Errorf("expected review failure with user message, got %v", err)
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", 0); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
