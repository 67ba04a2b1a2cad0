package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terra-clan/robolearn/internal/api"
	"github.com/terra-clan/robolearn/internal/config"
	"github.com/terra-clan/robolearn/internal/content"
	"github.com/terra-clan/robolearn/internal/gallery"
	"github.com/terra-clan/robolearn/internal/gateway"
	"github.com/terra-clan/robolearn/internal/models"
	"github.com/terra-clan/robolearn/internal/progress"
	"github.com/terra-clan/robolearn/internal/quiz"
	"github.com/terra-clan/robolearn/internal/session"
)

type stubGenerator struct{ text string }

func (s stubGenerator) Generate(context.Context, gateway.Request) (string, error) {
	return s.text, nil
}

func newServer(t *testing.T, gen gateway.Generator) *httptest.Server {
	t.Helper()

	store, err := content.LoadDefaults()
	if err != nil {
		t.Fatal(err)
	}

	s := api.NewServer(config.ServerConfig{}, api.Deps{
		Content:  store,
		Catalog:  gallery.NewCatalog(store.Projects()),
		Tracker:  progress.Tracker{},
		Quiz:     quiz.NewEngine(store.Questions()),
		Gateway:  gateway.New(gen, gateway.Config{}),
		Sessions: session.NewMemoryStore(),
	})

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSessionFlow(t *testing.T) {
	ctx := context.Background()
	srv := newServer(t, nil)
	c := NewClient(srv.URL)

	if c.SessionID() != "" {
		t.Fatal("expected no session before the first call")
	}

	projects, err := c.ListProjects(ctx, ProjectFilter{Category: models.CategoryArduino})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != 1 {
		t.Errorf("expected only project 1, got %+v", projects)
	}
	first := c.SessionID()
	if first == "" {
		t.Fatal("expected a session id after the first call")
	}

	_, err = c.PublishProject(ctx, models.ProjectDraft{Name: "Rover", Description: "Drives."})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Redirect != "/login" {
		t.Errorf("unexpected error: %+v", apiErr)
	}

	if _, err := c.Login(ctx, "maker@example.com", "secret", ""); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	me, err := c.Me(ctx)
	if err != nil || !me.Authenticated || me.User.Name != "maker" {
		t.Fatalf("expected logged-in maker, got %+v (%v)", me, err)
	}

	project, err := c.PublishProject(ctx, models.ProjectDraft{Name: "Rover", Description: "Drives."})
	if err != nil {
		t.Fatalf("PublishProject failed: %v", err)
	}
	featured, err := c.FeaturedProjects(ctx)
	if err != nil || featured[0].ID != project.ID {
		t.Errorf("expected published project featured first, got %+v (%v)", featured, err)
	}

	if c.SessionID() != first {
		t.Errorf("session id changed from %q to %q", first, c.SessionID())
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if me, _ := c.Me(ctx); me.Authenticated {
		t.Error("expected guest after logout")
	}
}

func TestClientQuizAndProgress(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t, nil).URL)

	if _, err := c.SelectAnswer(ctx, "Light Emitting Diode"); err != nil {
		t.Fatal(err)
	}
	view, err := c.SubmitAnswer(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if view.Score != 10 {
		t.Errorf("expected score 10, got %d", view.Score)
	}
	if _, err := c.SubmitAnswer(ctx); err == nil {
		t.Error("expected second submit to fail")
	}
	view, err = c.RestartQuiz(ctx)
	if err != nil || view.Score != 0 {
		t.Errorf("expected restart to reset, got %+v (%v)", view, err)
	}

	toggled, err := c.ToggleTopic(ctx, "a1")
	if err != nil || !toggled.Completed || toggled.Stage.StageID != 3 {
		t.Errorf("unexpected toggle: %+v (%v)", toggled, err)
	}
	p, err := c.Progress(ctx)
	if err != nil || p.Summary.Completed != 1 {
		t.Errorf("unexpected progress: %+v (%v)", p, err)
	}

	expanded, err := c.ExpandStage(ctx, 1)
	if err != nil || expanded != nil {
		t.Errorf("expected stage 1 to collapse, got %v (%v)", expanded, err)
	}
}

func TestClientAI(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newServer(t, stubGenerator{text: "Looks fine."}).URL)

	review, err := c.ReviewCode(ctx, "print('hi')", "Python")
	if err != nil {
		t.Fatalf("ReviewCode failed: %v", err)
	}
	if review.Language != "Python" || review.Feedback != "Looks fine." {
		t.Errorf("unexpected review %+v", review)
	}

	_, err = c.GenerateDesign(ctx, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "validation_error" {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestWithSessionID(t *testing.T) {
	c := NewClient("http://localhost", WithSessionID("abc"))
	if c.SessionID() != "abc" {
		t.Errorf("expected abc, got %q", c.SessionID())
	}
}
