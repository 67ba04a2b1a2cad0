package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/terra-clan/robolearn/internal/models"
	"github.com/terra-clan/robolearn/internal/progress"
	"github.com/terra-clan/robolearn/internal/quiz"
)

// SessionHeader carries the visitor session id
const SessionHeader = "X-Session-ID"

// Client is a Go SDK for the robolearn API. It remembers the visitor session
// the server assigns, so consecutive calls act as the same visitor.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	sessionID string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithSessionID resumes an existing visitor session
func WithSessionID(id string) Option {
	return func(c *Client) {
		c.sessionID = id
	}
}

// NewClient creates a new robolearn client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// design generation can take a while
			Timeout: 120 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SessionID returns the current visitor session id
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// APIError is an error response from the API
type APIError struct {
	Status   int               `json:"-"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Action   string            `json:"action,omitempty"`
	Details  json.RawMessage   `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s - %s", e.Status, e.Code, e.Message)
}

// Home is the landing page content
type Home struct {
	Featured    []models.Project          `json:"featured"`
	Stages      []models.LearningStage    `json:"stages"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
}

// Nav is the site navigation for the current visitor
type Nav struct {
	Links []models.NavLink `json:"links"`
	User  *models.User     `json:"user"`
}

// Me is the current login state
type Me struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

// ProjectFilter selects gallery projects. Empty fields mean All and newest.
type ProjectFilter struct {
	Category   models.Category
	Difficulty models.Difficulty
	Sort       string
}

// Progress is the visitor's learning progress
type Progress struct {
	Summary   progress.Summary `json:"summary"`
	Completed []string         `json:"completed"`
	Expanded  *int             `json:"expanded"`
}

// ToggleResult is the outcome of toggling a subtopic
type ToggleResult struct {
	SubtopicID string                `json:"subtopicId"`
	Completed  bool                  `json:"completed"`
	Stage      progress.StageSummary `json:"stage"`
}

// Health checks service health
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	return call[map[string]interface{}](ctx, c, http.MethodGet, "/health", nil)
}

// Nav returns the navigation links
func (c *Client) Nav(ctx context.Context) (*Nav, error) {
	return callPtr[Nav](ctx, c, http.MethodGet, "/api/v1/nav", nil)
}

// Home returns featured projects, stages and the leaderboard
func (c *Client) Home(ctx context.Context) (*Home, error) {
	return callPtr[Home](ctx, c, http.MethodGet, "/api/v1/home", nil)
}

// Leaderboard returns the leaderboard entries
func (c *Client) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	result, err := call[struct {
		Entries []models.LeaderboardEntry `json:"entries"`
	}](ctx, c, http.MethodGet, "/api/v1/leaderboard", nil)
	return result.Entries, err
}

// Login signs the visitor in. The password is required but not verified.
func (c *Client) Login(ctx context.Context, email, password, name string) (*models.User, error) {
	result, err := call[struct {
		User *models.User `json:"user"`
	}](ctx, c, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	return result.User, err
}

// Logout signs the visitor out
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodPost, "/api/v1/auth/logout", nil)
	return err
}

// Me returns the current login state
func (c *Client) Me(ctx context.Context) (*Me, error) {
	return callPtr[Me](ctx, c, http.MethodGet, "/api/v1/auth/me", nil)
}

// ListProjects returns the filtered and sorted gallery
func (c *Client) ListProjects(ctx context.Context, f ProjectFilter) ([]models.Project, error) {
	params := url.Values{}
	if f.Category != "" {
		params.Set("category", string(f.Category))
	}
	if f.Difficulty != "" {
		params.Set("difficulty", string(f.Difficulty))
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}

	path := "/api/v1/projects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	result, err := call[struct {
		Projects []models.Project `json:"projects"`
	}](ctx, c, http.MethodGet, path, nil)
	return result.Projects, err
}

// FeaturedProjects returns the projects shown on the home page
func (c *Client) FeaturedProjects(ctx context.Context) ([]models.Project, error) {
	result, err := call[struct {
		Projects []models.Project `json:"projects"`
	}](ctx, c, http.MethodGet, "/api/v1/projects/featured", nil)
	return result.Projects, err
}

// PublishProject adds a project to the gallery. The visitor must be logged in.
func (c *Client) PublishProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error) {
	return callPtr[models.Project](ctx, c, http.MethodPost, "/api/v1/projects", draft)
}

// Stages returns the learning path
func (c *Client) Stages(ctx context.Context) ([]models.LearningStage, error) {
	result, err := call[struct {
		Stages []models.LearningStage `json:"stages"`
	}](ctx, c, http.MethodGet, "/api/v1/learn/stages", nil)
	return result.Stages, err
}

// Progress returns the visitor's learning progress
func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	return callPtr[Progress](ctx, c, http.MethodGet, "/api/v1/learn/progress", nil)
}

// ToggleTopic flips the completion of a subtopic
func (c *Client) ToggleTopic(ctx context.Context, subtopicID string) (*ToggleResult, error) {
	return callPtr[ToggleResult](ctx, c, http.MethodPost, "/api/v1/learn/topics/"+url.PathEscape(subtopicID)+"/toggle", nil)
}

// ExpandStage opens a stage, or collapses it when already open. It returns
// the open stage id, nil when all are collapsed.
func (c *Client) ExpandStage(ctx context.Context, stageID int) (*int, error) {
	result, err := call[struct {
		Expanded *int `json:"expanded"`
	}](ctx, c, http.MethodPost, "/api/v1/learn/stages/"+strconv.Itoa(stageID)+"/expand", nil)
	return result.Expanded, err
}

// StageProgress returns the progress of one stage
func (c *Client) StageProgress(ctx context.Context, stageID int) (*progress.StageSummary, error) {
	return callPtr[progress.StageSummary](ctx, c, http.MethodGet, "/api/v1/learn/stages/"+strconv.Itoa(stageID)+"/progress", nil)
}

// Quiz returns the current quiz view
func (c *Client) Quiz(ctx context.Context) (*quiz.View, error) {
	return callPtr[quiz.View](ctx, c, http.MethodGet, "/api/v1/quiz", nil)
}

// SelectAnswer records a tentative answer
func (c *Client) SelectAnswer(ctx context.Context, option string) (*quiz.View, error) {
	return callPtr[quiz.View](ctx, c, http.MethodPost, "/api/v1/quiz/select", map[string]string{"option": option})
}

// SubmitAnswer scores the selected answer
func (c *Client) SubmitAnswer(ctx context.Context) (*quiz.View, error) {
	return callPtr[quiz.View](ctx, c, http.MethodPost, "/api/v1/quiz/submit", nil)
}

// NextQuestion advances after feedback
func (c *Client) NextQuestion(ctx context.Context) (*quiz.View, error) {
	return callPtr[quiz.View](ctx, c, http.MethodPost, "/api/v1/quiz/next", nil)
}

// RestartQuiz starts the quiz over
func (c *Client) RestartQuiz(ctx context.Context) (*quiz.View, error) {
	return callPtr[quiz.View](ctx, c, http.MethodPost, "/api/v1/quiz/restart", nil)
}

// GenerateDesign asks for a circuit and code for the described project
func (c *Client) GenerateDesign(ctx context.Context, description string) (*models.AIGeneratedDesign, error) {
	return callPtr[models.AIGeneratedDesign](ctx, c, http.MethodPost, "/api/v1/design/generate", map[string]string{"description": description})
}

// ReviewCode asks for feedback on code. An empty language uses the server default.
func (c *Client) ReviewCode(ctx context.Context, code, language string) (*models.CodeReview, error) {
	return callPtr[models.CodeReview](ctx, c, http.MethodPost, "/api/v1/code/review", map[string]string{
		"code":     code,
		"language": language,
	})
}

func callPtr[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	v, err := call[T](ctx, c, method, path, body)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// call performs a request and unwraps the response envelope
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	status, resp, err := c.doRequest(ctx, method, path, reader)
	if err != nil {
		return zero, err
	}

	var result struct {
		Success bool      `json:"success"`
		Data    T         `json:"data"`
		Error   *APIError `json:"error"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		apiErr := result.Error
		if apiErr == nil {
			apiErr = &APIError{Code: "unknown", Message: http.StatusText(status)}
		}
		apiErr.Status = status
		return zero, apiErr
	}

	return result.Data, nil
}

// doRequest performs an HTTP request and returns the status and body
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := c.SessionID(); id != "" {
		req.Header.Set(SessionHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if id := resp.Header.Get(SessionHeader); id != "" {
		c.mu.Lock()
		c.sessionID = id
		c.mu.Unlock()
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
