// Package session holds per-visitor state: the signed-in user, the quiz
// attempt and the learning path view. Sessions are passed explicitly through
// the request context instead of living in process-wide globals.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/robolearn/internal/models"
	"github.com/terra-clan/robolearn/internal/progress"
	"github.com/terra-clan/robolearn/internal/quiz"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrInvalidLogin    = errors.New("email is required")
	ErrUnauthenticated = errors.New("login required")
)

// Session is the state of one visitor
type Session struct {
	ID        string        `json:"id"`
	User      *models.User  `json:"user,omitempty"`
	Quiz      quiz.Session  `json:"quiz"`
	Learn     progress.View `json:"learn"`
	CreatedAt time.Time     `json:"created_at"`
	LastSeen  time.Time     `json:"last_seen"`
}

// New creates a guest session
func New() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Learn:     progress.NewView(),
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Login signs the visitor in as the given email. No credential is checked.
func (s *Session) Login(email, name string) (*models.User, error) {
	user := models.NewUser(email, name)
	if user.Email == "" {
		return nil, ErrInvalidLogin
	}
	s.User = user
	return user, nil
}

// Logout clears the user. Quiz and learning state are kept.
func (s *Session) Logout() {
	s.User = nil
}

// Authenticated reports whether a user is signed in
func (s *Session) Authenticated() bool {
	return s.User != nil
}

// RequireUser returns the signed-in user or ErrUnauthenticated
func (s *Session) RequireUser() (*models.User, error) {
	if s.User == nil {
		return nil, ErrUnauthenticated
	}
	return s.User, nil
}

// Touch records activity
func (s *Session) Touch() {
	s.LastSeen = time.Now().UTC()
}

// Clone returns a deep copy
func (s *Session) Clone() *Session {
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.Learn = s.Learn.Clone()
	return &out
}

// Store keeps sessions between requests
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	// DeleteIdle removes sessions last seen before the cutoff and returns
	// how many were removed
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
