package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/terra-clan/robolearn/internal/session"
)

// SessionHeader carries the visitor session id in both directions
const SessionHeader = "X-Session-ID"

// SessionMiddleware loads the visitor session before the handler and saves
// it afterwards
type SessionMiddleware struct {
	store session.Store
}

// NewSessionMiddleware creates new session middleware
func NewSessionMiddleware(store session.Store) *SessionMiddleware {
	return &SessionMiddleware{store: store}
}

// Attach resolves X-Session-ID. A missing or unknown id starts a new guest
// session; the id in effect is echoed in the response header.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))

		sess, err := m.load(r.Context(), id)
		if err != nil {
			slog.Error("failed to load session", "error", err, "session_id", id)
			respondError(w, http.StatusInternalServerError, fallbackError)
			return
		}

		w.Header().Set(SessionHeader, sess.ID)
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))

		sess.Touch()
		if err := m.store.Save(context.WithoutCancel(r.Context()), sess); err != nil {
			slog.Error("failed to save session", "error", err, "session_id", sess.ID)
		}
	})
}

func (m *SessionMiddleware) load(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return session.New(), nil
	}

	sess, err := m.store.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		slog.Debug("unknown session id, starting a new session", "session_id", id)
		return session.New(), nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// RequireUser rejects guests with 401 and a redirect to the login page
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil || !sess.Authenticated() {
			slog.Debug("login required", "path", r.URL.Path)
			status, e := classify(session.ErrUnauthenticated)
			respondError(w, status, e)
			return
		}
		next.ServeHTTP(w, r)
	})
}
