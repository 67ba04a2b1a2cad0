package api

import (
	"context"

	"github.com/terra-clan/robolearn/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "visitor_session"

// SessionFromContext extracts the visitor session from context
func SessionFromContext(ctx context.Context) *session.Session {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return s
}

// ContextWithSession adds the visitor session to context
func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}
