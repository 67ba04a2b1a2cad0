package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) error {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"time":          time.Now().UTC().Format(time.RFC3339),
		"ai_configured": s.deps.Gateway.Configured(),
	})
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) error {
	results, ready := s.checks.CheckAll(r.Context())
	if !ready {
		slog.Warn("readiness check failed", "checks", results)
		respondError(w, http.StatusServiceUnavailable, apiError{
			Code:    "not_ready",
			Message: "service not ready",
			Details: map[string]interface{}{"checks": results},
		})
		return nil
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": results,
	})
	return nil
}

// Site handlers

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"links": s.deps.Content.Nav(),
		"user":  sess.User,
	})
	return nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) error {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"featured":    s.deps.Catalog.Featured(),
		"stages":      s.deps.Content.Stages(),
		"leaderboard": s.deps.Content.Leaderboard(),
	})
	return nil
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) error {
	entries := s.deps.Content.Leaderboard()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
	return nil
}
