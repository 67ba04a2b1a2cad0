package api

import (
	"log/slog"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"notblank"` // required but never checked
	Name     string `json:"name,omitempty" validate:"max=80"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		return err
	}

	sess := SessionFromContext(r.Context())
	user, err := sess.Login(req.Email, req.Name)
	if err != nil {
		return err
	}

	slog.Info("visitor logged in", "session_id", sess.ID, "email", user.Email)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
	return nil
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())
	if sess.Authenticated() {
		slog.Info("visitor logged out", "session_id", sess.ID, "email", sess.User.Email)
	}
	sess.Logout()

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
	return nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": sess.Authenticated(),
		"user":          sess.User,
	})
	return nil
}
