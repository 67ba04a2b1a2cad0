package api

import (
	"net/http"

	"github.com/terra-clan/robolearn/internal/quiz"
)

type selectRequest struct {
	Option string `json:"option" validate:"required"`
}

// Quiz handlers. Every transition answers with the resulting view.

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.deps.Quiz.View(sess.Quiz))
	return nil
}

func (s *Server) handleQuizSelect(w http.ResponseWriter, r *http.Request) error {
	var req selectRequest
	if err := s.decode(r, &req); err != nil {
		return err
	}
	return s.quizTransition(w, r, func(e *quiz.Engine, qs *quiz.Session) error {
		return e.Select(qs, req.Option)
	})
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) error {
	return s.quizTransition(w, r, (*quiz.Engine).Submit)
}

func (s *Server) handleQuizNext(w http.ResponseWriter, r *http.Request) error {
	return s.quizTransition(w, r, (*quiz.Engine).Next)
}

func (s *Server) handleQuizRestart(w http.ResponseWriter, r *http.Request) error {
	return s.quizTransition(w, r, func(e *quiz.Engine, qs *quiz.Session) error {
		e.Restart(qs)
		return nil
	})
}

func (s *Server) quizTransition(w http.ResponseWriter, r *http.Request, step func(*quiz.Engine, *quiz.Session) error) error {
	sess := SessionFromContext(r.Context())

	// apply to a copy so a rejected transition leaves the session untouched
	next := sess.Quiz
	if err := step(s.deps.Quiz, &next); err != nil {
		return err
	}
	sess.Quiz = next

	respondJSON(w, http.StatusOK, s.deps.Quiz.View(sess.Quiz))
	return nil
}
