// Package quiz implements the sequential multiple-choice quiz state machine.
package quiz

import (
	"errors"
	"fmt"

	"github.com/terra-clan/robolearn/internal/models"
)

var (
	ErrFinished        = errors.New("quiz is finished")
	ErrFeedbackShown   = errors.New("answer already submitted")
	ErrNoSelection     = errors.New("no answer selected")
	ErrFeedbackPending = errors.New("answer not submitted yet")
	ErrUnknownOption   = errors.New("option is not one of the answers")
)

// Session is a visitor's quiz attempt. Index == number of questions means
// the quiz is finished.
type Session struct {
	Index         int    `json:"index"`
	Score         int    `json:"score"`
	Selected      string `json:"selected,omitempty"`
	FeedbackShown bool   `json:"feedbackShown"`
	LastCorrect   bool   `json:"lastCorrect"`
}

// Engine drives sessions over a fixed question set. It holds no per-visitor
// state and is safe for concurrent use.
type Engine struct {
	questions []models.QuizQuestion
}

// NewEngine creates an engine for the given questions
func NewEngine(questions []models.QuizQuestion) *Engine {
	return &Engine{questions: questions}
}

// Len returns the number of questions
func (e *Engine) Len() int {
	return len(e.questions)
}

// MaxScore is the score for answering every question correctly
func (e *Engine) MaxScore() int {
	total := 0
	for _, q := range e.questions {
		total += q.Points
	}
	return total
}

// Finished reports whether s has moved past the last question
func (e *Engine) Finished(s Session) bool {
	return s.Index >= len(e.questions)
}

// Select records a tentative answer for the current question
func (e *Engine) Select(s *Session, option string) error {
	if e.Finished(*s) {
		return ErrFinished
	}
	if s.FeedbackShown {
		return ErrFeedbackShown
	}

	q := e.questions[s.Index]
	if !q.HasOption(option) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}

	s.Selected = option
	return nil
}

// Submit scores the selected answer and reveals feedback. The index does
// not advance.
func (e *Engine) Submit(s *Session) error {
	if e.Finished(*s) {
		return ErrFinished
	}
	if s.FeedbackShown {
		return ErrFeedbackShown
	}
	if s.Selected == "" {
		return ErrNoSelection
	}

	q := e.questions[s.Index]
	s.LastCorrect = s.Selected == q.CorrectAnswer
	if s.LastCorrect {
		s.Score += q.Points
	}
	s.FeedbackShown = true
	return nil
}

// Next clears the feedback and moves to the following question
func (e *Engine) Next(s *Session) error {
	if e.Finished(*s) {
		return ErrFinished
	}
	if !s.FeedbackShown {
		return ErrFeedbackPending
	}

	s.Index++
	s.Selected = ""
	s.FeedbackShown = false
	s.LastCorrect = false
	return nil
}

// Restart resets s to the first question with no score. It is valid from
// any state.
func (e *Engine) Restart(s *Session) {
	*s = Session{}
}
