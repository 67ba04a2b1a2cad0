package api

import (
	"net/http"
	"strings"

	"github.com/terra-clan/robolearn/internal/gateway"
	"github.com/terra-clan/robolearn/internal/models"
)

type designRequest struct {
	Description string `json:"description" validate:"notblank,max=2000"`
}

func (designRequest) ValidationMessage(field, tag string) string {
	if field == "description" && tag == "notblank" {
		return "Please enter a description for your project."
	}
	return ""
}

type reviewRequest struct {
	Code     string `json:"code" validate:"notblank,max=20000"`
	Language string `json:"language,omitempty" validate:"max=40"`
}

func (reviewRequest) ValidationMessage(field, tag string) string {
	if field == "code" && tag == "notblank" {
		return "Please enter some code to check."
	}
	return ""
}

// AI handlers

func (s *Server) handleDesignExamples(w http.ResponseWriter, r *http.Request) error {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"examples": gateway.DesignExamples,
	})
	return nil
}

func (s *Server) handleGenerateDesign(w http.ResponseWriter, r *http.Request) error {
	var req designRequest
	if err := s.decode(r, &req); err != nil {
		return err
	}

	design, err := s.deps.Gateway.GenerateDesign(r.Context(), req.Description)
	if err != nil {
		return err
	}

	respondJSON(w, http.StatusOK, design)
	return nil
}

func (s *Server) handleCodeLanguages(w http.ResponseWriter, r *http.Request) error {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"languages": gateway.Languages,
		"default":   gateway.DefaultLanguage,
	})
	return nil
}

func (s *Server) handleReviewCode(w http.ResponseWriter, r *http.Request) error {
	var req reviewRequest
	if err := s.decode(r, &req); err != nil {
		return err
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = gateway.DefaultLanguage
	}

	feedback, err := s.deps.Gateway.ReviewCode(r.Context(), req.Code, language)
	if err != nil {
		return err
	}

	respondJSON(w, http.StatusOK, models.CodeReview{
		Language: language,
		Feedback: feedback,
	})
	return nil
}
