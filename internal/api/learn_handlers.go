package api

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terra-clan/robolearn/internal/models"
	"github.com/terra-clan/robolearn/internal/progress"
)

// Learning path handlers

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())
	stages := s.deps.Content.Stages()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stages":   stages,
		"total":    len(stages),
		"expanded": sess.Learn.Expanded,
	})
	return nil
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) error {
	sess := SessionFromContext(r.Context())

	completed := make([]string, 0, len(sess.Learn.Completion))
	for id, done := range sess.Learn.Completion {
		if done {
			completed = append(completed, id)
		}
	}
	sort.Strings(completed)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"summary":   s.deps.Tracker.Summarize(s.deps.Content.Stages(), sess.Learn.Completion),
		"completed": completed,
		"expanded":  sess.Learn.Expanded,
	})
	return nil
}

func (s *Server) handleToggleTopic(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	stage, ok := s.deps.Content.StageForSubtopic(id)
	if !ok {
		return fmt.Errorf("%w: subtopic %q", ErrNotFound, id)
	}

	sess := SessionFromContext(r.Context())
	if sess.Learn.Completion == nil {
		sess.Learn.Completion = progress.Completion{}
	}
	done := sess.Learn.Completion.Toggle(id)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"subtopicId": id,
		"completed":  done,
		"stage":      s.stageSummary(stage, sess.Learn.Completion),
	})
	return nil
}

func (s *Server) handleExpandStage(w http.ResponseWriter, r *http.Request) error {
	stage, err := s.stageParam(r)
	if err != nil {
		return err
	}

	sess := SessionFromContext(r.Context())
	sess.Learn.Expand(stage.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"expanded": sess.Learn.Expanded,
	})
	return nil
}

func (s *Server) handleStageProgress(w http.ResponseWriter, r *http.Request) error {
	stage, err := s.stageParam(r)
	if err != nil {
		return err
	}

	sess := SessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.stageSummary(stage, sess.Learn.Completion))
	return nil
}

func (s *Server) stageParam(r *http.Request) (models.LearningStage, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return models.LearningStage{}, invalid("stage id must be a number, got %q", raw)
	}

	stage, ok := s.deps.Content.Stage(id)
	if !ok {
		return models.LearningStage{}, fmt.Errorf("%w: stage %d", ErrNotFound, id)
	}
	return stage, nil
}

func (s *Server) stageSummary(stage models.LearningStage, c progress.Completion) progress.StageSummary {
	p := progress.StageProgress(stage, c)
	return progress.StageSummary{
		StageID:  stage.ID,
		Title:    stage.Title,
		Progress: p,
		Percent:  p.Percent(),
		Complete: s.deps.Tracker.IsStageComplete(stage, c),
	}
}
