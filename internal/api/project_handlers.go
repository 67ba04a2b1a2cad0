package api

import (
	"net/http"

	"github.com/terra-clan/robolearn/internal/gallery"
	"github.com/terra-clan/robolearn/internal/models"
)

// Project gallery handlers

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filter, err := gallery.ParseFilter(q.Get("category"), q.Get("difficulty"), q.Get("sort"))
	if err != nil {
		return err
	}

	projects := s.deps.Catalog.List(filter)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
		"filter":   filter,
	})
	return nil
}

func (s *Server) handleFeaturedProjects(w http.ResponseWriter, r *http.Request) error {
	projects := s.deps.Catalog.Featured()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    len(projects),
	})
	return nil
}

func (s *Server) handleProjectOptions(w http.ResponseWriter, r *http.Request) error {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories":   append([]models.Category(nil), models.Categories...),
		"difficulties": append([]models.Difficulty(nil), models.Difficulties...),
		"sort":         []gallery.SortOrder{gallery.SortNewest, gallery.SortOldest},
	})
	return nil
}

func (s *Server) handlePublishProject(w http.ResponseWriter, r *http.Request) error {
	var draft models.ProjectDraft
	if err := s.decode(r, &draft); err != nil {
		return err
	}

	project, err := s.deps.Catalog.Publish(draft)
	if err != nil {
		return err
	}

	respondJSON(w, http.StatusCreated, project)
	return nil
}
