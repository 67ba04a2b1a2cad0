package content

import (
	"github.com/terra-clan/robolearn/internal/models"
)

// Store holds the static catalogs. It is never mutated after loading, and
// every accessor returns a copy so callers cannot change the catalogs.
type Store struct {
	projects    []models.Project
	stages      []models.LearningStage
	questions   []models.QuizQuestion
	leaderboard []models.LeaderboardEntry
	nav         []models.NavLink
}

// Projects returns the seeded project catalog in insertion order
func (s *Store) Projects() []models.Project {
	out := make([]models.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Stages returns the learning stages in display order
func (s *Store) Stages() []models.LearningStage {
	out := make([]models.LearningStage, len(s.stages))
	for i, st := range s.stages {
		out[i] = cloneStage(st)
	}
	return out
}

// Stage returns the stage with the given id
func (s *Store) Stage(id int) (models.LearningStage, bool) {
	for _, st := range s.stages {
		if st.ID == id {
			return cloneStage(st), true
		}
	}
	return models.LearningStage{}, false
}

// StageForSubtopic returns the first stage containing the subtopic id
func (s *Store) StageForSubtopic(subtopicID string) (models.LearningStage, bool) {
	for _, st := range s.stages {
		if st.HasSubtopic(subtopicID) {
			return cloneStage(st), true
		}
	}
	return models.LearningStage{}, false
}

// Questions returns the quiz question set. Its length is the quiz length.
func (s *Store) Questions() []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(s.questions))
	for i, q := range s.questions {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Leaderboard returns the leaderboard entries by rank
func (s *Store) Leaderboard() []models.LeaderboardEntry {
	return append([]models.LeaderboardEntry(nil), s.leaderboard...)
}

// Nav returns the site navigation links
func (s *Store) Nav() []models.NavLink {
	return append([]models.NavLink(nil), s.nav...)
}

func cloneStage(st models.LearningStage) models.LearningStage {
	st.Subtopics = append([]models.Subtopic(nil), st.Subtopics...)
	return st
}
