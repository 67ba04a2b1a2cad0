// Package progress tracks which subtopics a learner has completed and derives
// per-stage completion from it.
package progress

import (
	"github.com/terra-clan/robolearn/internal/models"
)

// Completion maps a subtopic id to its completed flag. A missing key means
// not completed.
type Completion map[string]bool

// Toggle flips the completed flag for id. Toggling twice restores the
// original state. The false entry is removed so the map stays minimal.
func (c Completion) Toggle(id string) bool {
	if c[id] {
		delete(c, id)
		return false
	}
	c[id] = true
	return true
}

// Done reports whether id is completed
func (c Completion) Done(id string) bool {
	return c[id]
}

// Clone returns an independent copy
func (c Completion) Clone() Completion {
	out := make(Completion, len(c))
	for k, v := range c {
		if v {
			out[k] = true
		}
	}
	return out
}

// Progress is the completed and total subtopic count for a stage
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns the completion ratio in [0, 100]
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// StageProgress counts the completed subtopics of stage
func StageProgress(stage models.LearningStage, c Completion) Progress {
	p := Progress{Total: len(stage.Subtopics)}
	for _, st := range stage.Subtopics {
		if c[st.ID] {
			p.Completed++
		}
	}
	return p
}

// Tracker evaluates stage completion
type Tracker struct {
	// EmptyStageComplete makes a stage with no subtopics count as complete
	EmptyStageComplete bool
}

// IsStageComplete reports whether every subtopic of stage is completed
func (t Tracker) IsStageComplete(stage models.LearningStage, c Completion) bool {
	p := StageProgress(stage, c)
	if p.Total == 0 {
		return t.EmptyStageComplete
	}
	return p.Completed == p.Total
}

// StageSummary is the progress of a single stage
type StageSummary struct {
	StageID  int    `json:"stageId"`
	Title    string `json:"title"`
	Progress        // completed/total
	Percent  int    `json:"percent"`
	Complete bool   `json:"complete"`
}

// Summary is the learner's progress across all stages
type Summary struct {
	Stages          []StageSummary `json:"stages"`
	Completed       int            `json:"completed"`
	Total           int            `json:"total"`
	StagesCompleted int            `json:"stagesCompleted"`
}

// Summarize computes progress for every stage in order
func (t Tracker) Summarize(stages []models.LearningStage, c Completion) Summary {
	s := Summary{Stages: make([]StageSummary, 0, len(stages))}
	for _, stage := range stages {
		p := StageProgress(stage, c)
		complete := t.IsStageComplete(stage, c)

		s.Stages = append(s.Stages, StageSummary{
			StageID:  stage.ID,
			Title:    stage.Title,
			Progress: p,
			Percent:  p.Percent(),
			Complete: complete,
		})
		s.Completed += p.Completed
		s.Total += p.Total
		if complete {
			s.StagesCompleted++
		}
	}
	return s
}
