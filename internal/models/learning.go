package models

// Level is the difficulty tier of a learning stage
type Level string

const (
	LevelBeginner     Level = "BEGINNER"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

// IsValid reports whether l is a known level
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Subtopic is a single learnable topic inside a stage
type Subtopic struct {
	ID      string `json:"id" yaml:"id"`           // unique within its stage, e.g. "b1"
	Name    string `json:"name" yaml:"name"`
	VideoID string `json:"videoId" yaml:"videoId"` // external video reference
}

// LearningStage is a themed group of subtopics at one level
type LearningStage struct {
	ID          int        `json:"id" yaml:"id"`
	Level       Level      `json:"level" yaml:"level"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Subtopics   []Subtopic `json:"subtopics" yaml:"subtopics"`
}

// HasSubtopic reports whether the stage contains the subtopic id
func (s LearningStage) HasSubtopic(id string) bool {
	for _, st := range s.Subtopics {
		if st.ID == id {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one row of the community leaderboard
type LeaderboardEntry struct {
	Rank   int    `json:"rank" yaml:"rank"`
	Name   string `json:"name" yaml:"name"`
	Points int    `json:"points" yaml:"points"`
	Avatar string `json:"avatar" yaml:"avatar"`
}

// NavLink is a top-level route of the site
type NavLink struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	Protected bool   `json:"protected,omitempty" yaml:"protected"` // requires a signed-in user
}
