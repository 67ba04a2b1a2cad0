package models

// Category groups projects in the gallery
type Category string

const (
	CategoryArduino       Category = "Arduino"
	CategoryRaspberryPi   Category = "Raspberry Pi"
	CategoryRobotics      Category = "Robotics"
	CategoryAIGenerated   Category = "AI Generated"
	CategoryUserSubmitted Category = "User Submitted"
)

// Categories lists every known category in display order
var Categories = []Category{
	CategoryArduino,
	CategoryRaspberryPi,
	CategoryRobotics,
	CategoryAIGenerated,
	CategoryUserSubmitted,
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Difficulty is the skill level a project targets
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties lists every known difficulty in ascending order
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// IsValid reports whether d is a known difficulty
func (d Difficulty) IsValid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Project is a gallery entry. Projects are immutable once created.
type Project struct {
	ID          int64      `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Image       string     `json:"image" yaml:"image"`
	Category    Category   `json:"category" yaml:"category"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Tags        []string   `json:"tags" yaml:"tags"`
	URL         string     `json:"url,omitempty" yaml:"url"`
}

// Clone returns a copy that shares no slices with p
func (p Project) Clone() Project {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// ProjectDraft is the user input for publishing a new project
type ProjectDraft struct {
	Name        string     `json:"name" validate:"notblank,max=120"`
	Description string     `json:"description" validate:"notblank,max=2000"`
	Image       string     `json:"image,omitempty" validate:"omitempty,url"`
	URL         string     `json:"url,omitempty" validate:"omitempty,url"`
	Difficulty  Difficulty `json:"difficulty,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
	Tags        []string   `json:"tags,omitempty" validate:"omitempty,max=10,dive,notblank,max=50"`
}
