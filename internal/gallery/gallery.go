// Package gallery implements filtering, sorting and publishing over the
// project catalog.
package gallery

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/terra-clan/robolearn/internal/models"
)

// All disables a filter
const All = "All"

// SortOrder orders the filtered catalog by project id
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Default values applied to published projects
var (
	DefaultDifficulty = models.DifficultyIntermediate
	DefaultTags       = []string{"Community", "DIY"}
)

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidDraft  = errors.New("invalid project draft")
)

// Filter selects and orders projects. Empty Category or Difficulty means All.
type Filter struct {
	Category   models.Category   `json:"category"`
	Difficulty models.Difficulty `json:"difficulty"`
	Sort       SortOrder         `json:"sort"`
}

// ParseFilter builds a Filter from raw query values. Empty values select
// every category, every difficulty and newest-first order.
func ParseFilter(category, difficulty, order string) (Filter, error) {
	var f Filter

	category = strings.TrimSpace(category)
	if category != "" && category != All {
		c := models.Category(category)
		if !c.IsValid() {
			return Filter{}, fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, category)
		}
		f.Category = c
	}

	difficulty = strings.TrimSpace(difficulty)
	if difficulty != "" && difficulty != All {
		d := models.Difficulty(difficulty)
		if !d.IsValid() {
			return Filter{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidFilter, difficulty)
		}
		f.Difficulty = d
	}

	switch SortOrder(strings.TrimSpace(order)) {
	case "", SortNewest:
		f.Sort = SortNewest
	case SortOldest:
		f.Sort = SortOldest
	default:
		return Filter{}, fmt.Errorf("%w: unknown sort order %q", ErrInvalidFilter, order)
	}

	return f, nil
}

// Matches reports whether p satisfies both active filters
func (f Filter) Matches(p models.Project) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Difficulty != "" && p.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// FilterAndSort returns the projects matching f, ordered by id. The input is
// not modified and the result never shares its backing array.
func FilterAndSort(catalog []models.Project, f Filter) []models.Project {
	result := make([]models.Project, 0, len(catalog))
	for _, p := range catalog {
		if f.Matches(p) {
			result = append(result, p)
		}
	}

	if f.Sort == SortOldest {
		sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	} else {
		sort.SliceStable(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	}
	return result
}

// Publish prepends a project built from draft and returns the new catalog
// together with the created project.
func Publish(catalog []models.Project, draft models.ProjectDraft, ids IDSource) ([]models.Project, models.Project, error) {
	name := strings.TrimSpace(draft.Name)
	description := strings.TrimSpace(draft.Description)
	if name == "" {
		return nil, models.Project{}, fmt.Errorf("%w: name is required", ErrInvalidDraft)
	}
	if description == "" {
		return nil, models.Project{}, fmt.Errorf("%w: description is required", ErrInvalidDraft)
	}

	id := ids.Next()

	image := strings.TrimSpace(draft.Image)
	if image == "" {
		image = PlaceholderImage(id)
	}

	difficulty := draft.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	if !difficulty.IsValid() {
		return nil, models.Project{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidDraft, difficulty)
	}

	tags := append([]string(nil), draft.Tags...)
	if len(tags) == 0 {
		tags = append([]string(nil), DefaultTags...)
	}

	project := models.Project{
		ID:          id,
		Name:        name,
		Description: description,
		Image:       image,
		Category:    models.CategoryUserSubmitted,
		Difficulty:  difficulty,
		Tags:        tags,
		URL:         strings.TrimSpace(draft.URL),
	}

	updated := make([]models.Project, 0, len(catalog)+1)
	updated = append(updated, project)
	updated = append(updated, catalog...)
	return updated, project, nil
}

// PlaceholderImage returns the generated image reference for a project
// published without one
func PlaceholderImage(seed int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/400/300", seed)
}
