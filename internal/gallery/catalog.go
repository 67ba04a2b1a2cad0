package gallery

import (
	"log/slog"
	"sync"

	"github.com/terra-clan/robolearn/internal/models"
)

// FeaturedCount is how many projects the home page shows
const FeaturedCount = 3

// Catalog is the process-lifetime project collection shared by concurrent
// requests. Nothing is persisted.
type Catalog struct {
	mu       sync.RWMutex
	projects []models.Project
	ids      *ClockIDs
}

// NewCatalog seeds a catalog. The id source starts above every seeded id.
func NewCatalog(seed []models.Project) *Catalog {
	var maxID int64
	projects := make([]models.Project, len(seed))
	for i, p := range seed {
		projects[i] = p.Clone()
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return &Catalog{
		projects: projects,
		ids:      NewClockIDs(maxID),
	}
}

// List applies f to a snapshot of the catalog
func (c *Catalog) List(f Filter) []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneAll(FilterAndSort(c.projects, f))
}

// Featured returns the first projects in catalog order
func (c *Catalog) Featured() []models.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := FeaturedCount
	if len(c.projects) < n {
		n = len(c.projects)
	}
	return cloneAll(c.projects[:n])
}

// Publish adds a project built from draft to the front of the catalog
func (c *Catalog) Publish(draft models.ProjectDraft) (models.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated, project, err := Publish(c.projects, draft, c.ids)
	if err != nil {
		return models.Project{}, err
	}
	c.projects = updated

	slog.Info("project published", "id", project.ID, "name", project.Name, "catalog_size", len(c.projects))
	return project.Clone(), nil
}

// Len returns the number of projects
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.projects)
}

func cloneAll(projects []models.Project) []models.Project {
	out := make([]models.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
