package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/robolearn/internal/models"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Catalog file names, looked up in the content directory
const (
	ProjectsFile    = "projects.yaml"
	StagesFile      = "stages.yaml"
	QuizFile        = "quiz.yaml"
	LeaderboardFile = "leaderboard.yaml"
	NavFile         = "nav.yaml"
)

// ErrInvalidCatalog is returned when a catalog file fails validation
var ErrInvalidCatalog = errors.New("invalid catalog")

type projectsFile struct {
	Projects []models.Project `yaml:"projects"`
}

type stagesFile struct {
	Stages []models.LearningStage `yaml:"stages"`
}

type quizFile struct {
	Questions []models.QuizQuestion `yaml:"questions"`
}

type leaderboardFile struct {
	Leaderboard []models.LeaderboardEntry `yaml:"leaderboard"`
}

type navFile struct {
	Nav []models.NavLink `yaml:"nav"`
}

// LoadDefaults builds a store from the embedded catalogs
func LoadDefaults() (*Store, error) {
	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalogs: %w", err)
	}
	return load(sub, nil)
}

// LoadFromDir builds a store from YAML catalogs in dir. Catalog files that are
// absent from dir fall back to the embedded defaults.
func LoadFromDir(dir string) (*Store, error) {
	slog.Info("loading content from directory", "dir", dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path is not a directory: %s", dir)
	}

	sub, err := fs.Sub(defaultsFS, "defaults")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalogs: %w", err)
	}
	return load(sub, os.DirFS(dir))
}

func load(defaults, override fs.FS) (*Store, error) {
	var (
		pf projectsFile
		sf stagesFile
		qf quizFile
		lf leaderboardFile
		nf navFile
	)

	files := []struct {
		name string
		dest interface{}
	}{
		{ProjectsFile, &pf},
		{StagesFile, &sf},
		{QuizFile, &qf},
		{LeaderboardFile, &lf},
		{NavFile, &nf},
	}

	for _, f := range files {
		if err := readCatalog(defaults, override, f.name, f.dest); err != nil {
			return nil, err
		}
	}

	if err := validateProjects(pf.Projects); err != nil {
		return nil, err
	}
	if err := validateStages(sf.Stages); err != nil {
		return nil, err
	}
	if err := validateQuestions(qf.Questions); err != nil {
		return nil, err
	}

	s := &Store{
		projects:    pf.Projects,
		stages:      sf.Stages,
		questions:   qf.Questions,
		leaderboard: lf.Leaderboard,
		nav:         nf.Nav,
	}

	slog.Info("content loaded",
		"projects", len(s.projects),
		"stages", len(s.stages),
		"questions", len(s.questions),
		"leaderboard", len(s.leaderboard),
	)
	return s, nil
}

// readCatalog parses name from override when present, otherwise from defaults
func readCatalog(defaults, override fs.FS, name string, dest interface{}) error {
	source := "embedded"
	data, err := readOverride(override, name)
	if err != nil {
		return err
	}
	if data != nil {
		source = "dir"
	} else {
		data, err = fs.ReadFile(defaults, name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	slog.Debug("catalog parsed", "file", name, "source", source)
	return nil
}

func readOverride(override fs.FS, name string) ([]byte, error) {
	if override == nil {
		return nil, nil
	}
	data, err := fs.ReadFile(override, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func validateProjects(projects []models.Project) error {
	seen := make(map[int64]bool, len(projects))
	for _, p := range projects {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalidCatalog, p.ID)
		}
		seen[p.ID] = true

		if p.Name == "" {
			return fmt.Errorf("%w: project %d has no name", ErrInvalidCatalog, p.ID)
		}
		if !p.Category.IsValid() {
			return fmt.Errorf("%w: project %d has unknown category %q", ErrInvalidCatalog, p.ID, p.Category)
		}
		if !p.Difficulty.IsValid() {
			return fmt.Errorf("%w: project %d has unknown difficulty %q", ErrInvalidCatalog, p.ID, p.Difficulty)
		}
	}
	return nil
}

func validateStages(stages []models.LearningStage) error {
	ids := make(map[int]bool, len(stages))
	for _, st := range stages {
		if ids[st.ID] {
			return fmt.Errorf("%w: duplicate stage id %d", ErrInvalidCatalog, st.ID)
		}
		ids[st.ID] = true

		if !st.Level.IsValid() {
			return fmt.Errorf("%w: stage %d has unknown level %q", ErrInvalidCatalog, st.ID, st.Level)
		}

		topics := make(map[string]bool, len(st.Subtopics))
		for _, t := range st.Subtopics {
			if t.ID == "" {
				return fmt.Errorf("%w: stage %d has a subtopic without id", ErrInvalidCatalog, st.ID)
			}
			if topics[t.ID] {
				return fmt.Errorf("%w: stage %d has duplicate subtopic %q", ErrInvalidCatalog, st.ID, t.ID)
			}
			topics[t.ID] = true
		}
	}
	return nil
}

func validateQuestions(questions []models.QuizQuestion) error {
	for _, q := range questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidCatalog, q.ID)
		}
		if !q.HasOption(q.CorrectAnswer) {
			return fmt.Errorf("%w: question %d correct answer is not an option", ErrInvalidCatalog, q.ID)
		}
		if q.Points <= 0 {
			return fmt.Errorf("%w: question %d must be worth positive points", ErrInvalidCatalog, q.ID)
		}
	}
	return nil
}
