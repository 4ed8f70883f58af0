package projectconfig

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/models"
)

// RootConfigFileName marks the CLI root directory.
const RootConfigFileName = "lean.json"

// ErrRootNotFound is returned when no ancestor of the working directory
// contains lean.json.
var ErrRootNotFound = fmt.Errorf("%s not found in the current directory or any parent", RootConfigFileName)

// Manager hands out project config stores under one CLI root and converts
// between absolute project paths and root-relative project names.
type Manager struct {
	fs   filesystem.FileSystem
	root string
}

// NewManager creates a Manager for the CLI root at root
func NewManager(fs filesystem.FileSystem, root string) *Manager {
	return &Manager{fs: fs, root: filepath.Clean(root)}
}

// Detect walks up from the working directory to the nearest lean.json and
// returns a Manager rooted there.
func Detect(fs filesystem.FileSystem) (*Manager, error) {
	cwd, err := fs.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	root, found := findFileUp(fs, cwd, RootConfigFileName)
	if !found {
		return nil, ErrRootNotFound
	}

	return NewManager(fs, filepath.Dir(root)), nil
}

func findFileUp(fs filesystem.FileSystem, startDir, filename string) (string, bool) {
	dir := filepath.Clean(startDir)

	for {
		candidate := filepath.Join(dir, filename)
		if fs.Exists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Root returns the CLI root directory
func (m *Manager) Root() string {
	return m.root
}

// Store returns the config store of the project at projectPath
func (m *Manager) Store(projectPath string) *Store {
	return NewStore(m.fs, m.Abs(projectPath))
}

// Abs resolves a root-relative project name (or an absolute path) to an
// absolute, cleaned path.
func (m *Manager) Abs(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.root, path)
}

// Name returns the project's path relative to the root with forward slashes.
func (m *Manager) Name(projectPath string) (string, error) {
	rel, err := filepath.Rel(m.root, m.Abs(projectPath))
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", projectPath, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", cerrors.NewConfigurationError(projectPath, "project is not inside the CLI root "+m.root)
	}
	return filepath.ToSlash(rel), nil
}

// IsProject reports whether projectPath holds a config.json
func (m *Manager) IsProject(projectPath string) bool {
	return m.Store(projectPath).Exists()
}

// LoadProject reads the project at projectPath. Library paths are returned
// as absolute paths in config order.
func (m *Manager) LoadProject(projectPath string) (*models.LocalProject, error) {
	path := m.Abs(projectPath)
	store := m.Store(path)
	if !store.Exists() {
		return nil, cerrors.NewConfigurationError(path, ProjectConfigFileName+" not found")
	}

	name, err := m.Name(path)
	if err != nil {
		return nil, err
	}

	project := &models.LocalProject{Path: path, Name: name}

	if project.Description, err = store.GetString(KeyDescription, ""); err != nil {
		return nil, err
	}
	if project.CloudID, err = store.GetIntPtr(KeyCloudID); err != nil {
		return nil, err
	}
	if project.Engine, err = store.GetIntPtr(KeyEngine); err != nil {
		return nil, err
	}
	if project.Environment, err = store.GetIntPtr(KeyEnvironment); err != nil {
		return nil, err
	}
	if project.Parameters, err = store.GetStringMap(KeyParameters); err != nil {
		return nil, err
	}

	language, err := store.GetString(KeyLanguage, "")
	if err != nil {
		return nil, err
	}
	if language != "" {
		if project.Language, err = models.ParseLanguage(language); err != nil {
			return nil, &cerrors.ConfigurationError{Path: store.Path(), Message: "invalid " + KeyLanguage, Err: err}
		}
	}

	refs, err := store.GetLibraries()
	if err != nil {
		return nil, err
	}
	for _, ref := range refs {
		project.Libraries = append(project.Libraries, m.Abs(ref.Path))
	}

	return project, nil
}

// DataDir returns the market data directory, which never holds projects
func (m *Manager) DataDir() string {
	return filepath.Join(m.root, "data")
}

// ListProjects returns the absolute paths of every project under the root,
// sorted. Hidden directories and the data directory are not searched.
func (m *Manager) ListProjects() ([]string, error) {
	var projects []string

	err := m.fs.WalkDir(m.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == m.root {
			return nil
		}
		if entry.IsDir() && (strings.HasPrefix(entry.Name(), ".") || path == m.DataDir()) {
			return filepath.SkipDir
		}
		if !entry.IsDir() && entry.Name() == ProjectConfigFileName && filepath.Dir(path) != m.root {
			projects = append(projects, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects under %s: %w", m.root, err)
	}

	sort.Strings(projects)
	return projects, nil
}
