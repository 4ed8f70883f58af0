// Package library tracks which projects reference which libraries. The edges
// live in the "libraries" array of each dependent's config.json.
package library

import (
	"fmt"
	"path"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
)

// Manager resolves and edits library references under one CLI root
type Manager struct {
	configs *projectconfig.Manager
}

// NewManager creates a new library manager
func NewManager(configs *projectconfig.Manager) *Manager {
	return &Manager{configs: configs}
}

// DirectLibraries returns the absolute paths of the libraries projectPath
// references, in config order with duplicates dropped. Every reference must
// point at an existing project.
func (m *Manager) DirectLibraries(projectPath string) ([]string, error) {
	projectPath = m.configs.Abs(projectPath)
	store := m.configs.Store(projectPath)
	if !store.Exists() {
		return nil, cerrors.NewConfigurationError(projectPath, projectconfig.ProjectConfigFileName+" not found")
	}

	refs, err := store.GetLibraries()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(refs))
	libraries := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Path == "" {
			return nil, cerrors.NewConfigurationError(store.Path(), fmt.Sprintf("library reference %q has no path", ref.Name))
		}

		libraryPath := m.configs.Abs(ref.Path)
		if !m.configs.IsProject(libraryPath) {
			return nil, cerrors.NewConfigurationError(store.Path(), fmt.Sprintf("referenced library %s is not a project", ref.Path))
		}

		if seen[libraryPath] {
			continue
		}
		seen[libraryPath] = true
		libraries = append(libraries, libraryPath)
	}

	return libraries, nil
}

// ProjectLibraries returns every library projectPath depends on, directly or
// through other libraries. A library always comes after the libraries it
// depends on itself, so the result can be processed front to back. Cycles
// are tolerated; each library appears once and projectPath never does.
func (m *Manager) ProjectLibraries(projectPath string) ([]string, error) {
	projectPath = m.configs.Abs(projectPath)

	var ordered []string
	visited := map[string]bool{projectPath: true}

	var visit func(string) error
	visit = func(current string) error {
		direct, err := m.DirectLibraries(current)
		if err != nil {
			return err
		}
		for _, library := range direct {
			if visited[library] {
				continue
			}
			visited[library] = true
			if err := visit(library); err != nil {
				return err
			}
			ordered = append(ordered, library)
		}
		return nil
	}

	if err := visit(projectPath); err != nil {
		return nil, err
	}
	return ordered, nil
}

// AddReference makes dependent reference library. Adding a reference that
// already exists is a no-op.
func (m *Manager) AddReference(dependent, library string) error {
	dependent = m.configs.Abs(dependent)
	library = m.configs.Abs(library)

	if dependent == library {
		return cerrors.NewConfigurationError(dependent, "a project cannot reference itself")
	}
	if !m.configs.IsProject(dependent) {
		return cerrors.NewConfigurationError(dependent, projectconfig.ProjectConfigFileName+" not found")
	}
	if !m.configs.IsProject(library) {
		return cerrors.NewConfigurationError(library, "library is not a project")
	}

	name, err := m.configs.Name(library)
	if err != nil {
		return err
	}
	if !models.IsLibraryName(name) {
		return cerrors.NewConfigurationError(library, "libraries must live in the "+models.LibraryDirName+" directory")
	}

	store := m.configs.Store(dependent)
	refs, err := store.GetLibraries()
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if m.configs.Abs(ref.Path) == library {
			return nil
		}
	}

	refs = append(refs, models.LibraryReference{Name: path.Base(name), Path: name})
	if err := store.SetLibraries(refs); err != nil {
		return fmt.Errorf("failed to add library %s to %s: %w", name, dependent, err)
	}
	return nil
}

// RemoveReference drops every reference from dependent to library. Removing
// a reference that does not exist is a no-op.
func (m *Manager) RemoveReference(dependent, library string) error {
	dependent = m.configs.Abs(dependent)
	library = m.configs.Abs(library)

	store := m.configs.Store(dependent)
	refs, err := store.GetLibraries()
	if err != nil {
		return err
	}

	kept := make([]models.LibraryReference, 0, len(refs))
	for _, ref := range refs {
		if m.configs.Abs(ref.Path) != library {
			kept = append(kept, ref)
		}
	}
	if len(kept) == len(refs) {
		return nil
	}

	if err := store.SetLibraries(kept); err != nil {
		return fmt.Errorf("failed to remove library %s from %s: %w", library, dependent, err)
	}
	return nil
}

// ProjectsReferencing returns every project under the root that references
// library directly, sorted by path.
func (m *Manager) ProjectsReferencing(library string) ([]string, error) {
	library = m.configs.Abs(library)

	projects, err := m.configs.ListProjects()
	if err != nil {
		return nil, err
	}

	var dependents []string
	for _, project := range projects {
		if project == library {
			continue
		}

		refs, err := m.configs.Store(project).GetLibraries()
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if m.configs.Abs(ref.Path) == library {
				dependents = append(dependents, project)
				break
			}
		}
	}

	return dependents, nil
}
