package project

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
)

// excludedDirs never hold source files, wherever they appear in a project.
var excludedDirs = map[string]bool{
	"backtests":          true,
	"optimizations":      true,
	"live":               true,
	"bin":                true,
	"obj":                true,
	".ipynb_checkpoints": true,
	"__pycache__":        true,
}

// Manager reads and moves project directories
type Manager struct {
	fs      filesystem.FileSystem
	configs *projectconfig.Manager
}

// NewManager creates a new project manager
func NewManager(fs filesystem.FileSystem, configs *projectconfig.Manager) *Manager {
	return &Manager{fs: fs, configs: configs}
}

// SourceFiles returns the files of the project that are uploaded to the
// cloud, in lexical order of their project-relative names.
func (m *Manager) SourceFiles(projectPath string) ([]*models.SourceFile, error) {
	projectPath = m.configs.Abs(projectPath)
	if !m.configs.IsProject(projectPath) {
		return nil, cerrors.NewConfigurationError(projectPath, projectconfig.ProjectConfigFileName+" not found")
	}

	ignore, err := m.loadGitIgnore(projectPath)
	if err != nil {
		return nil, err
	}

	var files []*models.SourceFile
	err = m.fs.WalkDir(projectPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == projectPath {
			return nil
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") || (entry.IsDir() && excludedDirs[name]) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(projectPath, path)
		if err != nil {
			return err
		}

		if ignore != nil {
			if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() || rel == projectconfig.ProjectConfigFileName {
			return nil
		}

		content, err := m.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		files = append(files, &models.SourceFile{
			Name:    filepath.ToSlash(rel),
			Path:    path,
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list source files of %s: %w", projectPath, err)
	}

	return files, nil
}

func (m *Manager) loadGitIgnore(projectPath string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(projectPath, ".gitignore")
	if !m.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := m.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), projectPath, nil), nil
}

// Language returns the configured algorithm language, falling back to the
// entry point found in the project directory.
func (m *Manager) Language(projectPath string) (models.Language, error) {
	projectPath = m.configs.Abs(projectPath)

	configured, err := m.configs.Store(projectPath).GetString(projectconfig.KeyLanguage, "")
	if err != nil {
		return "", err
	}
	if configured != "" {
		language, err := models.ParseLanguage(configured)
		if err != nil {
			return "", &cerrors.ConfigurationError{Path: projectPath, Message: "invalid " + projectconfig.KeyLanguage, Err: err}
		}
		return language, nil
	}

	if m.fs.Exists(filepath.Join(projectPath, "main.py")) {
		return models.LanguagePython, nil
	}
	if m.fs.Exists(filepath.Join(projectPath, "Main.cs")) {
		return models.LanguageCSharp, nil
	}

	entries, err := m.fs.ReadDir(projectPath)
	if err != nil {
		return "", fmt.Errorf("failed to read project directory: %w", err)
	}
	for _, entry := range entries {
		switch {
		case entry.IsDir():
		case strings.HasSuffix(entry.Name(), ".py"):
			return models.LanguagePython, nil
		case strings.HasSuffix(entry.Name(), ".cs"):
			return models.LanguageCSharp, nil
		}
	}

	return "", cerrors.NewConfigurationError(projectPath, "cannot determine the algorithm language")
}

// Rename moves the project to newName, a path relative to the CLI root, and
// returns the new absolute path. A C# project file named after the directory
// is renamed along with it. Libraries have to stay in the Library directory.
func (m *Manager) Rename(projectPath, newName string) (string, error) {
	oldPath := m.configs.Abs(projectPath)
	if !m.configs.IsProject(oldPath) {
		return "", cerrors.NewConfigurationError(oldPath, projectconfig.ProjectConfigFileName+" not found")
	}

	oldName, err := m.configs.Name(oldPath)
	if err != nil {
		return "", err
	}

	newName = strings.Trim(filepath.ToSlash(strings.TrimSpace(newName)), "/")
	if newName == "" {
		return "", cerrors.NewConfigurationError(oldPath, "new project name is empty")
	}

	newPath := filepath.Join(m.configs.Root(), filepath.FromSlash(newName))
	if _, err := m.configs.Name(newPath); err != nil {
		return "", err
	}
	if newPath == oldPath {
		return oldPath, nil
	}

	if models.IsLibraryName(oldName) && !models.IsLibraryName(newName) {
		return "", cerrors.NewConfigurationError(oldPath, "a library must stay in the "+models.LibraryDirName+" directory")
	}
	if m.fs.Exists(newPath) {
		return "", fmt.Errorf("cannot rename %s: %s already exists", oldName, newName)
	}

	if err := m.fs.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("failed to rename %s to %s: %w", oldName, newName, err)
	}

	oldProjectFile := filepath.Join(newPath, filepath.Base(oldPath)+".csproj")
	if filepath.Base(oldPath) != filepath.Base(newPath) && m.fs.Exists(oldProjectFile) {
		newProjectFile := filepath.Join(newPath, filepath.Base(newPath)+".csproj")
		if err := m.fs.Rename(oldProjectFile, newProjectFile); err != nil {
			return newPath, fmt.Errorf("failed to rename project file: %w", err)
		}
	}

	return newPath, nil
}
