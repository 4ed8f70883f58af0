package project

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/rs/zerolog"
)

// ReferenceEditor edits library references between projects
type ReferenceEditor interface {
	ProjectsReferencing(library string) ([]string, error)
	AddReference(dependent, library string) error
	RemoveReference(dependent, library string) error
}

// Renamer moves a project directory
type Renamer interface {
	Rename(projectPath, newName string) (string, error)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Settings holds the project settings to change. Nil fields are left alone;
// an empty string deletes the key.
type Settings struct {
	Name        *string
	Description *string
	Image       *string
	Environment *string
	Engine      *string

	// Parameters are merged into the configured parameters
	Parameters map[string]string
}

// Updater changes project settings and renames projects without leaving
// library references pointing at directories that no longer exist.
type Updater struct {
	configs    *projectconfig.Manager
	references ReferenceEditor
	renamer    Renamer
	confirmer  Confirmer
	logger     zerolog.Logger
}

// UpdaterOption configures an Updater
type UpdaterOption func(*Updater)

// WithConfirmer makes Rename ask before touching dependent projects
func WithConfirmer(confirmer Confirmer) UpdaterOption {
	return func(u *Updater) {
		u.confirmer = confirmer
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) UpdaterOption {
	return func(u *Updater) {
		u.logger = logger
	}
}

// NewUpdater creates a new project updater
func NewUpdater(configs *projectconfig.Manager, references ReferenceEditor, renamer Renamer, opts ...UpdaterOption) *Updater {
	u := &Updater{
		configs:    configs,
		references: references,
		renamer:    renamer,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Apply writes settings to the project config and renames the project last.
// It returns the project path after the update.
func (u *Updater) Apply(projectPath string, settings Settings) (string, error) {
	projectPath = u.configs.Abs(projectPath)
	store := u.configs.Store(projectPath)
	if !store.Exists() {
		return "", cerrors.NewConfigurationError(projectPath, projectconfig.ProjectConfigFileName+" not found")
	}

	if settings.Description != nil {
		if err := store.Set(projectconfig.KeyDescription, *settings.Description); err != nil {
			return "", err
		}
	}

	if settings.Image != nil {
		if err := setOrDelete(store, projectconfig.KeyEngineImage, *settings.Image, false); err != nil {
			return "", err
		}
	}

	if settings.Environment != nil {
		if err := setOrDelete(store, projectconfig.KeyEnvironment, *settings.Environment, true); err != nil {
			return "", err
		}
	}

	if settings.Engine != nil {
		if err := setOrDelete(store, projectconfig.KeyEngine, *settings.Engine, true); err != nil {
			return "", err
		}
	}

	if len(settings.Parameters) > 0 {
		parameters, err := store.GetStringMap(projectconfig.KeyParameters)
		if err != nil {
			return "", err
		}
		maps.Copy(parameters, settings.Parameters)
		if err := store.Set(projectconfig.KeyParameters, parameters); err != nil {
			return "", err
		}
	}

	if settings.Name != nil && *settings.Name != "" {
		return u.Rename(projectPath, *settings.Name)
	}

	return projectPath, nil
}

func setOrDelete(store *projectconfig.Store, key, value string, integer bool) error {
	if value == "" {
		return store.Delete(key)
	}
	if !integer {
		return store.Set(key, value)
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q is not an integer", key, value)
	}
	return store.Set(key, parsed)
}

// Rename renames the project and moves every library reference to it from
// the old path to the new one. References are detached before the rename and
// re-attached afterwards. When the rename fails the detached references are
// restored on the old path.
func (u *Updater) Rename(projectPath, newName string) (string, error) {
	oldPath := u.configs.Abs(projectPath)

	dependents, err := u.references.ProjectsReferencing(oldPath)
	if err != nil {
		return "", fmt.Errorf("failed to find projects referencing %s: %w", oldPath, err)
	}

	if len(dependents) > 0 && u.confirmer != nil {
		ok, err := u.confirmer.Confirm(fmt.Sprintf("%d project(s) reference %s and will be updated. Continue?", len(dependents), oldPath))
		if err != nil {
			return "", err
		}
		if !ok {
			return "", cerrors.ErrUserAbort
		}
	}

	var detached []string
	for _, dependent := range dependents {
		if err := u.references.RemoveReference(dependent, oldPath); err != nil {
			return "", errors.Join(
				fmt.Errorf("failed to detach %s from %s: %w", oldPath, dependent, err),
				u.reattach(detached, oldPath),
			)
		}
		u.logger.Debug().Str("project", dependent).Str("library", oldPath).Msg("detached library reference")
		detached = append(detached, dependent)
	}

	newPath, err := u.renamer.Rename(oldPath, newName)
	if err != nil {
		u.logger.Warn().Err(err).Str("project", oldPath).Msg("rename failed, restoring library references")
		return "", errors.Join(err, u.reattach(detached, oldPath))
	}

	// The rename is done at this point. Dependents that cannot be re-attached
	// stay detached and need `library add` by hand.
	if err := u.reattach(detached, newPath); err != nil {
		return newPath, err
	}

	return newPath, nil
}

func (u *Updater) reattach(dependents []string, library string) error {
	var errs []error
	for _, dependent := range dependents {
		if err := u.references.AddReference(dependent, library); err != nil {
			u.logger.Warn().Err(err).Str("project", dependent).Str("library", library).Msg("library reference left detached")
			errs = append(errs, fmt.Errorf("failed to attach %s to %s: %w", library, dependent, err))
			continue
		}
		u.logger.Debug().Str("project", dependent).Str("library", library).Msg("attached library reference")
	}
	return errors.Join(errs...)
}
