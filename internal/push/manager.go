// Package push brings remote projects in line with their local counterparts:
// it creates missing remote projects (libraries first), reconciles library
// associations, uploads changed files and pushes differing settings.
package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/metrics"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/rs/zerolog"
)

// ErrPushFailed is returned when at least one project of a batch failed
var ErrPushFailed = errors.New("push failed")

// ConfigSource reads local projects and persists their cloud ids
type ConfigSource interface {
	Abs(projectPath string) string
	LoadProject(projectPath string) (*models.LocalProject, error)
	Name(projectPath string) (string, error)
	Store(projectPath string) *projectconfig.Store
}

// LibraryResolver returns the libraries a project depends on
type LibraryResolver interface {
	// DirectLibraries returns the libraries the project references itself
	DirectLibraries(projectPath string) ([]string, error)

	// ProjectLibraries returns all libraries, dependencies before dependents
	ProjectLibraries(projectPath string) ([]string, error)
}

// SourceEnumerator lists the files of a project that are uploaded
type SourceEnumerator interface {
	SourceFiles(projectPath string) ([]*models.SourceFile, error)
	Language(projectPath string) (models.Language, error)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Manager pushes local projects to a remote project directory
type Manager struct {
	dir       cloud.ProjectDirectory
	configs   ConfigSource
	libraries LibraryResolver
	sources   SourceEnumerator
	confirmer Confirmer
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithConfirmer makes the manager ask before removing library associations
func WithConfirmer(confirmer Confirmer) Option {
	return func(m *Manager) {
		m.confirmer = confirmer
	}
}

// WithMetrics records remote calls and push results
func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new push manager
func NewManager(dir cloud.ProjectDirectory, configs ConfigSource, libraries LibraryResolver, sources SourceEnumerator, opts ...Option) *Manager {
	m := &Manager{
		dir:       dir,
		configs:   configs,
		libraries: libraries,
		sources:   sources,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics != nil {
		m.dir = cloud.NewInstrumented(dir, m.metrics)
	}
	return m
}

// batch is the state shared by the projects of one PushProjects call
type batch struct {
	arena        *identityArena
	environments map[int]*models.Environment
	envErr       error
	envLoaded    bool
}

// PushProjects pushes every project in projectPaths together with the
// libraries it depends on. Libraries are pushed before their dependents and
// every project is pushed at most once. A failing project does not stop the
// batch: its error is recorded in the report and ErrPushFailed is returned
// once all projects were attempted.
func (m *Manager) PushProjects(ctx context.Context, projectPaths []string) (*Report, error) {
	start := time.Now()
	defer func() { m.metrics.ObservePush(time.Since(start).Seconds()) }()

	b := &batch{arena: newIdentityArena()}
	report := &Report{}

	order, expandErrs := m.pushOrder(projectPaths)
	for _, path := range order {
		if err, failed := expandErrs[path]; failed {
			report.add(m.finish(&ProjectResult{Path: path, Err: err}))
			continue
		}
		report.add(m.pushProject(ctx, path, b))
	}

	if failed := report.Failed(); failed > 0 {
		return report, fmt.Errorf("%w: %d of %d projects", ErrPushFailed, failed, len(report.Results))
	}
	return report, nil
}

// pushOrder expands the requested projects with their libraries, libraries
// first, dropping duplicates. A project whose libraries cannot be listed is
// still part of the order and carries its error.
func (m *Manager) pushOrder(projectPaths []string) ([]string, map[string]error) {
	var order []string
	seen := make(map[string]bool)
	failed := make(map[string]error)

	appendPath := func(path string) {
		if !seen[path] {
			seen[path] = true
			order = append(order, path)
		}
	}

	for _, path := range projectPaths {
		path = m.configs.Abs(path)
		libraries, err := m.libraries.ProjectLibraries(path)
		if err != nil {
			failed[path] = err
		}
		for _, library := range libraries {
			appendPath(library)
		}
		appendPath(path)
	}

	return order, failed
}

func (m *Manager) pushProject(ctx context.Context, path string, b *batch) *ProjectResult {
	result := &ProjectResult{Path: path}
	logger := m.logger.With().Str("project", path).Logger()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return m.finish(result)
	}

	local, err := m.configs.LoadProject(path)
	if err != nil {
		result.Err = err
		return m.finish(result)
	}
	result.Name = local.Name

	remote, err := m.resolve(ctx, path, b.arena)
	if err != nil {
		result.Err = err
		return m.finish(result)
	}
	result.RemoteID = remote.ID
	result.Created = b.arena.wasCreated(path)
	logger = logger.With().Int("project_id", remote.ID).Logger()

	desired, err := m.desiredLibraries(ctx, path, b.arena)
	if err != nil {
		result.Err = err
		return m.finish(result)
	}

	result.Added, result.Removed, err = m.syncLibraries(ctx, remote, desired)
	if err != nil {
		result.Err = err
		return m.finish(result)
	}
	m.metrics.RecordLibraryChanges(len(result.Added), len(result.Removed))

	// File upload and settings are independent; both run and both errors
	// are reported.
	var fileErr error
	result.FilesCreated, result.FilesUpdated, fileErr = m.uploadFiles(ctx, remote.ID, path)
	m.metrics.RecordFileUploads(len(result.FilesCreated), len(result.FilesUpdated))

	var settingsErr error
	fresh, err := m.dir.Get(ctx, remote.ID)
	if err != nil {
		settingsErr = cerrors.NewRemoteOperationError(cloud.OpGet, remote.ID, err)
	} else {
		b.arena.store(path, fresh)
		result.Updated, settingsErr = m.reconcileSettings(ctx, local, fresh, b)
	}

	result.Err = errors.Join(fileErr, settingsErr)
	if result.Err == nil {
		logger.Info().
			Bool("created", result.Created).
			Int("libraries_added", len(result.Added)).
			Int("libraries_removed", len(result.Removed)).
			Int("files_created", len(result.FilesCreated)).
			Int("files_updated", len(result.FilesUpdated)).
			Strs("settings", result.Updated).
			Msg("pushed project")
	}
	return m.finish(result)
}

func (m *Manager) finish(result *ProjectResult) *ProjectResult {
	switch {
	case result.Err == nil:
		m.metrics.RecordProject(metrics.ResultPushed)
	case cerrors.IsUserAbort(result.Err):
		m.metrics.RecordProject(metrics.ResultAborted)
		m.logger.Warn().Str("project", result.Path).Msg("push aborted")
	default:
		m.metrics.RecordProject(metrics.ResultFailed)
		m.logger.Error().Err(result.Err).Str("project", result.Path).Msg("push failed")
	}
	return result
}
