package push

import (
	"context"

	"github.com/containerd/errdefs"
	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
)

// identityArena maps local project paths to their remote projects for the
// duration of one push. It guarantees a remote project is created at most
// once per path and breaks library cycles.
type identityArena struct {
	resolved   map[string]*models.RemoteProject
	created    map[string]bool
	inProgress map[string]bool
}

func newIdentityArena() *identityArena {
	return &identityArena{
		resolved:   make(map[string]*models.RemoteProject),
		created:    make(map[string]bool),
		inProgress: make(map[string]bool),
	}
}

func (a *identityArena) lookup(path string) (*models.RemoteProject, bool) {
	project, ok := a.resolved[path]
	return project, ok
}

func (a *identityArena) store(path string, project *models.RemoteProject) {
	a.resolved[path] = project
}

func (a *identityArena) wasCreated(path string) bool {
	return a.created[path]
}

// resolve returns the remote project of path. The project's libraries are
// resolved first, depth first, so they exist remotely before any association
// to them is made. Projects without a cloud-id are created and the new id is
// persisted right away.
func (m *Manager) resolve(ctx context.Context, path string, arena *identityArena) (*models.RemoteProject, error) {
	if project, ok := arena.lookup(path); ok {
		return project, nil
	}

	arena.inProgress[path] = true
	defer delete(arena.inProgress, path)

	libraries, err := m.libraries.DirectLibraries(path)
	if err != nil {
		return nil, err
	}
	for _, library := range libraries {
		if arena.inProgress[library] {
			continue
		}
		if _, err := m.resolve(ctx, library, arena); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := m.configs.Store(path)
	cloudID, err := store.GetIntPtr(projectconfig.KeyCloudID)
	if err != nil {
		return nil, err
	}

	if cloudID != nil {
		project, err := m.dir.Get(ctx, *cloudID)
		if errdefs.IsNotFound(err) {
			m.logger.Warn().Str("project", path).Int("project_id", *cloudID).Msg("stored cloud-id does not exist remotely")
		}
		if err != nil {
			return nil, cerrors.NewRemoteOperationError(cloud.OpGet, *cloudID, err)
		}
		arena.store(path, project)
		return project, nil
	}

	name, err := m.configs.Name(path)
	if err != nil {
		return nil, err
	}
	language, err := m.sources.Language(path)
	if err != nil {
		return nil, err
	}

	project, err := m.dir.Create(ctx, name, language, nil)
	if err != nil {
		return nil, cerrors.NewRemoteOperationError(cloud.OpCreate, 0, err)
	}
	m.logger.Info().Str("project", path).Int("project_id", project.ID).Msg("created remote project")

	// The project exists remotely now, so later lookups in this push must
	// reuse it even when the cloud-id cannot be written.
	arena.store(path, project)
	arena.created[path] = true

	if err := store.Set(projectconfig.KeyCloudID, project.ID); err != nil {
		return nil, err
	}
	return project, nil
}

// desiredLibraries resolves the direct libraries of path to remote ids
func (m *Manager) desiredLibraries(ctx context.Context, path string, arena *identityArena) ([]int, error) {
	libraries, err := m.libraries.DirectLibraries(path)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(libraries))
	for _, library := range libraries {
		project, err := m.resolve(ctx, library, arena)
		if err != nil {
			return nil, err
		}
		ids = append(ids, project.ID)
	}
	return ids, nil
}
