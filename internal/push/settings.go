package push

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
)

// settingsUpdate compares the local settings with the remote record and
// returns the partial update plus the config keys it touches. The
// environment is not checked against the known environments here.
func settingsUpdate(local *models.LocalProject, remote *models.RemoteProject) (models.ProjectUpdate, []string) {
	var update models.ProjectUpdate
	var fields []string

	if local.Description != remote.Description {
		description := local.Description
		update.Description = &description
		fields = append(fields, projectconfig.KeyDescription)
	}

	if !maps.Equal(local.Parameters, remote.Parameters) {
		update.Parameters = maps.Clone(local.Parameters)
		if update.Parameters == nil {
			update.Parameters = map[string]string{}
		}
		fields = append(fields, projectconfig.KeyParameters)
	}

	// An unset engine means "follow the default"; -1 in the config means
	// the same thing.
	engine := local.Engine
	if engine != nil && *engine == models.DefaultEngine {
		engine = nil
	}
	switch {
	case engine == nil && !remote.PinnedToDefault:
		value := models.DefaultEngine
		update.Engine = &value
		fields = append(fields, projectconfig.KeyEngine)
	case engine != nil && *engine != remote.EngineVersion:
		value := *engine
		update.Engine = &value
		fields = append(fields, projectconfig.KeyEngine)
	}

	if local.Environment != nil && (remote.Environment == nil || *remote.Environment != *local.Environment) {
		value := *local.Environment
		update.Environment = &value
		fields = append(fields, projectconfig.KeyEnvironment)
	}

	return update, fields
}

// reconcileSettings pushes every differing setting in a single update call.
// An environment the remote directory does not know is skipped with a
// warning. It returns the config keys that were pushed.
func (m *Manager) reconcileSettings(ctx context.Context, local *models.LocalProject, remote *models.RemoteProject, b *batch) ([]string, error) {
	update, fields := settingsUpdate(local, remote)

	var envErr error
	if update.Environment != nil {
		known, err := m.environment(ctx, b, *update.Environment)
		switch {
		case err != nil:
			envErr = err
		case !known:
			m.logger.Warn().
				Str("project", local.Path).
				Int("environment", *update.Environment).
				Msg("skipping unknown environment")
		}
		if err != nil || !known {
			update.Environment = nil
			fields = removeField(fields, projectconfig.KeyEnvironment)
		}
	}

	if update.IsEmpty() {
		return nil, envErr
	}

	if err := m.dir.Update(ctx, remote.ID, update); err != nil {
		return nil, errors.Join(cerrors.NewRemoteOperationError(cloud.OpUpdate, remote.ID, err), envErr)
	}
	m.logger.Debug().Int("project_id", remote.ID).Strs("fields", fields).Msg("updated project settings")

	return fields, envErr
}

// environment reports whether id is a known environment. The list is
// fetched at most once per batch.
func (m *Manager) environment(ctx context.Context, b *batch, id int) (bool, error) {
	if !b.envLoaded {
		b.envLoaded = true
		environments, err := m.dir.ListEnvironments(ctx)
		if err != nil {
			b.envErr = cerrors.NewRemoteOperationError(cloud.OpListEnvironments, 0, err)
		} else {
			b.environments = make(map[int]*models.Environment, len(environments))
			for _, e := range environments {
				b.environments[e.ID] = e
			}
		}
	}

	if b.envErr != nil {
		return false, fmt.Errorf("cannot verify environment %d: %w", id, b.envErr)
	}
	_, ok := b.environments[id]
	return ok, nil
}

func removeField(fields []string, field string) []string {
	kept := fields[:0]
	for _, f := range fields {
		if f != field {
			kept = append(kept, f)
		}
	}
	return kept
}
