package push

import (
	"context"
	"fmt"
	"slices"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/models"
)

// diffLibraries returns desired minus current and current minus desired,
// each sorted ascending and free of duplicates.
func diffLibraries(current, desired []int) (toAdd, toRemove []int) {
	currentSet := make(map[int]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[int]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	for id := range desiredSet {
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}

	slices.Sort(toAdd)
	slices.Sort(toRemove)
	return toAdd, toRemove
}

// syncLibraries makes the library associations of remote equal desired.
// Removals are confirmed before any call is made. remote.Libraries is
// updated to the reconciled set.
func (m *Manager) syncLibraries(ctx context.Context, remote *models.RemoteProject, desired []int) (added, removed []int, err error) {
	toAdd, toRemove := diffLibraries(remote.Libraries, desired)

	if len(toRemove) > 0 && m.confirmer != nil {
		ok, err := m.confirmer.Confirm(fmt.Sprintf("Remove %d library association(s) from cloud project %q?", len(toRemove), remote.Name))
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, cerrors.ErrUserAbort
		}
	}

	for _, id := range toAdd {
		if err := m.dir.AddLibrary(ctx, remote.ID, id); err != nil {
			return added, removed, cerrors.NewRemoteOperationError(cloud.OpAddLibrary, remote.ID, err)
		}
		added = append(added, id)
		remote.Libraries = append(remote.Libraries, id)
	}

	for _, id := range toRemove {
		if err := m.dir.DeleteLibrary(ctx, remote.ID, id); err != nil {
			return added, removed, cerrors.NewRemoteOperationError(cloud.OpDeleteLibrary, remote.ID, err)
		}
		removed = append(removed, id)
		remote.Libraries = slices.DeleteFunc(remote.Libraries, func(l int) bool { return l == id })
	}

	if len(added) > 0 || len(removed) > 0 {
		m.logger.Debug().
			Int("project_id", remote.ID).
			Ints("added", added).
			Ints("removed", removed).
			Msg("synchronized library associations")
	}
	return added, removed, nil
}
