package push

import (
	"context"
	"errors"
	"strings"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	difflib "github.com/pmezard/go-difflib/difflib"
)

// FileChange describes an updated file
type FileChange struct {
	Name    string
	Added   int
	Removed int

	// Diff is the unified diff from the remote to the local content
	Diff string
}

// uploadFiles creates local files missing remotely and updates the ones
// whose content differs. Files that only exist remotely are left alone. A
// failing file does not stop the others.
func (m *Manager) uploadFiles(ctx context.Context, projectID int, path string) (created []string, updated []FileChange, err error) {
	files, err := m.sources.SourceFiles(path)
	if err != nil {
		return nil, nil, err
	}

	remoteFiles, err := m.dir.ListFiles(ctx, projectID)
	if err != nil {
		return nil, nil, cerrors.NewRemoteOperationError(cloud.OpListFiles, projectID, err)
	}

	remoteContent := make(map[string]string, len(remoteFiles))
	for _, f := range remoteFiles {
		remoteContent[f.Name] = f.Content
	}

	var errs []error
	for _, file := range files {
		content, exists := remoteContent[file.Name]

		switch {
		case !exists:
			if err := m.dir.CreateFile(ctx, projectID, file.Name, file.Content); err != nil {
				errs = append(errs, cerrors.NewRemoteOperationError(cloud.OpCreateFile, projectID, err))
				continue
			}
			created = append(created, file.Name)

		case content != file.Content:
			if err := m.dir.UpdateFile(ctx, projectID, file.Name, file.Content); err != nil {
				errs = append(errs, cerrors.NewRemoteOperationError(cloud.OpUpdateFile, projectID, err))
				continue
			}
			updated = append(updated, diffFile(file.Name, content, file.Content))
		}
	}

	return created, updated, errors.Join(errs...)
}

func diffFile(name, remote, local string) FileChange {
	change := FileChange{Name: name}

	a := splitLinesKeepNL(remote)
	b := splitLinesKeepNL(local)
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'r':
			change.Removed += op.I2 - op.I1
			change.Added += op.J2 - op.J1
		case 'd':
			change.Removed += op.I2 - op.I1
		case 'i':
			change.Added += op.J2 - op.J1
		}
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: "cloud/" + name,
		ToFile:   "local/" + name,
		Context:  3,
	})
	if err == nil {
		change.Diff = diff
	}
	return change
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
