package cloud

import (
	"context"

	"github.com/jakoblorz/go-leancloud/internal/models"
)

// CallRecorder counts remote calls
type CallRecorder interface {
	RecordRemoteCall(operation string, err error)
}

// Instrumented wraps a ProjectDirectory and reports every call to a
// CallRecorder.
type Instrumented struct {
	next     ProjectDirectory
	recorder CallRecorder
}

var _ ProjectDirectory = (*Instrumented)(nil)

// NewInstrumented wraps next
func NewInstrumented(next ProjectDirectory, recorder CallRecorder) *Instrumented {
	return &Instrumented{next: next, recorder: recorder}
}

func (i *Instrumented) Create(ctx context.Context, name string, language models.Language, environment *int) (*models.RemoteProject, error) {
	project, err := i.next.Create(ctx, name, language, environment)
	i.recorder.RecordRemoteCall(OpCreate, err)
	return project, err
}

func (i *Instrumented) Get(ctx context.Context, id int) (*models.RemoteProject, error) {
	project, err := i.next.Get(ctx, id)
	i.recorder.RecordRemoteCall(OpGet, err)
	return project, err
}

func (i *Instrumented) Update(ctx context.Context, id int, update models.ProjectUpdate) error {
	err := i.next.Update(ctx, id, update)
	i.recorder.RecordRemoteCall(OpUpdate, err)
	return err
}

func (i *Instrumented) AddLibrary(ctx context.Context, projectID, libraryID int) error {
	err := i.next.AddLibrary(ctx, projectID, libraryID)
	i.recorder.RecordRemoteCall(OpAddLibrary, err)
	return err
}

func (i *Instrumented) DeleteLibrary(ctx context.Context, projectID, libraryID int) error {
	err := i.next.DeleteLibrary(ctx, projectID, libraryID)
	i.recorder.RecordRemoteCall(OpDeleteLibrary, err)
	return err
}

func (i *Instrumented) ListFiles(ctx context.Context, projectID int) ([]*models.RemoteFile, error) {
	files, err := i.next.ListFiles(ctx, projectID)
	i.recorder.RecordRemoteCall(OpListFiles, err)
	return files, err
}

func (i *Instrumented) CreateFile(ctx context.Context, projectID int, name, content string) error {
	err := i.next.CreateFile(ctx, projectID, name, content)
	i.recorder.RecordRemoteCall(OpCreateFile, err)
	return err
}

func (i *Instrumented) UpdateFile(ctx context.Context, projectID int, name, content string) error {
	err := i.next.UpdateFile(ctx, projectID, name, content)
	i.recorder.RecordRemoteCall(OpUpdateFile, err)
	return err
}

func (i *Instrumented) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	environments, err := i.next.ListEnvironments(ctx)
	i.recorder.RecordRemoteCall(OpListEnvironments, err)
	return environments, err
}
