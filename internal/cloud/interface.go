package cloud

import (
	"context"

	"github.com/jakoblorz/go-leancloud/internal/models"
)

// ProjectDirectory provides an abstraction over the remote project service
type ProjectDirectory interface {
	// Project operations
	Create(ctx context.Context, name string, language models.Language, environment *int) (*models.RemoteProject, error)
	Get(ctx context.Context, id int) (*models.RemoteProject, error)
	Update(ctx context.Context, id int, update models.ProjectUpdate) error

	// Library associations
	AddLibrary(ctx context.Context, projectID, libraryID int) error
	DeleteLibrary(ctx context.Context, projectID, libraryID int) error

	// File operations
	ListFiles(ctx context.Context, projectID int) ([]*models.RemoteFile, error)
	CreateFile(ctx context.Context, projectID int, name, content string) error
	UpdateFile(ctx context.Context, projectID int, name, content string) error

	ListEnvironments(ctx context.Context) ([]*models.Environment, error)
}

// Operation names, used in errors, logs and metrics.
const (
	OpCreate           = "create"
	OpGet              = "get"
	OpUpdate           = "update"
	OpAddLibrary       = "add_library"
	OpDeleteLibrary    = "delete_library"
	OpListFiles        = "list_files"
	OpCreateFile       = "create_file"
	OpUpdateFile       = "update_file"
	OpListEnvironments = "list_environments"
)
