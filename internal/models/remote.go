package models

import (
	"maps"
	"time"
)

// DefaultEngine is the engine value that tells the cloud to follow the
// default (latest) engine instead of a pinned version.
const DefaultEngine = -1

// RemoteProject is a project record in the cloud project directory.
type RemoteProject struct {
	ID          int
	Name        string
	Description string
	Language    Language

	// Libraries holds the remote ids of associated library projects
	Libraries []int

	// EngineVersion is the engine the project currently runs on
	EngineVersion int

	// PinnedToDefault is true when the project follows the default engine
	PinnedToDefault bool

	// Environment is the runtime environment id, nil when unset
	Environment *int

	Parameters map[string]string
}

// Clone returns a deep copy so callers can't mutate directory state.
func (p *RemoteProject) Clone() *RemoteProject {
	if p == nil {
		return nil
	}

	clone := *p
	clone.Libraries = append([]int(nil), p.Libraries...)
	if p.Environment != nil {
		env := *p.Environment
		clone.Environment = &env
	}
	if p.Parameters != nil {
		clone.Parameters = maps.Clone(p.Parameters)
	}
	return &clone
}

// ProjectUpdate is a partial update of a remote project. Nil fields are not
// sent.
type ProjectUpdate struct {
	Description *string
	Parameters  map[string]string
	Engine      *int
	Environment *int
}

// IsEmpty reports whether the update carries no field at all.
func (u ProjectUpdate) IsEmpty() bool {
	return u.Description == nil && u.Parameters == nil && u.Engine == nil && u.Environment == nil
}

// RemoteFile is a file stored with a remote project.
type RemoteFile struct {
	Name     string
	Content  string
	Modified time.Time
}

// Environment is a runtime environment projects can run in.
type Environment struct {
	ID          int
	Name        string
	Description string
}
