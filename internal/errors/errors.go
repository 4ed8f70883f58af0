// Package errors defines the failure taxonomy shared by the project store,
// the library resolver and the push engine.
package errors

import (
	"errors"
	"fmt"
)

// ErrUserAbort is returned when an interactive confirmation is declined.
var ErrUserAbort = errors.New("aborted by user")

// ConfigurationError reports a local project that cannot be used as-is, such as
// a missing config.json or a library reference whose directory is gone.
type ConfigurationError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid project configuration at %s: %s: %v", e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid project configuration at %s: %s", e.Path, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError creates a ConfigurationError without a cause.
func NewConfigurationError(path, message string) *ConfigurationError {
	return &ConfigurationError{Path: path, Message: message}
}

// RemoteOperationError wraps a failed call to the remote project directory.
// ProjectID is zero when the call was not bound to a project (create, list
// environments).
type RemoteOperationError struct {
	Op        string
	ProjectID int
	Err       error
}

func (e *RemoteOperationError) Error() string {
	if e.ProjectID != 0 {
		return fmt.Sprintf("remote %s failed for project %d: %v", e.Op, e.ProjectID, e.Err)
	}
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

// NewRemoteOperationError wraps err. A nil err yields nil so call sites can
// wrap unconditionally.
func NewRemoteOperationError(op string, projectID int, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteOperationError{Op: op, ProjectID: projectID, Err: err}
}

// IsConfiguration reports whether err carries a ConfigurationError.
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsRemote reports whether err carries a RemoteOperationError.
func IsRemote(err error) bool {
	var remoteErr *RemoteOperationError
	return errors.As(err, &remoteErr)
}

// IsUserAbort reports whether err is, or wraps, ErrUserAbort.
func IsUserAbort(err error) bool {
	return errors.Is(err, ErrUserAbort)
}
