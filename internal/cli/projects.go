package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	cerrors "github.com/jakoblorz/go-leancloud/internal/errors"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/spf13/cobra"
)

func detectRoot(fs filesystem.FileSystem) (*projectconfig.Manager, error) {
	configs, err := projectconfig.Detect(fs)
	if err != nil {
		return nil, fmt.Errorf("failed to detect CLI root: %w", err)
	}
	return configs, nil
}

// resolvePath turns a command line path, relative to the working directory,
// into an absolute path under the root.
func resolvePath(fs filesystem.FileSystem, configs *projectconfig.Manager, arg string) (string, error) {
	path := filepath.FromSlash(arg)
	if !filepath.IsAbs(path) {
		cwd, err := fs.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)

	if _, err := configs.Name(path); err != nil {
		return "", err
	}
	return path, nil
}

// resolveProjectPath is resolvePath for a directory holding a config.json.
func resolveProjectPath(fs filesystem.FileSystem, configs *projectconfig.Manager, arg string) (string, error) {
	path, err := resolvePath(fs, configs, arg)
	if err != nil {
		return "", err
	}
	if !configs.IsProject(path) {
		return "", cerrors.NewConfigurationError(path, projectconfig.ProjectConfigFileName+" not found")
	}
	return path, nil
}

func requireDirectory(dir cloud.ProjectDirectory) error {
	if dir == nil {
		return cloud.ErrAPITokenNotFound
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func stdout(cmd *cobra.Command, w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return io.Discard
}

func stdin(cmd *cobra.Command, r io.Reader) io.Reader {
	if r != nil {
		return r
	}
	if cmd != nil {
		return cmd.InOrStdin()
	}
	return nil
}
