package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/library"
	"github.com/jakoblorz/go-leancloud/internal/metrics"
	"github.com/jakoblorz/go-leancloud/internal/project"
	"github.com/jakoblorz/go-leancloud/internal/push"
	"github.com/jakoblorz/go-leancloud/internal/tui"
	"github.com/jakoblorz/go-leancloud/internal/tui/prompt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// PushCommand handles the push command
type PushCommand struct {
	fs     filesystem.FileSystem
	dir    cloud.ProjectDirectory
	logger zerolog.Logger

	projects    []string
	yes         bool
	metricsFile string
	verbose     bool

	confirmer    push.Confirmer
	stdinReader  io.Reader
	stdoutWriter io.Writer
}

// NewPushCommand creates a new push command
func NewPushCommand(fs filesystem.FileSystem, dir cloud.ProjectDirectory, logger zerolog.Logger) *cobra.Command {
	cmd := &PushCommand{
		fs:     fs,
		dir:    dir,
		logger: logger,
	}

	cobraCmd := &cobra.Command{
		Use:   "push",
		Short: "Push local projects to the cloud",
		Long: `Pushes local projects and the libraries they reference to the cloud.

Projects without a cloud-id are created and the id is written back to their
config.json. Library associations, files, description, parameters, engine
and environment are brought in line with the local state. Libraries are
pushed before the projects that reference them.`,
		Example: `  # Push every project under the CLI root
  leancloud push

  # Push a single project and its libraries
  leancloud push --project "My Project"

  # Push without confirming library removals and export metrics
  leancloud push --yes --metrics-file push.prom`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringArrayVar(&cmd.projects, "project", nil, "Project to push (repeatable, default: all projects)")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Remove library associations without asking")
	cobraCmd.Flags().StringVar(&cmd.metricsFile, "metrics-file", "", "Write prometheus metrics to this file")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "Print the diff of every updated file")

	return cobraCmd
}

// Run executes the push command
func (c *PushCommand) Run(cmd *cobra.Command, args []string) error {
	if err := requireDirectory(c.dir); err != nil {
		return err
	}

	configs, err := detectRoot(c.fs)
	if err != nil {
		return err
	}

	var paths []string
	if len(c.projects) == 0 {
		if paths, err = configs.ListProjects(); err != nil {
			return err
		}
	} else {
		for _, p := range c.projects {
			path, err := resolveProjectPath(c.fs, configs, p)
			if err != nil {
				return err
			}
			paths = append(paths, path)
		}
	}

	if len(paths) == 0 {
		_, _ = fmt.Fprintln(stdout(cmd, c.stdoutWriter), tui.SubtleStyle.Render("No projects to push"))
		return nil
	}

	opts := []push.Option{
		push.WithConfirmer(c.resolveConfirmer(cmd)),
		push.WithLogger(c.logger),
	}

	var m *metrics.Metrics
	if c.metricsFile != "" {
		m = metrics.New()
		opts = append(opts, push.WithMetrics(m))
	}

	manager := push.NewManager(c.dir, configs, library.NewManager(configs), project.NewManager(c.fs, configs), opts...)
	report, pushErr := manager.PushProjects(commandContext(cmd), paths)

	if report != nil {
		summary, err := push.RenderSummary(report, c.verbose)
		if err != nil {
			return errors.Join(pushErr, fmt.Errorf("failed to render summary: %w", err))
		}
		_, _ = fmt.Fprint(stdout(cmd, c.stdoutWriter), tui.StyleSummary(summary))
	}

	if m != nil {
		if err := m.WriteTextfile(c.metricsFile); err != nil {
			return errors.Join(pushErr, err)
		}
	}

	return pushErr
}

func (c *PushCommand) resolveConfirmer(cmd *cobra.Command) push.Confirmer {
	switch {
	case c.yes:
		return prompt.AssumeYes{}
	case c.confirmer != nil:
		return c.confirmer
	default:
		return prompt.NewTerminalConfirmer(stdin(cmd, c.stdinReader), stdout(cmd, c.stdoutWriter))
	}
}
