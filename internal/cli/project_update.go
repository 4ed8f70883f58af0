package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/library"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/jakoblorz/go-leancloud/internal/project"
	"github.com/jakoblorz/go-leancloud/internal/projectconfig"
	"github.com/jakoblorz/go-leancloud/internal/tui"
	"github.com/jakoblorz/go-leancloud/internal/tui/prompt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvironmentSelector picks one of the remote environments
type EnvironmentSelector func(environments []*models.Environment, current *int) (int, error)

// ProjectUpdateCommand handles the project-update command
type ProjectUpdateCommand struct {
	fs     filesystem.FileSystem
	dir    cloud.ProjectDirectory
	logger zerolog.Logger

	settings          project.Settings
	parameters        []string
	selectEnvironment bool
	yes               bool

	confirmer    project.Confirmer
	selector     EnvironmentSelector
	stdinReader  io.Reader
	stdoutWriter io.Writer
}

// NewProjectUpdateCommand creates a new project-update command
func NewProjectUpdateCommand(fs filesystem.FileSystem, dir cloud.ProjectDirectory, logger zerolog.Logger) *cobra.Command {
	cmd := &ProjectUpdateCommand{
		fs:       fs,
		dir:      dir,
		logger:   logger,
		selector: prompt.SelectEnvironment,
	}

	cobraCmd := &cobra.Command{
		Use:   "project-update <project>",
		Short: "Update the local settings of a project",
		Long: `Updates the settings stored in a project's config.json.

An empty value for --image, --python-venv or --lean-engine deletes the key.
Parameters are merged into the existing ones. Renaming a library updates
every project that references it.`,
		Example: `  # Rename a library and update the projects that use it
  leancloud project-update Library/Indicators --name Library/Signals

  # Pin an engine version and set two parameters
  leancloud project-update "My Project" --lean-engine 16500 --parameter period=14 --parameter symbol=SPY

  # Pick the python environment interactively
  leancloud project-update "My Project" --select-python-venv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cmd.settings = settingsFromFlags(cobraCmd.Flags())
			return cmd.Run(cobraCmd, args)
		},
	}

	flags := cobraCmd.Flags()
	flags.String("name", "", "New project name, relative to the CLI root")
	flags.String("description", "", "Project description")
	flags.String("image", "", "Engine docker image, empty to delete")
	flags.String("python-venv", "", "Python environment id, empty to delete")
	flags.String("lean-engine", "", "Engine version to pin, empty to follow the default")
	flags.StringArrayVar(&cmd.parameters, "parameter", nil, "Algorithm parameter as key=value (repeatable)")
	flags.BoolVar(&cmd.selectEnvironment, "select-python-venv", false, "Pick the python environment from the cloud")
	flags.BoolVarP(&cmd.yes, "yes", "y", false, "Update referencing projects without asking")

	return cobraCmd
}

func settingsFromFlags(flags *pflag.FlagSet) project.Settings {
	value := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	return project.Settings{
		Name:        value("name"),
		Description: value("description"),
		Image:       value("image"),
		Environment: value("python-venv"),
		Engine:      value("lean-engine"),
	}
}

// Run executes the project-update command
func (c *ProjectUpdateCommand) Run(cmd *cobra.Command, args []string) error {
	configs, err := detectRoot(c.fs)
	if err != nil {
		return err
	}

	path, err := resolveProjectPath(c.fs, configs, args[0])
	if err != nil {
		return err
	}

	settings := c.settings
	if len(c.parameters) > 0 {
		if settings.Parameters, err = parseParameters(c.parameters); err != nil {
			return err
		}
	}

	if c.selectEnvironment {
		if settings.Environment != nil {
			return fmt.Errorf("--python-venv and --select-python-venv are mutually exclusive")
		}
		env, err := c.pickEnvironment(cmd, configs, path)
		if err != nil {
			return err
		}
		settings.Environment = &env
	}

	updater := project.NewUpdater(configs, library.NewManager(configs), project.NewManager(c.fs, configs),
		project.WithConfirmer(c.resolveConfirmer(cmd)),
		project.WithLogger(c.logger),
	)

	newPath, err := updater.Apply(path, settings)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	name, err := configs.Name(newPath)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout(cmd, c.stdoutWriter), tui.SuccessStyle.Render("✓ Updated "+name))
	return nil
}

func (c *ProjectUpdateCommand) pickEnvironment(cmd *cobra.Command, configs *projectconfig.Manager, path string) (string, error) {
	if err := requireDirectory(c.dir); err != nil {
		return "", err
	}

	environments, err := c.dir.ListEnvironments(commandContext(cmd))
	if err != nil {
		return "", err
	}

	current, err := configs.Store(path).GetIntPtr(projectconfig.KeyEnvironment)
	if err != nil {
		return "", err
	}

	id, err := c.selector(environments, current)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(id), nil
}

func (c *ProjectUpdateCommand) resolveConfirmer(cmd *cobra.Command) project.Confirmer {
	switch {
	case c.yes:
		return prompt.AssumeYes{}
	case c.confirmer != nil:
		return c.confirmer
	default:
		return prompt.NewTerminalConfirmer(stdin(cmd, c.stdinReader), stdout(cmd, c.stdoutWriter))
	}
}

// parseParameters parses key=value pairs; later pairs win.
func parseParameters(pairs []string) (map[string]string, error) {
	parameters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		parameters[key] = value
	}
	return parameters, nil
}
