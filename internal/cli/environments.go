package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/tui"
	"github.com/spf13/cobra"
)

// EnvironmentsCommand handles the environments command
type EnvironmentsCommand struct {
	dir    cloud.ProjectDirectory
	format string

	stdoutWriter io.Writer
}

type environmentOutput struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewEnvironmentsCommand creates a new environments command
func NewEnvironmentsCommand(dir cloud.ProjectDirectory) *cobra.Command {
	cmd := &EnvironmentsCommand{dir: dir}

	cobraCmd := &cobra.Command{
		Use:   "environments",
		Short: "List the python environments available in the cloud",
		Example: `  leancloud environments
  leancloud environments --format json`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.format, "format", "text", "Output format: text or json")

	return cobraCmd
}

// Run executes the environments command
func (c *EnvironmentsCommand) Run(cmd *cobra.Command, args []string) error {
	if err := requireDirectory(c.dir); err != nil {
		return err
	}

	environments, err := c.dir.ListEnvironments(commandContext(cmd))
	if err != nil {
		return err
	}

	out := stdout(cmd, c.stdoutWriter)
	switch c.format {
	case "json":
		items := make([]environmentOutput, 0, len(environments))
		for _, env := range environments {
			items = append(items, environmentOutput{ID: env.ID, Name: env.Name, Description: env.Description})
		}
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode environments: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
	case "text", "":
		if len(environments) == 0 {
			_, _ = fmt.Fprintln(out, tui.SubtleStyle.Render("No environments available"))
			return nil
		}
		width := 0
		for _, env := range environments {
			width = max(width, len(env.Name))
		}
		for _, env := range environments {
			line := fmt.Sprintf("%6d  %-*s  %s", env.ID, width, env.Name, env.Description)
			_, _ = fmt.Fprintln(out, strings.TrimRight(line, " "))
		}
	default:
		return fmt.Errorf("unknown format %q (must be text or json)", c.format)
	}

	return nil
}
