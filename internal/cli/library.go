package cli

import (
	"fmt"
	"io"

	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/jakoblorz/go-leancloud/internal/library"
	"github.com/jakoblorz/go-leancloud/internal/tui"
	"github.com/spf13/cobra"
)

// LibraryCommand handles the library add and library remove commands
type LibraryCommand struct {
	fs     filesystem.FileSystem
	remove bool

	stdoutWriter io.Writer
}

// NewLibraryCommand creates the library command with its subcommands
func NewLibraryCommand(fs filesystem.FileSystem) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Manage library references of a project",
	}

	add := &LibraryCommand{fs: fs}
	libraryCmd.AddCommand(&cobra.Command{
		Use:   "add <project> <library>",
		Short: "Reference a library from a project",
		Long: `Adds a library under Library/ to the libraries of a project.

The reference is stored in the project's config.json. The cloud association
is created by the next push.`,
		Example: `  leancloud library add "My Project" Library/Indicators`,
		Args:    cobra.ExactArgs(2),
		RunE:    add.Run,
	})

	remove := &LibraryCommand{fs: fs, remove: true}
	libraryCmd.AddCommand(&cobra.Command{
		Use:     "remove <project> <library>",
		Short:   "Remove a library reference from a project",
		Example: `  leancloud library remove "My Project" Library/Indicators`,
		Args:    cobra.ExactArgs(2),
		RunE:    remove.Run,
	})

	return libraryCmd
}

// Run executes library add or library remove
func (c *LibraryCommand) Run(cmd *cobra.Command, args []string) error {
	configs, err := detectRoot(c.fs)
	if err != nil {
		return err
	}

	dependent, err := resolveProjectPath(c.fs, configs, args[0])
	if err != nil {
		return err
	}
	// A reference to a deleted library can still be removed
	resolve := resolveProjectPath
	if c.remove {
		resolve = resolvePath
	}
	lib, err := resolve(c.fs, configs, args[1])
	if err != nil {
		return err
	}

	dependentName, _ := configs.Name(dependent)
	libName, _ := configs.Name(lib)
	libraries := library.NewManager(configs)

	if c.remove {
		if err := libraries.RemoveReference(dependent, lib); err != nil {
			return fmt.Errorf("failed to remove library reference: %w", err)
		}
		_, _ = fmt.Fprintln(stdout(cmd, c.stdoutWriter), tui.SuccessStyle.Render(fmt.Sprintf("✓ Removed %s from %s", libName, dependentName)))
		return nil
	}

	if err := libraries.AddReference(dependent, lib); err != nil {
		return fmt.Errorf("failed to add library reference: %w", err)
	}
	_, _ = fmt.Fprintln(stdout(cmd, c.stdoutWriter), tui.SuccessStyle.Render(fmt.Sprintf("✓ Added %s to %s", libName, dependentName)))
	return nil
}
