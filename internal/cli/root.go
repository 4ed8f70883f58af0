package cli

import (
	"fmt"
	"os"

	"github.com/jakoblorz/go-leancloud/internal/cloud"
	"github.com/jakoblorz/go-leancloud/internal/config"
	"github.com/jakoblorz/go-leancloud/internal/filesystem"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command. dir may be nil when no API token
// is configured; commands that talk to the cloud fail in that case.
func NewRootCommand(fs filesystem.FileSystem, dir cloud.ProjectDirectory, logger zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leancloud",
		Short: "Manage algorithm projects and push them to the cloud",
		Long: `A CLI tool for managing local algorithm projects and libraries.

Projects live in directories with a config.json below a CLI root marked by
lean.json. Libraries live under Library/ and are referenced by projects.
Push brings the cloud copies of projects in line with the local ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewPushCommand(fs, dir, logger.With().Str("component", "push").Logger()))
	rootCmd.AddCommand(NewProjectUpdateCommand(fs, dir, logger.With().Str("component", "project").Logger()))
	rootCmd.AddCommand(NewLibraryCommand(fs))
	rootCmd.AddCommand(NewEnvironmentsCommand(dir))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(settings, os.Stderr)

	fs := filesystem.NewOSFileSystem()

	var dir cloud.ProjectDirectory
	client, err := cloud.NewClientFromToken(settings.APIURL, settings.APIToken, settings.HTTPTimeout,
		logger.With().Str("component", "cloud").Logger())
	if err != nil {
		logger.Debug().Err(err).Msg("cloud client disabled")
	} else {
		dir = client
	}

	rootCmd := NewRootCommand(fs, dir, logger)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
