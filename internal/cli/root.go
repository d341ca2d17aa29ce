package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the mindtool CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "mindtool",
		Short:         "Browse and moderate schematics, maps and posts",
		Long:          "mindtool: page through a content server's schematics, maps, posts and comments with tag filters",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, lookupEnv); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $MINDTOOL_HOME/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .mindtool/config.yaml")
	cmd.PersistentFlags().String("api-url", "", "content server base URL (overrides config and env)")
	cmd.AddCommand(
		newSchematicCmd(), newMapCmd(), newPostCmd(), newCommentCmd(), newAdminCmd(),
		newUserCmd(), newTagCmd(), NewBrowseCmd(), NewVersionCmd(ver), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # List the newest schematics
  mindtool schematic list

  # Three pages of big schematics near the core, most liked first
  mindtool schematic list --tag size_big --tag position_core --sort most-liked --pages 3

  # Every map in survival mode as JSON
  mindtool map list --tag mode_survival --all --output json

  # Comments on a post
  mindtool comment list post 64f0c2

  # Pending uploads (admins)
  mindtool admin verify list

  # Interactive browser
  mindtool browse schematic

  # Check the server version
  mindtool version --check`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
