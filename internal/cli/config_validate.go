package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/mindtool/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the configuration after merging the global file, any project
overlay, .env and MINDTOOL_* variables.

This includes:
- API base URL, timeout and rate limit
- Page sizes and fetch timeout
- Output format
- The custom tag library, when tags.library_file is set`,
		Example: `  # Validate current configuration
  mindtool config validate

  # Validate and show the effective values
  mindtool config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	library, err := loadLibrary(cfg.Tags.LibraryFile)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		if path := cfg.ConfigPath(); path != "" {
			cmd.Printf("  Config file: %s\n", path)
		}
		if dir := config.GetResolvedProjectDir(); dir != "" {
			cmd.Printf("  Project dir: %s\n", dir)
		}
		cmd.Printf("  API: %s (timeout %s, %.1f req/s, burst %d)\n",
			cfg.API.BaseURL, cfg.Timeout(), cfg.API.RateLimit, cfg.API.Burst)
		cmd.Printf("  Server constraint: %s\n", cfg.API.ServerConstraint)
		cmd.Printf("  Page size: %d (admin %d), fetch timeout %s\n",
			cfg.Paging.PageSize, cfg.Paging.AdminPageSize, cfg.FetchTimeout())
		cmd.Printf("  Tag groups: %d, remote: %t, cache TTL: %s\n",
			len(library.GroupNames()), cfg.Tags.Remote, cfg.TagCacheTTL())
		cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
		cmd.Printf("  Logging: level=%s format=%s\n", cfg.Logging.Level, cfg.Logging.Format)
	}

	return nil
}
