package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/config"
	"github.com/aurumfx/lbadmin/internal/output"
)

// configureOptions holds dependencies for the configure command.
// This allows for dependency injection in tests.
type configureOptions struct {
	configPath func() string
	jsonMode   func() bool
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var (
		apiURL         string
		pageSize       int
		sessionBackend string
		show           bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "View or change CLI settings",
		Long: `Change the settings stored in the config file.

Only the flags you pass are changed. Without flags, or with --show, the
current configuration is printed.

Example:
  lbadmin configure --api-url https://api.example.com/api
  lbadmin configure --page-size 10 --session-backend file
  lbadmin configure --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath()

			// Load existing config or start from defaults
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			changed := false
			if cmd.Flags().Changed("api-url") {
				cfg.APIBaseURL = apiURL
				changed = true
			}
			if cmd.Flags().Changed("page-size") {
				cfg.PageSize = pageSize
				changed = true
			}
			if cmd.Flags().Changed("session-backend") {
				cfg.SessionBackend = sessionBackend
				changed = true
			}

			if !changed || show {
				return runViewConfiguration(cmd, opts, cfg, path)
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := config.Save(path, cfg); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return output.New(cmd.OutOrStdout(), opts.jsonMode()).Message("Configuration saved to " + path)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Leaderboard API base URL")
	cmd.Flags().IntVar(&pageSize, "page-size", config.DefaultPageSize, "Traders per page")
	cmd.Flags().StringVar(&sessionBackend, "session-backend", "", "Where to keep the session: keyring or file")
	cmd.Flags().BoolVar(&show, "show", false, "Print the current configuration")

	// Don't show usage info on validation errors - just show the error
	cmd.SilenceUsage = true

	return cmd
}

// runViewConfiguration displays the current configuration.
func runViewConfiguration(cmd *cobra.Command, opts configureOptions, cfg *config.Config, path string) error {
	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
	if formatter.JSONMode {
		return formatter.Print(cfg)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n\n", path)
	return formatter.Table(
		[]string{"Setting", "Value"},
		[][]string{
			{"api_base_url", cfg.APIBaseURL},
			{"page_size", strconv.Itoa(cfg.PageSize)},
			{"request_timeout_seconds", strconv.Itoa(cfg.RequestTimeoutSeconds)},
			{"requests_per_second", strconv.Itoa(cfg.RequestsPerSecond)},
			{"log_level", cfg.LogLevel},
			{"log_format", cfg.LogFormat},
			{"session_backend", cfg.SessionBackend},
		},
	)
}

func init() {
	// Create configure command with production dependencies
	configureCmd := newConfigureCmd(configureOptions{
		configPath: GetConfigPath,
		jsonMode:   GetJSONMode,
	})
	rootCmd.AddCommand(configureCmd)
}
