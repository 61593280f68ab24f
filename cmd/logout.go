package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/output"
)

// logoutOptions holds dependencies for the logout command.
type logoutOptions struct {
	load     appLoader
	jsonMode func() bool
}

// newLogoutCmd creates the logout command with the given options.
func newLogoutCmd(opts logoutOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			if err := a.session.RecordLogout(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			a.log.Info().Msg("logged out")
			return output.New(cmd.OutOrStdout(), opts.jsonMode()).Message("Logged out")
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func init() {
	rootCmd.AddCommand(newLogoutCmd(logoutOptions{
		load:     loadApp,
		jsonMode: GetJSONMode,
	}))
}
