package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/country"
	"github.com/aurumfx/lbadmin/internal/tui"
)

// uiOptions holds dependencies for the ui command.
type uiOptions struct {
	load appLoader
	run  func(tea.Model) error
}

// newUIModel builds the TUI model over a.
func newUIModel(a *app) tui.Model {
	return tui.New(tui.Deps{
		Session: a.session,
		Guard:   a.guard,
		Login: func(ctx context.Context, username, password string) (*auth.Credentials, error) {
			return auth.Login(ctx, a.loginClient, username, password)
		},
		Controller: a.ctrl,
		Countries:  country.Default(),
		Logger:     a.log,
	})
}

// runProgram runs m full-screen until the user quits.
func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// newUICmd creates the ui command with the given options.
func newUICmd(opts uiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Interactive terminal UI",
		Long: `Launch an interactive terminal UI for the leaderboard.

Without a session the login screen is shown first.

Keyboard shortcuts:
  ↑/↓     Navigate rows
  ←/→     Previous / next page
  /       Search by name, platform, country or rank
  space   Pick up the selected row; ↑/↓ move it, enter drops, esc cancels
  s       Save the rank order
  a e d   Add, edit or delete a trader
  r       Reload
  L       Log out
  q       Quit the application`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer a.ctrl.Close()

			a.log.Info().Msg("ui started")
			return opts.run(newUIModel(a))
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func init() {
	rootCmd.AddCommand(newUICmd(uiOptions{
		load: loadApp,
		run:  runProgram,
	}))
}
