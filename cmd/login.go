package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/output"
)

// loginOptions holds dependencies for the login command.
type loginOptions struct {
	load           appLoader
	passwordReader passwordReader
	prompt         prompter
	jsonMode       func() bool
}

// newLoginCmd creates the login command with the given options.
func newLoginCmd(opts loginOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the leaderboard admin API",
		Long: `Sign in with your admin username and password.

The password is read without echo when running in a terminal, or from the
next line of stdin otherwise. The session is kept in the system keyring
(or a session file, see 'lbadmin configure --session-backend').

Example:
  lbadmin login
  lbadmin login --username admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Admin username")
	cmd.SilenceUsage = true

	return cmd
}

func runLogin(cmd *cobra.Command, opts loginOptions, username string) error {
	a, err := opts.load()
	if err != nil {
		return err
	}

	if username == "" {
		username, err = opts.prompt.ReadLine("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	var password string
	if opts.passwordReader.IsTerminal() {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		password, err = opts.passwordReader.ReadPassword()
		_, _ = fmt.Fprintln(cmd.OutOrStdout()) // Print newline after hidden input
	} else {
		password, err = opts.prompt.ReadLine("")
	}
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ctx, cancel := a.context(cmd)
	defer cancel()

	creds, err := auth.Login(ctx, a.loginClient, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.session.RecordLogin(creds.Token, creds.DisplayName); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	a.log.Info().Str("user", creds.DisplayName).Msg("logged in")

	formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
	return formatter.Message("Logged in as " + creds.DisplayName)
}

func init() {
	loginCmd := newLoginCmd(loginOptions{
		load:           loadApp,
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
		jsonMode:       GetJSONMode,
	})
	rootCmd.AddCommand(loginCmd)
}
