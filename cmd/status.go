package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/output"
)

// statusOptions holds dependencies for the status command.
type statusOptions struct {
	load     appLoader
	jsonMode func() bool
}

// sessionStatus is the JSON shape of 'lbadmin status'.
type sessionStatus struct {
	Authenticated  bool   `json:"authenticated"`
	DisplayName    string `json:"display_name,omitempty"`
	APIBaseURL     string `json:"api_base_url"`
	SessionBackend string `json:"session_backend"`
}

// newStatusCmd creates the status command with the given options.
func newStatusCmd(opts statusOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is held",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}

			st := sessionStatus{
				Authenticated:  a.guard.Check() == auth.Allow,
				DisplayName:    a.session.DisplayName(),
				APIBaseURL:     a.cfg.APIBaseURL,
				SessionBackend: a.cfg.SessionBackend,
			}

			formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
			if formatter.JSONMode {
				return formatter.Print(st)
			}

			loggedIn := "no"
			if st.Authenticated {
				loggedIn = "yes"
			}
			user := st.DisplayName
			if user == "" {
				user = "-"
			}
			return formatter.Table(
				[]string{"Field", "Value"},
				[][]string{
					{"Logged in", loggedIn},
					{"User", user},
					{"API", st.APIBaseURL},
					{"Session backend", st.SessionBackend},
				},
			)
		},
	}

	cmd.SilenceUsage = true
	return cmd
}

func init() {
	rootCmd.AddCommand(newStatusCmd(statusOptions{
		load:     loadApp,
		jsonMode: GetJSONMode,
	}))
}
