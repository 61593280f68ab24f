package cmd

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aurumfx/lbadmin/internal/country"
	"github.com/aurumfx/lbadmin/internal/model"
	"github.com/aurumfx/lbadmin/internal/output"
)

// tradersOptions holds dependencies for the traders commands.
type tradersOptions struct {
	load     appLoader
	prompt   prompter
	jsonMode func() bool
}

// newTradersCmd creates the traders command and its subcommands.
func newTradersCmd(opts tradersOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "traders",
		Aliases: []string{"trader"},
		Short:   "Manage the trader leaderboard",
		Long: `List, add, edit, delete and reorder traders on the leaderboard.

Every subcommand requires a session; run 'lbadmin login' first.

Examples:
  lbadmin traders list --search mt4
  lbadmin traders add --name "Ana" --balance 15000 --growth 12.5 --country US
  lbadmin traders move 42 1`,
	}

	cmd.SilenceUsage = true

	cmd.AddCommand(newTradersListCmd(opts))
	cmd.AddCommand(newTradersAddCmd(opts))
	cmd.AddCommand(newTradersEditCmd(opts))
	cmd.AddCommand(newTradersDeleteCmd(opts))
	cmd.AddCommand(newTradersMoveCmd(opts))
	for _, sub := range cmd.Commands() {
		sub.SilenceUsage = true
	}

	return cmd
}

// sessionHint points at 'lbadmin login' when the server rejected the token.
func sessionHint(err error) error {
	if model.IsAuthorization(err) {
		return fmt.Errorf("%w (run 'lbadmin login')", err)
	}
	return err
}

// traderFlags are the editable fields shared by add and edit.
type traderFlags struct {
	name     string
	balance  string
	growth   string
	platform string
	country  string
	rank     string
}

func (f *traderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Trader name")
	cmd.Flags().StringVar(&f.balance, "balance", "", "Account balance in USD")
	cmd.Flags().StringVar(&f.growth, "growth", "", "Growth percentage")
	cmd.Flags().StringVar(&f.platform, "platform", model.DefaultPlatform, "Trading platform")
	cmd.Flags().StringVar(&f.country, "country", "", "Two-letter country code")
	cmd.Flags().StringVar(&f.rank, "rank", "", "Rank position (optional)")
}

// apply overwrites the fields of in whose flags were set on cmd.
func (f *traderFlags) apply(cmd *cobra.Command, in model.DraftInput) model.DraftInput {
	set := func(flag string, dst *string, v string) {
		if cmd.Flags().Changed(flag) {
			*dst = v
		}
	}
	set("name", &in.Name, f.name)
	set("balance", &in.AccountBalance, f.balance)
	set("growth", &in.GrowthPercentage, f.growth)
	set("platform", &in.Platform, f.platform)
	set("country", &in.CountryCode, f.country)
	set("rank", &in.RankPosition, f.rank)
	return in
}

func newTradersListCmd(opts tradersOptions) *cobra.Command {
	var (
		search string
		page   int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List traders in rank order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}

			return a.guard.Authorize(func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				if err := a.ctrl.Reload(ctx); err != nil {
					return sessionHint(fmt.Errorf("failed to load traders: %w", err))
				}

				a.ctrl.SetSearchTerm(search)
				a.ctrl.SetPage(page)

				traders := a.ctrl.PageRows()
				if all {
					traders = a.ctrl.Filtered()
				}

				formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
				if err := formatter.Traders(traders, output.TraderColumns(country.Default(), false)); err != nil {
					return err
				}
				if formatter.JSONMode || all {
					return nil
				}

				info := a.ctrl.PageInfo()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nShowing %d to %d of %d entries (page %d/%d)\n",
					info.From, info.To, info.Total, a.ctrl.Page(), a.ctrl.TotalPages())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name, platform, country or rank")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every matching trader instead of one page")

	return cmd
}

func newTradersAddCmd(opts tradersOptions) *cobra.Command {
	var flags traderFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := model.ParseDraft(flags.apply(cmd, model.NewDraftInput()))
			if err != nil {
				return err
			}

			a, err := opts.load()
			if err != nil {
				return err
			}

			return a.guard.Authorize(func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				created, err := a.ctrl.RequestCreate(ctx, draft)
				if err != nil {
					return sessionHint(fmt.Errorf("failed to add trader: %w", err))
				}
				a.log.Info().Str("trader_id", created.ID.String()).Msg("trader added")

				formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
				if formatter.JSONMode {
					return formatter.Print(output.NewTraderJSON(created))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Trader added: %s (id %s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("growth")

	return cmd
}

func newTradersEditCmd(opts tradersOptions) *cobra.Command {
	var flags traderFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a trader; fields not given keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.TraderID(args[0])

			a, err := opts.load()
			if err != nil {
				return err
			}

			return a.guard.Authorize(func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				if err := a.ctrl.Reload(ctx); err != nil {
					return sessionHint(fmt.Errorf("failed to load traders: %w", err))
				}
				current, ok := a.ctrl.Find(id)
				if !ok {
					return fmt.Errorf("trader %s not found", id)
				}

				draft, err := model.ParseDraft(flags.apply(cmd, model.InputFromTrader(current)))
				if err != nil {
					return err
				}

				updated, err := a.ctrl.RequestUpdate(ctx, id, draft)
				if err != nil {
					return sessionHint(fmt.Errorf("failed to update trader: %w", err))
				}
				a.log.Info().Str("trader_id", id.String()).Msg("trader updated")

				formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
				if formatter.JSONMode {
					return formatter.Print(output.NewTraderJSON(updated))
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Trader updated: %s (id %s)\n", updated.Name, id)
				return nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newTradersDeleteCmd(opts tradersOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trader",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.TraderID(args[0])

			a, err := opts.load()
			if err != nil {
				return err
			}

			return a.guard.Authorize(func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				if err := a.ctrl.Reload(ctx); err != nil {
					return sessionHint(fmt.Errorf("failed to load traders: %w", err))
				}
				target, ok := a.ctrl.Find(id)
				if !ok {
					return fmt.Errorf("trader %s not found", id)
				}

				if !yes {
					ok, err := confirm(opts.prompt, fmt.Sprintf("Delete %s (rank %d)?", target.Name, target.RankPosition))
					if err != nil {
						return fmt.Errorf("failed to read confirmation: %w", err)
					}
					if !ok {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
				}

				if err := a.ctrl.RequestDelete(ctx, id); err != nil {
					return sessionHint(fmt.Errorf("failed to delete trader: %w", err))
				}
				a.log.Info().Str("trader_id", id.String()).Msg("trader deleted")

				return output.New(cmd.OutOrStdout(), opts.jsonMode()).Message("Trader deleted: " + target.Name)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newTradersMoveCmd(opts tradersOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move ID POSITION",
		Short: "Move a trader to a 1-based rank position and save the order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.TraderID(args[0])
			position, err := strconv.Atoi(args[1])
			if err != nil || position < 1 {
				return fmt.Errorf("position must be a positive whole number, got %q", args[1])
			}

			a, err := opts.load()
			if err != nil {
				return err
			}

			return a.guard.Authorize(func() error {
				ctx, cancel := a.context(cmd)
				defer cancel()

				if err := a.ctrl.Reload(ctx); err != nil {
					return sessionHint(fmt.Errorf("failed to load traders: %w", err))
				}
				target, ok := a.ctrl.Find(id)
				if !ok {
					return fmt.Errorf("trader %s not found", id)
				}

				if _, err := a.ctrl.StageReorder(id, position-1); err != nil {
					return err
				}
				// positions past the end land on the last rank
				position = slices.Index(a.ctrl.WorkingOrder(), id) + 1

				formatter := output.New(cmd.OutOrStdout(), opts.jsonMode())
				if !a.ctrl.IsDirty() {
					return formatter.Message(fmt.Sprintf("%s is already at position %d", target.Name, position))
				}

				if err := a.ctrl.CommitReorder(ctx); err != nil {
					return sessionHint(fmt.Errorf("failed to save rank order: %w", err))
				}
				a.log.Info().Str("trader_id", id.String()).Int("position", position).Msg("trader moved")

				return formatter.Message(fmt.Sprintf("Moved %s to position %d", target.Name, position))
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(newTradersCmd(tradersOptions{
		load:     loadApp,
		prompt:   newTerminalPrompter(os.Stdin, os.Stdout),
		jsonMode: GetJSONMode,
	}))
}
