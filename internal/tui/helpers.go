package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/leaderboard"
	"github.com/aurumfx/lbadmin/internal/model"
	"github.com/aurumfx/lbadmin/internal/output"
)

// LoginFunc exchanges a username and password for credentials.
type LoginFunc func(ctx context.Context, username, password string) (*auth.Credentials, error)

// Op names reported in MutationDoneMsg.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// SubmitLogin returns a command that runs login in the background.
func SubmitLogin(ctx context.Context, login LoginFunc, username, password string) tea.Cmd {
	return func() tea.Msg {
		creds, err := login(ctx, username, password)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}
		return LoginSucceededMsg{Credentials: creds}
	}
}

// Reload returns a command that refetches the trader list.
func Reload(ctx context.Context, ctrl *leaderboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return ReloadedMsg{Err: ctrl.Reload(ctx)}
	}
}

// CreateTrader returns a command that creates a trader.
func CreateTrader(ctx context.Context, ctrl *leaderboard.Controller, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.RequestCreate(ctx, d)
		return MutationDoneMsg{Op: OpCreate, Err: err}
	}
}

// UpdateTrader returns a command that replaces a trader's fields.
func UpdateTrader(ctx context.Context, ctrl *leaderboard.Controller, id model.TraderID, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.RequestUpdate(ctx, id, d)
		return MutationDoneMsg{Op: OpUpdate, Err: err}
	}
}

// DeleteTrader returns a command that removes a trader.
func DeleteTrader(ctx context.Context, ctrl *leaderboard.Controller, id model.TraderID) tea.Cmd {
	return func() tea.Msg {
		return MutationDoneMsg{Op: OpDelete, Err: ctrl.RequestDelete(ctx, id)}
	}
}

// SaveOrder returns a command that commits the staged rank order.
func SaveOrder(ctx context.Context, ctrl *leaderboard.Controller) tea.Cmd {
	return func() tea.Msg {
		return ReorderSavedMsg{Err: ctrl.CommitReorder(ctx)}
	}
}

// tableColumns converts output columns into bubbles table columns.
func tableColumns(cols []output.Column) []table.Column {
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		out[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	return out
}

// tableRows renders traders for the table, marking the dragged row.
func tableRows(cols []output.Column, traders []model.Trader, dragged model.TraderID) []table.Row {
	rows := make([]table.Row, len(traders))
	for i, row := range output.Rows(cols, traders) {
		if dragged != "" && traders[i].ID == dragged && len(row) > 1 {
			row[1] = "» " + row[1]
		}
		rows[i] = row
	}
	return rows
}

// describeError turns a failure into a line for the status area.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case model.IsAuthorization(err):
		return "Session expired, please log in again"
	case errors.Is(err, leaderboard.ErrBusy):
		return "Another operation is in progress"
	case errors.Is(err, leaderboard.ErrNotDirty):
		return "Rank order has no changes to save"
	default:
		return model.Message(err)
	}
}
