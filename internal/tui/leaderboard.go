package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurumfx/lbadmin/internal/leaderboard"
	"github.com/aurumfx/lbadmin/internal/model"
	"github.com/aurumfx/lbadmin/internal/output"
)

// LeaderboardMode represents the current input mode of the leaderboard view.
type LeaderboardMode int

const (
	ModeNormal LeaderboardMode = iota
	ModeSearch
	ModeDrag
	ModeForm
	ModeConfirmDelete
)

// LeaderboardModel is the trader table with search, paging, drag reordering
// and the add/edit/delete flows.
type LeaderboardModel struct {
	ctx   context.Context
	ctrl  *leaderboard.Controller
	cols  []output.Column
	table table.Model

	search textinput.Model
	form   *FormModel

	Mode          LeaderboardMode
	pendingDelete model.Trader

	// Status is the last outcome shown under the table.
	Status    string
	StatusErr bool
}

// NewLeaderboardModel creates the leaderboard view over ctrl.
func NewLeaderboardModel(ctx context.Context, ctrl *leaderboard.Controller, countries output.CountryNamer) *LeaderboardModel {
	cols := output.TraderColumns(countries, true)

	t := table.New(
		table.WithColumns(tableColumns(cols)),
		table.WithFocused(true),
		table.WithHeight(leaderboard.DefaultPageSize+1),
	)
	t.SetStyles(TableStyles())

	search := textinput.New()
	search.Placeholder = "name, platform, country or rank"
	search.CharLimit = 64
	search.Width = 40
	search.Prompt = "/ "

	m := &LeaderboardModel{
		ctx:    ctx,
		ctrl:   ctrl,
		cols:   cols,
		table:  t,
		search: search,
	}
	m.refresh()
	return m
}

// SetHeight sets the table height.
func (m *LeaderboardModel) SetHeight(h int) {
	m.table.SetHeight(h)
}

// Selected returns the trader under the cursor.
func (m *LeaderboardModel) Selected() (model.Trader, bool) {
	rows := m.ctrl.PageRows()
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return model.Trader{}, false
	}
	return rows[i], true
}

// Form returns the open add/edit form, if any.
func (m *LeaderboardModel) Form() *FormModel {
	return m.form
}

// Reset returns to normal mode, dropping any open form, search input or drag.
func (m *LeaderboardModel) Reset() {
	m.ctrl.CancelDrag()
	m.form = nil
	m.search.Blur()
	m.Mode = ModeNormal
	m.notify("")
	m.refresh()
}

func (m *LeaderboardModel) notify(s string) {
	m.Status = s
	m.StatusErr = false
}

func (m *LeaderboardModel) fail(err error) {
	m.Status = describeError(err)
	m.StatusErr = err != nil
}

// refresh re-renders the table rows from the controller.
func (m *LeaderboardModel) refresh() {
	snap := m.ctrl.Snapshot()
	var dragged model.TraderID
	if snap.Dragging {
		dragged = snap.DraggedID
	}
	m.table.SetRows(tableRows(m.cols, snap.Rows, dragged))
	if m.Mode == ModeDrag && !snap.Dragging {
		m.Mode = ModeNormal
	}

	if snap.Dragging {
		for i, t := range snap.Rows {
			if t.ID == snap.DraggedID {
				m.table.SetCursor(i)
				return
			}
		}
	}
	if c := m.table.Cursor(); c >= len(snap.Rows) {
		m.table.SetCursor(max(len(snap.Rows)-1, 0))
	}
}

// Update handles leaderboard messages.
func (m *LeaderboardModel) Update(msg tea.Msg) (*LeaderboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadedMsg:
		m.fail(msg.Err)
		m.refresh()
		return m, nil

	case MutationDoneMsg:
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.notify(mutationNotice(msg.Op))
		}
		m.refresh()
		return m, nil

	case ReorderSavedMsg:
		if msg.Err != nil {
			m.fail(msg.Err)
		} else {
			m.notify("Rank order saved")
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.Mode {
		case ModeSearch:
			cmd = m.updateSearch(msg)
		case ModeDrag:
			m.updateDrag(msg)
		case ModeForm:
			cmd = m.updateForm(msg)
		case ModeConfirmDelete:
			cmd = m.updateConfirmDelete(msg)
		default:
			cmd = m.updateNormal(msg)
		}
		m.refresh()
		return m, cmd
	}

	return m, nil
}

func mutationNotice(op string) string {
	switch op {
	case OpCreate:
		return "Trader added"
	case OpUpdate:
		return "Trader updated"
	case OpDelete:
		return "Trader deleted"
	default:
		return ""
	}
}

func (m *LeaderboardModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "/":
		m.Mode = ModeSearch
		m.search.SetValue(m.ctrl.SearchTerm())
		return m.search.Focus()
	case "left", "h":
		m.ctrl.PrevPage()
		m.table.SetCursor(0)
	case "right", "l":
		m.ctrl.NextPage()
		m.table.SetCursor(0)
	case " ":
		t, ok := m.Selected()
		if !ok {
			return nil
		}
		if err := m.ctrl.BeginDrag(t.ID); err != nil {
			m.fail(err)
			return nil
		}
		m.Mode = ModeDrag
		m.notify("")
	case "s":
		if !m.ctrl.IsDirty() {
			m.fail(leaderboard.ErrNotDirty)
			return nil
		}
		m.notify("Saving rank order...")
		return SaveOrder(m.ctx, m.ctrl)
	case "a":
		m.form = NewFormModel(model.NewDraftInput(), "")
		m.Mode = ModeForm
	case "e":
		t, ok := m.Selected()
		if !ok {
			return nil
		}
		m.form = NewFormModel(model.InputFromTrader(t), t.ID)
		m.Mode = ModeForm
	case "d":
		t, ok := m.Selected()
		if !ok {
			return nil
		}
		m.pendingDelete = t
		m.Mode = ModeConfirmDelete
	case "r":
		m.notify("")
		return Reload(m.ctx, m.ctrl)
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return cmd
	}
	return nil
}

func (m *LeaderboardModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.Mode = ModeNormal
		return nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.ctrl.SetSearchTerm("")
		m.Mode = ModeNormal
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.ctrl.SearchTerm() {
		m.ctrl.SetSearchTerm(term)
		m.table.SetCursor(0)
	}
	return cmd
}

func (m *LeaderboardModel) updateDrag(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.ctrl.DragBy(-1)
	case "down", "j":
		m.ctrl.DragBy(1)
	case "enter", " ":
		m.ctrl.CommitDrag()
		m.Mode = ModeNormal
		if m.ctrl.IsDirty() {
			m.notify("Order changed, press s to save")
		}
	case "esc":
		m.ctrl.CancelDrag()
		m.Mode = ModeNormal
	}
}

func (m *LeaderboardModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	if m.form == nil {
		m.Mode = ModeNormal
		return nil
	}

	result, draft, cmd := m.form.Update(msg)
	switch result {
	case FormCancelled:
		m.form = nil
		m.Mode = ModeNormal
		return nil
	case FormSubmitted:
		id := m.form.ID
		m.form = nil
		m.Mode = ModeNormal
		m.notify("Saving...")
		if id != "" {
			return UpdateTrader(m.ctx, m.ctrl, id, draft)
		}
		return CreateTrader(m.ctx, m.ctrl, draft)
	}
	return cmd
}

func (m *LeaderboardModel) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := m.pendingDelete.ID
		m.pendingDelete = model.Trader{}
		m.Mode = ModeNormal
		m.notify("Deleting...")
		return DeleteTrader(m.ctx, m.ctrl, id)
	case "n", "N", "esc":
		m.pendingDelete = model.Trader{}
		m.Mode = ModeNormal
	}
	return nil
}

// View renders the leaderboard.
func (m *LeaderboardModel) View() string {
	if m.Mode == ModeForm && m.form != nil {
		return m.form.View()
	}

	snap := m.ctrl.Snapshot()
	var b strings.Builder

	if m.Mode == ModeConfirmDelete {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete %s (rank %d)?", m.pendingDelete.Name, m.pendingDelete.RankPosition)))
		b.WriteString("\n\n")
		b.WriteString("Press Y to confirm, N to cancel")
		return b.String()
	}

	switch {
	case m.Mode == ModeSearch:
		b.WriteString(m.search.View())
	case snap.Term != "":
		b.WriteString(LabelStyle.Render("Filter: ") + ValueStyle.Render(snap.Term))
	}
	b.WriteString("\n\n")

	if snap.Phase == leaderboard.PhaseLoading && snap.Count == 0 {
		b.WriteString("Loading traders...")
		return b.String()
	}

	if snap.Info.Total == 0 {
		if snap.Term != "" {
			b.WriteString(DescStyle.Render("No traders match the filter."))
		} else {
			b.WriteString(DescStyle.Render("No traders yet. Press a to add one."))
		}
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n\n")

	b.WriteString(DescStyle.Render(fmt.Sprintf("Showing %d to %d of %d entries", snap.Info.From, snap.Info.To, snap.Info.Total)))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Page %d/%d", snap.Page, snap.TotalPages)))

	if snap.Dragging {
		b.WriteString("  ")
		b.WriteString(DragStyle.Render("Moving row: ↑/↓ to move, enter to drop"))
	} else if snap.Dirty {
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("● unsaved rank order"))
	}
	b.WriteString("\n")

	switch {
	case snap.Phase == leaderboard.PhaseSaving:
		b.WriteString(DescStyle.Render("Saving..."))
	case snap.Phase == leaderboard.PhaseLoading:
		b.WriteString(DescStyle.Render("Refreshing..."))
	case snap.Phase == leaderboard.PhaseError && snap.Err != nil:
		b.WriteString(ErrorStyle.Render(describeError(snap.Err)))
	case m.StatusErr:
		b.WriteString(ErrorStyle.Render(m.Status))
	case m.Status != "":
		b.WriteString(SuccessStyle.Render(m.Status))
	}

	return b.String()
}
