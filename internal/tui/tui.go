package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/aurumfx/lbadmin/internal/auth"
	"github.com/aurumfx/lbadmin/internal/leaderboard"
	"github.com/aurumfx/lbadmin/internal/output"
)

// Screen represents the current top-level screen in the TUI.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenLeaderboard
)

// Session is what the TUI needs from the session store.
type Session interface {
	RecordLogin(token, displayName string) error
	RecordLogout() error
	DisplayName() string
}

// Deps are the collaborators the TUI runs against.
type Deps struct {
	Session    Session
	Guard      *auth.Guard
	Login      LoginFunc
	Controller *leaderboard.Controller
	Countries  output.CountryNamer
	Logger     zerolog.Logger
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	screen Screen
	width  int
	height int
	ready  bool

	ctx    context.Context
	cancel context.CancelFunc

	session Session
	guard   *auth.Guard
	ctrl    *leaderboard.Controller
	log     zerolog.Logger

	// Child view models
	login *LoginModel
	board *LeaderboardModel
}

// New creates a new TUI model.
func New(deps Deps) Model {
	ctx, cancel := context.WithCancel(context.Background())
	screen := ScreenLogin
	if deps.Guard.Check() == auth.Allow {
		screen = ScreenLeaderboard
	}
	return Model{
		screen:  screen,
		ctx:     ctx,
		cancel:  cancel,
		session: deps.Session,
		guard:   deps.Guard,
		ctrl:    deps.Controller,
		log:     deps.Logger,
		login:   NewLoginModel(ctx, deps.Login),
		board:   NewLeaderboardModel(ctx, deps.Controller, deps.Countries),
	}
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	title := tea.SetWindowTitle("lbadmin")
	if m.screen == ScreenLeaderboard {
		return tea.Batch(title, Reload(m.ctx, m.ctrl))
	}
	return title
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		}

		switch m.screen {
		case ScreenLogin:
			if msg.String() == "esc" {
				return m.quit()
			}
			m.login, cmd = m.login.Update(msg)
			cmds = append(cmds, cmd)
		case ScreenLeaderboard:
			if m.board.Mode == ModeNormal {
				switch msg.String() {
				case "q":
					return m.quit()
				case "L":
					return m.logout()
				}
			}
			m.board, cmd = m.board.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// header, footer, filter line, paging line, status and padding
		tableHeight := m.height - 1 - 1 - 2 - 2 - 1 - 4
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.board.SetHeight(tableHeight)

	case LoginSucceededMsg:
		if err := m.session.RecordLogin(msg.Credentials.Token, msg.Credentials.DisplayName); err != nil {
			m.log.Warn().Err(err).Msg("session could not be persisted")
		}
		m.login.Submitting = false
		m.board.Reset()
		m.screen = ScreenLeaderboard
		m.log.Info().Str("user", msg.Credentials.DisplayName).Msg("logged in")
		cmds = append(cmds, Reload(m.ctx, m.ctrl))

	case LoginFailedMsg:
		m.login, cmd = m.login.Update(msg)
		cmds = append(cmds, cmd)

	case ReloadedMsg, MutationDoneMsg, ReorderSavedMsg:
		m.board, cmd = m.board.Update(msg)
		cmds = append(cmds, cmd)
	}

	// An authorization failure anywhere clears the session; send the user
	// back to the login screen.
	if m.screen == ScreenLeaderboard && m.guard.Check() == auth.RedirectToLogin {
		m.screen = ScreenLogin
		m.board.Reset()
		cmds = append(cmds, m.login.Reset("Session expired, please log in again"))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.session.RecordLogout(); err != nil {
		m.log.Warn().Err(err).Msg("session could not be cleared")
	}
	m.board.Reset()
	m.screen = ScreenLogin
	m.log.Info().Msg("logged out")
	return m, m.login.Reset("")
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.ctrl.Close()
	return m, tea.Quit
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	content := m.renderContent()

	// Calculate content height
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight

	// Pad content to fill available space
	contentLines := strings.Split(content, "\n")
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, "")
	}
	if len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}
	content = strings.Join(contentLines, "\n")

	return header + "\n" + content + "\n" + footer
}

// renderHeader renders the header bar.
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("lbadmin")

	var info string
	if m.screen == ScreenLeaderboard {
		snap := m.ctrl.Snapshot()
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
		info = style.Render(fmt.Sprintf("Leaderboard  %d traders  [%s]", snap.Count, snap.Phase))
		if name := m.session.DisplayName(); name != "" {
			info += style.Render("signed in as " + name)
		}
	}

	headerContent := title + "  " + info

	// Pad to full width
	padding := m.width - lipgloss.Width(headerContent)
	if padding > 0 {
		headerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(headerContent)
}

// renderContent renders the main content area.
func (m Model) renderContent() string {
	var content string
	switch m.screen {
	case ScreenLogin:
		content = m.login.View()
	case ScreenLeaderboard:
		content = m.board.View()
	}
	return ContentStyle.Render(content)
}

type keyHint struct{ key, desc string }

// renderFooter renders the footer bar with key hints.
func (m Model) renderFooter() string {
	var keys []keyHint

	switch m.screen {
	case ScreenLogin:
		keys = []keyHint{
			{"tab", "next field"},
			{"enter", "sign in"},
			{"esc", "quit"},
		}
	case ScreenLeaderboard:
		switch m.board.Mode {
		case ModeNormal:
			keys = []keyHint{
				{"↑/↓", "navigate"},
				{"←/→", "page"},
				{"/", "search"},
				{"space", "move"},
				{"s", "save order"},
				{"a/e/d", "add/edit/delete"},
				{"r", "reload"},
				{"L", "logout"},
				{"q", "quit"},
			}
		case ModeSearch:
			keys = []keyHint{
				{"enter", "apply"},
				{"esc", "clear"},
			}
		case ModeDrag:
			keys = []keyHint{
				{"↑/↓", "move"},
				{"enter", "drop"},
				{"esc", "cancel"},
			}
		case ModeForm:
			keys = []keyHint{
				{"tab", "next field"},
				{"ctrl+s", "save"},
				{"esc", "cancel"},
			}
		case ModeConfirmDelete:
			keys = []keyHint{
				{"y", "confirm"},
				{"n", "cancel"},
			}
		}
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}

	footerContent := strings.Join(parts, "  •  ")

	// Pad to full width
	padding := m.width - lipgloss.Width(footerContent)
	if padding > 0 {
		footerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(footerContent)
}
