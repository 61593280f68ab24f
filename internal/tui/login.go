package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurumfx/lbadmin/internal/model"
)

const (
	loginFieldUsername = iota
	loginFieldPassword
)

// LoginModel is the sign-in screen shown when no session is held.
type LoginModel struct {
	ctx        context.Context
	login      LoginFunc
	inputs     []textinput.Model
	focus      int
	Submitting bool
	Err        string
	Notice     string
}

// NewLoginModel creates an empty login form focused on the username.
func NewLoginModel(ctx context.Context, login LoginFunc) *LoginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 32
	user.Prompt = ""

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = 32
	pass.Prompt = ""
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	m := &LoginModel{ctx: ctx, login: login, inputs: []textinput.Model{user, pass}}
	m.inputs[loginFieldUsername].Focus()
	return m
}

// Reset clears the form and shows notice above it.
func (m *LoginModel) Reset(notice string) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.Submitting = false
	m.Err = ""
	m.Notice = notice
	return m.setFocus(loginFieldUsername)
}

// Username returns the typed username.
func (m *LoginModel) Username() string {
	return strings.TrimSpace(m.inputs[loginFieldUsername].Value())
}

func (m *LoginModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// Update handles login screen messages.
func (m *LoginModel) Update(msg tea.Msg) (*LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoginFailedMsg:
		m.Submitting = false
		m.Err = model.Message(msg.Err)
		if model.IsAuthorization(msg.Err) {
			m.Err = "Invalid username or password"
		}
		m.inputs[loginFieldPassword].SetValue("")
		return m, m.setFocus(loginFieldPassword)

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % len(m.inputs))
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		case "enter":
			if m.focus == loginFieldUsername {
				return m, m.setFocus(loginFieldPassword)
			}
			user := m.Username()
			pass := m.inputs[loginFieldPassword].Value()
			if user == "" || pass == "" {
				m.Err = "Username and password are required"
				return m, nil
			}
			m.Submitting = true
			m.Err = ""
			return m, SubmitLogin(m.ctx, m.login, user, pass)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the login form.
func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Leaderboard Admin"))
	b.WriteString("\n\n")

	if m.Notice != "" {
		b.WriteString(WarningStyle.Render(m.Notice))
		b.WriteString("\n\n")
	}

	labels := []string{"Username", "Password"}
	for i, in := range m.inputs {
		label := LabelStyle.Render(labels[i])
		if i == m.focus {
			label = FocusedLabelStyle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(InputStyle.Render(in.View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.Submitting:
		b.WriteString(DescStyle.Render("Signing in..."))
	case m.Err != "":
		b.WriteString(ErrorStyle.Render(m.Err))
	}

	return b.String()
}
