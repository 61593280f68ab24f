package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aurumfx/lbadmin/internal/model"
)

// FormResult is what a key press did to the trader form.
type FormResult int

const (
	FormEditing FormResult = iota
	FormSubmitted
	FormCancelled
)

const (
	fieldName = iota
	fieldBalance
	fieldGrowth
	fieldPlatform
	fieldCountry
	fieldRank
	fieldCount
)

var formLabels = [fieldCount]string{
	"Name",
	"Account balance (USD)",
	"Growth %",
	"Platform",
	"Country code",
	"Rank",
}

// FormModel is the add/edit trader form.
type FormModel struct {
	inputs [fieldCount]textinput.Model
	focus  int

	// ID is empty when adding a trader.
	ID  model.TraderID
	Err string
}

// NewFormModel creates a form pre-filled with in. id is the trader being
// edited, or empty for a new trader.
func NewFormModel(in model.DraftInput, id model.TraderID) *FormModel {
	values := [fieldCount]string{
		in.Name,
		in.AccountBalance,
		in.GrowthPercentage,
		in.Platform,
		in.CountryCode,
		in.RankPosition,
	}

	f := &FormModel{ID: id}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 30
		ti.CharLimit = 64
		ti.SetValue(values[i])
		ti.CursorEnd()
		f.inputs[i] = ti
	}
	f.inputs[fieldCountry].CharLimit = 2
	f.inputs[fieldCountry].Placeholder = "e.g. US"
	f.inputs[fieldRank].Placeholder = "optional"
	f.inputs[fieldName].Focus()
	return f
}

// Editing reports whether the form edits an existing trader.
func (f *FormModel) Editing() bool {
	return f.ID != ""
}

// Input returns the raw field values.
func (f *FormModel) Input() model.DraftInput {
	return model.DraftInput{
		Name:             f.inputs[fieldName].Value(),
		AccountBalance:   f.inputs[fieldBalance].Value(),
		GrowthPercentage: f.inputs[fieldGrowth].Value(),
		Platform:         f.inputs[fieldPlatform].Value(),
		CountryCode:      f.inputs[fieldCountry].Value(),
		RankPosition:     f.inputs[fieldRank].Value(),
	}
}

func (f *FormModel) setFocus(i int) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// Update handles a key. On FormSubmitted the returned draft has passed
// validation; otherwise it is the zero value.
func (f *FormModel) Update(msg tea.KeyMsg) (FormResult, model.Draft, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return FormCancelled, model.Draft{}, nil
	case "tab", "down":
		return FormEditing, model.Draft{}, f.setFocus((f.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return FormEditing, model.Draft{}, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	case "enter":
		if f.focus < fieldCount-1 {
			return FormEditing, model.Draft{}, f.setFocus(f.focus + 1)
		}
		return f.submit()
	case "ctrl+s":
		return f.submit()
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return FormEditing, model.Draft{}, cmd
}

func (f *FormModel) submit() (FormResult, model.Draft, tea.Cmd) {
	d, err := model.ParseDraft(f.Input())
	if err != nil {
		f.Err = err.Error()
		return FormEditing, model.Draft{}, nil
	}
	f.Err = ""
	return FormSubmitted, d, nil
}

// View renders the form.
func (f *FormModel) View() string {
	var b strings.Builder

	title := "Add trader"
	if f.Editing() {
		title = "Edit trader " + f.ID.String()
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	for i, in := range f.inputs {
		label := LabelStyle.Render(formLabels[i])
		if i == f.focus {
			label = FocusedLabelStyle.Render(formLabels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString("  " + in.View())
		b.WriteString("\n")
	}

	if f.Err != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(f.Err))
	}
	return b.String()
}
