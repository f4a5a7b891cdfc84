package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formField describes one text input of a form
type formField struct {
	label       string
	placeholder string
	value       string
	width       int
}

// form is a vertical list of text inputs with tab navigation
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

func newForm(fields []formField) *form {
	f := &form{}
	for _, field := range fields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.CharLimit = 200
		in.Width = field.width
		if in.Width == 0 {
			in.Width = 40
		}
		in.SetValue(field.value)

		f.labels = append(f.labels, field.label)
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()
	return f
}

// init starts the cursor blinking in the focused input
func (f *form) init() tea.Cmd {
	return textinput.Blink
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// update handles navigation keys and forwards the rest to the focused input
func (f *form) update(msg tea.Msg) (formAction, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return formCancel, nil
		case "tab", "down":
			return formNone, f.move(1)
		case "shift+tab", "up":
			return formNone, f.move(-1)
		case "ctrl+s":
			return formSubmit, nil
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return formSubmit, nil
			}
			return formNone, f.move(1)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formNone, cmd
}

func (f *form) view() string {
	var s string
	for i, label := range f.labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == f.focus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), f.inputs[i].View())
	}
	return s
}

const formHelp = "  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel"
