package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField pairs a label with its input. Secure fields mask what is typed.
type formField struct {
	Label  string
	Secure bool
	input  textinput.Model
}

// form is a vertical stack of labelled inputs with tab/shift-tab focus
// cycling, shared by login, lead/partner/branch creation and the OTP flows.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	for i := range fields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 120
		if fields[i].Secure {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		fields[i].input = in
	}
	f := form{fields: fields}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.moveFocus(1), nil
		case "shift+tab", "up":
			return f.moveFocus(-1), nil
		}
	}

	var cmd tea.Cmd
	if f.focus >= 0 && f.focus < len(f.fields) {
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	}
	return f, cmd
}

func (f form) moveFocus(delta int) form {
	if len(f.fields) == 0 {
		return f
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
	return f
}

func (f form) View() string {
	var b strings.Builder
	for i, field := range f.fields {
		label := field.Label
		if i == f.focus {
			label = labelStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	return b.String()
}

// Value returns the trimmed content of the field with the given label.
func (f form) Value(label string) string {
	for _, field := range f.fields {
		if field.Label == label {
			return strings.TrimSpace(field.input.Value())
		}
	}
	return ""
}

func (f form) Reset() form {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
		f.fields[i].input.Blur()
	}
	f.focus = 0
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}
