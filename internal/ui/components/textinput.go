package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/ui/theme"
)

// labelWidth fits the longest field label plus the required marker.
const labelWidth = 16

// FormField is a labelled single-line input bound to a lesson field.
type FormField struct {
	Def         lessonplan.FieldDef
	Model       textinput.Model
	NumericOnly bool
	invalid     bool
}

// NewFormField creates an unfocused input for def holding value.
func NewFormField(def lessonplan.FieldDef, value string, width int) FormField {
	ti := textinput.New()
	ti.Placeholder = def.Placeholder
	ti.CharLimit = 200
	ti.SetValue(value)
	ti.Prompt = ""
	f := FormField{
		Def:         def,
		Model:       ti,
		NumericOnly: def.Key == lessonplan.FieldWeek,
	}
	f.SetWidth(width)
	return f
}

// SetWidth sizes the input to fill width after the label.
func (f *FormField) SetWidth(width int) {
	w := width - labelWidth - 2
	if w < 10 {
		w = 10
	}
	f.Model.SetWidth(w)
}

// Focus gives the field the cursor.
func (f *FormField) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur removes the cursor.
func (f *FormField) Blur() {
	f.Model.Blur()
}

// SetInvalid flags the field after a rejected submission.
func (f *FormField) SetInvalid(invalid bool) {
	f.invalid = invalid
}

// Update handles messages. Numeric fields drop non-digit keystrokes.
// Invalid reports whether the field is flagged by the last validation.
func (f FormField) Invalid() bool {
	return f.invalid
}

func (f FormField) Update(msg tea.Msg) (FormField, tea.Cmd) {
	if f.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the label and the input on one line.
func (f FormField) View() string {
	label := f.Def.Label
	if f.Def.Required {
		label += theme.Required.Render("*")
	}
	style := theme.Label
	if f.Model.Focused() {
		style = theme.Selected
	}
	view := style.Width(labelWidth).Render(label) + "  " + f.Model.View()
	if f.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value.
func (f FormField) Value() string {
	return f.Model.Value()
}
