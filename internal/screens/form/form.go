// Package form is the lesson input form. Submitting it runs a generation
// as a tea.Cmd; a second submission is ignored until the first returns.
package form

import (
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/screens/preview"
	"github.com/abhisek/planbook/internal/ui/components"
	"github.com/abhisek/planbook/internal/ui/layout"
	"github.com/abhisek/planbook/internal/ui/theme"
	"github.com/abhisek/planbook/internal/workspace"
)

// FormScreen edits the session's form and starts generations.
type FormScreen struct {
	svc     actions.Services
	fields  []components.FormField
	focus   int // len(fields) focuses the submit button
	spinner spinner.Model
	pending bool
	width   int
}

var _ screen.Screen = (*FormScreen)(nil)

// New creates a form prefilled from the session state.
func New(svc actions.Services) *FormScreen {
	st := svc.Session.State()
	f := &FormScreen{
		svc:     svc,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
		width:   layout.MinWidth,
	}
	for _, def := range lessonplan.Fields {
		f.fields = append(f.fields, components.NewFormField(def, st.Form.Get(def.Key), f.width))
	}
	return f
}

func (f *FormScreen) Init() tea.Cmd {
	return f.fields[0].Focus()
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return f, f.submit()
		case "tab", "down":
			return f, f.move(1)
		case "shift+tab", "up":
			return f, f.move(-1)
		case "enter":
			if f.focus == len(f.fields) {
				return f, f.submit()
			}
			return f, f.move(1)
		}
		if f.focus < len(f.fields) && !f.pending {
			var cmd tea.Cmd
			f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
			return f, cmd
		}
		return f, nil

	case actions.GenerateDoneMsg:
		f.pending = false
		return f, f.generated(msg)

	case actions.DraftAcceptedMsg:
		f.SyncWeek()
		return f, nil

	case spinner.TickMsg:
		if !f.pending {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd
	}

	if f.focus < len(f.fields) {
		var cmd tea.Cmd
		f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *FormScreen) move(delta int) tea.Cmd {
	if f.focus < len(f.fields) {
		f.fields[f.focus].Blur()
	}
	f.focus = (f.focus + delta + len(f.fields) + 1) % (len(f.fields) + 1)
	if f.focus < len(f.fields) {
		return f.fields[f.focus].Focus()
	}
	return nil
}

// submit copies every field into the session, validates the result and
// starts the generation.
func (f *FormScreen) submit() tea.Cmd {
	if f.pending || !f.svc.Session.State().CanGenerate() {
		return nil
	}

	var errs []error
	for _, field := range f.fields {
		if err := f.svc.Session.Edit(field.Def.Key, field.Value()); err != nil {
			errs = append(errs, err)
		}
	}
	input := f.svc.Session.State().Form
	err := errors.Join(errs...)
	if err == nil {
		err = input.Validate()
	}
	f.markInvalid(err)
	if err != nil {
		f.svc.Session.Dispatch(workspace.InputRejected{Err: err})
		return nil
	}

	f.pending = true
	return tea.Batch(f.spinner.Tick, actions.Generate(f.svc, input))
}

func (f *FormScreen) markInvalid(err error) {
	bad := map[lessonplan.FieldKey]bool{}
	for _, e := range unjoin(err) {
		var fe *lessonplan.FieldError
		if errors.As(e, &fe) {
			bad[fe.Field] = true
		}
	}
	for i := range f.fields {
		f.fields[i].SetInvalid(bad[f.fields[i].Def.Key])
	}
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func (f *FormScreen) generated(msg actions.GenerateDoneMsg) tea.Cmd {
	switch {
	case msg.Err == nil:
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: preview.New(f.svc)}
		}
	case errors.Is(msg.Err, workspace.ErrBusy):
		f.svc.Session.Dispatch(workspace.InputRejected{Err: msg.Err})
	}
	return actions.ExpireBanner(f.svc.Session.State().Banner)
}

// SyncWeek copies the session's week into the form after an accepted
// draft advanced it. Other fields keep any unsubmitted edits.
func (f *FormScreen) SyncWeek() {
	week := f.svc.Session.State().Form.Get(lessonplan.FieldWeek)
	f.fields[fieldIndex(lessonplan.FieldWeek)].Model.SetValue(week)
}

// Busy reports whether a generation is in flight. The app keeps the form
// on screen until it returns.
func (f *FormScreen) Busy() bool {
	return f.pending
}

func (f *FormScreen) View(width, height int) string {
	if width != f.width {
		f.width = width
		for i := range f.fields {
			f.fields[i].SetWidth(width)
		}
	}

	st := f.svc.Session.State()
	var top []string
	if banner := components.Banner(st.Banner, width); banner != "" {
		top = append(top, banner)
	}

	var bottom string
	if f.pending || st.Generating {
		bottom = f.spinner.View() + " " + theme.Body.Render(fmt.Sprintf("Generating the week %s %s plan…",
			f.fields[fieldIndex(lessonplan.FieldWeek)].Value(), f.fields[fieldIndex(lessonplan.FieldSubject)].Value()))
	} else {
		bottom = components.Button("Generate Lesson Plan", f.focus == len(f.fields))
	}

	avail := height - len(top) - lipgloss.Height(bottom) - 1
	rows := f.visibleRows(avail)
	return lipgloss.JoinVertical(lipgloss.Left, append(append(top, rows...), "", bottom)...)
}

// visibleRows windows the field list so the focused field stays on screen.
func (f *FormScreen) visibleRows(avail int) []string {
	n := len(f.fields)
	if avail < 1 {
		avail = 1
	}
	start := 0
	if f.focus >= avail {
		start = min(f.focus, n-1) - avail + 1
	}
	end := min(start+avail, n)

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, f.fields[i].View())
	}
	return rows
}

func fieldIndex(key lessonplan.FieldKey) int {
	for i, def := range lessonplan.Fields {
		if def.Key == key {
			return i
		}
	}
	return 0
}

func (f *FormScreen) Title() string {
	return "New Lesson Plan"
}

// KeyHints implements screen.KeyHintProvider.
func (f *FormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Move"},
		{Key: "Ctrl+S", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}
