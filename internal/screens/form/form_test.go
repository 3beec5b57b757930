package form

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/plans"
	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/screens/preview"
	"github.com/abhisek/planbook/internal/workspace"
)

func newServices(t *testing.T) (actions.Services, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider()
	mock.Fallback = generator.DemoResponder
	gen := generator.New(mock, generator.DefaultConfig(), nil)
	return actions.Services{
		Session:   workspace.NewSession(plans.NewStore(), gen, lessonplan.DefaultInput(), nil),
		Renderer:  document.NewRenderer(document.Options{}),
		Exporter:  export.NewWithEncoder(nil, export.Options{Printer: export.BrowserPrinter{}}),
		ExportDir: t.TempDir(),
	}, mock
}

func ctrlS() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestFormPrefilledFromSession(t *testing.T) {
	svc, _ := newServices(t)
	f := New(svc)

	if got := f.fields[fieldIndex(lessonplan.FieldSubject)].Value(); got != "Civic Education" {
		t.Errorf("expected subject prefilled, got %q", got)
	}
	if got := f.fields[fieldIndex(lessonplan.FieldWeek)].Value(); got != "1" {
		t.Errorf("expected week 1, got %q", got)
	}
	if len(f.fields) != len(lessonplan.Fields) {
		t.Errorf("expected %d fields, got %d", len(lessonplan.Fields), len(f.fields))
	}
}

func TestSubmitGeneratesAndOpensPreview(t *testing.T) {
	svc, mock := newServices(t)
	f := New(svc)
	f.Init()

	_, cmd := f.Update(ctrlS())
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	if !f.Busy() {
		t.Error("expected form to be busy while generating")
	}

	// A second submission while pending is ignored.
	if _, again := f.Update(ctrlS()); again != nil {
		t.Error("expected second submit to be ignored")
	}

	var done *actions.GenerateDoneMsg
	for _, msg := range collect(cmd) {
		if m, ok := msg.(actions.GenerateDoneMsg); ok {
			done = &m
		}
	}
	if done == nil {
		t.Fatal("expected a GenerateDoneMsg")
	}
	if done.Err != nil {
		t.Fatalf("unexpected generation error: %v", done.Err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected exactly one provider call, got %d", mock.CallCount())
	}

	_, next := f.Update(*done)
	if f.Busy() {
		t.Error("expected form to be idle after generation")
	}
	msgs := collect(next)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	push, ok := msgs[0].(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msgs[0])
	}
	if _, ok := push.Screen.(*preview.PreviewScreen); !ok {
		t.Errorf("expected preview screen, got %T", push.Screen)
	}
}

func TestSubmitRejectsMissingRequiredField(t *testing.T) {
	svc, mock := newServices(t)
	f := New(svc)
	idx := fieldIndex(lessonplan.FieldTopic)
	f.fields[idx].Model.SetValue("   ")

	_, cmd := f.Update(ctrlS())
	if cmd != nil {
		t.Error("expected no command for invalid input")
	}
	if f.Busy() {
		t.Error("expected form to stay idle")
	}
	st := svc.Session.State()
	if st.Banner.Kind != workspace.BannerError {
		t.Errorf("expected error banner, got %+v", st.Banner)
	}
	if !f.fields[idx].Invalid() {
		t.Error("expected topic field flagged invalid")
	}
	if f.fields[fieldIndex(lessonplan.FieldSubject)].Invalid() {
		t.Error("expected subject field not flagged")
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestWeekFieldAcceptsDigitsOnly(t *testing.T) {
	svc, _ := newServices(t)
	f := New(svc)
	f.Init()

	for range fieldIndex(lessonplan.FieldWeek) {
		f.Update(specialKey(tea.KeyTab))
	}
	if f.focus != fieldIndex(lessonplan.FieldWeek) {
		t.Fatalf("expected week focused, got field %d", f.focus)
	}

	f.Update(keyPress('x'))
	f.Update(keyPress('2'))
	if got := f.fields[f.focus].Value(); got != "12" {
		t.Errorf("expected %q, got %q", "12", got)
	}
}

func TestFocusWrapsThroughSubmitButton(t *testing.T) {
	svc, _ := newServices(t)
	f := New(svc)
	f.Init()

	f.Update(specialKey(tea.KeyUp))
	if f.focus != len(f.fields) {
		t.Fatalf("expected submit button focused, got %d", f.focus)
	}

	_, cmd := f.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Error("expected enter on the button to submit")
	}

	f.Update(specialKey(tea.KeyDown))
	if f.focus != 0 {
		t.Errorf("expected focus to wrap to first field, got %d", f.focus)
	}
}

func TestSyncWeekAfterAccept(t *testing.T) {
	svc, _ := newServices(t)
	f := New(svc)

	if _, err := svc.Session.Generate(t.Context(), svc.Session.State().Form); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.Session.Accept(); err != nil {
		t.Fatalf("accept: %v", err)
	}

	f.Update(actions.DraftAcceptedMsg{})
	if got := f.fields[fieldIndex(lessonplan.FieldWeek)].Value(); got != "2" {
		t.Errorf("expected week 2 after accept, got %q", got)
	}
}

func TestViewShowsSessionBanner(t *testing.T) {
	svc, _ := newServices(t)
	f := New(svc)
	svc.Session.Dispatch(workspace.InputRejected{Err: errors.New("subject: Subject is required")})

	view := f.View(100, 30)
	if !strings.Contains(view, "Subject is required") {
		t.Error("expected banner text in view")
	}
	if !strings.Contains(view, "Generate Lesson Plan") {
		t.Error("expected submit button in view")
	}
}

// generateOnce submits the form and runs the generation command, returning
// its result.
func generateOnce(t *testing.T, f *FormScreen) actions.GenerateDoneMsg {
	t.Helper()
	_, cmd := f.Update(ctrlS())
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	for _, msg := range collect(cmd) {
		if done, ok := msg.(actions.GenerateDoneMsg); ok {
			return done
		}
	}
	t.Fatal("expected a GenerateDoneMsg")
	return actions.GenerateDoneMsg{}
}

func TestRetryAfterFailedGeneration(t *testing.T) {
	svc, mock := newServices(t)
	mock.AddResponse(llm.MockResponse{Err: errors.New("connection refused")})
	f := New(svc)
	f.Init()

	done := generateOnce(t, f)
	if done.Err == nil {
		t.Fatal("expected the first generation to fail")
	}
	if _, next := f.Update(done); next == nil {
		t.Error("expected the failure banner to be scheduled to expire")
	}
	if f.Busy() {
		t.Fatal("expected form to be idle after the failure")
	}
	if st := svc.Session.State(); st.Banner.Kind != workspace.BannerError || st.Draft != nil {
		t.Fatalf("expected error banner and no draft, got %+v", st)
	}

	// The stale error banner must not block the next attempt.
	done = generateOnce(t, f)
	if done.Err != nil {
		t.Fatalf("expected retry to succeed, got %v", done.Err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected two provider calls, got %d", mock.CallCount())
	}
	st := svc.Session.State()
	if st.Draft == nil {
		t.Error("expected a draft after the retry")
	}
	if st.Banner.Kind != workspace.BannerNone {
		t.Errorf("expected banner cleared by the new generation, got %+v", st.Banner)
	}
}

func TestRetryAfterRejectedInput(t *testing.T) {
	svc, mock := newServices(t)
	f := New(svc)
	topic := fieldIndex(lessonplan.FieldTopic)

	f.fields[topic].Model.SetValue("")
	if _, cmd := f.Update(ctrlS()); cmd != nil {
		t.Fatal("expected rejection")
	}

	f.fields[topic].Model.SetValue("Honesty")
	done := generateOnce(t, f)
	if done.Err != nil {
		t.Fatalf("unexpected error: %v", done.Err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected one provider call, got %d", mock.CallCount())
	}
	if f.fields[topic].Invalid() {
		t.Error("expected topic no longer flagged")
	}
}

func TestSubmitRejectsEmptyWeek(t *testing.T) {
	svc, mock := newServices(t)
	f := New(svc)
	week := fieldIndex(lessonplan.FieldWeek)
	f.fields[week].Model.SetValue("")

	if _, cmd := f.Update(ctrlS()); cmd != nil {
		t.Fatal("expected no generation for an empty week")
	}
	if !f.fields[week].Invalid() {
		t.Error("expected week flagged invalid")
	}
	if got := svc.Session.State().Form.Week; got != 1 {
		t.Errorf("expected stored week to stay 1, got %d", got)
	}
	if svc.Session.State().Banner.Kind != workspace.BannerError {
		t.Error("expected an error banner")
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no provider calls, got %d", mock.CallCount())
	}
}
