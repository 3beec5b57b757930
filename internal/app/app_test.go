package app

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/planbook/internal/document"
	"github.com/abhisek/planbook/internal/export"
	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/plans"
	"github.com/abhisek/planbook/internal/router"
	"github.com/abhisek/planbook/internal/screen"
	"github.com/abhisek/planbook/internal/screens/actions"
	"github.com/abhisek/planbook/internal/workspace"
)

// busyScreen reports itself busy until released.
type busyScreen struct {
	busy bool
}

func (s *busyScreen) Init() tea.Cmd                            { return nil }
func (s *busyScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *busyScreen) View(int, int) string                     { return "busy" }
func (s *busyScreen) Title() string                            { return "Busy" }
func (s *busyScreen) Busy() bool                               { return s.busy }

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	mock := llm.NewMockProvider()
	mock.Fallback = generator.DemoResponder
	gen := generator.New(mock, generator.DefaultConfig(), nil)
	return newAppModel(Options{Services: actions.Services{
		Session:   workspace.NewSession(plans.NewStore(), gen, lessonplan.DefaultInput(), nil),
		Renderer:  document.NewRenderer(document.Options{}),
		Exporter:  export.NewWithEncoder(nil, export.Options{Printer: export.BrowserPrinter{}}),
		ExportDir: t.TempDir(),
	}})
}

func TestSplashGivesWayToHome(t *testing.T) {
	m := newTestModel(t)
	if m.router.Active().Title() != "" {
		t.Fatalf("expected splash first, got %q", m.router.Active().Title())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'x'})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	m.Update(cmd())

	if m.router.Active().Title() != "Home" {
		t.Errorf("expected Home, got %q", m.router.Active().Title())
	}
	if m.router.Depth() != 1 {
		t.Errorf("expected splash replaced, depth %d", m.router.Depth())
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestEscPopsUnlessBusy(t *testing.T) {
	m := newTestModel(t)
	s := &busyScreen{busy: true}
	m.router.Push(s)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected esc to be ignored while busy")
	}

	s.busy = false
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("expected no command at root")
	}
}

func TestBannerExpiry(t *testing.T) {
	m := newTestModel(t)
	sess := m.svc.Session
	st := sess.Dispatch(workspace.InputRejected{Err: errors.New("first")})
	stale := st.Banner

	sess.Dispatch(workspace.InputRejected{Err: errors.New("second")})
	m.Update(actions.BannerExpiredMsg{Banner: stale})
	if got := sess.State().Banner.Text; got != "second" {
		t.Errorf("expected newer banner kept, got %q", got)
	}

	m.Update(actions.BannerExpiredMsg{Banner: sess.State().Banner})
	if got := sess.State().Banner; got != (workspace.Banner{}) {
		t.Errorf("expected banner cleared, got %+v", got)
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 30 {
		t.Errorf("expected 100x30, got %dx%d", am.width, am.height)
	}
}
