package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/planbook/internal/lessonplan"
	"github.com/abhisek/planbook/internal/logging"
	"github.com/abhisek/planbook/internal/metrics"
	"github.com/abhisek/planbook/internal/plans"
)

var (
	// ErrBusy is returned when a generation is already in flight.
	ErrBusy = errors.New("a lesson plan is already being generated")
	// ErrNoDraft is returned when there is nothing to accept.
	ErrNoDraft = errors.New("no generated plan to accept")
)

// Generator produces lesson content for an input.
type Generator interface {
	Generate(ctx context.Context, input lessonplan.LessonInput) (*lessonplan.GeneratedContent, error)
}

// Session couples a State with the plan collection behind one mutex so
// concurrent callers see consistent transitions.
type Session struct {
	mu    sync.Mutex
	state State
	plans *plans.Store
	gen   Generator
	log   *logging.Logger
}

// NewSession starts a session whose form holds defaults.
func NewSession(store *plans.Store, gen Generator, defaults lessonplan.LessonInput, log *logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		state: NewState(defaults),
		plans: store,
		gen:   gen,
		log:   log.With("component", "workspace"),
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Dispatch applies ev and returns the new state.
func (s *Session) Dispatch(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, ev)
	return s.snapshot()
}

// Edit sets one form field from text. A value that cannot be parsed is
// returned as a *lessonplan.FieldError and leaves the field and the banner
// unchanged.
func (s *Session) Edit(key lessonplan.FieldKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := s.state.Form
	if err := form.Set(key, value); err != nil {
		return &lessonplan.FieldError{Field: key, Message: err.Error()}
	}
	s.state = Reduce(s.state, FieldEdited{Key: key, Value: value})
	return nil
}

// Generate replaces the form with input, runs one generation and stores
// the result as the draft. Input validation errors are returned without
// touching state; ErrBusy is returned while another generation runs.
func (s *Session) Generate(ctx context.Context, input lessonplan.LessonInput) (State, error) {
	if err := input.Validate(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	if !s.state.CanGenerate() {
		st := s.snapshot()
		s.mu.Unlock()
		return st, ErrBusy
	}
	s.state = Reduce(s.state, InputReplaced{Input: input})
	s.state = Reduce(s.state, GenerationStarted{})
	s.mu.Unlock()

	content, err := s.gen.Generate(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Reduce(s.state, GenerationFailed{Err: err})
		return s.snapshot(), err
	}
	s.state = Reduce(s.state, GenerationSucceeded{Input: input, Content: *content})
	return s.snapshot(), nil
}

// Accept moves the draft into the collection.
func (s *Session) Accept() (lessonplan.SavedPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Draft == nil {
		return lessonplan.SavedPlan{}, ErrNoDraft
	}
	saved := s.plans.Append(s.state.Draft.Input, s.state.Draft.Content)
	s.state = Reduce(s.state, DraftAccepted{})
	metrics.PlansInCollection.Set(float64(s.plans.Len()))

	s.log.Info("plan accepted", "id", saved.ID, "subject", saved.Input.Subject, "week", saved.Input.Week)
	return saved, nil
}

// Discard drops the draft.
func (s *Session) Discard() {
	s.Dispatch(DraftDiscarded{})
}

// Remove deletes a saved plan from the collection.
func (s *Session) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans.Remove(id)
	metrics.PlansInCollection.Set(float64(s.plans.Len()))
}

// Plans returns the collection in insertion order.
func (s *Session) Plans() []lessonplan.SavedPlan {
	return s.plans.List()
}

func (s *Session) snapshot() State {
	st := s.state
	if st.Draft != nil {
		d := *st.Draft
		d.Content = d.Content.Clone()
		st.Draft = &d
	}
	return st
}
