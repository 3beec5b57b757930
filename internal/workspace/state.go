// Package workspace models the editing session: the form, the in-flight
// generation, the pending draft and transient banners.
package workspace

import (
	"fmt"

	"github.com/abhisek/planbook/internal/generator"
	"github.com/abhisek/planbook/internal/lessonplan"
)

// BannerKind distinguishes success and error banners.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is a transient message shown above the form.
type Banner struct {
	Kind BannerKind
	Text string
}

// Draft is a generated plan awaiting acceptance, with the input it was
// generated from.
type Draft struct {
	Input   lessonplan.LessonInput
	Content lessonplan.GeneratedContent
}

// State is the full UI state. Change it only through Reduce.
type State struct {
	Form       lessonplan.LessonInput
	Generating bool
	Draft      *Draft
	Banner     Banner
}

// NewState starts with form prefilled from defaults.
func NewState(defaults lessonplan.LessonInput) State {
	return State{Form: defaults}
}

// CanGenerate reports whether a new generation may start.
func (s State) CanGenerate() bool {
	return !s.Generating
}

// Event is something that happened to the workspace.
type Event interface {
	event()
}

type (
	// FieldEdited sets one form field from text.
	FieldEdited struct {
		Key   lessonplan.FieldKey
		Value string
	}
	// InputReplaced swaps the whole form.
	InputReplaced struct {
		Input lessonplan.LessonInput
	}
	// InputRejected reports a form that failed validation.
	InputRejected struct {
		Err error
	}
	GenerationStarted   struct{}
	GenerationSucceeded struct {
		Input   lessonplan.LessonInput
		Content lessonplan.GeneratedContent
	}
	GenerationFailed struct {
		Err error
	}
	DraftAccepted  struct{}
	DraftDiscarded struct{}
	BannerCleared  struct{}
)

func (FieldEdited) event()         {}
func (InputReplaced) event()       {}
func (InputRejected) event()       {}
func (GenerationStarted) event()   {}
func (GenerationSucceeded) event() {}
func (GenerationFailed) event()    {}
func (DraftAccepted) event()       {}
func (DraftDiscarded) event()      {}
func (BannerCleared) event()       {}

// AcceptedBanner is the success text shown after a draft joins the collection.
func AcceptedBanner(week int) string {
	return fmt.Sprintf("Week %d plan added to collection!", week)
}

// Reduce returns the state after ev. It never mutates s.
func Reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case FieldEdited:
		if err := s.Form.Set(ev.Key, ev.Value); err != nil {
			s.Banner = Banner{Kind: BannerError, Text: err.Error()}
		}
	case InputReplaced:
		s.Form = ev.Input
	case InputRejected:
		s.Banner = Banner{Kind: BannerError, Text: ev.Err.Error()}
	case GenerationStarted:
		if !s.CanGenerate() {
			return s
		}
		s.Generating = true
		s.Banner = Banner{}
	case GenerationSucceeded:
		s.Generating = false
		s.Draft = &Draft{Input: ev.Input, Content: ev.Content.Clone()}
		s.Banner = Banner{}
	case GenerationFailed:
		s.Generating = false
		s.Banner = Banner{Kind: BannerError, Text: generator.UserMessage}
	case DraftAccepted:
		if s.Draft == nil {
			return s
		}
		s.Banner = Banner{Kind: BannerSuccess, Text: AcceptedBanner(s.Draft.Input.Week)}
		s.Draft = nil
		s.Form.Week++
	case DraftDiscarded:
		s.Draft = nil
	case BannerCleared:
		s.Banner = Banner{}
	}
	return s
}
