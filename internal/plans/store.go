// Package plans holds the in-memory weekly collection of saved lesson plans.
package plans

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/planbook/internal/lessonplan"
)

// Store is an ordered, process-lifetime collection of SavedPlans.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	plans []lessonplan.SavedPlan
	newID func() string
}

// NewStore returns an empty collection.
func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

// Append snapshots input and content into a new SavedPlan at the end of
// the collection. Later changes to the arguments do not affect it.
func (s *Store) Append(input lessonplan.LessonInput, content lessonplan.GeneratedContent) lessonplan.SavedPlan {
	plan := lessonplan.SavedPlan{
		ID:      s.newID(),
		Input:   input,
		Content: content.Clone(),
	}

	s.mu.Lock()
	s.plans = append(s.plans, plan)
	s.mu.Unlock()

	return plan.Clone()
}

// Remove deletes the plan with id. Unknown ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = slices.DeleteFunc(s.plans, func(p lessonplan.SavedPlan) bool { return p.ID == id })
}

// List returns a snapshot in insertion order.
func (s *Store) List() []lessonplan.SavedPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]lessonplan.SavedPlan, len(s.plans))
	for i, p := range s.plans {
		out[i] = p.Clone()
	}
	return out
}

// Get returns the plan with id.
func (s *Store) Get(id string) (lessonplan.SavedPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.plans {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return lessonplan.SavedPlan{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}
