// Package tasks keeps the local mirror of the remote task list and the
// controller that synchronizes it.
package tasks

import (
	"sync"

	"github.com/Makepad-fr/tada/internal/model"
)

// Store is the in-memory task collection. Only Controller success paths mutate it.
type Store struct {
	mu    sync.Mutex
	tasks []model.Task
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Snapshot returns a copy of the current collection in display order.
func (s *Store) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get looks a task up by id.
func (s *Store) Get(id model.TaskID) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Replace swaps in a freshly fetched collection. Duplicate ids collapse onto the
// first position, keeping the last occurrence's data.
func (s *Store) Replace(tasks []model.Task) {
	out := make([]model.Task, 0, len(tasks))
	pos := make(map[model.TaskID]int, len(tasks))
	for _, t := range tasks {
		if i, ok := pos[t.ID]; ok {
			out[i] = t
			continue
		}
		pos[t.ID] = len(out)
		out = append(out, t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = out
}

// Append adds a server-confirmed task. A task whose id is already present
// replaces that entry in place.
func (s *Store) Append(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(t.ID); i >= 0 {
		s.tasks[i] = t
		return
	}
	s.tasks = append(s.tasks, t)
}

// index is a linear scan; caller holds mu.
func (s *Store) index(id model.TaskID) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
