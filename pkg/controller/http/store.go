package http

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EngrShabir135/koboimg/pkg/domain/model"
)

// RunStore keeps every run of the current process in memory. Nothing is
// persisted; a restart starts from a clean state.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*model.Run
}

// NewRunStore creates an empty store
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*model.Run),
	}
}

// Create registers a new pending run and returns its snapshot.
func (s *RunStore) Create() model.Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &model.Run{
		ID:        uuid.NewString(),
		Status:    model.RunStatusPending,
		CreatedAt: time.Now(),
	}
	s.runs[run.ID] = run

	return *run
}

// Get returns a snapshot of the run so callers never race with updates.
func (s *RunStore) Get(id string) (model.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return model.Run{}, false
	}

	return *run, true
}

// Update applies fn to the run under the store lock.
func (s *RunStore) Update(id string, fn func(*model.Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[id]; ok {
		fn(run)
	}
}
