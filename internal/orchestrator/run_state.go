package orchestrator

import (
	"sync"

	"github.com/ternarybob/patrondl/internal/models"
)

// runState is the mutual-exclusion gate protecting the run-active flag,
// the one-time initialization flag, and the current status. tryBeginRun and
// endRun are the only mutators of the run-active flag; callers never touch
// the fields directly.
type runState struct {
	mu          sync.Mutex
	running     bool
	initialized bool
	status      models.RunStatus
}

func newRunState() *runState {
	return &runState{status: models.StatusReady}
}

// tryBeginRun marks a run active. Returns false when a run is already
// active; the caller is rejected, never queued.
func (s *runState) tryBeginRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}
	s.running = true
	return true
}

// endRun clears the run-active flag. Safe to call from any exit path.
func (s *runState) endRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// initOnce runs fn under the gate unless initialization already happened.
// The initialized flag is set only when fn succeeds, so a failed
// initialization is retried by the next run.
func (s *runState) initOnce(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// setStatus records the current pipeline status.
func (s *runState) setStatus(status models.RunStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// currentStatus returns the current pipeline status.
func (s *runState) currentStatus() models.RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
