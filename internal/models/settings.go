package models

import (
	"errors"
	"sync"
)

// ErrSettingsConsumed is returned when a RunSettings value is passed into a
// second run. Settings are single-use; callers must construct a fresh value
// per run.
var ErrSettingsConsumed = errors.New("run settings have already been used by a previous run")

// RunSettings carries per-run options. A settings value may be consumed by
// exactly one run; Consume fails loudly on reuse rather than silently
// continuing.
type RunSettings struct {
	// DownloadDirectory overrides the derived output directory when set.
	DownloadDirectory string

	// OverwriteFiles re-downloads assets that already exist on disk.
	OverwriteFiles bool

	mu       sync.Mutex
	consumed bool
}

// Consume marks the settings as used by a run. The second and subsequent
// calls return ErrSettingsConsumed.
func (s *RunSettings) Consume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumed {
		return ErrSettingsConsumed
	}
	s.consumed = true
	return nil
}

// Consumed reports whether the settings have been used by a run.
func (s *RunSettings) Consumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}
