// Package timeprovider abstracts "now" for callers assembling a
// ScheduleContext. The engine itself never reads a clock — it consumes the
// explicit CurrentTime value it is handed — so this seam lives with the
// callers that must produce that value: the demo harness fills in
// CurrentTime from the System provider when a scenario omits it, and tests
// pin an override.
package timeprovider

import (
	"sync"
	"time"

	"github.com/chronia/scheduler/internal/domain"
)

// Provider is the collaborator contract callers use for "now" and for
// turning an instant into a local calendar date string.
type Provider interface {
	Now() time.Time
	LocalDateString(t time.Time) domain.LocalDate
}

// System is the production Provider: real wall-clock time, with an
// optional per-provider override for tests. Mutation of the override is
// serialized through its own mutex; no other part of the core holds mutable
// shared state across runs.
type System struct {
	mu       sync.RWMutex
	override *time.Time
	loc      *time.Location
}

// New returns a System provider using loc (time.Local if nil) for deriving
// local date strings from instants.
func New(loc *time.Location) *System {
	return &System{loc: loc}
}

// Now returns the overridden instant if set, else time.Now().
func (s *System) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.override != nil {
		return *s.override
	}
	return time.Now()
}

// LocalDateString renders t's calendar date in the provider's location.
func (s *System) LocalDateString(t time.Time) domain.LocalDate {
	s.mu.RLock()
	loc := s.loc
	s.mu.RUnlock()
	return domain.LocalDateFromInstant(t, loc)
}

// SetOverride pins Now() to t; test-only.
func (s *System) SetOverride(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = &t
}

// ClearOverride restores real wall-clock time; test-only.
func (s *System) ClearOverride() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = nil
}

// IsOverridden reports whether an override is currently active; test-only.
func (s *System) IsOverridden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override != nil
}
