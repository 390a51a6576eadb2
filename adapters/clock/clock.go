// Package clock provides Clock implementations used to time compile sessions.
package clock

import (
	"sync"
	"time"

	"github.com/artpar/judegen/ports"
)

// Real returns the wall clock time.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

var _ ports.Clock = Real{}

// Stepping is a test clock that moves forward by a fixed step on every read,
// so a session timed with two reads takes exactly one step.
type Stepping struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewStepping creates a stepping clock starting at start.
func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{current: start, step: step}
}

// Now returns the current fake time and advances it by one step.
func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.current
	s.current = s.current.Add(s.step)
	return now
}

var _ ports.Clock = (*Stepping)(nil)
