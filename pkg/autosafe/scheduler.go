// Package autosafe schedules the daily status-backfill transition: a
// one-shot timer aimed at the next cutoff instant that reschedules itself
// for the following day after firing.
package autosafe

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Clock supplies wall-clock time; injectable for tests.
type Clock func() time.Time

// Scheduler fires a callback once per day when wall-clock time crosses the
// cutoff hour. The callback runs on the timer goroutine; callers that need
// single-threaded mutation (the UI loop) should forward it as a message
// rather than mutate state directly.
type Scheduler struct {
	now    Clock
	cutoff int
	fire   func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// New creates a scheduler. fire is invoked at each cutoff crossing.
func New(now Clock, cutoffHour int, fire func()) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, cutoff: cutoffHour, fire: fire}
}

// NextCutoff returns the next instant at or after now when the cutoff hour
// begins: today's cutoff if now is before it, otherwise tomorrow's.
func NextCutoff(now time.Time, cutoffHour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), cutoffHour, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start arms the timer for the next cutoff. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduleLocked()
}

func (s *Scheduler) scheduleLocked() {
	if s.stopped {
		return
	}
	now := s.now()
	next := NextCutoff(now, s.cutoff)
	d := next.Sub(now)
	logrus.WithField("at", next.Format(time.RFC3339)).Debug("auto-safe timer armed")
	s.timer = time.AfterFunc(d, func() {
		s.fire()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.scheduleLocked()
	})
}

// Stop cancels the pending timer and prevents any rescheduling. A callback
// already in flight may still complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
