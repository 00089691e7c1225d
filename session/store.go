// Package session keeps short lived per-user state for multi-step Discord flows.
package session

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store holds one value per user that expires after a period of inactivity
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]*entry[T]
	now     func() time.Time
}

// NewStore creates a store whose entries expire ttl after their last write
func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[int64]*entry[T]),
		now:     time.Now,
	}
}

// Get returns the user's value if present and not expired
func (s *Store[T]) Get(userID int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores the value and resets the expiry
func (s *Store[T]) Put(userID int64, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = &entry[T]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Update applies fn to a live value and resets the expiry. It reports false
// when the user has no live value.
func (s *Store[T]) Update(userID int64, fn func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		return false
	}
	e.value = fn(e.value)
	e.expiresAt = s.now().Add(s.ttl)
	return true
}

// Delete removes the user's value
func (s *Store[T]) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len returns the number of stored values, expired ones included until swept
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired values and returns how many were removed
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// ScheduleSweep registers a job on the scheduler that sweeps the store every interval
func (s *Store[T]) ScheduleSweep(scheduler gocron.Scheduler, name string, interval time.Duration) error {
	_, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := s.Sweep(); removed > 0 {
				log.WithFields(log.Fields{
					"store":   name,
					"removed": removed,
				}).Debug("Swept expired sessions")
			}
		}),
		gocron.WithName("sweep-"+name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}
