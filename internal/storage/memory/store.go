// Package memory provides the in-memory key-value store for respkv.
//
// It keeps values and their expiration deadlines under one lock and runs a
// single background goroutine that reclaims expired keys.
package memory

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// entry is a stored value and its deadline. A zero deadline means the key
// never expires.
type entry struct {
	value    []byte
	deadline time.Time
}

// deadlineItem is one element of the deadline index.
type deadlineItem struct {
	when time.Time
	key  string
}

// Keys sharing a deadline are ordered by name so each gets its own slot.
func deadlineLess(a, b deadlineItem) bool {
	if !a.when.Equal(b.when) {
		return a.when.Before(b.when)
	}
	return a.key < b.key
}

// Store is an expiring key-value map shared by every connection handler.
//
// Copies of the *Store pointer all refer to the same state; the
// reclamation goroutine holds one of them until Close is called.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	expirations *btree.BTreeG[deadlineItem]

	// wake holds at most one pending notification for the reclamation
	// goroutine; extra signals collapse into it.
	wake chan struct{}

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	now     func() time.Time
	logger  *slog.Logger
	metrics *metric.Registry
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger used by the reclamation goroutine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMetrics records expirations in the given registry.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = r
	}
}

// New creates a store and starts its reclamation goroutine.
func New(opts ...Option) *Store {
	s := &Store{
		entries:     make(map[string]entry),
		expirations: btree.NewBTreeGOptions(deadlineLess, btree.Options{NoLocks: true}),
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		now:         time.Now,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.reclaim()

	return s
}

// Get returns a copy of the value stored under key. A key whose deadline
// has passed is reported absent even before it is reclaimed.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.deadline.IsZero() && !s.now().Before(e.deadline) {
		return nil, false
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores value under key, replacing any previous value and deadline.
// A ttl of zero or less stores the key without expiration.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	rescheduled := false
	if old, ok := s.entries[key]; ok && !old.deadline.IsZero() {
		s.expirations.Delete(deadlineItem{when: old.deadline, key: key})
		rescheduled = true
	}

	e := entry{value: v}
	if ttl > 0 {
		e.deadline = s.now().Add(ttl)
		s.expirations.Set(deadlineItem{when: e.deadline, key: key})
		rescheduled = true
	}
	s.entries[key] = e
	s.mu.Unlock()

	if rescheduled {
		s.notify()
	}
}

// Len returns the number of stored keys, including expired keys that have
// not been reclaimed yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// PendingExpirations returns the number of scheduled deadlines.
func (s *Store) PendingExpirations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expirations.Len()
}

// Close stops the reclamation goroutine and waits for it to exit.
// The data stays readable and writable; nothing expires after Close.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	<-s.stopped
	return nil
}

func (s *Store) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
