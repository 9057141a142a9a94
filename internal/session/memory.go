// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"sync"
	"time"

	"github.com/endulce/veci/internal/domain"
)

// entry is one user's session with its expiration time.
type entry struct {
	state      domain.State
	cart       domain.Cart
	history    []domain.Turn
	expiration time.Time
}

func (e *entry) isExpired() bool {
	return time.Now().After(e.expiration)
}

// MemoryStore is a process-local Store. It backs tests and serves as the
// fallback when Redis is unreachable.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	janitor *janitor
}

// NewMemoryStore creates an in-memory session store. When cleanupInterval is
// positive a background janitor evicts expired sessions.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
	if cleanupInterval > 0 {
		s.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
		}
		go s.janitor.run(s)
	}
	return s
}

// live returns the entry for user, or nil if absent or expired.
// Callers must hold at least a read lock.
func (s *MemoryStore) live(user string) *entry {
	e, ok := s.entries[user]
	if !ok || e.isExpired() {
		return nil
	}
	return e
}

// touch returns the user's entry for writing, creating or resurrecting it,
// and refreshes the TTL. Callers must hold the write lock.
func (s *MemoryStore) touch(user string) *entry {
	e, ok := s.entries[user]
	if !ok || e.isExpired() {
		e = &entry{state: domain.StateIdle}
		s.entries[user] = e
	}
	e.expiration = time.Now().Add(s.ttl)
	return e
}

func (s *MemoryStore) State(_ context.Context, user string) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := s.live(user); e != nil {
		return e.state, nil
	}
	return domain.StateIdle, nil
}

func (s *MemoryStore) SetState(_ context.Context, user string, state domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(user).state = state
	return nil
}

func (s *MemoryStore) Cart(_ context.Context, user string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := s.live(user); e != nil {
		return e.cart, nil
	}
	return domain.Cart{}, nil
}

func (s *MemoryStore) SetCart(_ context.Context, user string, cart domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(user).cart = cart
	return nil
}

func (s *MemoryStore) History(_ context.Context, user string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.live(user)
	if e == nil {
		return nil, nil
	}
	out := make([]domain.Turn, len(e.history))
	copy(out, e.history)
	return out, nil
}

func (s *MemoryStore) AppendHistory(_ context.Context, user string, turns ...domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(user)
	e.history = append(e.history, turns...)
	if n := len(e.history); n > HistoryLimit {
		e.history = e.history[n-HistoryLimit:]
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, user)
	return nil
}

// Stop halts the background janitor, if any.
func (s *MemoryStore) Stop() {
	if s.janitor != nil {
		s.janitor.stop <- struct{}{}
	}
}

func (s *MemoryStore) deleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for user, e := range s.entries {
		if e.isExpired() {
			delete(s.entries, user)
		}
	}
}

// janitor periodically evicts expired sessions.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(s *MemoryStore) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-j.stop:
			return
		}
	}
}
