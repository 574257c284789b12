package cache

import (
	"sync"
	"time"
)

// expiringSet is a mutex-guarded set of keys that each expire on their own.
// It backs the in-process idempotency store and order locker.
type expiringSet struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func newExpiringSet() *expiringSet {
	return &expiringSet{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// add inserts key unless a live entry exists; it reports whether it inserted
func (s *expiringSet) add(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return false
	}
	s.entries[key] = now.Add(ttl)
	return true
}

func (s *expiringSet) contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[key]
	return ok && s.now().Before(exp)
}

func (s *expiringSet) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// sweep drops expired keys and returns how many were dropped
func (s *expiringSet) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
			dropped++
		}
	}
	return dropped
}

func (s *expiringSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
