package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// stateTTL bounds how long an OAuth handshake may take.
const stateTTL = 10 * time.Minute

// StateStore holds ephemeral handshake state keyed by the OAuth state
// parameter. It exists only to tie a callback to the Start request that
// initiated it (anti-CSRF); it is not a session store.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewStateStore creates a state store and starts its expiry sweep.
func NewStateStore() *StateStore {
	s := &StateStore{states: make(map[string]time.Time)}
	go s.cleanup()
	return s
}

// Issue generates and records a fresh state value.
func (s *StateStore) Issue() string {
	state := randomString(32)
	s.mu.Lock()
	s.states[state] = time.Now().Add(stateTTL)
	s.mu.Unlock()
	return state
}

// Consume validates and removes a state value. Each state is single-use.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(expiry)
}

func (s *StateStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for key, expiry := range s.states {
			if now.After(expiry) {
				delete(s.states, key)
			}
		}
		s.mu.Unlock()
	}
}

func randomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
