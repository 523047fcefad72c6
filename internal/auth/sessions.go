package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// SessionStore keeps logged-in sessions in memory: token -> username with
// a TTL. Expired entries are dropped lazily on access and by a periodic
// cleanup goroutine.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]sessionEntry
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type sessionEntry struct {
	username  string
	expiresAt time.Time
}

// NewSessionStore creates a store with the given session TTL and starts
// its cleanup loop.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &SessionStore{
		sessions:    make(map[string]sessionEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create issues a fresh session token for the user.
func (s *SessionStore) Create(username string) string {
	token := newToken()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sessionEntry{
		username:  username,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Resolve maps a session token back to its username. Expired or unknown
// tokens report false.
func (s *SessionStore) Resolve(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return entry.username, true
}

// Delete invalidates a session token (logout).
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// ActiveSessions returns the number of currently tracked sessions.
func (s *SessionStore) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop shuts down the cleanup goroutine.
func (s *SessionStore) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *SessionStore) startCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

func newToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand never fails on supported platforms; bail out loudly
		// instead of issuing a predictable token.
		panic("session token entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}
