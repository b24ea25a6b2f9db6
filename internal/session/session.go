package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// CookieName is the session cookie issued to every visitor
const CookieName = "leadgate_session"

// Lifetime is how long a session survives after creation
const Lifetime = 24 * time.Hour

// Session is the per-client state that must survive across interactions
// within one browser session but never leak across sessions.
type Session struct {
	Submitted bool   // Has this client completed the lead form
	Admin     bool   // Is the admin authenticated
	Flash     string // One-shot message consumed by the next render
	CreatedAt time.Time
}

// Store is an in-memory session store keyed by random token
type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewStore creates a new in-memory session store
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// NewStoreWithClock creates a store with a pinned clock for tests
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{sessions: make(map[string]Session), now: now}
}

// Create stores a fresh session and returns its token
func (s *Store) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = Session{CreatedAt: s.now()}
	return token, nil
}

// Get retrieves a live session by token. Expired sessions are dropped and
// reported as absent.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().Sub(sess.CreatedAt) > Lifetime {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// Put replaces the session for a token in place, reporting whether the token
// was known
func (s *Store) Put(token string, sess Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false
	}
	s.sessions[token] = sess
	return true
}

// Delete removes a session by token
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// PopFlash returns and clears the session's one-shot message
func (s *Store) PopFlash(token string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || sess.Flash == "" {
		return ""
	}
	flash := sess.Flash
	sess.Flash = ""
	s.sessions[token] = sess
	return flash
}

// generateToken returns a 32-byte random hex token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
