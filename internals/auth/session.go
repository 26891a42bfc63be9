package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const flowTTL = 10 * time.Minute

// User is the identity reported by the provider. Name and Email may be empty.
type User struct {
	Login string
	Name  string
	Email string
}

type Session struct {
	ID        string
	User      User
	Provider  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Flow is a sign-in in progress, keyed by its OAuth state parameter.
type Flow struct {
	Provider   string
	Verifier   string // PKCE code verifier
	RedirectTo string
	ExpiresAt  time.Time
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session // key: session ID
	flows    map[string]Flow     // key: OAuth state
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		flows:    make(map[string]Flow),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Create(user User, provider string) (Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		User:      user,
		Provider:  provider,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return *sess, nil
}

// Get returns a copy of the session. Expired sessions are dropped and
// reported as absent.
func (s *Store) Get(id string) (Session, bool, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false, nil
	}

	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Session{}, false, nil
	}
	return *sess, true, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) PutFlow(state string, f Flow) error {
	if f.ExpiresAt.IsZero() {
		f.ExpiresAt = s.now().Add(flowTTL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[state] = f
	return nil
}

// TakeFlow removes and returns the flow for state. A flow can be taken once.
func (s *Store) TakeFlow(state string) (Flow, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[state]
	if !ok {
		return Flow{}, false, nil
	}
	delete(s.flows, state)
	if !s.now().Before(f.ExpiresAt) {
		return Flow{}, false, nil
	}
	return f, true, nil
}

// Sweep drops expired sessions and flows and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	for state, f := range s.flows {
		if !now.Before(f.ExpiresAt) {
			delete(s.flows, state)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
