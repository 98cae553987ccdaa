// Package session issues and resolves bearer tokens. Sessions live in
// process memory only, so a restart signs everyone out.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/RIxiV1/SubSentry/internal/cache"
	"github.com/RIxiV1/SubSentry/internal/core"
	"github.com/RIxiV1/SubSentry/internal/currency"
)

// Session ties a bearer token to a user. The currency info detected at
// sign-in is cached here so formatting never re-parses headers per request.
type Session struct {
	Token     string
	UserID    string
	Currency  currency.Info
	CreatedAt time.Time
	ExpiresAt time.Time
}

const maxSessions = 10000

type Store struct {
	sessions *cache.LRU[Session]
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: cache.NewLRU[Session](maxSessions, ttl),
		ttl:      ttl,
	}
}

// Start creates a session for userID. An empty userID gets a fresh anonymous
// identity so the client can use the service without an account.
func (s *Store) Start(userID string, info currency.Info) Session {
	if userID == "" {
		userID = uuid.NewString()
	}

	now := time.Now()
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Currency:  info,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions.Set(sess.Token, sess)
	return sess
}

// Get resolves a bearer token. Expired and unknown tokens both come back as
// core.ErrNoSession so callers cannot distinguish them.
func (s *Store) Get(token string) (Session, error) {
	if token == "" {
		return Session{}, core.ErrNoSession
	}

	sess, ok := s.sessions.Get(token)
	if !ok {
		return Session{}, core.ErrNoSession
	}
	if time.Now().After(sess.ExpiresAt) {
		s.sessions.Delete(token)
		return Session{}, core.ErrNoSession
	}
	return sess, nil
}

// End invalidates a token. Ending an already-gone session is not an error.
func (s *Store) End(token string) {
	s.sessions.Delete(token)
}

func (s *Store) Len() int {
	return s.sessions.Size()
}

// StartCleanup evicts expired sessions on the given interval.
func (s *Store) StartCleanup(interval time.Duration) {
	s.sessions.StartCleanup(interval)
}

func (s *Store) StopCleanup() {
	s.sessions.StopCleanup()
}
