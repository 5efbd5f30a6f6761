package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/osg/internal/modal"
)

// SessionCookie names the cookie carrying the browser's session id.
const SessionCookie = "osg_session"

// session holds one browser's dialog state. mu serializes transitions;
// network calls happen with mu released.
type session struct {
	mu       sync.Mutex
	state    modal.State
	lastSeen time.Time
}

// update applies fn to the state under the lock and returns the result.
func (s *session) update(fn func(modal.State) modal.State) modal.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// Sessions maps session ids to dialog state. Idle sessions expire after ttl
// and the table never holds more than max entries; the least recently seen
// session is evicted to make room.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	ttl  time.Duration
	max  int
	now  func() time.Time
}

// NewSessions creates an empty session table. max <= 0 means unbounded.
func NewSessions(ttl time.Duration, max int) *Sessions {
	return &Sessions{
		byID: make(map[string]*session),
		ttl:  ttl,
		max:  max,
		now:  time.Now,
	}
}

// get returns the caller's session, creating one and setting the cookie
// when the request has none or an expired one.
func (s *Sessions) get(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.byID[c.Value]; ok && !s.expired(sess, now) {
			sess.lastSeen = now
			return sess
		}
	}

	s.sweep(now)
	if s.max > 0 {
		for len(s.byID) >= s.max {
			s.evictOldest()
		}
	}

	id := ulid.Make().String()
	sess := &session{lastSeen: now}
	s.byID[id] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *Sessions) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

// sweep drops expired sessions. Caller holds s.mu.
func (s *Sessions) sweep(now time.Time) {
	for id, sess := range s.byID {
		if s.expired(sess, now) {
			delete(s.byID, id)
		}
	}
}

// evictOldest drops the least recently seen session. Caller holds s.mu.
func (s *Sessions) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.byID {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.byID, oldestID)
}
