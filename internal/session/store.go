// Package session keeps per-conversation chat history. The assistant
// itself is stateless; whoever owns the session id owns the transcript,
// and the store is the single place it lives.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/localpulse/localpulse/internal/types"
)

// ErrNotFound is returned when a session id has no stored history,
// either because it never existed or because it expired.
var ErrNotFound = errors.New("session not found")

// Store persists chat transcripts keyed by session id. A missing id is
// not an error for Append or Reset: appending to an unknown session
// creates it, which is how a conversation implicitly starts.
type Store interface {
	// History returns the transcript for id, oldest turn first.
	// Returns ErrNotFound if the session does not exist.
	History(ctx context.Context, id string) ([]types.Turn, error)

	// Append adds turns to the session, creating it if needed, and
	// refreshes its expiry.
	Append(ctx context.Context, id string, turns ...types.Turn) error

	// Reset drops the session's transcript. Resetting an unknown id
	// is a no-op.
	Reset(ctx context.Context, id string) error
}

type memorySession struct {
	turns     []types.Turn
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It is the default when no Redis
// address is configured, which makes single-node deployments and tests
// work with zero setup.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) History(_ context.Context, id string) ([]types.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		return nil, ErrNotFound
	}
	out := make([]types.Turn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, id string, turns ...types.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.live(id)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[id] = sess
	}
	sess.turns = append(sess.turns, turns...)
	if s.ttl > 0 {
		sess.expiresAt = s.now().Add(s.ttl)
	}
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// live returns the session for id, lazily evicting it if expired.
// Callers must hold the mutex.
func (s *MemoryStore) live(id string) *memorySession {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if s.ttl > 0 && s.now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

// Sweep evicts every expired session and returns the evicted ids, so
// the caller can drop any per-session state of its own. The server
// runs this on a timer so long-idle sessions do not pin memory
// between requests.
func (s *MemoryStore) Sweep() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return nil
	}
	now := s.now()
	var evicted []string
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
