// internal/store/memory.go
//
// In-memory store for live solver sessions.
// Finished games move to the results database; this store only holds
// games that are still waiting for feedback.
//
// Characteristics:
//   - Sessions keyed by ID in a map, guarded by an RWMutex.
//   - Each Session carries its own mutex: a solver is never driven by two
//     requests at once.
//   - Sessions idle longer than the TTL expire; Get treats them as missing
//     and Sweep (run periodically by Janitor) reclaims them.
//   - At the session cap, saving a new session evicts the least recently
//     used one.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/solver"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one live game.
type Session struct {
	mu sync.Mutex

	ID       string
	PlayerID string // empty for guests
	Solver   *solver.Solver
	Created  time.Time
}

// NewSession wraps s with a fresh ID.
func NewSession(s *solver.Solver, playerID string) *Session {
	return &Session{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Solver:   s,
		Created:  time.Now().UTC(),
	}
}

// Lock serialises access to the session's solver.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound. A hit counts as use.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep drops expired sessions and reports how many went.
	Sweep(ctx context.Context) int

	// Len is the number of sessions held, expired or not.
	Len() int
}

// Option configures the memory store.
type Option func(*memory)

// WithTTL expires sessions idle for longer than d. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(m *memory) { m.ttl = d }
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(m *memory) { m.max = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *memory) { m.now = now }
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	ttl time.Duration
	max int
	now func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(opts ...Option) Store {
	m := &memory{sessions: make(map[string]*entry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *memory) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if e, ok := m.sessions[s.ID]; ok {
		e.sess, e.lastSeen = s, now
		return nil
	}
	if m.max > 0 && len(m.sessions) >= m.max {
		if m.sweepLocked(now) == 0 {
			m.evictOldestLocked()
		}
	}
	m.sessions[s.ID] = &entry{sess: s, lastSeen: now}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if m.expired(e, now) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	e.lastSeen = now
	return e.sess, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

func (m *memory) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) evictOldestLocked() {
	var oldest string
	var seen time.Time
	for id, e := range m.sessions {
		if oldest == "" || e.lastSeen.Before(seen) {
			oldest, seen = id, e.lastSeen
		}
	}
	if oldest != "" {
		delete(m.sessions, oldest)
		log.Info().Str("session", oldest).Msg("session cap reached, evicted least recently used")
	}
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Janitor sweeps st every interval until ctx is done.
func Janitor(ctx context.Context, st Store, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(ctx); n > 0 {
				log.Debug().Int("expired", n).Msg("swept idle sessions")
			}
		}
	}
}
