package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/solver"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := solver.New(6, 4, solver.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return NewSession(s, "")
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sess := newSession(t)

	require.NoError(t, st.Save(ctx, sess))
	got, err := st.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, st.Len())

	require.NoError(t, st.Delete(ctx, sess.ID))
	_, err = st.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.Len())
}

func TestSessionIDsAreUnique(t *testing.T) {
	a, b := newSession(t), newSession(t)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	sessions := make([]*Session, 16)
	for i := range sessions {
		sessions[i] = newSession(t)
	}
	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			_ = st.Save(ctx, sess)
			_, _ = st.Get(ctx, sess.ID)
		}(sess)
	}
	wg.Wait()
	assert.Equal(t, 16, st.Len())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestIdleSessionExpires(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewMemoryStore(WithTTL(time.Minute), WithClock(clock.now))

	idle, busy := newSession(t), newSession(t)
	require.NoError(t, st.Save(ctx, idle))
	require.NoError(t, st.Save(ctx, busy))

	clock.advance(40 * time.Second)
	_, err := st.Get(ctx, busy.ID)
	require.NoError(t, err)

	clock.advance(40 * time.Second)
	_, err = st.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := st.Get(ctx, busy.ID)
	require.NoError(t, err, "a Get keeps the session alive")
	assert.Same(t, busy, got)

	clock.advance(2 * time.Minute)
	assert.Equal(t, 1, st.Sweep(ctx))
	assert.Equal(t, 0, st.Len())
}

func TestSessionCapEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewMemoryStore(WithMaxSessions(2), WithClock(clock.now))

	a, b, c := newSession(t), newSession(t), newSession(t)
	require.NoError(t, st.Save(ctx, a))
	clock.advance(time.Second)
	require.NoError(t, st.Save(ctx, b))
	clock.advance(time.Second)
	_, err := st.Get(ctx, a.ID)
	require.NoError(t, err)
	clock.advance(time.Second)

	require.NoError(t, st.Save(ctx, c))
	assert.Equal(t, 2, st.Len())
	_, err = st.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, a.ID)
	assert.NoError(t, err)

	// re-saving a known session never evicts
	require.NoError(t, st.Save(ctx, c))
	assert.Equal(t, 2, st.Len())
}

func TestJanitorSweeps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st := NewMemoryStore(WithTTL(time.Millisecond))
	require.NoError(t, st.Save(ctx, newSession(t)))

	done := make(chan struct{})
	go func() {
		Janitor(ctx, st, 5*time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
