package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regform/src/core/domain"
	"regform/src/infra/logger"
)

func newSession(t *testing.T, r *MemorySessionRepository) *domain.FormSession {
	t.Helper()
	sess := domain.NewFormSession(time.Now())
	require.NoError(t, r.Create(context.Background(), sess))
	return sess
}

func TestMemorySessionRepository_CreateGet(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	sess := newSession(t, r)

	got, err := r.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	// Snapshots are copies.
	got.State.FirstName = "changed"
	again, err := r.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, again.State.FirstName)

	err = r.Create(context.Background(), sess)
	require.Error(t, err)
}

func TestMemorySessionRepository_UpdateAllOrNothing(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	sess := newSession(t, r)
	ctx := context.Background()

	updated, err := r.Update(ctx, sess.ID, func(s *domain.FormSession) error {
		s.State.FirstName = "Ann"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.State.FirstName)

	_, err = r.Update(ctx, sess.ID, func(s *domain.FormSession) error {
		s.State.FirstName = "Bob"
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, err := r.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.State.FirstName)
}

func TestMemorySessionRepository_UpdatesSerialized(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	sess := newSession(t, r)
	ctx := context.Background()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Update(ctx, sess.ID, func(s *domain.FormSession) error {
				s.State.Age += "1"
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := r.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Len(t, got.State.Age, writers)
}

func TestMemorySessionRepository_NotFound(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	ctx := context.Background()
	id := uuid.New()

	_, err := r.Get(ctx, id)
	assert.True(t, domain.IsNotFound(err))

	_, err = r.Update(ctx, id, func(*domain.FormSession) error { return nil })
	assert.True(t, domain.IsNotFound(err))

	assert.True(t, domain.IsNotFound(r.Delete(ctx, id)))
}

func TestMemorySessionRepository_DeleteCount(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	ctx := context.Background()
	a := newSession(t, r)
	newSession(t, r)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, r.Delete(ctx, a.ID))
	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemorySessionRepository_DeleteDuringUpdate(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	sess := newSession(t, r)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	updateErr := make(chan error, 1)
	go func() {
		_, err := r.Update(ctx, sess.ID, func(s *domain.FormSession) error {
			close(entered)
			<-release
			s.State.FirstName = "Ann"
			return nil
		})
		updateErr <- err
	}()

	<-entered
	deleteErr := make(chan error, 1)
	go func() { deleteErr <- r.Delete(ctx, sess.ID) }()

	// Let Delete reach the entry lock before the update finishes.
	time.Sleep(20 * time.Millisecond)
	close(release)

	// Delete waited for the update, so both are acknowledged in that order.
	require.NoError(t, <-updateErr)
	require.NoError(t, <-deleteErr)

	_, err := r.Get(ctx, sess.ID)
	assert.True(t, domain.IsNotFound(err))

	_, err = r.Update(ctx, sess.ID, func(*domain.FormSession) error { return nil })
	assert.True(t, domain.IsNotFound(err))
}

func TestMemorySessionRepository_UpdateAfterDeleteOnHeldEntry(t *testing.T) {
	r := NewMemorySessionRepository(logger.Discard())
	sess := newSession(t, r)
	ctx := context.Background()

	// An update that looked the entry up before Delete ran must not
	// report success on the discarded session.
	e, err := r.lookup(ctx, sess.ID)
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, sess.ID))

	e.mu.Lock()
	assert.Nil(t, e.sess)
	e.mu.Unlock()

	called := false
	_, err = r.Update(ctx, sess.ID, func(*domain.FormSession) error {
		called = true
		return nil
	})
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, called)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemorySessionRepository_IdleSessionsEvicted(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	r := NewMemorySessionRepository(logger.Discard(), WithTTL(time.Minute), WithClock(clock.Now))
	ctx := context.Background()

	idle := newSession(t, r)
	active := newSession(t, r)

	clock.Advance(40 * time.Second)
	_, err := r.Update(ctx, active.ID, func(s *domain.FormSession) error {
		s.State.FirstName = "Ann"
		return nil
	})
	require.NoError(t, err)

	clock.Advance(30 * time.Second)

	// Expired sessions are gone before the sweeper runs.
	_, err = r.Get(ctx, idle.ID)
	assert.True(t, domain.IsNotFound(err))

	assert.Equal(t, 1, r.Sweep())
	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := r.Get(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.State.FirstName)
}

func TestMemorySessionRepository_ManySessionsDoNotAccumulate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	r := NewMemorySessionRepository(logger.Discard(), WithTTL(time.Minute), WithClock(clock.Now))

	for i := 0; i < 1000; i++ {
		newSession(t, r)
	}
	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1000, r.Sweep())

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemorySessionRepository_MaxSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	r := NewMemorySessionRepository(logger.Discard(),
		WithMaxSessions(2), WithTTL(time.Minute), WithClock(clock.Now))
	ctx := context.Background()

	newSession(t, r)
	newSession(t, r)

	err := r.Create(ctx, domain.NewFormSession(clock.Now()))
	require.Error(t, err)
	assert.True(t, domain.IsCapacityError(err))

	// Expired sessions free their slots.
	clock.Advance(2 * time.Minute)
	require.NoError(t, r.Create(ctx, domain.NewFormSession(clock.Now())))
}

func TestMemorySessionRepository_RunSweeperStopsOnCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	r := NewMemorySessionRepository(logger.Discard(), WithTTL(time.Minute), WithClock(clock.Now))
	newSession(t, r)
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		n, _ := r.Count(context.Background())
		return n == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
