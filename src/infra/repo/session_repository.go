package repo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"regform/src/core/domain"
	"regform/src/core/ports"
)

var _ ports.SessionRepository = (*MemorySessionRepository)(nil)

// MemorySessionRepository keeps form sessions in a map. Each entry has its
// own lock so that updates to one form are serialized without blocking others.
//
// Sessions idle for longer than the TTL are treated as gone and removed by
// Sweep; Create fails with a capacity error once maxSessions are open.
type MemorySessionRepository struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*entry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	log         *slog.Logger
}

// entry.sess is nil once the session has been deleted or evicted; a caller
// that looked the entry up before that sees not found after taking mu.
type entry struct {
	mu      sync.Mutex
	sess    *domain.FormSession
	touched time.Time
}

// Option configures a MemorySessionRepository.
type Option func(*MemorySessionRepository)

// WithTTL evicts sessions not touched for ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(r *MemorySessionRepository) { r.ttl = ttl }
}

// WithMaxSessions caps the number of open sessions. Zero means no cap.
func WithMaxSessions(n int) Option {
	return func(r *MemorySessionRepository) { r.maxSessions = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *MemorySessionRepository) { r.now = now }
}

// NewMemorySessionRepository constructs an empty repository.
func NewMemorySessionRepository(log *slog.Logger, opts ...Option) *MemorySessionRepository {
	r := &MemorySessionRepository{
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemorySessionRepository) Create(ctx context.Context, sess *domain.FormSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[sess.ID]; exists {
		return domain.NewValidationError("id", "form session already exists")
	}
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.sweepLocked()
	}
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.log.Warn("form session limit reached", "max_sessions", r.maxSessions)
		return domain.NewCapacityError("form sessions")
	}
	r.sessions[sess.ID] = &entry{sess: sess.Clone(), touched: r.now()}
	return nil
}

func (r *MemorySessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.FormSession, error) {
	e, err := r.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !r.live(e) {
		return nil, domain.NewNotFoundError("form session")
	}
	e.touched = r.now()
	return e.sess.Clone(), nil
}

// Update applies fn to a copy and swaps it in only when fn succeeds, so a
// failed update leaves the stored session untouched. A session deleted
// while fn runs is reported as not found.
func (r *MemorySessionRepository) Update(ctx context.Context, id uuid.UUID, fn func(*domain.FormSession) error) (*domain.FormSession, error) {
	e, err := r.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !r.live(e) {
		return nil, domain.NewNotFoundError("form session")
	}

	next := e.sess.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	e.sess = next
	e.touched = r.now()
	return next.Clone(), nil
}

// Delete waits for an in-flight update of the same session, then drops it.
func (r *MemorySessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return domain.NewNotFoundError("form session")
	}

	e.mu.Lock()
	wasLive := r.live(e)
	e.sess = nil
	e.mu.Unlock()
	if !wasLive {
		return domain.NewNotFoundError("form session")
	}

	r.log.Debug("form session discarded", "form_id", id)
	return nil
}

func (r *MemorySessionRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}

// Sweep removes every session idle for longer than the TTL and returns how
// many it removed. Sessions busy in an update are skipped until next time.
func (r *MemorySessionRepository) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

func (r *MemorySessionRepository) sweepLocked() int {
	if r.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if !r.live(e) {
			e.sess = nil
			delete(r.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	if removed > 0 {
		r.log.Info("expired form sessions evicted", "count", removed, "remaining", len(r.sessions))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (r *MemorySessionRepository) RunSweeper(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// live reports whether e still holds an unexpired session. Callers hold e.mu.
func (r *MemorySessionRepository) live(e *entry) bool {
	if e.sess == nil {
		return false
	}
	return r.ttl <= 0 || r.now().Sub(e.touched) <= r.ttl
}

func (r *MemorySessionRepository) lookup(ctx context.Context, id uuid.UUID) (*entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("form session")
	}
	return e, nil
}
