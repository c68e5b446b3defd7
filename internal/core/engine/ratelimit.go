package engine

import (
	"context"
	"sync"
	"time"

	"github.com/appscope/appscope/internal/core"
)

// Window is the trailing interval a rate ceiling applies to.
const Window = time.Second

// RateLimiter enforces a requests-per-second ceiling across every caller that
// shares it.
type RateLimiter struct {
	Store WindowStore
	Clock func() time.Time

	// mu keeps clock reads and admissions in the same order for stores
	// that do not admit concurrently.
	mu sync.Mutex

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// WindowStore holds the timestamps admitted in the trailing window. TryAdmit
// must prune, count and append as one step relative to other callers.
type WindowStore interface {
	TryAdmit(ctx context.Context, now time.Time, window time.Duration, limit int) (admitted bool, oldest time.Time, err error)
	Snapshot(ctx context.Context, now time.Time, window time.Duration) (*core.RateWindowState, error)
}

// ConcurrentWindowStore is a WindowStore whose TryAdmit is atomic on its own
// and keeps its window ordered by timestamp whatever order admissions arrive
// in. The limiter does not serialize admissions for such stores.
type ConcurrentWindowStore interface {
	WindowStore
	ConcurrentAdmit() bool
}

// NewRateLimiter returns a limiter backed by an in-memory window.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{Store: NewMemoryWindowStore()}
}

// Admit blocks until issuing one more request keeps the trailing one-second
// count at or below limit, then records it. A limit of 0 disables limiting.
func (r *RateLimiter) Admit(ctx context.Context, limit int) error {
	if r == nil || limit <= 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store := r.store()
	serial := true
	if concurrent, ok := store.(ConcurrentWindowStore); ok && concurrent.ConcurrentAdmit() {
		serial = false
	}

	for {
		if serial {
			r.mu.Lock()
		}
		now := r.now()
		admitted, oldest, err := store.TryAdmit(ctx, now, Window, limit)
		if serial {
			r.mu.Unlock()
		}
		if err != nil {
			return err
		}
		if admitted {
			return nil
		}

		wait := Window - now.Sub(oldest) + time.Millisecond
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		if err := r.wait(ctx, wait); err != nil {
			return err
		}
	}
}

// Snapshot reports the current window contents.
func (r *RateLimiter) Snapshot(ctx context.Context) (*core.RateWindowState, error) {
	if r == nil {
		return &core.RateWindowState{}, nil
	}
	return r.store().Snapshot(ctx, r.now(), Window)
}

func (r *RateLimiter) store() WindowStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Store == nil {
		r.Store = NewMemoryWindowStore()
	}
	return r.Store
}

func (r *RateLimiter) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *RateLimiter) wait(ctx context.Context, d time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MemoryWindowStore keeps the window in process memory.
type MemoryWindowStore struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// NewMemoryWindowStore creates an empty in-memory window.
func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{}
}

// TryAdmit implements WindowStore.
func (m *MemoryWindowStore) TryAdmit(_ context.Context, now time.Time, window time.Duration, limit int) (bool, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune(now, window)
	if len(m.timestamps) >= limit {
		return false, m.timestamps[0], nil
	}

	m.timestamps = append(m.timestamps, now)
	return true, m.timestamps[0], nil
}

// Snapshot implements WindowStore.
func (m *MemoryWindowStore) Snapshot(_ context.Context, now time.Time, window time.Duration) (*core.RateWindowState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune(now, window)
	state := &core.RateWindowState{Count: len(m.timestamps)}
	if len(m.timestamps) > 0 {
		oldest := m.timestamps[0]
		newest := m.timestamps[len(m.timestamps)-1]
		state.Oldest = &oldest
		state.Newest = &newest
	}
	return state, nil
}

func (m *MemoryWindowStore) prune(now time.Time, window time.Duration) {
	drop := 0
	for drop < len(m.timestamps) && now.Sub(m.timestamps[drop]) >= window {
		drop++
	}
	if drop > 0 {
		m.timestamps = append(m.timestamps[:0], m.timestamps[drop:]...)
	}
}
