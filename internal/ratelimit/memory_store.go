package ratelimit

import (
	"context"
	"sync"
	"time"
)

// window holds the hit timestamps for one key.
type window struct {
	hits       []time.Time
	lastAccess time.Time
}

// MemoryStore implements Store with in-process state.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often stale windows are dropped.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates an in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

func (ms *MemoryStore) Take(ctx context.Context, key string, now time.Time, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	w, exists := ms.windows[key]
	if !exists {
		w = &window{}
		ms.windows[key] = w
	}
	w.lastAccess = now

	// Slide the window: drop hits that have aged out.
	cutoff := now.Add(-cfg.Window)
	valid := w.hits[:0]
	for _, t := range w.hits {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	w.hits = valid

	if len(w.hits) >= cfg.Limit {
		// Denied hits are not recorded, so a flood cannot extend its own
		// lockout beyond the window.
		return cfg.Limit - len(w.hits) - 1, w.hits[0].Add(cfg.Window), nil
	}

	w.hits = append(w.hits, now)
	resetAt := w.hits[0].Add(cfg.Window)
	return cfg.Limit - len(w.hits), resetAt, nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.windows, key)
	return nil
}

// Close stops the background cleanup goroutine.
func (ms *MemoryStore) Close() {
	close(ms.stopCleanup)
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-ms.cleanupInterval)
			ms.mu.Lock()
			for key, w := range ms.windows {
				if w.lastAccess.Before(cutoff) {
					delete(ms.windows, key)
				}
			}
			ms.mu.Unlock()
		case <-ms.stopCleanup:
			return
		}
	}
}
