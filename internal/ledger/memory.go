package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-memory ledger store. It backs tests and
// ephemeral sessions where replay protection should not survive a restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string]Entry)}
}

func (r *MemoryRepository) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fingerprint]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Fingerprint] = *e
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for fp, e := range r.entries {
		if e.Expired(now) {
			delete(r.entries, fp)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]Entry)
	return nil
}
