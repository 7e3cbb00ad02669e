package ledger

import (
	"context"
	"time"
)

// Repository is the persistence boundary of the ledger. Implementations must
// support reads interleaved with writes without losing entries; given the
// single-writer call discipline of the scanning pipeline, a mutually
// exclusive store is sufficient.
type Repository interface {
	// Get returns the entry for a fingerprint, or (nil, nil) when absent.
	Get(ctx context.Context, fingerprint string) (*Entry, error)

	// Insert stores an entry, replacing any previous entry with the same
	// fingerprint.
	Insert(ctx context.Context, e *Entry) error

	// DeleteExpired removes entries whose ExpiresAt has passed and
	// returns how many were removed. Entries without ExpiresAt stay.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Clear removes every entry. Explicit library maintenance only.
	Clear(ctx context.Context) error
}
