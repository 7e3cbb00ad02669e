package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glyphlab/glyph/internal/logging"
)

// Reason says why a decoded payload must not be shown.
type Reason int

const (
	// ReasonNone admits the payload.
	ReasonNone Reason = iota

	// ReasonWindowExpired rejects a payload whose validity window has
	// passed. Surfaced with an elapsed-time message.
	ReasonWindowExpired

	// ReasonAlreadyConsumed rejects a re-scan of consumed content.
	// Surfaced as "message unavailable", deliberately non-specific.
	ReasonAlreadyConsumed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonWindowExpired:
		return "window expired"
	case ReasonAlreadyConsumed:
		return "already consumed"
	}
	return "unknown"
}

// Fingerprint derives the ledger key from a raw encoded payload string.
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Service is the ledger: one instance constructed at process start and
// handed to whatever owns the scanning session. There is no hidden global
// store; tests substitute a MemoryRepository.
type Service struct {
	repo Repository
	log  logging.Logger

	// now is a test seam for the clock.
	now func() time.Time
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log.With("component", "ledger"), now: time.Now}
}

// ShouldBlock decides whether a freshly decoded payload may be shown.
// Check order is fixed: an elapsed validity window rejects first, without
// touching the store and without consuming a ledger slot; only then is the
// fingerprint looked up.
func (s *Service) ShouldBlock(ctx context.Context, raw string, validityWindow *time.Time) (Reason, error) {
	now := s.now()

	if validityWindow != nil && !validityWindow.After(now) {
		s.log.Info(ctx, "blocking scan", "reason", ReasonWindowExpired.String(),
			"expired_for", now.Sub(*validityWindow).String())
		return ReasonWindowExpired, nil
	}

	fp := Fingerprint(raw)
	entry, err := s.repo.Get(ctx, fp)
	if err != nil {
		return ReasonNone, fmt.Errorf("ledger lookup: %w", err)
	}
	if entry != nil && !entry.Expired(now) {
		s.log.Info(ctx, "blocking scan", "reason", ReasonAlreadyConsumed.String())
		return ReasonAlreadyConsumed, nil
	}

	return ReasonNone, nil
}

// RecordScan inserts a ledger entry for an admitted payload. The entry's own
// expiry derives from the message's viewer-expiration setting; values <= 0
// store an entry that only explicit maintenance removes.
func (s *Service) RecordScan(ctx context.Context, raw string, viewerExpirationSeconds int) error {
	now := s.now().UTC()

	e := &Entry{
		ID:          uuid.NewString(),
		Fingerprint: Fingerprint(raw),
		RecordedAt:  now,
	}
	if viewerExpirationSeconds > 0 {
		t := now.Add(time.Duration(viewerExpirationSeconds) * time.Second)
		e.ExpiresAt = &t
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		return fmt.Errorf("ledger insert: %w", err)
	}
	s.log.Debug(ctx, "scan recorded", "viewer_expiration_seconds", viewerExpirationSeconds)
	return nil
}

// Prune removes entries whose expiry has passed, returning how many were
// dropped.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("ledger prune: %w", err)
	}
	if n > 0 {
		s.log.Info(ctx, "pruned expired ledger entries", "count", n)
	}
	return n, nil
}
