package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphlab/glyph/internal/logging"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryRepository(), logging.NewDefault(io.Discard, slog.LevelDebug))
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestReplayBlocking(t *testing.T) {
	tests := []struct {
		name                    string
		viewerExpirationSeconds int
	}{
		{name: "finite viewer expiration", viewerExpirationSeconds: 30},
		{name: "forever", viewerExpirationSeconds: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			raw := "GLYPH:MSG:eyJ0ZXh0IjoiaGkifQ=="

			reason, err := svc.ShouldBlock(ctx, raw, nil)
			require.NoError(t, err)
			require.Equal(t, ReasonNone, reason, "first scan must be admitted")

			require.NoError(t, svc.RecordScan(ctx, raw, tt.viewerExpirationSeconds))

			reason, err = svc.ShouldBlock(ctx, raw, nil)
			require.NoError(t, err)
			assert.Equal(t, ReasonAlreadyConsumed, reason, "second scan of the identical string must block")
		})
	}
}

func TestWindowPrecedence(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, logging.NewDefault(io.Discard, slog.LevelDebug))
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	window := now.Add(-time.Minute)
	reason, err := svc.ShouldBlock(ctx, "GLYPH:MSG:bmV2ZXIgc2Nhbm5lZA==", &window)
	require.NoError(t, err)
	assert.Equal(t, ReasonWindowExpired, reason,
		"an elapsed window rejects even a never-scanned payload")

	// the ledger was never consulted and no slot was consumed
	e, err := repo.Get(ctx, Fingerprint("GLYPH:MSG:bmV2ZXIgc2Nhbm5lZA=="))
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestWindowStillOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	window := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)
	reason, err := svc.ShouldBlock(ctx, "GLYPH:MSG:AAAA", &window)
	require.NoError(t, err)
	assert.Equal(t, ReasonNone, reason)
}

func TestExpiredEntryAdmitsAgain(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, logging.NewDefault(io.Discard, slog.LevelDebug))
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()
	raw := "GLYPH:MSG:c2hvcnQgbGl2ZWQ="

	require.NoError(t, svc.RecordScan(ctx, raw, 10))

	reason, err := svc.ShouldBlock(ctx, raw, nil)
	require.NoError(t, err)
	require.Equal(t, ReasonAlreadyConsumed, reason)

	now = now.Add(11 * time.Second)
	reason, err = svc.ShouldBlock(ctx, raw, nil)
	require.NoError(t, err)
	assert.Equal(t, ReasonNone, reason, "expired ledger entries stop blocking")
}

func TestPrune(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, logging.NewDefault(io.Discard, slog.LevelDebug))
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, svc.RecordScan(ctx, "raw-finite", 10))
	require.NoError(t, svc.RecordScan(ctx, "raw-forever", 0))

	now = now.Add(time.Minute)
	n, err := svc.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// the forever entry survives pruning and still blocks
	reason, err := svc.ShouldBlock(ctx, "raw-forever", nil)
	require.NoError(t, err)
	assert.Equal(t, ReasonAlreadyConsumed, reason)
}

func TestFingerprint_DistinctStrings(t *testing.T) {
	a := Fingerprint("GLYPH:SEC:AAAA")
	b := Fingerprint("GLYPH:SEC:AAAB")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Fingerprint("GLYPH:SEC:AAAA"))
	assert.Len(t, a, 64)
}
