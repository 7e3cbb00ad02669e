package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// each pooled connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE scans (
  id TEXT PRIMARY KEY,
  fingerprint TEXT NOT NULL UNIQUE,
  recorded_at BIGINT NOT NULL,
  expires_at BIGINT
);
`)
	require.NoError(t, err)

	return db
}

func TestSQLite_InsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	expires := time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC)
	e := &Entry{
		ID:          "id1",
		Fingerprint: "fp1",
		RecordedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt:   &expires,
	}
	require.NoError(t, r.Insert(ctx, e))

	got, err := r.Get(ctx, "fp1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e, got)

	got, err = r.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, got, "absent fingerprint returns nil, nil")
}

func TestSQLite_InsertReplacesByFingerprint(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Insert(ctx, &Entry{ID: "a", Fingerprint: "fp", RecordedAt: base}))
	require.NoError(t, r.Insert(ctx, &Entry{ID: "b", Fingerprint: "fp", RecordedAt: base.Add(time.Hour)}))

	got, err := r.Get(ctx, "fp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, base.Add(time.Hour), got.RecordedAt)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scans`).Scan(&n))
	assert.Equal(t, 1, n, "one entry per distinct fingerprint")
}

func TestSQLite_ForeverEntryHasNullExpiry(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &Entry{
		ID:          "id1",
		Fingerprint: "fp1",
		RecordedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}))

	got, err := r.Get(ctx, "fp1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ExpiresAt)
}

func TestSQLite_DeleteExpired(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	past := base.Add(-time.Minute)
	future := base.Add(time.Hour)

	require.NoError(t, r.Insert(ctx, &Entry{ID: "a", Fingerprint: "expired", RecordedAt: base, ExpiresAt: &past}))
	require.NoError(t, r.Insert(ctx, &Entry{ID: "b", Fingerprint: "fresh", RecordedAt: base, ExpiresAt: &future}))
	require.NoError(t, r.Insert(ctx, &Entry{ID: "c", Fingerprint: "forever", RecordedAt: base}))

	n, err := r.DeleteExpired(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.Get(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = r.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
	got, err = r.Get(ctx, "forever")
	require.NoError(t, err)
	assert.NotNil(t, got, "entries without expiry are never time-pruned")
}

func TestSQLite_Clear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, &Entry{ID: "a", Fingerprint: "fp", RecordedAt: time.Now().UTC().Truncate(time.Second)}))
	require.NoError(t, r.Clear(ctx))

	got, err := r.Get(ctx, "fp")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, t.TempDir()+"/ledger.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Insert(ctx, &Entry{
		ID:          "m1",
		Fingerprint: "fp-m1",
		RecordedAt:  time.Now().UTC().Truncate(time.Second),
	}))
	got, err := r.Get(ctx, "fp-m1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
