package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glyphlab/glyph/internal/dbx"
)

// SQLiteRepository is the default on-device ledger store, over a dbx.DBTX
// (*sql.DB or *sql.Tx). Timestamps are stored as unix seconds so the schema
// behaves identically under sqlite and postgres.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, fingerprint, recorded_at, expires_at FROM scans WHERE fingerprint = ?`, fingerprint)
	return scanEntry(row)
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scans (id, fingerprint, recorded_at, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			id = excluded.id,
			recorded_at = excluded.recorded_at,
			expires_at = excluded.expires_at
	`, e.ID, e.Fingerprint, e.RecordedAt.Unix(), unixOrNil(e.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM scans WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired scans: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scans`); err != nil {
		return fmt.Errorf("failed to clear scans: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var recorded int64
	var expires sql.NullInt64
	err := row.Scan(&e.ID, &e.Fingerprint, &recorded, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger row: %w", err)
	}
	e.RecordedAt = time.Unix(recorded, 0).UTC()
	if expires.Valid {
		t := time.Unix(expires.Int64, 0).UTC()
		e.ExpiresAt = &t
	}
	return &e, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}
