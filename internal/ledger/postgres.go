package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/glyphlab/glyph/internal/dbx"
)

// PostgresRepository is a shared ledger store for kiosk deployments where
// several scanning stations must honor one another's consumed scans.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, fingerprint, recorded_at, expires_at FROM scans WHERE fingerprint = $1`, fingerprint)
	return scanEntry(row)
}

func (r *PostgresRepository) Insert(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scans (id, fingerprint, recorded_at, expires_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (fingerprint) DO UPDATE SET
			id = EXCLUDED.id,
			recorded_at = EXCLUDED.recorded_at,
			expires_at = EXCLUDED.expires_at
	`, e.ID, e.Fingerprint, e.RecordedAt.Unix(), unixOrNil(e.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM scans WHERE expires_at IS NOT NULL AND expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired scans: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scans`); err != nil {
		return fmt.Errorf("failed to clear scans: %w", err)
	}
	return nil
}
