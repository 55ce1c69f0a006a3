// Package content provides the PostgreSQL store for editable site sections.
// Every write is a single statement, so concurrent writers to one key leave
// exactly one row holding one of the written values.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
)

// PostgresRepository implements content storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the stored entry or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, key string) (*models.ContentEntry, error) {
	query := `SELECT section_key, raw_value, updated_at FROM content_entries WHERE section_key = $1`

	e := &models.ContentEntry{}
	err := r.db.QueryRowContext(ctx, query, key).Scan(&e.SectionKey, &e.RawValue, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	e.UpdatedAt = e.UpdatedAt.UTC()
	return e, nil
}

// Upsert writes raw under key, replacing any previous value.
func (r *PostgresRepository) Upsert(ctx context.Context, key, raw string, now time.Time) error {
	query := `
		INSERT INTO content_entries (section_key, raw_value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (section_key)
		DO UPDATE SET raw_value = EXCLUDED.raw_value, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, raw, now); err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return nil
}

// List returns all entries ordered by section key.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.ContentEntry, error) {
	query := `SELECT section_key, raw_value, updated_at FROM content_entries ORDER BY section_key`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select content: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	result := []*models.ContentEntry{}
	for rows.Next() {
		var e models.ContentEntry
		if err := rows.Scan(&e.SectionKey, &e.RawValue, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
		}
		e.UpdatedAt = e.UpdatedAt.UTC()
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", common.ErrStorage, err)
	}
	return result, nil
}

// InsertIfAbsent stores raw only when key has never been written.
func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, key, raw string, now time.Time) (bool, error) {
	query := `
		INSERT INTO content_entries (section_key, raw_value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (section_key) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, key, raw, now)
	if err != nil {
		return false, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected error: %w", common.ErrStorage, err)
	}
	return n == 1, nil
}
