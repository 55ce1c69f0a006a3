// Package admins stores admin accounts in PostgreSQL.
package admins

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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByUsername returns common.ErrNotFound when no account has that name.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM admins
		 WHERE username = $1
		 `

	a := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}

	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

// Upsert sets the password hash for username, creating the account if needed.
func (r *PostgresRepository) Upsert(ctx context.Context, username, passwordHash string, now time.Time) (*models.Admin, error) {
	query :=
		`INSERT INTO admins (username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (username)
		 DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at
		 `

	a := &models.Admin{Username: username, PasswordHash: passwordHash, UpdatedAt: now}
	if err := r.db.QueryRowContext(ctx, query, username, passwordHash, now).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

// CreateIfAbsent inserts the account only when username is free. It reports
// whether a row was created; an existing hash is never touched.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, username, passwordHash string, now time.Time) (bool, error) {
	query :=
		`INSERT INTO admins (username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 ON CONFLICT (username) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, username, passwordHash, now)
	if err != nil {
		return false, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected error: %w", common.ErrStorage, err)
	}
	return n == 1, nil
}
