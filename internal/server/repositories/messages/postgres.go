// Package messages provides the PostgreSQL-backed contact message inbox.
package messages

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studiosite/internal/common"
	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends m and returns the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) (int64, error) {
	query := `
		INSERT INTO messages (name, email, project_type, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		m.Name, m.Email, m.ProjectType, m.Body, string(m.Status), m.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	return id, nil
}

// List returns all messages, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Message, error) {
	query := `
		SELECT id, name, email, project_type, body, status, created_at FROM messages
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select messages: %w", common.ErrStorage, err)
	}
	defer rows.Close()

	result := []*models.Message{}
	for rows.Next() {
		var (
			m      models.Message
			status string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.ProjectType, &m.Body, &status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
		}
		m.Status = models.MessageStatus(status)
		m.CreatedAt = m.CreatedAt.UTC()
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", common.ErrStorage, err)
	}
	return result, nil
}

// UpdateStatus changes only the status column. Returns common.ErrNotFound
// when id matches no row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.MessageStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET status = $1 WHERE id = $2`, string(status), id)
	return expectOneRow(res, err)
}

// Delete removes the message. Returns common.ErrNotFound when id matches no row.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return expectOneRow(res, err)
}

func expectOneRow(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStorage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected error: %w", common.ErrStorage, err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: unexpected rows affected: %d", common.ErrStorage, n)
	}
}
