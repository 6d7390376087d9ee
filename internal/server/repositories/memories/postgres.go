// Package memories provides the PostgreSQL-backed repository for journal
// entries. Ownership and visibility decisions stay out of this package; it
// only answers by-id and by-owner queries.
package memories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/dbx"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, memory *models.Memory) (*models.Memory, error) {

	query :=
		`INSERT INTO memories (user_id, content, cover_url, date, is_public)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	m := *memory
	err := r.db.QueryRowContext(ctx, query,
		memory.UserID, memory.Content, memory.CoverURL, memory.Date, memory.IsPublic).
		Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &m, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	query :=
		`SELECT id, user_id, content, cover_url, date, is_public, created_at FROM memories
		 WHERE id = $1
		 `

	m := &models.Memory{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&m.ID, &m.UserID, &m.Content, &m.CoverURL, &m.Date, &m.IsPublic, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Memory, error) {
	query :=
		`SELECT id, user_id, content, cover_url, date, is_public, created_at FROM memories
		 WHERE user_id = $1
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ListPublicByOwner(ctx context.Context, userID string) ([]*models.Memory, error) {
	query :=
		`SELECT id, user_id, content, cover_url, date, is_public, created_at FROM memories
		 WHERE user_id = $1 AND is_public
		 ORDER BY created_at, id
		 `
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID string) ([]*models.Memory, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Memory
	for rows.Next() {
		var m models.Memory
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Content, &m.CoverURL, &m.Date, &m.IsPublic, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update overwrites the mutable fields. The owner and creation timestamp are
// never part of the SET list. A vanished row reports common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, memory *models.Memory) (*models.Memory, error) {
	query :=
		`UPDATE memories
		 SET content = $2, cover_url = $3, date = $4, is_public = $5
		 WHERE id = $1
		 RETURNING id, user_id, content, cover_url, date, is_public, created_at
		 `

	m := &models.Memory{}
	err := r.db.QueryRowContext(ctx, query,
		memory.ID, memory.Content, memory.CoverURL, memory.Date, memory.IsPublic).
		Scan(&m.ID, &m.UserID, &m.Content, &m.CoverURL, &m.Date, &m.IsPublic, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM memories WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
