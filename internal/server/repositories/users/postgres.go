// Package users provides the PostgreSQL-backed repository for local user
// accounts created on first GitHub sign-in.
package users

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

// Upsert inserts a user keyed by github_id or returns the already-existing
// row. The no-op DO UPDATE makes RETURNING yield the surviving row, so two
// concurrent first sign-ins of the same account converge on one local user.
func (r *PostgresRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (github_id, login, name, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (github_id) DO UPDATE SET github_id = EXCLUDED.github_id
		 RETURNING id, github_id, login, name, avatar_url, created_at
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query,
		user.GithubID, user.Login, user.Name, user.AvatarURL).
		Scan(&u.ID, &u.GithubID, &u.Login, &u.Name, &u.AvatarURL, &u.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, github_id, login, name, avatar_url, created_at FROM users
		 WHERE id = $1
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.GithubID, &u.Login, &u.Name, &u.AvatarURL, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}
