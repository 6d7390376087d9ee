package users

import (
	"context"

	"github.com/dmitrijs2005/memorylane/internal/server/models"
)

type Repository interface {
	// Upsert inserts the user keyed by GithubID, or returns the existing row.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	// GetByID returns the user with the given local id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
