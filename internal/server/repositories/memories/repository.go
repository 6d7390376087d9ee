package memories

import (
	"context"

	"github.com/dmitrijs2005/memorylane/internal/server/models"
)

type Repository interface {
	// Create inserts a memory and returns it with the server-assigned id and
	// creation timestamp.
	Create(ctx context.Context, memory *models.Memory) (*models.Memory, error)
	// GetByID returns a memory regardless of visibility.
	GetByID(ctx context.Context, id string) (*models.Memory, error)
	// ListByOwner returns all memories of a user, oldest first.
	ListByOwner(ctx context.Context, userID string) ([]*models.Memory, error)
	// ListPublicByOwner returns only the public memories of a user, oldest first.
	ListPublicByOwner(ctx context.Context, userID string) ([]*models.Memory, error)
	// Update overwrites the mutable fields of a memory.
	Update(ctx context.Context, memory *models.Memory) (*models.Memory, error)
	// Delete removes a memory by id.
	Delete(ctx context.Context, id string) error
}
