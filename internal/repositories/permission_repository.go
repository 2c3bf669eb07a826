package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// PermissionRepository defines the interface for permission data access
type PermissionRepository interface {
	// Create stores a new permission; returns ErrDuplicate if the name is taken
	Create(ctx context.Context, perm *entities.Permission) error

	// Get retrieves a permission by ID; returns ErrNotFound if absent
	Get(ctx context.Context, id string) (*entities.Permission, error)

	// GetByName retrieves a permission by its globally unique name
	GetByName(ctx context.Context, name string) (*entities.Permission, error)

	// List retrieves all permissions
	List(ctx context.Context) ([]*entities.Permission, error)

	// Delete removes a permission; returns ErrNotFound if absent
	Delete(ctx context.Context, id string) error
}
