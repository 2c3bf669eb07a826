package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// GroupRepository defines the interface for group data access, including the
// group-to-role relationship.
type GroupRepository interface {
	// Create stores a new group; returns ErrDuplicate if (tenant, name) is taken
	Create(ctx context.Context, group *entities.Group) error

	// Get retrieves a group by ID; returns ErrNotFound if absent
	Get(ctx context.Context, id string) (*entities.Group, error)

	// List retrieves groups; an empty tenantID lists every group
	List(ctx context.Context, tenantID string) ([]*entities.Group, error)

	// Delete removes a group; returns ErrNotFound if absent
	Delete(ctx context.Context, id string) error

	// AssignRole links a role to a group (idempotent)
	AssignRole(ctx context.Context, groupID string, roleID string) error

	// RemoveRole unlinks a role from a group (no-op if absent)
	RemoveRole(ctx context.Context, groupID string, roleID string) error

	// ListRoles retrieves the roles linked to a group
	ListRoles(ctx context.Context, groupID string) ([]*entities.Role, error)
}
