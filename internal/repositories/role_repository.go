package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// RoleRepository defines the interface for role data access, including the
// role-to-permission relationship.
type RoleRepository interface {
	// Create stores a new role; returns ErrDuplicate if (tenant, name) is taken
	Create(ctx context.Context, role *entities.Role) error

	// Get retrieves a role by ID; returns ErrNotFound if absent
	Get(ctx context.Context, id string) (*entities.Role, error)

	// List retrieves roles; an empty tenantID lists every role
	List(ctx context.Context, tenantID string) ([]*entities.Role, error)

	// Delete removes a role; returns ErrNotFound if absent
	Delete(ctx context.Context, id string) error

	// AssignPermission links a permission to a role (idempotent)
	AssignPermission(ctx context.Context, roleID string, permissionID string) error

	// RemovePermission unlinks a permission from a role (no-op if absent)
	RemovePermission(ctx context.Context, roleID string, permissionID string) error

	// ListPermissions retrieves the permissions linked to a role
	ListPermissions(ctx context.Context, roleID string) ([]*entities.Permission, error)
}
