package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// AccountRepository defines the interface for account data access, including
// the account-to-role and account-to-group relationships.
type AccountRepository interface {
	// Create stores a new account; returns ErrDuplicate when the username is
	// taken within the tenant or the email is taken globally
	Create(ctx context.Context, account *entities.Account) error

	// Get retrieves an account by ID; returns ErrNotFound if absent
	Get(ctx context.Context, id string) (*entities.Account, error)

	// List retrieves accounts; an empty tenantID lists every account
	List(ctx context.Context, tenantID string) ([]*entities.Account, error)

	// Delete removes an account; returns ErrNotFound if absent
	Delete(ctx context.Context, id string) error

	// AssignRole links a role directly to an account (idempotent)
	AssignRole(ctx context.Context, accountID string, roleID string) error

	// RemoveRole unlinks a role from an account (no-op if absent)
	RemoveRole(ctx context.Context, accountID string, roleID string) error

	// ListRoles retrieves the roles directly linked to an account
	ListRoles(ctx context.Context, accountID string) ([]*entities.Role, error)

	// AssignGroup places an account in a group (idempotent)
	AssignGroup(ctx context.Context, accountID string, groupID string) error

	// RemoveGroup removes an account from a group (no-op if absent)
	RemoveGroup(ctx context.Context, accountID string, groupID string) error

	// ListGroups retrieves the groups an account belongs to
	ListGroups(ctx context.Context, accountID string) ([]*entities.Group, error)
}
