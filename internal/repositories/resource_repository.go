package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// ResourceFilter defines filter criteria for listing resources
type ResourceFilter struct {
	TenantID string // Filter by tenant (optional)
	Type     string // Filter by resource type (optional)
	OwnerID  string // Filter by owner account (optional)
}

// ResourceRepository defines the interface for resource metadata access.
// Resources are not part of the authorization graph; deleting one does not
// touch policy rules.
type ResourceRepository interface {
	// Create stores a new resource
	Create(ctx context.Context, resource *entities.Resource) error

	// Get retrieves a resource by ID; returns ErrNotFound if absent
	Get(ctx context.Context, id string) (*entities.Resource, error)

	// List retrieves resources matching the filter
	List(ctx context.Context, filter *ResourceFilter) ([]*entities.Resource, error)

	// Delete removes a resource; returns ErrNotFound if absent
	Delete(ctx context.Context, id string) error
}
