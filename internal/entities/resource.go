package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Resource describes a controlled object (frontend component, backend
// module, dataset, model). Resources carry metadata for the surrounding
// platform; the authorization graph itself only consumes the resource type
// through the matcher's type-to-pattern table.
type Resource struct {
	ID        string            // UUID, assigned at creation
	Type      string            // Resource type (e.g. "doc", "dataset")
	Name      string            // Display name
	TenantID  string            // Owning tenant; empty = shared
	OwnerID   string            // Optional owning account ID
	Metadata  map[string]string // Free-form metadata
	CreatedAt time.Time
}

// NewResource creates a Resource with a generated ID.
func NewResource(resourceType string, name string, tenantID string, ownerID string, metadata map[string]string) (*Resource, error) {
	if resourceType == "" {
		return nil, fmt.Errorf("resource type must not be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("resource name must not be empty")
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &Resource{
		ID:        uuid.NewString(),
		Type:      resourceType,
		Name:      name,
		TenantID:  tenantID,
		OwnerID:   ownerID,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}, nil
}
