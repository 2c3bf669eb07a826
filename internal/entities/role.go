package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role aggregates a set of permissions and can be bound to accounts or
// groups. An empty TenantID marks a global role visible to every tenant.
// Role names are unique within their tenant.
type Role struct {
	ID          string // UUID, assigned at creation
	TenantID    string // Owning tenant; empty = global role
	Name        string // Unique within TenantID
	Description string
	CreatedAt   time.Time
}

// NewRole creates a Role with a generated ID.
func NewRole(tenantID string, name string, description string) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name must not be empty")
	}
	return &Role{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}
