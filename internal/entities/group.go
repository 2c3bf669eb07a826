package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Group collects accounts for bulk role assignment: roles bound to a group
// are inherited by every account in it. Group names are unique within their
// tenant.
type Group struct {
	ID          string // UUID, assigned at creation
	TenantID    string // Owning tenant; empty = global group
	Name        string // Unique within TenantID
	Description string
	CreatedAt   time.Time
}

// NewGroup creates a Group with a generated ID.
func NewGroup(tenantID string, name string, description string) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name must not be empty")
	}
	return &Group{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}
