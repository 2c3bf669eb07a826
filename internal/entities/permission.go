package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Permission represents a named access grant of the form "resource:action"
// Example: "doc:read" allows the "read" action on the "doc" resource
// Permissions are immutable after creation; the name is parsed exactly once
type Permission struct {
	ID          string // UUID, assigned at creation
	Name        string // Machine-readable name, "resource:action"
	Description string // Human-readable description
	Resource    string // Parsed resource part of Name
	Action      string // Parsed action part of Name
	CreatedAt   time.Time
}

// NewPermission creates a Permission, validating and parsing the name.
// The name must contain exactly one ":" separating non-empty resource and
// action parts.
func NewPermission(name string, description string) (*Permission, error) {
	resource, action, err := ParsePermissionName(name)
	if err != nil {
		return nil, err
	}
	return &Permission{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Resource:    resource,
		Action:      action,
		CreatedAt:   time.Now(),
	}, nil
}

// ParsePermissionName splits a permission name of the form "resource:action".
// Malformed names are rejected here and never reach the policy store.
func ParsePermissionName(name string) (string, string, error) {
	if name == "" {
		return "", "", fmt.Errorf("permission name must not be empty")
	}
	idx := strings.Index(name, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("permission name must be in format resource:action, got %q", name)
	}
	resource, action := name[:idx], name[idx+1:]
	if resource == "" || action == "" {
		return "", "", fmt.Errorf("invalid permission name: %q", name)
	}
	return resource, action, nil
}
