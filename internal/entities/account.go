package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account represents a principal that can be granted roles directly or via
// group membership. Accounts are authorized by this engine, never
// authenticated; no credentials are stored. Username is unique within the
// tenant, email is globally unique. An empty TenantID marks a tenant-less
// account (platform operator).
type Account struct {
	ID        string // UUID, assigned at creation
	TenantID  string // Owning tenant; empty = no tenant
	Username  string // Unique within TenantID
	Email     string // Globally unique
	CreatedAt time.Time
}

// NewAccount creates an Account with a generated ID.
func NewAccount(tenantID string, username string, email string) (*Account, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %q", email)
	}
	return &Account{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}
