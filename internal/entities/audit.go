package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records the outcome of an access check or a noteworthy
// administrative event (e.g. a cross-tenant assignment).
type AuditEntry struct {
	ID        string
	AccountID string // Affected principal: the checked account, or the grantee (account or group) of an administrative event
	Action    string // Action checked or administrative operation name
	Resource  string // Resource checked or affected entity ID
	Allowed   bool   // Check outcome; false for soft administrative warnings
	Message   string
	CreatedAt time.Time
}

// NewAuditEntry creates an AuditEntry stamped with the current time.
func NewAuditEntry(principalID, action, resource string, allowed bool, message string) *AuditEntry {
	return &AuditEntry{
		ID:        uuid.NewString(),
		AccountID: principalID,
		Action:    action,
		Resource:  resource,
		Allowed:   allowed,
		Message:   message,
		CreatedAt: time.Now(),
	}
}
