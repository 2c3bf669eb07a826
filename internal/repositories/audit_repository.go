package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// AuditRepository defines the interface for audit log writes and reads.
type AuditRepository interface {
	// Record appends an audit entry
	Record(ctx context.Context, entry *entities.AuditEntry) error

	// List retrieves recent entries, newest first; an empty accountID lists
	// entries for every account
	List(ctx context.Context, accountID string, limit int) ([]*entities.AuditEntry, error)
}
