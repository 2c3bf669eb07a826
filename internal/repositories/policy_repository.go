package repositories

import (
	"context"

	"github.com/authone/authone/internal/entities"
)

// PolicyRepository defines durable storage of normalized policy tuples.
// Rows are {ptype, v0..v5} with a uniqueness constraint over the full tuple,
// so Add is idempotent and the format stays compatible with external policy
// tooling sharing the table.
type PolicyRepository interface {
	// LoadAll retrieves every stored tuple
	LoadAll(ctx context.Context) ([]entities.PolicyTuple, error)

	// Add stores a tuple; inserting a duplicate is a no-op
	Add(ctx context.Context, tuple entities.PolicyTuple) error

	// Remove deletes a tuple; removing an absent tuple is a no-op
	Remove(ctx context.Context, tuple entities.PolicyTuple) error

	// RemoveFiltered deletes every tuple of the given ptype whose fields at
	// fieldIndex..fieldIndex+len(values)-1 equal values; empty values act as
	// wildcards. This powers cascade purge without knowing full tuples.
	RemoveFiltered(ctx context.Context, ptype entities.RuleType, fieldIndex int, values ...string) error

	// ReplaceAll atomically replaces the entire tuple set (reconciliation)
	ReplaceAll(ctx context.Context, tuples []entities.PolicyTuple) error
}
