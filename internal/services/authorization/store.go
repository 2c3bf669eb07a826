package authorization

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
	"go.uber.org/zap"
)

// ErrUnavailable signals that the engine cannot produce a decision because
// no policy snapshot is loaded. Callers treat the accompanying result as
// indeterminate, never as an allow.
var ErrUnavailable = errors.New("policy snapshot unavailable")

// Store coordinates the durable policy rule set and its in-memory snapshot.
// All mutations funnel through one mutex: a caller blocks until its change
// is durably written and a fresh snapshot swapped in. Reads never take the
// mutex; they load the current snapshot pointer atomically, so unbounded
// concurrent checks run against a consistent rule set.
type Store struct {
	repo   repositories.PolicyRepository
	logger *zap.Logger

	mu       sync.Mutex // serializes all mutations
	revision uint64     // last published revision, guarded by mu
	snapshot atomic.Pointer[Snapshot]
}

// NewStore creates a Store. Load must be called before the first check.
func NewStore(repo repositories.PolicyRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// Load reads every durable tuple and publishes the initial snapshot.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

// Snapshot returns the current snapshot, or ErrUnavailable when none has
// been loaded yet.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrUnavailable
	}
	return snap, nil
}

// AddGrant durably stores a P rule and republishes the snapshot.
func (s *Store) AddGrant(ctx context.Context, grant entities.Grant) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Add(ctx, grant.Tuple())
	})
}

// RemoveGrant durably removes a P rule (no-op if absent).
func (s *Store) RemoveGrant(ctx context.Context, grant entities.Grant) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Remove(ctx, grant.Tuple())
	})
}

// AddRoleBinding durably stores a G rule.
func (s *Store) AddRoleBinding(ctx context.Context, binding entities.RoleBinding) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Add(ctx, binding.Tuple())
	})
}

// RemoveRoleBinding durably removes a G rule (no-op if absent).
func (s *Store) RemoveRoleBinding(ctx context.Context, binding entities.RoleBinding) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Remove(ctx, binding.Tuple())
	})
}

// AddGroupBinding durably stores a G2 rule.
func (s *Store) AddGroupBinding(ctx context.Context, binding entities.GroupBinding) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Add(ctx, binding.Tuple())
	})
}

// RemoveGroupBinding durably removes a G2 rule (no-op if absent).
func (s *Store) RemoveGroupBinding(ctx context.Context, binding entities.GroupBinding) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.Remove(ctx, binding.Tuple())
	})
}

// PurgeRole removes every rule referencing the role: P rules where it is
// the subject and G rules where it is the bound role.
func (s *Store) PurgeRole(ctx context.Context, roleID string) error {
	return s.apply(ctx, func(ctx context.Context) error {
		if err := s.repo.RemoveFiltered(ctx, entities.RuleGrant, entities.FieldSubject, roleID); err != nil {
			return err
		}
		return s.repo.RemoveFiltered(ctx, entities.RuleRoleBinding, entities.FieldRole, roleID)
	})
}

// PurgeGroup removes every rule referencing the group: G rules where it is
// the subject and G2 rules where it is the bound group.
func (s *Store) PurgeGroup(ctx context.Context, groupID string) error {
	return s.apply(ctx, func(ctx context.Context) error {
		if err := s.repo.RemoveFiltered(ctx, entities.RuleRoleBinding, entities.FieldSubject, groupID); err != nil {
			return err
		}
		return s.repo.RemoveFiltered(ctx, entities.RuleGroupBinding, entities.FieldGroup, groupID)
	})
}

// PurgeAccount removes every rule referencing the account: G rules where it
// is the subject and G2 rules where it is the member account.
func (s *Store) PurgeAccount(ctx context.Context, accountID string) error {
	return s.apply(ctx, func(ctx context.Context) error {
		if err := s.repo.RemoveFiltered(ctx, entities.RuleRoleBinding, entities.FieldSubject, accountID); err != nil {
			return err
		}
		return s.repo.RemoveFiltered(ctx, entities.RuleGroupBinding, entities.FieldSubject, accountID)
	})
}

// ReplaceAll swaps in a completely rebuilt rule set (reconciliation).
func (s *Store) ReplaceAll(ctx context.Context, tuples []entities.PolicyTuple) error {
	return s.apply(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceAll(ctx, tuples)
	})
}

// apply runs one durable mutation under the write mutex and republishes
// the snapshot from durable state. Reloading after every write keeps the
// snapshot exactly equal to what is stored; administrative mutation rate
// is low, so the extra read is cheap relative to the consistency it buys.
func (s *Store) apply(ctx context.Context, mutate func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := mutate(ctx); err != nil {
		return fmt.Errorf("failed to apply policy mutation: %w", err)
	}
	if err := s.reloadLocked(ctx); err != nil {
		return err
	}
	return nil
}

// reloadLocked rebuilds and swaps the snapshot. Caller holds mu.
func (s *Store) reloadLocked(ctx context.Context) error {
	tuples, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload policy rules: %w", err)
	}

	s.revision++
	snap := NewSnapshot(s.revision, tuples)
	s.snapshot.Store(snap)

	s.logger.Debug("policy snapshot published",
		zap.Uint64("revision", snap.Revision()),
		zap.Int("rules", len(tuples)),
	)
	return nil
}
