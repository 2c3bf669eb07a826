package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresPolicyRepository implements PolicyRepository using PostgreSQL.
// Tuples live in policy_rules as {ptype, v0..v5} rows with a uniqueness
// constraint over the full tuple, so the table stays readable by external
// policy tooling.
type PostgresPolicyRepository struct {
	db *sql.DB
}

// NewPostgresPolicyRepository creates a new PostgreSQL policy repository
func NewPostgresPolicyRepository(db *sql.DB) repositories.PolicyRepository {
	return &PostgresPolicyRepository{db: db}
}

// LoadAll retrieves every stored tuple
func (r *PostgresPolicyRepository) LoadAll(ctx context.Context) ([]entities.PolicyTuple, error) {
	query := `
		SELECT ptype, v0, v1, v2, v3, v4, v5
		FROM policy_rules
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy rules: %w", err)
	}
	defer rows.Close()

	var tuples []entities.PolicyTuple
	for rows.Next() {
		var tuple entities.PolicyTuple
		if err := rows.Scan(&tuple.Ptype, &tuple.V0, &tuple.V1, &tuple.V2, &tuple.V3, &tuple.V4, &tuple.V5); err != nil {
			return nil, fmt.Errorf("failed to scan policy rule: %w", err)
		}
		tuples = append(tuples, tuple)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating policy rules: %w", err)
	}
	return tuples, nil
}

// Add stores a tuple; inserting a duplicate is a no-op
func (r *PostgresPolicyRepository) Add(ctx context.Context, tuple entities.PolicyTuple) error {
	query := `
		INSERT INTO policy_rules (ptype, v0, v1, v2, v3, v4, v5)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ptype, v0, v1, v2, v3, v4, v5) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		tuple.Ptype, tuple.V0, tuple.V1, tuple.V2, tuple.V3, tuple.V4, tuple.V5,
	)
	if err != nil {
		return fmt.Errorf("failed to add policy rule: %w", err)
	}
	return nil
}

// Remove deletes a tuple; removing an absent tuple is a no-op
func (r *PostgresPolicyRepository) Remove(ctx context.Context, tuple entities.PolicyTuple) error {
	query := `
		DELETE FROM policy_rules
		WHERE ptype = $1 AND v0 = $2 AND v1 = $3 AND v2 = $4 AND v3 = $5 AND v4 = $6 AND v5 = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		tuple.Ptype, tuple.V0, tuple.V1, tuple.V2, tuple.V3, tuple.V4, tuple.V5,
	)
	if err != nil {
		return fmt.Errorf("failed to remove policy rule: %w", err)
	}
	return nil
}

// RemoveFiltered deletes every tuple of the given ptype whose fields at
// fieldIndex..fieldIndex+len(values)-1 equal values. Empty values act as
// wildcards; unspecified trailing fields are unconstrained.
func (r *PostgresPolicyRepository) RemoveFiltered(ctx context.Context, ptype entities.RuleType, fieldIndex int, values ...string) error {
	if fieldIndex < 0 || fieldIndex+len(values) > 6 {
		return fmt.Errorf("invalid filter range: index %d with %d values", fieldIndex, len(values))
	}

	query := `DELETE FROM policy_rules WHERE ptype = $1`
	args := []interface{}{string(ptype)}
	argIdx := 2

	for i, value := range values {
		if value == "" {
			continue
		}
		query += fmt.Sprintf(" AND v%d = $%d", fieldIndex+i, argIdx)
		args = append(args, value)
		argIdx++
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to remove filtered policy rules: %w", err)
	}
	return nil
}

// ReplaceAll atomically replaces the entire tuple set in one transaction.
// Used by reconciliation to rebuild the policy table from the entity graph.
func (r *PostgresPolicyRepository) ReplaceAll(ctx context.Context, tuples []entities.PolicyTuple) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM policy_rules`); err != nil {
		return fmt.Errorf("failed to clear policy rules: %w", err)
	}

	query := `
		INSERT INTO policy_rules (ptype, v0, v1, v2, v3, v4, v5)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ptype, v0, v1, v2, v3, v4, v5) DO NOTHING
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, tuple := range tuples {
		_, err := stmt.ExecContext(ctx,
			tuple.Ptype, tuple.V0, tuple.V1, tuple.V2, tuple.V3, tuple.V4, tuple.V5,
		)
		if err != nil {
			return fmt.Errorf("failed to insert policy rule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
