package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) repositories.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

// Record appends an audit entry
func (r *PostgresAuditRepository) Record(ctx context.Context, entry *entities.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (id, account_id, action, resource, allowed, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.AccountID, entry.Action, entry.Resource, entry.Allowed, entry.Message, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List retrieves recent entries, newest first
func (r *PostgresAuditRepository) List(ctx context.Context, accountID string, limit int) ([]*entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, account_id, action, resource, allowed, message, created_at
		FROM audit_logs
	`
	args := []interface{}{}
	argIdx := 1
	if accountID != "" {
		query += fmt.Sprintf(" WHERE account_id = $%d", argIdx)
		args = append(args, accountID)
		argIdx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Action, &entry.Resource, &entry.Allowed, &entry.Message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}
