package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	db *sql.DB
}

// NewPostgresPermissionRepository creates a new PostgreSQL permission repository
func NewPostgresPermissionRepository(db *sql.DB) repositories.PermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

// Create stores a new permission
func (r *PostgresPermissionRepository) Create(ctx context.Context, perm *entities.Permission) error {
	query := `
		INSERT INTO permissions (id, name, description, resource, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		perm.ID, perm.Name, perm.Description, perm.Resource, perm.Action, perm.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("permission %q: %w", perm.Name, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return nil
}

// Get retrieves a permission by ID
func (r *PostgresPermissionRepository) Get(ctx context.Context, id string) (*entities.Permission, error) {
	query := `
		SELECT id, name, description, resource, action, created_at
		FROM permissions
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

// GetByName retrieves a permission by its globally unique name
func (r *PostgresPermissionRepository) GetByName(ctx context.Context, name string) (*entities.Permission, error) {
	query := `
		SELECT id, name, description, resource, action, created_at
		FROM permissions
		WHERE name = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name), name)
}

func (r *PostgresPermissionRepository) scanOne(row *sql.Row, key string) (*entities.Permission, error) {
	var perm entities.Permission
	err := row.Scan(&perm.ID, &perm.Name, &perm.Description, &perm.Resource, &perm.Action, &perm.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("permission %q: %w", key, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}
	return &perm, nil
}

// List retrieves all permissions
func (r *PostgresPermissionRepository) List(ctx context.Context) ([]*entities.Permission, error) {
	query := `
		SELECT id, name, description, resource, action, created_at
		FROM permissions
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []*entities.Permission
	for rows.Next() {
		var perm entities.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Description, &perm.Resource, &perm.Action, &perm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, &perm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permissions: %w", err)
	}
	return perms, nil
}

// Delete removes a permission. Role links are removed by the foreign key
// cascade; materialized P rules are deliberately left in place.
func (r *PostgresPermissionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("permission %q: %w", id, repositories.ErrNotFound)
	}
	return nil
}
