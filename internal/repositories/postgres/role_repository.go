package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresRoleRepository implements RoleRepository using PostgreSQL
type PostgresRoleRepository struct {
	db *sql.DB
}

// NewPostgresRoleRepository creates a new PostgreSQL role repository
func NewPostgresRoleRepository(db *sql.DB) repositories.RoleRepository {
	return &PostgresRoleRepository{db: db}
}

// Create stores a new role
func (r *PostgresRoleRepository) Create(ctx context.Context, role *entities.Role) error {
	query := `
		INSERT INTO roles (id, tenant_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		role.ID, role.TenantID, role.Name, role.Description, role.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("role %q in tenant %q: %w", role.Name, role.TenantID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

// Get retrieves a role by ID
func (r *PostgresRoleRepository) Get(ctx context.Context, id string) (*entities.Role, error) {
	query := `
		SELECT id, tenant_id, name, description, created_at
		FROM roles
		WHERE id = $1
	`
	var role entities.Role
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&role.ID, &role.TenantID, &role.Name, &role.Description, &role.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("role %q: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return &role, nil
}

// List retrieves roles, optionally filtered by tenant
func (r *PostgresRoleRepository) List(ctx context.Context, tenantID string) ([]*entities.Role, error) {
	query := `
		SELECT id, tenant_id, name, description, created_at
		FROM roles
	`
	args := []interface{}{}
	if tenantID != "" {
		query += " WHERE tenant_id = $1"
		args = append(args, tenantID)
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*entities.Role
	for rows.Next() {
		var role entities.Role
		if err := rows.Scan(&role.ID, &role.TenantID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}

// Delete removes a role and, via foreign keys, its relationship rows
func (r *PostgresRoleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("role %q: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// AssignPermission links a permission to a role (idempotent)
func (r *PostgresRoleRepository) AssignPermission(ctx context.Context, roleID string, permissionID string) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to assign permission to role: %w", err)
	}
	return nil
}

// RemovePermission unlinks a permission from a role (no-op if absent)
func (r *PostgresRoleRepository) RemovePermission(ctx context.Context, roleID string, permissionID string) error {
	query := `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`
	if _, err := r.db.ExecContext(ctx, query, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to remove permission from role: %w", err)
	}
	return nil
}

// ListPermissions retrieves the permissions linked to a role
func (r *PostgresRoleRepository) ListPermissions(ctx context.Context, roleID string) ([]*entities.Permission, error) {
	query := `
		SELECT p.id, p.name, p.description, p.resource, p.action, p.created_at
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
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
