package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresGroupRepository implements GroupRepository using PostgreSQL
type PostgresGroupRepository struct {
	db *sql.DB
}

// NewPostgresGroupRepository creates a new PostgreSQL group repository
func NewPostgresGroupRepository(db *sql.DB) repositories.GroupRepository {
	return &PostgresGroupRepository{db: db}
}

// Create stores a new group
func (r *PostgresGroupRepository) Create(ctx context.Context, group *entities.Group) error {
	query := `
		INSERT INTO groups (id, tenant_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		group.ID, group.TenantID, group.Name, group.Description, group.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("group %q in tenant %q: %w", group.Name, group.TenantID, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// Get retrieves a group by ID
func (r *PostgresGroupRepository) Get(ctx context.Context, id string) (*entities.Group, error) {
	query := `
		SELECT id, tenant_id, name, description, created_at
		FROM groups
		WHERE id = $1
	`
	var group entities.Group
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID, &group.TenantID, &group.Name, &group.Description, &group.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %q: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// List retrieves groups, optionally filtered by tenant
func (r *PostgresGroupRepository) List(ctx context.Context, tenantID string) ([]*entities.Group, error) {
	query := `
		SELECT id, tenant_id, name, description, created_at
		FROM groups
	`
	args := []interface{}{}
	if tenantID != "" {
		query += " WHERE tenant_id = $1"
		args = append(args, tenantID)
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*entities.Group
	for rows.Next() {
		var group entities.Group
		if err := rows.Scan(&group.ID, &group.TenantID, &group.Name, &group.Description, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return groups, nil
}

// Delete removes a group and, via foreign keys, its relationship rows
func (r *PostgresGroupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("group %q: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// AssignRole links a role to a group (idempotent)
func (r *PostgresGroupRepository) AssignRole(ctx context.Context, groupID string, roleID string) error {
	query := `
		INSERT INTO group_roles (group_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, role_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, groupID, roleID); err != nil {
		return fmt.Errorf("failed to assign role to group: %w", err)
	}
	return nil
}

// RemoveRole unlinks a role from a group (no-op if absent)
func (r *PostgresGroupRepository) RemoveRole(ctx context.Context, groupID string, roleID string) error {
	query := `DELETE FROM group_roles WHERE group_id = $1 AND role_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, roleID); err != nil {
		return fmt.Errorf("failed to remove role from group: %w", err)
	}
	return nil
}

// ListRoles retrieves the roles linked to a group
func (r *PostgresGroupRepository) ListRoles(ctx context.Context, groupID string) ([]*entities.Role, error) {
	query := `
		SELECT r.id, r.tenant_id, r.name, r.description, r.created_at
		FROM roles r
		JOIN group_roles gr ON gr.role_id = r.id
		WHERE gr.group_id = $1
		ORDER BY r.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group roles: %w", err)
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
