package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	db *sql.DB
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(db *sql.DB) repositories.AccountRepository {
	return &PostgresAccountRepository{db: db}
}

// Create stores a new account
func (r *PostgresAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (id, tenant_id, username, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.TenantID, account.Username, account.Email, account.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("account %q / %q: %w", account.Username, account.Email, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// Get retrieves an account by ID
func (r *PostgresAccountRepository) Get(ctx context.Context, id string) (*entities.Account, error) {
	query := `
		SELECT id, tenant_id, username, email, created_at
		FROM accounts
		WHERE id = $1
	`
	var account entities.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.TenantID, &account.Username, &account.Email, &account.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// List retrieves accounts, optionally filtered by tenant
func (r *PostgresAccountRepository) List(ctx context.Context, tenantID string) ([]*entities.Account, error) {
	query := `
		SELECT id, tenant_id, username, email, created_at
		FROM accounts
	`
	args := []interface{}{}
	if tenantID != "" {
		query += " WHERE tenant_id = $1"
		args = append(args, tenantID)
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		var account entities.Account
		if err := rows.Scan(&account.ID, &account.TenantID, &account.Username, &account.Email, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes an account and, via foreign keys, its relationship rows
func (r *PostgresAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %q: %w", id, repositories.ErrNotFound)
	}
	return nil
}

// AssignRole links a role directly to an account (idempotent)
func (r *PostgresAccountRepository) AssignRole(ctx context.Context, accountID string, roleID string) error {
	query := `
		INSERT INTO account_roles (account_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, role_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, roleID); err != nil {
		return fmt.Errorf("failed to assign role to account: %w", err)
	}
	return nil
}

// RemoveRole unlinks a role from an account (no-op if absent)
func (r *PostgresAccountRepository) RemoveRole(ctx context.Context, accountID string, roleID string) error {
	query := `DELETE FROM account_roles WHERE account_id = $1 AND role_id = $2`
	if _, err := r.db.ExecContext(ctx, query, accountID, roleID); err != nil {
		return fmt.Errorf("failed to remove role from account: %w", err)
	}
	return nil
}

// ListRoles retrieves the roles directly linked to an account
func (r *PostgresAccountRepository) ListRoles(ctx context.Context, accountID string) ([]*entities.Role, error) {
	query := `
		SELECT r.id, r.tenant_id, r.name, r.description, r.created_at
		FROM roles r
		JOIN account_roles ar ON ar.role_id = r.id
		WHERE ar.account_id = $1
		ORDER BY r.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account roles: %w", err)
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

// AssignGroup places an account in a group (idempotent)
func (r *PostgresAccountRepository) AssignGroup(ctx context.Context, accountID string, groupID string) error {
	query := `
		INSERT INTO account_groups (account_id, group_id)
		VALUES ($1, $2)
		ON CONFLICT (account_id, group_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, groupID); err != nil {
		return fmt.Errorf("failed to assign group to account: %w", err)
	}
	return nil
}

// RemoveGroup removes an account from a group (no-op if absent)
func (r *PostgresAccountRepository) RemoveGroup(ctx context.Context, accountID string, groupID string) error {
	query := `DELETE FROM account_groups WHERE account_id = $1 AND group_id = $2`
	if _, err := r.db.ExecContext(ctx, query, accountID, groupID); err != nil {
		return fmt.Errorf("failed to remove group from account: %w", err)
	}
	return nil
}

// ListGroups retrieves the groups an account belongs to
func (r *PostgresAccountRepository) ListGroups(ctx context.Context, accountID string) ([]*entities.Group, error) {
	query := `
		SELECT g.id, g.tenant_id, g.name, g.description, g.created_at
		FROM groups g
		JOIN account_groups ag ON ag.group_id = g.id
		WHERE ag.account_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account groups: %w", err)
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
