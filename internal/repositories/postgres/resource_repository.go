package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

// PostgresResourceRepository implements ResourceRepository using PostgreSQL
type PostgresResourceRepository struct {
	db *sql.DB
}

// NewPostgresResourceRepository creates a new PostgreSQL resource repository
func NewPostgresResourceRepository(db *sql.DB) repositories.ResourceRepository {
	return &PostgresResourceRepository{db: db}
}

// Create stores a new resource
func (r *PostgresResourceRepository) Create(ctx context.Context, resource *entities.Resource) error {
	metadata, err := json.Marshal(resource.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal resource metadata: %w", err)
	}

	query := `
		INSERT INTO resources (id, resource_type, name, tenant_id, owner_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		resource.ID, resource.Type, resource.Name, resource.TenantID, resource.OwnerID, metadata, resource.CreatedAt,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("resource %q: %w", resource.Name, repositories.ErrDuplicate)
		}
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// Get retrieves a resource by ID
func (r *PostgresResourceRepository) Get(ctx context.Context, id string) (*entities.Resource, error) {
	query := `
		SELECT id, resource_type, name, tenant_id, owner_id, metadata, created_at
		FROM resources
		WHERE id = $1
	`
	var resource entities.Resource
	var metadata []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resource.ID, &resource.Type, &resource.Name, &resource.TenantID, &resource.OwnerID, &metadata, &resource.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resource %q: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	if err := json.Unmarshal(metadata, &resource.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource metadata: %w", err)
	}
	return &resource, nil
}

// List retrieves resources matching the filter
func (r *PostgresResourceRepository) List(ctx context.Context, filter *repositories.ResourceFilter) ([]*entities.Resource, error) {
	query := `
		SELECT id, resource_type, name, tenant_id, owner_id, metadata, created_at
		FROM resources
		WHERE 1 = 1
	`
	args := []interface{}{}
	argIdx := 1

	if filter != nil {
		if filter.TenantID != "" {
			query += fmt.Sprintf(" AND tenant_id = $%d", argIdx)
			args = append(args, filter.TenantID)
			argIdx++
		}
		if filter.Type != "" {
			query += fmt.Sprintf(" AND resource_type = $%d", argIdx)
			args = append(args, filter.Type)
			argIdx++
		}
		if filter.OwnerID != "" {
			query += fmt.Sprintf(" AND owner_id = $%d", argIdx)
			args = append(args, filter.OwnerID)
			argIdx++
		}
	}
	query += " ORDER BY created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []*entities.Resource
	for rows.Next() {
		var resource entities.Resource
		var metadata []byte
		if err := rows.Scan(&resource.ID, &resource.Type, &resource.Name, &resource.TenantID, &resource.OwnerID, &metadata, &resource.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		if err := json.Unmarshal(metadata, &resource.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal resource metadata: %w", err)
		}
		resources = append(resources, &resource)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resources: %w", err)
	}
	return resources, nil
}

// Delete removes a resource
func (r *PostgresResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("resource %q: %w", id, repositories.ErrNotFound)
	}
	return nil
}
