// Package memory provides in-memory repository implementations with the
// same semantics as the PostgreSQL ones, including uniqueness constraints
// and foreign-key style cleanup of relationship rows. They back unit tests
// and embedded single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
)

type edge struct {
	a string
	b string
}

// Store holds all in-memory tables behind one lock, so cross-repository
// cleanup on delete stays consistent.
type Store struct {
	mu sync.RWMutex

	permissions map[string]*entities.Permission
	roles       map[string]*entities.Role
	groups      map[string]*entities.Group
	accounts    map[string]*entities.Account
	resources   map[string]*entities.Resource

	rolePermissions map[edge]struct{} // (role, permission)
	accountRoles    map[edge]struct{} // (account, role)
	accountGroups   map[edge]struct{} // (account, group)
	groupRoles      map[edge]struct{} // (group, role)

	policyRules map[entities.PolicyTuple]struct{}
	auditLog    []*entities.AuditEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		permissions:     make(map[string]*entities.Permission),
		roles:           make(map[string]*entities.Role),
		groups:          make(map[string]*entities.Group),
		accounts:        make(map[string]*entities.Account),
		resources:       make(map[string]*entities.Resource),
		rolePermissions: make(map[edge]struct{}),
		accountRoles:    make(map[edge]struct{}),
		accountGroups:   make(map[edge]struct{}),
		groupRoles:      make(map[edge]struct{}),
		policyRules:     make(map[entities.PolicyTuple]struct{}),
	}
}

// Permissions returns the permission repository view of the store.
func (s *Store) Permissions() repositories.PermissionRepository { return &permissionRepo{s} }

// Roles returns the role repository view of the store.
func (s *Store) Roles() repositories.RoleRepository { return &roleRepo{s} }

// Groups returns the group repository view of the store.
func (s *Store) Groups() repositories.GroupRepository { return &groupRepo{s} }

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() repositories.AccountRepository { return &accountRepo{s} }

// Resources returns the resource repository view of the store.
func (s *Store) Resources() repositories.ResourceRepository { return &resourceRepo{s} }

// Policies returns the policy repository view of the store.
func (s *Store) Policies() repositories.PolicyRepository { return &policyRepo{s} }

// Audit returns the audit repository view of the store.
func (s *Store) Audit() repositories.AuditRepository { return &auditRepo{s} }

// ---------------------------------------------------------------- permission

type permissionRepo struct{ s *Store }

func (r *permissionRepo) Create(ctx context.Context, perm *entities.Permission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.permissions {
		if existing.Name == perm.Name {
			return fmt.Errorf("permission %q: %w", perm.Name, repositories.ErrDuplicate)
		}
	}
	cp := *perm
	r.s.permissions[perm.ID] = &cp
	return nil
}

func (r *permissionRepo) Get(ctx context.Context, id string) (*entities.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	perm, ok := r.s.permissions[id]
	if !ok {
		return nil, fmt.Errorf("permission %q: %w", id, repositories.ErrNotFound)
	}
	cp := *perm
	return &cp, nil
}

func (r *permissionRepo) GetByName(ctx context.Context, name string) (*entities.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, perm := range r.s.permissions {
		if perm.Name == name {
			cp := *perm
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("permission %q: %w", name, repositories.ErrNotFound)
}

func (r *permissionRepo) List(ctx context.Context) ([]*entities.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	perms := make([]*entities.Permission, 0, len(r.s.permissions))
	for _, perm := range r.s.permissions {
		cp := *perm
		perms = append(perms, &cp)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].CreatedAt.Before(perms[j].CreatedAt) })
	return perms, nil
}

func (r *permissionRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.permissions[id]; !ok {
		return fmt.Errorf("permission %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.permissions, id)
	for e := range r.s.rolePermissions {
		if e.b == id {
			delete(r.s.rolePermissions, e)
		}
	}
	return nil
}

// ---------------------------------------------------------------------- role

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(ctx context.Context, role *entities.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name {
			return fmt.Errorf("role %q in tenant %q: %w", role.Name, role.TenantID, repositories.ErrDuplicate)
		}
	}
	cp := *role
	r.s.roles[role.ID] = &cp
	return nil
}

func (r *roleRepo) Get(ctx context.Context, id string) (*entities.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", id, repositories.ErrNotFound)
	}
	cp := *role
	return &cp, nil
}

func (r *roleRepo) List(ctx context.Context, tenantID string) ([]*entities.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var roles []*entities.Role
	for _, role := range r.s.roles {
		if tenantID == "" || role.TenantID == tenantID {
			cp := *role
			roles = append(roles, &cp)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].CreatedAt.Before(roles[j].CreatedAt) })
	return roles, nil
}

func (r *roleRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[id]; !ok {
		return fmt.Errorf("role %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.roles, id)
	for e := range r.s.rolePermissions {
		if e.a == id {
			delete(r.s.rolePermissions, e)
		}
	}
	for e := range r.s.accountRoles {
		if e.b == id {
			delete(r.s.accountRoles, e)
		}
	}
	for e := range r.s.groupRoles {
		if e.b == id {
			delete(r.s.groupRoles, e)
		}
	}
	return nil
}

func (r *roleRepo) AssignPermission(ctx context.Context, roleID string, permissionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rolePermissions[edge{roleID, permissionID}] = struct{}{}
	return nil
}

func (r *roleRepo) RemovePermission(ctx context.Context, roleID string, permissionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.rolePermissions, edge{roleID, permissionID})
	return nil
}

func (r *roleRepo) ListPermissions(ctx context.Context, roleID string) ([]*entities.Permission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var perms []*entities.Permission
	for e := range r.s.rolePermissions {
		if e.a != roleID {
			continue
		}
		if perm, ok := r.s.permissions[e.b]; ok {
			cp := *perm
			perms = append(perms, &cp)
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].CreatedAt.Before(perms[j].CreatedAt) })
	return perms, nil
}

// --------------------------------------------------------------------- group

type groupRepo struct{ s *Store }

func (r *groupRepo) Create(ctx context.Context, group *entities.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.groups {
		if existing.TenantID == group.TenantID && existing.Name == group.Name {
			return fmt.Errorf("group %q in tenant %q: %w", group.Name, group.TenantID, repositories.ErrDuplicate)
		}
	}
	cp := *group
	r.s.groups[group.ID] = &cp
	return nil
}

func (r *groupRepo) Get(ctx context.Context, id string) (*entities.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	group, ok := r.s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", id, repositories.ErrNotFound)
	}
	cp := *group
	return &cp, nil
}

func (r *groupRepo) List(ctx context.Context, tenantID string) ([]*entities.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var groups []*entities.Group
	for _, group := range r.s.groups {
		if tenantID == "" || group.TenantID == tenantID {
			cp := *group
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups, nil
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.groups[id]; !ok {
		return fmt.Errorf("group %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.groups, id)
	for e := range r.s.groupRoles {
		if e.a == id {
			delete(r.s.groupRoles, e)
		}
	}
	for e := range r.s.accountGroups {
		if e.b == id {
			delete(r.s.accountGroups, e)
		}
	}
	return nil
}

func (r *groupRepo) AssignRole(ctx context.Context, groupID string, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.groupRoles[edge{groupID, roleID}] = struct{}{}
	return nil
}

func (r *groupRepo) RemoveRole(ctx context.Context, groupID string, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.groupRoles, edge{groupID, roleID})
	return nil
}

func (r *groupRepo) ListRoles(ctx context.Context, groupID string) ([]*entities.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var roles []*entities.Role
	for e := range r.s.groupRoles {
		if e.a != groupID {
			continue
		}
		if role, ok := r.s.roles[e.b]; ok {
			cp := *role
			roles = append(roles, &cp)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].CreatedAt.Before(roles[j].CreatedAt) })
	return roles, nil
}

// ------------------------------------------------------------------- account

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(ctx context.Context, account *entities.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Email == account.Email {
			return fmt.Errorf("account email %q: %w", account.Email, repositories.ErrDuplicate)
		}
		if existing.TenantID == account.TenantID && existing.Username == account.Username {
			return fmt.Errorf("account %q in tenant %q: %w", account.Username, account.TenantID, repositories.ErrDuplicate)
		}
	}
	cp := *account
	r.s.accounts[account.ID] = &cp
	return nil
}

func (r *accountRepo) Get(ctx context.Context, id string) (*entities.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", id, repositories.ErrNotFound)
	}
	cp := *account
	return &cp, nil
}

func (r *accountRepo) List(ctx context.Context, tenantID string) ([]*entities.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var accounts []*entities.Account
	for _, account := range r.s.accounts {
		if tenantID == "" || account.TenantID == tenantID {
			cp := *account
			accounts = append(accounts, &cp)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[id]; !ok {
		return fmt.Errorf("account %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.accounts, id)
	for e := range r.s.accountRoles {
		if e.a == id {
			delete(r.s.accountRoles, e)
		}
	}
	for e := range r.s.accountGroups {
		if e.a == id {
			delete(r.s.accountGroups, e)
		}
	}
	return nil
}

func (r *accountRepo) AssignRole(ctx context.Context, accountID string, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accountRoles[edge{accountID, roleID}] = struct{}{}
	return nil
}

func (r *accountRepo) RemoveRole(ctx context.Context, accountID string, roleID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accountRoles, edge{accountID, roleID})
	return nil
}

func (r *accountRepo) ListRoles(ctx context.Context, accountID string) ([]*entities.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var roles []*entities.Role
	for e := range r.s.accountRoles {
		if e.a != accountID {
			continue
		}
		if role, ok := r.s.roles[e.b]; ok {
			cp := *role
			roles = append(roles, &cp)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].CreatedAt.Before(roles[j].CreatedAt) })
	return roles, nil
}

func (r *accountRepo) AssignGroup(ctx context.Context, accountID string, groupID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accountGroups[edge{accountID, groupID}] = struct{}{}
	return nil
}

func (r *accountRepo) RemoveGroup(ctx context.Context, accountID string, groupID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accountGroups, edge{accountID, groupID})
	return nil
}

func (r *accountRepo) ListGroups(ctx context.Context, accountID string) ([]*entities.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var groups []*entities.Group
	for e := range r.s.accountGroups {
		if e.a != accountID {
			continue
		}
		if group, ok := r.s.groups[e.b]; ok {
			cp := *group
			groups = append(groups, &cp)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt.Before(groups[j].CreatedAt) })
	return groups, nil
}

// ------------------------------------------------------------------ resource

type resourceRepo struct{ s *Store }

func (r *resourceRepo) Create(ctx context.Context, resource *entities.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *resource
	r.s.resources[resource.ID] = &cp
	return nil
}

func (r *resourceRepo) Get(ctx context.Context, id string) (*entities.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	resource, ok := r.s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %q: %w", id, repositories.ErrNotFound)
	}
	cp := *resource
	return &cp, nil
}

func (r *resourceRepo) List(ctx context.Context, filter *repositories.ResourceFilter) ([]*entities.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var resources []*entities.Resource
	for _, resource := range r.s.resources {
		if filter != nil {
			if filter.TenantID != "" && resource.TenantID != filter.TenantID {
				continue
			}
			if filter.Type != "" && resource.Type != filter.Type {
				continue
			}
			if filter.OwnerID != "" && resource.OwnerID != filter.OwnerID {
				continue
			}
		}
		cp := *resource
		resources = append(resources, &cp)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].CreatedAt.Before(resources[j].CreatedAt) })
	return resources, nil
}

func (r *resourceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.resources[id]; !ok {
		return fmt.Errorf("resource %q: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.resources, id)
	return nil
}

// -------------------------------------------------------------------- policy

type policyRepo struct{ s *Store }

func (r *policyRepo) LoadAll(ctx context.Context) ([]entities.PolicyTuple, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tuples := make([]entities.PolicyTuple, 0, len(r.s.policyRules))
	for tuple := range r.s.policyRules {
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

func (r *policyRepo) Add(ctx context.Context, tuple entities.PolicyTuple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.policyRules[tuple] = struct{}{}
	return nil
}

func (r *policyRepo) Remove(ctx context.Context, tuple entities.PolicyTuple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.policyRules, tuple)
	return nil
}

func (r *policyRepo) RemoveFiltered(ctx context.Context, ptype entities.RuleType, fieldIndex int, values ...string) error {
	if fieldIndex < 0 || fieldIndex+len(values) > 6 {
		return fmt.Errorf("invalid filter range: index %d with %d values", fieldIndex, len(values))
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for tuple := range r.s.policyRules {
		if tuple.Ptype != ptype {
			continue
		}
		fields := tuple.Fields()
		match := true
		for i, value := range values {
			if value != "" && fields[fieldIndex+i] != value {
				match = false
				break
			}
		}
		if match {
			delete(r.s.policyRules, tuple)
		}
	}
	return nil
}

func (r *policyRepo) ReplaceAll(ctx context.Context, tuples []entities.PolicyTuple) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.policyRules = make(map[entities.PolicyTuple]struct{}, len(tuples))
	for _, tuple := range tuples {
		r.s.policyRules[tuple] = struct{}{}
	}
	return nil
}

// --------------------------------------------------------------------- audit

type auditRepo struct{ s *Store }

func (r *auditRepo) Record(ctx context.Context, entry *entities.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *entry
	r.s.auditLog = append(r.s.auditLog, &cp)
	return nil
}

func (r *auditRepo) List(ctx context.Context, accountID string, limit int) ([]*entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var entries []*entities.AuditEntry
	for i := len(r.s.auditLog) - 1; i >= 0 && len(entries) < limit; i-- {
		entry := r.s.auditLog[i]
		if accountID != "" && entry.AccountID != accountID {
			continue
		}
		cp := *entry
		entries = append(entries, &cp)
	}
	return entries, nil
}
