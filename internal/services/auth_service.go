package services

import (
	"context"
	"fmt"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories"
	"github.com/authone/authone/internal/services/authorization"
	"go.uber.org/zap"
)

// DecisionRecorder receives the outcome of every completed access check.
// The metrics exporter implements it; a nil recorder disables recording.
type DecisionRecorder interface {
	RecordDecision(outcome string)
}

// AuthService orchestrates entity storage and the policy rule store. Every
// administrative operation commits its entity change first and mutates the
// policy store second; a crash between the two leaves a policy-less entity
// that Reconcile repairs, never a dangling rule granting access to a deleted
// entity on the allow path.
type AuthService struct {
	permissions repositories.PermissionRepository
	roles       repositories.RoleRepository
	groups      repositories.GroupRepository
	accounts    repositories.AccountRepository
	resources   repositories.ResourceRepository
	audit       repositories.AuditRepository

	store    *authorization.Store
	matcher  *authorization.Matcher
	enforcer authorization.EnforcerInterface

	decisions DecisionRecorder
	logger    *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	permissions repositories.PermissionRepository,
	roles repositories.RoleRepository,
	groups repositories.GroupRepository,
	accounts repositories.AccountRepository,
	resources repositories.ResourceRepository,
	audit repositories.AuditRepository,
	store *authorization.Store,
	matcher *authorization.Matcher,
	enforcer authorization.EnforcerInterface,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		permissions: permissions,
		roles:       roles,
		groups:      groups,
		accounts:    accounts,
		resources:   resources,
		audit:       audit,
		store:       store,
		matcher:     matcher,
		enforcer:    enforcer,
		logger:      logger,
	}
}

// SetDecisionRecorder registers a recorder for check outcomes.
func (s *AuthService) SetDecisionRecorder(r DecisionRecorder) {
	s.decisions = r
}

// ------------------------------------------------------------- permissions

// CreatePermission registers a permission named "resource:action".
func (s *AuthService) CreatePermission(ctx context.Context, name string, description string) (*entities.Permission, error) {
	perm, err := entities.NewPermission(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.Create(ctx, perm); err != nil {
		return nil, fmt.Errorf("failed to create permission: %w", err)
	}
	s.logger.Info("permission created", zap.String("id", perm.ID), zap.String("name", perm.Name))
	return perm, nil
}

// GetPermission retrieves a permission by ID.
func (s *AuthService) GetPermission(ctx context.Context, id string) (*entities.Permission, error) {
	return s.permissions.Get(ctx, id)
}

// ListPermissions retrieves all permissions.
func (s *AuthService) ListPermissions(ctx context.Context) ([]*entities.Permission, error) {
	return s.permissions.List(ctx)
}

// DeletePermission removes a permission and its role links. Grants already
// derived from it stay in the policy table; roles keep access they were
// given until the grant is removed explicitly or Reconcile rebuilds the
// table from the surviving links.
func (s *AuthService) DeletePermission(ctx context.Context, id string) error {
	if err := s.permissions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}
	s.logger.Info("permission deleted", zap.String("id", id))
	return nil
}

// ------------------------------------------------------------------- roles

// CreateRole registers a role within a tenant; an empty tenantID creates a
// global role.
func (s *AuthService) CreateRole(ctx context.Context, tenantID string, name string, description string) (*entities.Role, error) {
	role, err := entities.NewRole(tenantID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	s.logger.Info("role created",
		zap.String("id", role.ID),
		zap.String("name", role.Name),
		zap.String("tenant_id", role.TenantID),
	)
	return role, nil
}

// GetRole retrieves a role by ID.
func (s *AuthService) GetRole(ctx context.Context, id string) (*entities.Role, error) {
	return s.roles.Get(ctx, id)
}

// ListRoles retrieves roles; an empty tenantID lists every role.
func (s *AuthService) ListRoles(ctx context.Context, tenantID string) ([]*entities.Role, error) {
	return s.roles.List(ctx, tenantID)
}

// DeleteRole removes a role, its relationship rows, and every policy rule
// referencing it, so deleted roles can never grant access.
func (s *AuthService) DeleteRole(ctx context.Context, id string) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if err := s.store.PurgeRole(ctx, id); err != nil {
		return fmt.Errorf("failed to purge role policies: %w", err)
	}
	s.logger.Info("role deleted", zap.String("id", id))
	return nil
}

// ListRolePermissions retrieves the permissions assigned to a role.
func (s *AuthService) ListRolePermissions(ctx context.Context, roleID string) ([]*entities.Permission, error) {
	if _, err := s.roles.Get(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roles.ListPermissions(ctx, roleID)
}

// AssignPermissionToRole links a permission to a role and derives the
// matching grant rule. The permission's resource part is translated through
// the type-pattern table once, here, so evaluation never consults it.
func (s *AuthService) AssignPermissionToRole(ctx context.Context, roleID string, permissionID string) error {
	role, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return err
	}
	perm, err := s.permissions.Get(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.roles.AssignPermission(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}
	if err := s.store.AddGrant(ctx, s.grantFor(role, perm)); err != nil {
		return fmt.Errorf("failed to add grant rule: %w", err)
	}
	s.logger.Info("permission assigned to role",
		zap.String("role_id", roleID),
		zap.String("permission", perm.Name),
	)
	return nil
}

// RemovePermissionFromRole unlinks a permission from a role and removes the
// derived grant rule. Both halves are no-ops when absent.
func (s *AuthService) RemovePermissionFromRole(ctx context.Context, roleID string, permissionID string) error {
	role, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return err
	}
	perm, err := s.permissions.Get(ctx, permissionID)
	if err != nil {
		return err
	}

	if err := s.roles.RemovePermission(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("failed to remove permission: %w", err)
	}
	if err := s.store.RemoveGrant(ctx, s.grantFor(role, perm)); err != nil {
		return fmt.Errorf("failed to remove grant rule: %w", err)
	}
	return nil
}

// grantFor derives the grant rule a (role, permission) link produces.
func (s *AuthService) grantFor(role *entities.Role, perm *entities.Permission) entities.Grant {
	return entities.Grant{
		Subject: role.ID,
		Domain:  authorization.DomainFor(role.TenantID),
		Object:  s.matcher.ObjectFor(perm.Resource),
		Action:  perm.Action,
	}
}

// ------------------------------------------------------------------ groups

// CreateGroup registers a group within a tenant.
func (s *AuthService) CreateGroup(ctx context.Context, tenantID string, name string, description string) (*entities.Group, error) {
	group, err := entities.NewGroup(tenantID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	s.logger.Info("group created",
		zap.String("id", group.ID),
		zap.String("name", group.Name),
		zap.String("tenant_id", group.TenantID),
	)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *AuthService) GetGroup(ctx context.Context, id string) (*entities.Group, error) {
	return s.groups.Get(ctx, id)
}

// ListGroups retrieves groups; an empty tenantID lists every group.
func (s *AuthService) ListGroups(ctx context.Context, tenantID string) ([]*entities.Group, error) {
	return s.groups.List(ctx, tenantID)
}

// DeleteGroup removes a group, its relationship rows, and every policy rule
// referencing it.
func (s *AuthService) DeleteGroup(ctx context.Context, id string) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if err := s.store.PurgeGroup(ctx, id); err != nil {
		return fmt.Errorf("failed to purge group policies: %w", err)
	}
	s.logger.Info("group deleted", zap.String("id", id))
	return nil
}

// ListGroupRoles retrieves the roles assigned to a group.
func (s *AuthService) ListGroupRoles(ctx context.Context, groupID string) ([]*entities.Role, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.ListRoles(ctx, groupID)
}

// AssignRoleToGroup links a role to a group; every member inherits it.
func (s *AuthService) AssignRoleToGroup(ctx context.Context, groupID string, roleID string) error {
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	role, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return err
	}
	s.checkTenantMatch(ctx, group.ID, group.TenantID, role.TenantID, "assign_role_to_group", roleID)

	if err := s.groups.AssignRole(ctx, groupID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	binding := entities.RoleBinding{Subject: groupID, Role: roleID, Domain: authorization.DomainFor(group.TenantID)}
	if err := s.store.AddRoleBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to add role binding: %w", err)
	}
	s.logger.Info("role assigned to group", zap.String("group_id", groupID), zap.String("role_id", roleID))
	return nil
}

// RemoveRoleFromGroup unlinks a role from a group.
func (s *AuthService) RemoveRoleFromGroup(ctx context.Context, groupID string, roleID string) error {
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if err := s.groups.RemoveRole(ctx, groupID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	binding := entities.RoleBinding{Subject: groupID, Role: roleID, Domain: authorization.DomainFor(group.TenantID)}
	if err := s.store.RemoveRoleBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to remove role binding: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------- accounts

// CreateAccount registers an account within a tenant; an empty tenantID
// creates a tenant-less account.
func (s *AuthService) CreateAccount(ctx context.Context, tenantID string, username string, email string) (*entities.Account, error) {
	account, err := entities.NewAccount(tenantID, username, email)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("account created",
		zap.String("id", account.ID),
		zap.String("username", account.Username),
		zap.String("tenant_id", account.TenantID),
	)
	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *AuthService) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	return s.accounts.Get(ctx, id)
}

// ListAccounts retrieves accounts; an empty tenantID lists every account.
func (s *AuthService) ListAccounts(ctx context.Context, tenantID string) ([]*entities.Account, error) {
	return s.accounts.List(ctx, tenantID)
}

// DeleteAccount removes an account, its relationship rows, and every policy
// rule referencing it.
func (s *AuthService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := s.store.PurgeAccount(ctx, id); err != nil {
		return fmt.Errorf("failed to purge account policies: %w", err)
	}
	s.logger.Info("account deleted", zap.String("id", id))
	return nil
}

// ListAccountRoles retrieves the roles directly assigned to an account.
func (s *AuthService) ListAccountRoles(ctx context.Context, accountID string) ([]*entities.Role, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.accounts.ListRoles(ctx, accountID)
}

// ListAccountGroups retrieves the groups an account belongs to.
func (s *AuthService) ListAccountGroups(ctx context.Context, accountID string) ([]*entities.Group, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	return s.accounts.ListGroups(ctx, accountID)
}

// AssignRoleToAccount links a role directly to an account. The binding lives
// in the account's domain, so a cross-tenant role is still neutralized at
// evaluation time.
func (s *AuthService) AssignRoleToAccount(ctx context.Context, accountID string, roleID string) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	role, err := s.roles.Get(ctx, roleID)
	if err != nil {
		return err
	}
	s.checkTenantMatch(ctx, accountID, account.TenantID, role.TenantID, "assign_role_to_account", roleID)

	if err := s.accounts.AssignRole(ctx, accountID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	binding := entities.RoleBinding{Subject: accountID, Role: roleID, Domain: authorization.DomainFor(account.TenantID)}
	if err := s.store.AddRoleBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to add role binding: %w", err)
	}
	s.logger.Info("role assigned to account", zap.String("account_id", accountID), zap.String("role_id", roleID))
	return nil
}

// RemoveRoleFromAccount unlinks a role from an account.
func (s *AuthService) RemoveRoleFromAccount(ctx context.Context, accountID string, roleID string) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accounts.RemoveRole(ctx, accountID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}
	binding := entities.RoleBinding{Subject: accountID, Role: roleID, Domain: authorization.DomainFor(account.TenantID)}
	if err := s.store.RemoveRoleBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to remove role binding: %w", err)
	}
	return nil
}

// AssignAccountToGroup places an account in a group.
func (s *AuthService) AssignAccountToGroup(ctx context.Context, accountID string, groupID string) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	group, err := s.groups.Get(ctx, groupID)
	if err != nil {
		return err
	}
	s.checkTenantMatch(ctx, accountID, account.TenantID, group.TenantID, "assign_account_to_group", groupID)

	if err := s.accounts.AssignGroup(ctx, accountID, groupID); err != nil {
		return fmt.Errorf("failed to assign group: %w", err)
	}
	binding := entities.GroupBinding{Account: accountID, Group: groupID, Domain: authorization.DomainFor(account.TenantID)}
	if err := s.store.AddGroupBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to add group binding: %w", err)
	}
	s.logger.Info("account added to group", zap.String("account_id", accountID), zap.String("group_id", groupID))
	return nil
}

// RemoveAccountFromGroup removes an account from a group.
func (s *AuthService) RemoveAccountFromGroup(ctx context.Context, accountID string, groupID string) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if err := s.accounts.RemoveGroup(ctx, accountID, groupID); err != nil {
		return fmt.Errorf("failed to remove group: %w", err)
	}
	binding := entities.GroupBinding{Account: accountID, Group: groupID, Domain: authorization.DomainFor(account.TenantID)}
	if err := s.store.RemoveGroupBinding(ctx, binding); err != nil {
		return fmt.Errorf("failed to remove group binding: %w", err)
	}
	return nil
}

// checkTenantMatch audits assignments that cross tenant boundaries. The
// assignment itself proceeds: domain visibility at evaluation time already
// keeps a foreign-tenant role from granting anything, and rejecting here
// would break legitimate global-entity assignments.
func (s *AuthService) checkTenantMatch(ctx context.Context, granteeID string, granteeTenant string, grantedTenant string, operation string, grantedID string) {
	if grantedTenant == "" || grantedTenant == granteeTenant {
		return
	}
	s.logger.Warn("cross-tenant assignment",
		zap.String("operation", operation),
		zap.String("grantee_id", granteeID),
		zap.String("grantee_tenant", granteeTenant),
		zap.String("granted_id", grantedID),
		zap.String("granted_tenant", grantedTenant),
	)
	entry := entities.NewAuditEntry(granteeID, operation, grantedID, false,
		fmt.Sprintf("cross-tenant assignment: grantee tenant %q, granted tenant %q", granteeTenant, grantedTenant))
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error("failed to record audit entry", zap.Error(err))
	}
}

// --------------------------------------------------------------- resources

// CreateResource registers a controlled resource.
func (s *AuthService) CreateResource(ctx context.Context, resourceType string, name string, tenantID string, ownerID string, metadata map[string]string) (*entities.Resource, error) {
	resource, err := entities.NewResource(resourceType, name, tenantID, ownerID, metadata)
	if err != nil {
		return nil, err
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	s.logger.Info("resource created",
		zap.String("id", resource.ID),
		zap.String("type", resource.Type),
		zap.String("tenant_id", resource.TenantID),
	)
	return resource, nil
}

// GetResource retrieves a resource by ID.
func (s *AuthService) GetResource(ctx context.Context, id string) (*entities.Resource, error) {
	return s.resources.Get(ctx, id)
}

// ListResources retrieves resources matching the filter.
func (s *AuthService) ListResources(ctx context.Context, filter *repositories.ResourceFilter) ([]*entities.Resource, error) {
	return s.resources.List(ctx, filter)
}

// DeleteResource removes a resource record. Grants are written against
// object patterns, not resource IDs, so no policy rules are touched.
func (s *AuthService) DeleteResource(ctx context.Context, id string) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	s.logger.Info("resource deleted", zap.String("id", id))
	return nil
}

// ------------------------------------------------------------ enforcement

// CheckAccess evaluates an access check and records the outcome.
func (s *AuthService) CheckAccess(ctx context.Context, req *authorization.CheckRequest) (*authorization.CheckResponse, error) {
	resp, err := s.enforcer.Check(ctx, req)
	if err != nil {
		return resp, err
	}

	outcome := "denied"
	if resp.Allowed {
		outcome = "allowed"
	}
	if s.decisions != nil {
		s.decisions.RecordDecision(outcome)
	}
	entry := entities.NewAuditEntry(req.AccountID, req.Action, req.Resource, resp.Allowed, outcome)
	if auditErr := s.audit.Record(ctx, entry); auditErr != nil {
		s.logger.Error("failed to record audit entry", zap.Error(auditErr))
	}
	return resp, nil
}

// ListAuditEntries retrieves recent audit entries, newest first.
func (s *AuthService) ListAuditEntries(ctx context.Context, accountID string, limit int) ([]*entities.AuditEntry, error) {
	return s.audit.List(ctx, accountID, limit)
}

// ---------------------------------------------------------- reconciliation

// Reconcile rebuilds the policy rule set from the entity relationship graph
// and atomically replaces the stored tuples. It repairs drift from crashes
// between an entity commit and its policy mutation, or from external edits
// to the policy table. Returns the number of rules written.
func (s *AuthService) Reconcile(ctx context.Context) (int, error) {
	var tuples []entities.PolicyTuple

	roles, err := s.roles.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, role := range roles {
		perms, err := s.roles.ListPermissions(ctx, role.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to list permissions for role %s: %w", role.ID, err)
		}
		for _, perm := range perms {
			tuples = append(tuples, s.grantFor(role, perm).Tuple())
		}
	}

	groups, err := s.groups.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list groups: %w", err)
	}
	for _, group := range groups {
		groupRoles, err := s.groups.ListRoles(ctx, group.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to list roles for group %s: %w", group.ID, err)
		}
		domain := authorization.DomainFor(group.TenantID)
		for _, role := range groupRoles {
			tuples = append(tuples, entities.RoleBinding{Subject: group.ID, Role: role.ID, Domain: domain}.Tuple())
		}
	}

	accounts, err := s.accounts.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, account := range accounts {
		domain := authorization.DomainFor(account.TenantID)
		accountRoles, err := s.accounts.ListRoles(ctx, account.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to list roles for account %s: %w", account.ID, err)
		}
		for _, role := range accountRoles {
			tuples = append(tuples, entities.RoleBinding{Subject: account.ID, Role: role.ID, Domain: domain}.Tuple())
		}
		accountGroups, err := s.accounts.ListGroups(ctx, account.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to list groups for account %s: %w", account.ID, err)
		}
		for _, group := range accountGroups {
			tuples = append(tuples, entities.GroupBinding{Account: account.ID, Group: group.ID, Domain: domain}.Tuple())
		}
	}

	if err := s.store.ReplaceAll(ctx, tuples); err != nil {
		return 0, fmt.Errorf("failed to replace policy rules: %w", err)
	}
	s.logger.Info("policy rules reconciled", zap.Int("rules", len(tuples)))
	return len(tuples), nil
}
