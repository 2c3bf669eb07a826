package entities

import "fmt"

// RuleType identifies the kind of a policy tuple.
type RuleType string

const (
	// RuleGrant is a P rule: (subject, domain, object, action).
	RuleGrant RuleType = "P"
	// RuleRoleBinding is a G rule: (account_or_group, role, domain).
	RuleRoleBinding RuleType = "G"
	// RuleGroupBinding is a G2 rule: (account, group, domain).
	RuleGroupBinding RuleType = "G2"
)

// Field indexes into a policy tuple, used with RemoveFiltered to purge
// every rule referencing an entity at a given position.
const (
	FieldSubject = 0 // P subject / G subject / G2 account
	FieldDomain  = 1 // P domain
	FieldObject  = 2 // P object
	FieldAction  = 3 // P action
	FieldRole    = 1 // G role
	FieldGroup   = 1 // G2 group
)

// PolicyTuple is the persisted form of a policy rule: a ptype discriminator
// plus up to six positional string fields. Unused fields stay empty. The
// store enforces uniqueness over the full tuple, which makes Add idempotent.
type PolicyTuple struct {
	Ptype RuleType
	V0    string
	V1    string
	V2    string
	V3    string
	V4    string
	V5    string
}

// Fields returns the positional values v0..v5.
func (t PolicyTuple) Fields() [6]string {
	return [6]string{t.V0, t.V1, t.V2, t.V3, t.V4, t.V5}
}

// Grant allows a subject (role or account ID) to perform Action on objects
// matching Object within Domain.
type Grant struct {
	Subject string // Role or account ID
	Domain  string // Policy domain (tenant ID or the global domain)
	Object  string // Object pattern the requested resource is matched against
	Action  string // Action name
}

// Tuple converts the grant to its persisted tuple form.
func (g Grant) Tuple() PolicyTuple {
	return PolicyTuple{Ptype: RuleGrant, V0: g.Subject, V1: g.Domain, V2: g.Object, V3: g.Action}
}

// GrantFromTuple decodes a P tuple.
func GrantFromTuple(t PolicyTuple) (Grant, error) {
	if t.Ptype != RuleGrant {
		return Grant{}, fmt.Errorf("tuple is not a grant: ptype %q", t.Ptype)
	}
	return Grant{Subject: t.V0, Domain: t.V1, Object: t.V2, Action: t.V3}, nil
}

// RoleBinding is a membership edge granting a role to a subject, which may
// be an account (direct assignment) or a group (group-level assignment).
type RoleBinding struct {
	Subject string // Account or group ID
	Role    string // Role ID
	Domain  string // Domain the binding is visible in
}

// Tuple converts the binding to its persisted tuple form.
func (b RoleBinding) Tuple() PolicyTuple {
	return PolicyTuple{Ptype: RuleRoleBinding, V0: b.Subject, V1: b.Role, V2: b.Domain}
}

// RoleBindingFromTuple decodes a G tuple.
func RoleBindingFromTuple(t PolicyTuple) (RoleBinding, error) {
	if t.Ptype != RuleRoleBinding {
		return RoleBinding{}, fmt.Errorf("tuple is not a role binding: ptype %q", t.Ptype)
	}
	return RoleBinding{Subject: t.V0, Role: t.V1, Domain: t.V2}, nil
}

// GroupBinding is a membership edge placing an account in a group.
type GroupBinding struct {
	Account string // Account ID
	Group   string // Group ID
	Domain  string // Domain the binding is visible in
}

// Tuple converts the binding to its persisted tuple form.
func (b GroupBinding) Tuple() PolicyTuple {
	return PolicyTuple{Ptype: RuleGroupBinding, V0: b.Account, V1: b.Group, V2: b.Domain}
}

// GroupBindingFromTuple decodes a G2 tuple.
func GroupBindingFromTuple(t PolicyTuple) (GroupBinding, error) {
	if t.Ptype != RuleGroupBinding {
		return GroupBinding{}, fmt.Errorf("tuple is not a group binding: ptype %q", t.Ptype)
	}
	return GroupBinding{Account: t.V0, Group: t.V1, Domain: t.V2}, nil
}
