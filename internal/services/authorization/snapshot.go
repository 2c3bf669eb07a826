package authorization

import "github.com/authone/authone/internal/entities"

// Snapshot is an immutable, indexed view of the full policy rule set. A
// snapshot is built once by the store's write coordinator and then only
// read; checks that started against one snapshot keep using it even while
// a newer one is being swapped in.
type Snapshot struct {
	revision uint64

	grantsBySubject map[string][]entities.Grant       // P rules keyed by subject
	roleBindings    map[string][]entities.RoleBinding // G rules keyed by subject (account or group)
	groupBindings   map[string][]entities.GroupBinding // G2 rules keyed by account
}

// NewSnapshot indexes the given tuples under the given revision. Tuples
// with an unknown ptype are ignored: the policy table may be shared with
// external tooling that stores additional rule kinds.
func NewSnapshot(revision uint64, tuples []entities.PolicyTuple) *Snapshot {
	snap := &Snapshot{
		revision:        revision,
		grantsBySubject: make(map[string][]entities.Grant),
		roleBindings:    make(map[string][]entities.RoleBinding),
		groupBindings:   make(map[string][]entities.GroupBinding),
	}

	for _, tuple := range tuples {
		switch tuple.Ptype {
		case entities.RuleGrant:
			grant, err := entities.GrantFromTuple(tuple)
			if err != nil {
				continue
			}
			snap.grantsBySubject[grant.Subject] = append(snap.grantsBySubject[grant.Subject], grant)
		case entities.RuleRoleBinding:
			binding, err := entities.RoleBindingFromTuple(tuple)
			if err != nil {
				continue
			}
			snap.roleBindings[binding.Subject] = append(snap.roleBindings[binding.Subject], binding)
		case entities.RuleGroupBinding:
			binding, err := entities.GroupBindingFromTuple(tuple)
			if err != nil {
				continue
			}
			snap.groupBindings[binding.Account] = append(snap.groupBindings[binding.Account], binding)
		}
	}

	return snap
}

// Revision returns the monotonically increasing revision of this snapshot.
// It keys cached check results: a new revision invalidates them all.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}

// GrantsFor returns the P rules whose subject is the given ID.
func (s *Snapshot) GrantsFor(subject string) []entities.Grant {
	return s.grantsBySubject[subject]
}

// RolesFor returns the role IDs bound to the subject through G rules
// visible in the given domain.
func (s *Snapshot) RolesFor(subject string, domain string) []string {
	bindings := s.roleBindings[subject]
	if len(bindings) == 0 {
		return nil
	}
	roles := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		if DomainVisible(binding.Domain, domain) {
			roles = append(roles, binding.Role)
		}
	}
	return roles
}

// GroupsFor returns the group IDs the account belongs to through G2 rules
// visible in the given domain.
func (s *Snapshot) GroupsFor(account string, domain string) []string {
	bindings := s.groupBindings[account]
	if len(bindings) == 0 {
		return nil
	}
	groups := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		if DomainVisible(binding.Domain, domain) {
			groups = append(groups, binding.Group)
		}
	}
	return groups
}
