package authorization

import (
	"testing"

	"github.com/authone/authone/internal/entities"
)

func TestNewSnapshot_Indexing(t *testing.T) {
	tuples := []entities.PolicyTuple{
		entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "read"}.Tuple(),
		entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "write"}.Tuple(),
		entities.RoleBinding{Subject: "acct-1", Role: "role-1", Domain: "tenant-a"}.Tuple(),
		entities.GroupBinding{Account: "acct-1", Group: "group-1", Domain: "tenant-a"}.Tuple(),
		{Ptype: "P5", V0: "x", V1: "y"}, // unknown ptype, ignored
	}

	snap := NewSnapshot(7, tuples)

	if snap.Revision() != 7 {
		t.Errorf("Revision() = %d, want 7", snap.Revision())
	}
	if got := len(snap.GrantsFor("role-1")); got != 2 {
		t.Errorf("GrantsFor(role-1) returned %d grants, want 2", got)
	}
	if got := len(snap.GrantsFor("role-2")); got != 0 {
		t.Errorf("GrantsFor(role-2) returned %d grants, want 0", got)
	}
	if got := snap.RolesFor("acct-1", "tenant-a"); len(got) != 1 || got[0] != "role-1" {
		t.Errorf("RolesFor(acct-1, tenant-a) = %v, want [role-1]", got)
	}
	if got := snap.GroupsFor("acct-1", "tenant-a"); len(got) != 1 || got[0] != "group-1" {
		t.Errorf("GroupsFor(acct-1, tenant-a) = %v, want [group-1]", got)
	}
}

func TestSnapshot_DomainFiltering(t *testing.T) {
	tuples := []entities.PolicyTuple{
		entities.RoleBinding{Subject: "acct-1", Role: "role-a", Domain: "tenant-a"}.Tuple(),
		entities.RoleBinding{Subject: "acct-1", Role: "role-b", Domain: "tenant-b"}.Tuple(),
		entities.RoleBinding{Subject: "acct-1", Role: "role-g", Domain: GlobalDomain}.Tuple(),
		entities.GroupBinding{Account: "acct-1", Group: "group-b", Domain: "tenant-b"}.Tuple(),
	}
	snap := NewSnapshot(1, tuples)

	roles := snap.RolesFor("acct-1", "tenant-a")
	if len(roles) != 2 {
		t.Fatalf("RolesFor in tenant-a = %v, want the tenant-a and global roles", roles)
	}
	seen := map[string]bool{}
	for _, role := range roles {
		seen[role] = true
	}
	if !seen["role-a"] || !seen["role-g"] {
		t.Errorf("RolesFor in tenant-a = %v, want role-a and role-g", roles)
	}

	if groups := snap.GroupsFor("acct-1", "tenant-a"); len(groups) != 0 {
		t.Errorf("GroupsFor in tenant-a = %v, want none", groups)
	}
	if groups := snap.GroupsFor("acct-1", "tenant-b"); len(groups) != 1 {
		t.Errorf("GroupsFor in tenant-b = %v, want [group-b]", groups)
	}
}
