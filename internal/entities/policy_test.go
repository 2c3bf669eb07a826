package entities

import "testing"

func TestGrantTupleRoundTrip(t *testing.T) {
	grant := Grant{Subject: "role1", Domain: "t1", Object: "doc", Action: "read"}
	tuple := grant.Tuple()

	if tuple.Ptype != RuleGrant {
		t.Fatalf("Tuple() ptype = %q, want %q", tuple.Ptype, RuleGrant)
	}

	got, err := GrantFromTuple(tuple)
	if err != nil {
		t.Fatalf("GrantFromTuple() error = %v", err)
	}
	if got != grant {
		t.Errorf("GrantFromTuple() = %+v, want %+v", got, grant)
	}
}

func TestRoleBindingTupleRoundTrip(t *testing.T) {
	binding := RoleBinding{Subject: "acct1", Role: "role1", Domain: "t1"}
	got, err := RoleBindingFromTuple(binding.Tuple())
	if err != nil {
		t.Fatalf("RoleBindingFromTuple() error = %v", err)
	}
	if got != binding {
		t.Errorf("RoleBindingFromTuple() = %+v, want %+v", got, binding)
	}
}

func TestGroupBindingTupleRoundTrip(t *testing.T) {
	binding := GroupBinding{Account: "acct1", Group: "grp1", Domain: "t1"}
	got, err := GroupBindingFromTuple(binding.Tuple())
	if err != nil {
		t.Fatalf("GroupBindingFromTuple() error = %v", err)
	}
	if got != binding {
		t.Errorf("GroupBindingFromTuple() = %+v, want %+v", got, binding)
	}
}

func TestTupleDecodeWrongPtype(t *testing.T) {
	tuple := Grant{Subject: "s", Domain: "d", Object: "o", Action: "a"}.Tuple()

	if _, err := RoleBindingFromTuple(tuple); err == nil {
		t.Error("RoleBindingFromTuple() should reject a P tuple")
	}
	if _, err := GroupBindingFromTuple(tuple); err == nil {
		t.Error("GroupBindingFromTuple() should reject a P tuple")
	}
	if _, err := GrantFromTuple(RoleBinding{}.Tuple()); err == nil {
		t.Error("GrantFromTuple() should reject a G tuple")
	}
}
