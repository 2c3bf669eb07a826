package authorization

import (
	"context"
	"errors"
	"testing"

	"github.com/authone/authone/internal/entities"
	"github.com/authone/authone/internal/repositories/memory"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(memory.NewStore().Policies(), nil)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func TestStore_SnapshotBeforeLoad(t *testing.T) {
	store := NewStore(memory.NewStore().Policies(), nil)
	if _, err := store.Snapshot(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Snapshot before Load returned %v, want ErrUnavailable", err)
	}
}

func TestStore_MutationsBumpRevision(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	initial := snap.Revision()

	grant := entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "read"}
	if err := store.AddGrant(ctx, grant); err != nil {
		t.Fatalf("AddGrant failed: %v", err)
	}

	snap, err = store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Revision() != initial+1 {
		t.Errorf("revision after AddGrant = %d, want %d", snap.Revision(), initial+1)
	}
	if got := len(snap.GrantsFor("role-1")); got != 1 {
		t.Errorf("GrantsFor(role-1) returned %d grants, want 1", got)
	}

	if err := store.RemoveGrant(ctx, grant); err != nil {
		t.Fatalf("RemoveGrant failed: %v", err)
	}
	snap, _ = store.Snapshot()
	if got := len(snap.GrantsFor("role-1")); got != 0 {
		t.Errorf("GrantsFor(role-1) after remove returned %d grants, want 0", got)
	}
}

func TestStore_AddGrantIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	grant := entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "read"}
	for i := 0; i < 3; i++ {
		if err := store.AddGrant(ctx, grant); err != nil {
			t.Fatalf("AddGrant #%d failed: %v", i+1, err)
		}
	}

	snap, _ := store.Snapshot()
	if got := len(snap.GrantsFor("role-1")); got != 1 {
		t.Errorf("repeated AddGrant stored %d grants, want 1", got)
	}
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	grant := entities.Grant{Subject: "role-x", Domain: "tenant-a", Object: "/x", Action: "read"}
	if err := store.RemoveGrant(ctx, grant); err != nil {
		t.Errorf("RemoveGrant of absent rule returned %v, want nil", err)
	}
	binding := entities.RoleBinding{Subject: "acct-x", Role: "role-x", Domain: "tenant-a"}
	if err := store.RemoveRoleBinding(ctx, binding); err != nil {
		t.Errorf("RemoveRoleBinding of absent rule returned %v, want nil", err)
	}
}

func TestStore_PurgeRole(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mustApply := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("mutation failed: %v", err)
		}
	}
	mustApply(store.AddGrant(ctx, entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "read"}))
	mustApply(store.AddGrant(ctx, entities.Grant{Subject: "role-2", Domain: "tenant-a", Object: "/files/*", Action: "read"}))
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "acct-1", Role: "role-1", Domain: "tenant-a"}))
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "acct-1", Role: "role-2", Domain: "tenant-a"}))
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "group-1", Role: "role-1", Domain: "tenant-a"}))

	mustApply(store.PurgeRole(ctx, "role-1"))

	snap, _ := store.Snapshot()
	if got := len(snap.GrantsFor("role-1")); got != 0 {
		t.Errorf("grants for purged role remain: %d", got)
	}
	if got := len(snap.GrantsFor("role-2")); got != 1 {
		t.Errorf("grants for surviving role = %d, want 1", got)
	}
	if roles := snap.RolesFor("acct-1", "tenant-a"); len(roles) != 1 || roles[0] != "role-2" {
		t.Errorf("RolesFor(acct-1) after purge = %v, want [role-2]", roles)
	}
	if roles := snap.RolesFor("group-1", "tenant-a"); len(roles) != 0 {
		t.Errorf("RolesFor(group-1) after purge = %v, want none", roles)
	}
}

func TestStore_PurgeGroup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mustApply := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("mutation failed: %v", err)
		}
	}
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "group-1", Role: "role-1", Domain: "tenant-a"}))
	mustApply(store.AddGroupBinding(ctx, entities.GroupBinding{Account: "acct-1", Group: "group-1", Domain: "tenant-a"}))
	mustApply(store.AddGroupBinding(ctx, entities.GroupBinding{Account: "acct-1", Group: "group-2", Domain: "tenant-a"}))

	mustApply(store.PurgeGroup(ctx, "group-1"))

	snap, _ := store.Snapshot()
	if roles := snap.RolesFor("group-1", "tenant-a"); len(roles) != 0 {
		t.Errorf("role bindings for purged group remain: %v", roles)
	}
	if groups := snap.GroupsFor("acct-1", "tenant-a"); len(groups) != 1 || groups[0] != "group-2" {
		t.Errorf("GroupsFor(acct-1) after purge = %v, want [group-2]", groups)
	}
}

func TestStore_PurgeAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mustApply := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("mutation failed: %v", err)
		}
	}
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "acct-1", Role: "role-1", Domain: "tenant-a"}))
	mustApply(store.AddGroupBinding(ctx, entities.GroupBinding{Account: "acct-1", Group: "group-1", Domain: "tenant-a"}))
	mustApply(store.AddRoleBinding(ctx, entities.RoleBinding{Subject: "acct-2", Role: "role-1", Domain: "tenant-a"}))

	mustApply(store.PurgeAccount(ctx, "acct-1"))

	snap, _ := store.Snapshot()
	if roles := snap.RolesFor("acct-1", "tenant-a"); len(roles) != 0 {
		t.Errorf("role bindings for purged account remain: %v", roles)
	}
	if groups := snap.GroupsFor("acct-1", "tenant-a"); len(groups) != 0 {
		t.Errorf("group bindings for purged account remain: %v", groups)
	}
	if roles := snap.RolesFor("acct-2", "tenant-a"); len(roles) != 1 {
		t.Errorf("role bindings for other account affected: %v", roles)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.AddGrant(ctx, entities.Grant{Subject: "role-old", Domain: "tenant-a", Object: "/old", Action: "read"}); err != nil {
		t.Fatalf("AddGrant failed: %v", err)
	}

	rebuilt := []entities.PolicyTuple{
		entities.Grant{Subject: "role-new", Domain: "tenant-a", Object: "/new", Action: "read"}.Tuple(),
		entities.RoleBinding{Subject: "acct-1", Role: "role-new", Domain: "tenant-a"}.Tuple(),
	}
	if err := store.ReplaceAll(ctx, rebuilt); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	snap, _ := store.Snapshot()
	if got := len(snap.GrantsFor("role-old")); got != 0 {
		t.Errorf("old grants survived ReplaceAll: %d", got)
	}
	if got := len(snap.GrantsFor("role-new")); got != 1 {
		t.Errorf("GrantsFor(role-new) = %d, want 1", got)
	}
	if roles := snap.RolesFor("acct-1", "tenant-a"); len(roles) != 1 {
		t.Errorf("RolesFor(acct-1) = %v, want [role-new]", roles)
	}
}

func TestStore_OldSnapshotStaysConsistent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.AddGrant(ctx, entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "read"}); err != nil {
		t.Fatalf("AddGrant failed: %v", err)
	}
	before, _ := store.Snapshot()

	if err := store.AddGrant(ctx, entities.Grant{Subject: "role-1", Domain: "tenant-a", Object: "/docs/*", Action: "write"}); err != nil {
		t.Fatalf("AddGrant failed: %v", err)
	}

	// A snapshot captured before the write must not observe it.
	if got := len(before.GrantsFor("role-1")); got != 1 {
		t.Errorf("captured snapshot changed: %d grants, want 1", got)
	}
	after, _ := store.Snapshot()
	if got := len(after.GrantsFor("role-1")); got != 2 {
		t.Errorf("current snapshot = %d grants, want 2", got)
	}
}
