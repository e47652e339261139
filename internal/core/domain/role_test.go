package domain

import "testing"

func fullCatalog() Catalog {
	perms := make([]Permission, 0, len(AllPermissionKinds()))
	for _, k := range AllPermissionKinds() {
		perms = append(perms, Permission{Kind: k, Description: k.Description()})
	}
	return NewCatalog(perms)
}

func TestBasePermissions_AdminGetsFullCatalog(t *testing.T) {
	catalog := fullCatalog()
	set := BasePermissions(RoleAdmin, catalog)

	if len(set) != catalog.Len() {
		t.Fatalf("expected %d permissions, got %d", catalog.Len(), len(set))
	}
	for _, k := range AllPermissionKinds() {
		if !set.Has(k) {
			t.Fatalf("admin set missing %s", k)
		}
	}
}

func TestBasePermissions_Deterministic(t *testing.T) {
	catalog := fullCatalog()
	for _, role := range []Role{RoleAdmin, RoleEmployee, RoleClient, RoleGuest} {
		first := BasePermissions(role, catalog)
		second := BasePermissions(role, catalog)
		if !first.Equal(second) {
			t.Fatalf("base set for %s is not deterministic", role)
		}
	}
}

func TestBasePermissions_GuestSubset(t *testing.T) {
	set := BasePermissions(RoleGuest, fullCatalog())

	for _, k := range []PermissionKind{PermViewAccount, PermEditMyDetails, PermRequestClientAccount} {
		if !set.Has(k) {
			t.Fatalf("guest set missing %s", k)
		}
	}
	for _, k := range []PermissionKind{PermViewAccounts, PermDeleteUser, PermCreateClient, PermAssignClient} {
		if set.Has(k) {
			t.Fatalf("guest set must not contain %s", k)
		}
	}
}

func TestBasePermissions_SkipsKindsMissingFromCatalog(t *testing.T) {
	// A partially seeded catalog restricts the base set instead of failing.
	catalog := NewCatalog([]Permission{
		{Kind: PermViewAccount},
		{Kind: PermEditMyDetails},
	})
	set := BasePermissions(RoleGuest, catalog)

	if !set.Has(PermViewAccount) || !set.Has(PermEditMyDetails) {
		t.Fatalf("expected catalog-backed kinds in set, got %v", set.Kinds())
	}
	if set.Has(PermRequestClientAccount) {
		t.Fatalf("kind missing from catalog must not appear in the base set")
	}
}

func TestBasePermissions_UnknownRoleIsEmpty(t *testing.T) {
	set := BasePermissions(Role("intern"), fullCatalog())
	if len(set) != 0 {
		t.Fatalf("expected empty set for unknown role, got %v", set.Kinds())
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleAdmin, RoleEmployee, RoleClient, RoleGuest} {
		if !role.Valid() {
			t.Fatalf("%s should be valid", role)
		}
	}
	if Role("superuser").Valid() {
		t.Fatalf("unknown role should be invalid")
	}
	if Role("").Valid() {
		t.Fatalf("empty role should be invalid")
	}
}
