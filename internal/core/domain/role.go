package domain

// Role is the coarse-grained category of an account. Every account has
// exactly one role, and the role alone determines its base permission set.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
	RoleGuest    Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleClient, RoleGuest:
		return true
	}
	return false
}

// rolePermissions lists the base permission kinds per role. Admin is absent
// on purpose: it receives the entire catalog.
var rolePermissions = map[Role][]PermissionKind{
	RoleEmployee: {
		PermViewAccount,
		PermEditMyDetails,
		PermUpdateMyPassword,
		PermCreateUser,
		PermCreateClient,
		PermEditClient,
		PermViewClient,
		PermViewClients,
		PermAssignClient,
		PermCreateInvestment,
		PermEditInvestment,
	},
	RoleClient: {
		PermViewAccount,
		PermEditMyDetails,
		PermUpdateMyPassword,
		PermCreateUser,
		PermViewInvestment,
	},
	RoleGuest: {
		PermViewAccount,
		PermEditMyDetails,
		PermUpdateMyPassword,
		PermCreateUser,
		PermRequestClientAccount,
	},
}

// BasePermissions returns the base permission set for a role, restricted to
// kinds present in the catalog. Kinds missing from the catalog are skipped
// rather than failing, so an incompletely seeded catalog degrades instead of
// breaking role assignment. Unknown roles yield an empty set.
func BasePermissions(role Role, catalog Catalog) PermissionSet {
	if role == RoleAdmin {
		return NewPermissionSet(catalog.Kinds()...)
	}

	kinds, ok := rolePermissions[role]
	if !ok {
		return NewPermissionSet()
	}

	set := make(PermissionSet, len(kinds))
	for _, k := range kinds {
		if catalog.Contains(k) {
			set[k] = struct{}{}
		}
	}
	return set
}
