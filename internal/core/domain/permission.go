package domain

import (
	"encoding/json"
	"sort"
)

// PermissionKind is the name of a fine-grained capability an account may hold.
type PermissionKind string

const (
	PermViewAccount          PermissionKind = "VIEW_ACCOUNT"
	PermViewAccounts         PermissionKind = "VIEW_ACCOUNTS"
	PermEditMyDetails        PermissionKind = "EDIT_MY_DETAILS"
	PermEditUser             PermissionKind = "EDIT_USER"
	PermCreateUser           PermissionKind = "CREATE_USER"
	PermDeleteUser           PermissionKind = "DELETE_USER"
	PermUpdateMyPassword     PermissionKind = "UPDATE_MY_PASSWORD"
	PermUpdateOtherPassword  PermissionKind = "UPDATE_OTHER_PASSWORD"
	PermCreateClient         PermissionKind = "CREATE_CLIENT"
	PermEditClient           PermissionKind = "EDIT_CLIENT"
	PermViewClient           PermissionKind = "VIEW_CLIENT"
	PermViewClients          PermissionKind = "VIEW_CLIENTS"
	PermAssignClient         PermissionKind = "ASSIGN_CLIENT"
	PermRequestClientAccount PermissionKind = "REQUEST_CLIENT_ACCOUNT"
	PermCreateInvestment     PermissionKind = "CREATE_INVESTMENT"
	PermEditInvestment       PermissionKind = "EDIT_INVESTMENT"
	PermViewInvestment       PermissionKind = "VIEW_INVESTMENT"
)

// permissionDescriptions is the single source of truth for the catalog.
// Investment permissions are reserved names: the features behind them are
// not implemented, but the kinds are seeded so role sets stay stable.
var permissionDescriptions = map[PermissionKind]string{
	PermViewAccount:          "View the details of your own account",
	PermViewAccounts:         "View the accounts of other users",
	PermEditMyDetails:        "Edit the details of your own account",
	PermEditUser:             "Edit the details of any user account",
	PermCreateUser:           "Create a new user account",
	PermDeleteUser:           "Delete a user account",
	PermUpdateMyPassword:     "Update the password of your own account",
	PermUpdateOtherPassword:  "Update the password of another account",
	PermCreateClient:         "Create a new client profile",
	PermEditClient:           "Edit an existing client profile",
	PermViewClient:           "View a single client profile",
	PermViewClients:          "View the list of client profiles",
	PermAssignClient:         "Assign a client to an employee",
	PermRequestClientAccount: "Request an upgrade from guest to client",
	PermCreateInvestment:     "Create a new investment",
	PermEditInvestment:       "Edit an existing investment",
	PermViewInvestment:       "View investments",
}

// AllPermissionKinds returns every known permission kind. The order is fixed
// so catalog seeding is deterministic.
func AllPermissionKinds() []PermissionKind {
	return []PermissionKind{
		PermViewAccount,
		PermViewAccounts,
		PermEditMyDetails,
		PermEditUser,
		PermCreateUser,
		PermDeleteUser,
		PermUpdateMyPassword,
		PermUpdateOtherPassword,
		PermCreateClient,
		PermEditClient,
		PermViewClient,
		PermViewClients,
		PermAssignClient,
		PermRequestClientAccount,
		PermCreateInvestment,
		PermEditInvestment,
		PermViewInvestment,
	}
}

// Description returns the human-readable description for a permission kind.
func (k PermissionKind) Description() string {
	return permissionDescriptions[k]
}

// Permission is a catalog entry: a named capability with its description.
// Entries are immutable once seeded.
type Permission struct {
	Kind        PermissionKind `json:"kind"`
	Description string         `json:"description"`
}

// Catalog is the process-wide set of seeded permissions. It is built once at
// startup and read-only afterwards.
type Catalog struct {
	entries map[PermissionKind]Permission
}

// NewCatalog builds a Catalog from seeded permission records.
func NewCatalog(perms []Permission) Catalog {
	entries := make(map[PermissionKind]Permission, len(perms))
	for _, p := range perms {
		entries[p.Kind] = p
	}
	return Catalog{entries: entries}
}

// Contains reports whether the catalog holds an entry for kind.
func (c Catalog) Contains(kind PermissionKind) bool {
	_, ok := c.entries[kind]
	return ok
}

// Kinds returns the kinds of every catalog entry.
func (c Catalog) Kinds() []PermissionKind {
	kinds := make([]PermissionKind, 0, len(c.entries))
	for k := range c.entries {
		kinds = append(kinds, k)
	}
	return kinds
}

// Len returns the number of catalog entries.
func (c Catalog) Len() int { return len(c.entries) }

// PermissionSet is the materialized set of permissions held by an account,
// stored as kind keys referencing catalog entries.
type PermissionSet map[PermissionKind]struct{}

// NewPermissionSet builds a set from the given kinds.
func NewPermissionSet(kinds ...PermissionKind) PermissionSet {
	set := make(PermissionSet, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return set
}

// Has reports whether the set contains kind.
func (s PermissionSet) Has(kind PermissionKind) bool {
	_, ok := s[kind]
	return ok
}

// Equal reports whether two sets hold exactly the same kinds.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Kinds returns the members of the set.
func (s PermissionSet) Kinds() []PermissionKind {
	kinds := make([]PermissionKind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	return kinds
}

// MarshalJSON renders the set as a sorted array of kind names.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	kinds := s.Kinds()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return json.Marshal(kinds)
}

// UnmarshalJSON rebuilds the set from an array of kind names.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var kinds []PermissionKind
	if err := json.Unmarshal(data, &kinds); err != nil {
		return err
	}
	*s = NewPermissionSet(kinds...)
	return nil
}
