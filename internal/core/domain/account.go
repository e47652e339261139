package domain

import (
	"fmt"
	"time"
)

// Specialization tags the at-most-one profile attached to an account. An
// account is plain, an employee, or a client, never both profiles at once.
type Specialization string

const (
	SpecNone     Specialization = ""
	SpecEmployee Specialization = "employee"
	SpecClient   Specialization = "client"
)

// Account models a user of the back office.
type Account struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	PasswordHash   string         `json:"-"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Role           Role           `json:"role"`
	Permissions    PermissionSet  `json:"permissions"`
	Specialization Specialization `json:"specialization,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// HasPermission reports whether the account's materialized set contains kind.
// The admin override lives in the evaluator, not here.
func (a *Account) HasPermission(kind PermissionKind) bool {
	return a.Permissions.Has(kind)
}

// Specialize records that a profile of the given kind is attached to the
// account. An account holds at most one profile, so attaching to an already
// specialized account fails, even for the same kind: a second profile would
// be a duplicate, not a repeat.
func (a *Account) Specialize(spec Specialization) error {
	if a.Specialization != SpecNone {
		return fmt.Errorf("%w: account is already specialized as %s", ErrValidation, a.Specialization)
	}
	a.Specialization = spec
	return nil
}

// Employee is the specialization profile for firm staff. NumericID is the
// storage-allocated sequence number; BusinessID is derived from it and the
// location tag (e.g. "NYC7").
type Employee struct {
	NumericID  int64     `json:"numeric_id"`
	BusinessID string    `json:"employee_id"`
	AccountID  string    `json:"account_id"`
	Location   string    `json:"location"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmployeeBusinessID derives an employee's business id from its location tag
// and sequence number, e.g. "NYC7".
func EmployeeBusinessID(location string, numericID int64) string {
	return fmt.Sprintf("%s%d", location, numericID)
}

// HomebaseTag is the sentinel location used for clients with no assigned
// employee.
const HomebaseTag = "HOMEBASE"

// ClientBusinessID derives a client's business id from a location tag and
// sequence number, e.g. "NYC-12" or "HOMEBASE-3".
func ClientBusinessID(locationTag string, numericID int64) string {
	return fmt.Sprintf("%s-%d", locationTag, numericID)
}

// Client is the specialization profile for firm clients. BusinessID is
// derived from the assigned employee's location and the numeric id
// (e.g. "NYC-12"), or from HomebaseTag when unassigned.
type Client struct {
	NumericID          int64     `json:"numeric_id"`
	BusinessID         string    `json:"client_id"`
	AccountID          string    `json:"account_id"`
	AssignedEmployeeID string    `json:"assigned_employee_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
