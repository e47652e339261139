package ports

import (
	"context"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

// CreateAccountInput carries all data needed to create an account. Role
// defaults to guest when empty. Password is optional; when present it is
// hashed before storage.
type CreateAccountInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// AccountPatch carries partial updates for an account. Nil fields are left
// untouched. A role change recomputes the permission set in full.
type AccountPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *domain.Role
}

// AccountService manages the account lifecycle: creation, profile updates,
// role changes, password management, and deletion.
type AccountService interface {
	Create(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context, role *domain.Role) ([]*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, patch AccountPatch) (*domain.Account, error)
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error)
	UpdateOwnPassword(ctx context.Context, id, current, next, confirmation string) error
	ResetPassword(ctx context.Context, id, next string) error
	Delete(ctx context.Context, id string) error
}

// RegisterInput carries self-service registration data. The resulting
// account always gets the guest role.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned after a successful register or login.
type AuthResult struct {
	Token       string
	Account     *domain.Account
	Permissions []domain.PermissionKind
}

// AuthService implements registration, login, and logout.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Logout revokes the session token identified by tokenID until it
	// would have expired anyway.
	Logout(ctx context.Context, tokenID string) error
}

// CreateEmployeeInput creates an employee profile for an existing account,
// assigning it the employee role.
type CreateEmployeeInput struct {
	AccountID string
	Location  string
	Title     string
}

// EmployeePatch carries partial updates for an employee profile.
type EmployeePatch struct {
	Location *string
	Title    *string
}

// EmployeeService manages employee specialization profiles.
type EmployeeService interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*domain.Employee, error)
	GetByBusinessID(ctx context.Context, businessID string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, businessID string, patch EmployeePatch) (*domain.Employee, error)
}

// CreateClientInput creates a client profile for an existing account,
// assigning it the client role. AssignedEmployeeID is the employee business
// id; when empty or unresolvable the fallback assignment policy applies.
type CreateClientInput struct {
	AccountID          string
	AssignedEmployeeID string
}

// ClientService manages client specialization profiles and their assignment
// to employees.
type ClientService interface {
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	GetByBusinessID(ctx context.Context, businessID string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	ListByEmployee(ctx context.Context, employeeBusinessID string) ([]*domain.Client, error)
	AssignToEmployee(ctx context.Context, clientBusinessID, employeeBusinessID string) (*domain.Client, error)
}

// UpgradeService runs the guest-to-client upgrade workflow.
type UpgradeService interface {
	Submit(ctx context.Context, accountID, details string) (*domain.UpgradeRequest, error)
	// Approve creates the client profile for the request's account and
	// marks the request approved, atomically.
	Approve(ctx context.Context, requestID string, draft CreateClientInput) (*domain.Client, error)
	Reject(ctx context.Context, requestID, reason string) error
	PendingRequests(ctx context.Context) ([]*domain.UpgradeRequest, error)
	RequestsByStatus(ctx context.Context, status domain.UpgradeStatus) ([]*domain.UpgradeRequest, error)
	RequestsByAccount(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error)
}
