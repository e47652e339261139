package ports

import (
	"context"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

// AccountRepository defines persistence operations for user accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update persists the account's mutable fields (email, names, hash,
	// role, permission set, specialization).
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id string) error
	// List returns all accounts, optionally filtered by role when role is
	// non-nil.
	List(ctx context.Context, role *domain.Role) ([]*domain.Account, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// PermissionRepository persists the seeded permission catalog.
type PermissionRepository interface {
	ExistsByKind(ctx context.Context, kind domain.PermissionKind) (bool, error)
	Insert(ctx context.Context, perm domain.Permission) error
	FindAll(ctx context.Context) ([]domain.Permission, error)
}

// EmployeeRepository persists employee specialization profiles.
type EmployeeRepository interface {
	// NextID allocates the next employee sequence number. Allocation is
	// not transactional: a rolled-back profile burns its number.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	FindByBusinessID(ctx context.Context, businessID string) (*domain.Employee, error)
	FindByAccountID(ctx context.Context, accountID string) (*domain.Employee, error)
	// FindFallback returns the employee with the lowest numeric id, the
	// default assignee for clients created without one. Returns
	// domain.ErrNotFound when no employee exists.
	FindFallback(ctx context.Context) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, employee *domain.Employee) error
	DeleteByAccountID(ctx context.Context, accountID string) error
}

// ClientRepository persists client specialization profiles.
type ClientRepository interface {
	// NextID allocates the next client sequence number. Allocation is
	// not transactional: a rolled-back profile burns its number.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByBusinessID(ctx context.Context, businessID string) (*domain.Client, error)
	FindByAccountID(ctx context.Context, accountID string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	ListByEmployee(ctx context.Context, employeeBusinessID string) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	DeleteByAccountID(ctx context.Context, accountID string) error
}

// UpgradeRequestRepository persists guest upgrade requests. Requests are
// never deleted; terminal requests are immutable by contract.
type UpgradeRequestRepository interface {
	Create(ctx context.Context, request *domain.UpgradeRequest) (*domain.UpgradeRequest, error)
	FindByID(ctx context.Context, id string) (*domain.UpgradeRequest, error)
	ExistsPendingForAccount(ctx context.Context, accountID string) (bool, error)
	ListByStatus(ctx context.Context, status domain.UpgradeStatus) ([]*domain.UpgradeRequest, error)
	ListByAccount(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error)
	Update(ctx context.Context, request *domain.UpgradeRequest) error
}
