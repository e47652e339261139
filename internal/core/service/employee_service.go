package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// EmployeeService manages employee specialization profiles.
type EmployeeService struct {
	employees ports.EmployeeRepository
	accounts  ports.AccountRepository
	lifecycle *AccountService
	tx        ports.TxRunner
	log       zerolog.Logger
}

// NewEmployeeService builds an EmployeeService.
func NewEmployeeService(
	employees ports.EmployeeRepository,
	accounts ports.AccountRepository,
	lifecycle *AccountService,
	tx ports.TxRunner,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		accounts:  accounts,
		lifecycle: lifecycle,
		tx:        tx,
		log:       log,
	}
}

// Create attaches an employee profile to the account and assigns it the
// employee role. The profile insert, the role change, and the permission
// replacement commit together.
func (s *EmployeeService) Create(ctx context.Context, input ports.CreateEmployeeInput) (*domain.Employee, error) {
	if input.Location == "" {
		return nil, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}

	var created *domain.Employee
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, input.AccountID)
		if err != nil {
			return err
		}
		if err := account.Specialize(domain.SpecEmployee); err != nil {
			return err
		}
		// The profile row is checked as well: the account flag and the
		// employees collection must agree that none exists yet.
		if _, err := s.employees.FindByAccountID(ctx, input.AccountID); err == nil {
			return fmt.Errorf("%w: account already has an employee profile", domain.ErrValidation)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		s.lifecycle.AssignRole(account, domain.RoleEmployee)
		if err := s.accounts.Update(ctx, account); err != nil {
			return err
		}

		numericID, err := s.employees.NextID(ctx)
		if err != nil {
			return err
		}
		employee := &domain.Employee{
			NumericID:  numericID,
			BusinessID: domain.EmployeeBusinessID(input.Location, numericID),
			AccountID:  account.ID,
			Location:   input.Location,
			Title:      input.Title,
		}
		created, err = s.employees.Create(ctx, employee)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("employee_id", created.BusinessID).Str("account_id", created.AccountID).Msg("employee created")
	return created, nil
}

// GetByBusinessID returns the employee with the given business id.
func (s *EmployeeService) GetByBusinessID(ctx context.Context, businessID string) (*domain.Employee, error) {
	return s.employees.FindByBusinessID(ctx, businessID)
}

// List returns all employees.
func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	return s.employees.List(ctx)
}

// Update applies the non-nil fields of patch to the employee profile. The
// business id keeps its original location tag; it is an identifier, not a
// description of the current location.
func (s *EmployeeService) Update(ctx context.Context, businessID string, patch ports.EmployeePatch) (*domain.Employee, error) {
	employee, err := s.employees.FindByBusinessID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if patch.Location != nil {
		employee.Location = *patch.Location
	}
	if patch.Title != nil {
		employee.Title = *patch.Title
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}
