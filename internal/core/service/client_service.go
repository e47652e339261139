package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// ClientService manages client specialization profiles and their assignment
// to employees.
type ClientService struct {
	clients   ports.ClientRepository
	employees ports.EmployeeRepository
	accounts  ports.AccountRepository
	lifecycle *AccountService
	tx        ports.TxRunner
	// fallbackEmployeeID optionally pins the default assignee; when empty
	// the lowest-numbered employee is used.
	fallbackEmployeeID string
	log                zerolog.Logger
}

// NewClientService builds a ClientService. fallbackEmployeeID may be empty.
func NewClientService(
	clients ports.ClientRepository,
	employees ports.EmployeeRepository,
	accounts ports.AccountRepository,
	lifecycle *AccountService,
	tx ports.TxRunner,
	fallbackEmployeeID string,
	log zerolog.Logger,
) *ClientService {
	return &ClientService{
		clients:            clients,
		employees:          employees,
		accounts:           accounts,
		lifecycle:          lifecycle,
		tx:                 tx,
		fallbackEmployeeID: fallbackEmployeeID,
		log:                log,
	}
}

// Create attaches a client profile to the account and assigns it the client
// role. When the requested employee cannot be resolved the fallback
// assignment policy applies; a client with no assignable employee is created
// unassigned under the HOMEBASE tag. All writes commit together.
func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	var created *domain.Client
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, input.AccountID)
		if err != nil {
			return err
		}
		if err := account.Specialize(domain.SpecClient); err != nil {
			return err
		}
		// The profile row is checked as well: the account flag and the
		// clients collection must agree that none exists yet.
		if _, err := s.clients.FindByAccountID(ctx, input.AccountID); err == nil {
			return fmt.Errorf("%w: account already has a client profile", domain.ErrValidation)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		s.lifecycle.AssignRole(account, domain.RoleClient)
		if err := s.accounts.Update(ctx, account); err != nil {
			return err
		}

		employee, err := s.resolveEmployee(ctx, input.AssignedEmployeeID)
		if err != nil {
			return err
		}

		numericID, err := s.clients.NextID(ctx)
		if err != nil {
			return err
		}
		locationTag := domain.HomebaseTag
		client := &domain.Client{NumericID: numericID, AccountID: account.ID}
		if employee != nil {
			client.AssignedEmployeeID = employee.BusinessID
			locationTag = employee.Location
		}
		client.BusinessID = domain.ClientBusinessID(locationTag, numericID)
		created, err = s.clients.Create(ctx, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("client_id", created.BusinessID).
		Str("account_id", created.AccountID).
		Str("assigned_employee", created.AssignedEmployeeID).
		Msg("client created")
	return created, nil
}

// GetByBusinessID returns the client with the given business id.
func (s *ClientService) GetByBusinessID(ctx context.Context, businessID string) (*domain.Client, error) {
	return s.clients.FindByBusinessID(ctx, businessID)
}

// List returns all clients.
func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.List(ctx)
}

// ListByEmployee returns the clients assigned to the given employee.
func (s *ClientService) ListByEmployee(ctx context.Context, employeeBusinessID string) ([]*domain.Client, error) {
	if _, err := s.employees.FindByBusinessID(ctx, employeeBusinessID); err != nil {
		return nil, err
	}
	return s.clients.ListByEmployee(ctx, employeeBusinessID)
}

// AssignToEmployee reassigns the client to the given employee. Unlike
// creation, the employee must exist here: an explicit assignment to a missing
// employee is an error, not a fallback.
func (s *ClientService) AssignToEmployee(ctx context.Context, clientBusinessID, employeeBusinessID string) (*domain.Client, error) {
	client, err := s.clients.FindByBusinessID(ctx, clientBusinessID)
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.FindByBusinessID(ctx, employeeBusinessID)
	if err != nil {
		return nil, err
	}

	client.AssignedEmployeeID = employee.BusinessID
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", client.BusinessID).Str("employee_id", employee.BusinessID).Msg("client reassigned")
	return client, nil
}

// resolveEmployee applies the default-assignment policy: the requested
// employee when it exists, otherwise the configured fallback, otherwise the
// lowest-numbered employee, otherwise nil (unassigned).
func (s *ClientService) resolveEmployee(ctx context.Context, requestedID string) (*domain.Employee, error) {
	if requestedID != "" {
		employee, err := s.employees.FindByBusinessID(ctx, requestedID)
		if err == nil {
			return employee, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.log.Warn().Str("employee_id", requestedID).Msg("requested employee not found, applying fallback policy")
	}

	if s.fallbackEmployeeID != "" {
		employee, err := s.employees.FindByBusinessID(ctx, s.fallbackEmployeeID)
		if err == nil {
			return employee, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	employee, err := s.employees.FindFallback(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return employee, nil
}
