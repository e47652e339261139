package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// AccountService is the account lifecycle manager: it creates, updates, and
// deletes accounts, and is the only place permission sets change (via
// AssignRole).
type AccountService struct {
	accounts  ports.AccountRepository
	employees ports.EmployeeRepository
	clients   ports.ClientRepository
	catalog   domain.Catalog
	hasher    ports.PasswordHasher
	tx        ports.TxRunner
	log       zerolog.Logger
}

// NewAccountService builds an AccountService. The catalog must already be
// seeded; it is read-only for the life of the service.
func NewAccountService(
	accounts ports.AccountRepository,
	employees ports.EmployeeRepository,
	clients ports.ClientRepository,
	catalog domain.Catalog,
	hasher ports.PasswordHasher,
	tx ports.TxRunner,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		employees: employees,
		clients:   clients,
		catalog:   catalog,
		hasher:    hasher,
		tx:        tx,
		log:       log,
	}
}

// Create creates a new account. The role defaults to guest; the permission
// set is always the base set for the resolved role.
func (s *AccountService) Create(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	if input.Email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleGuest
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}

	account := &domain.Account{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("create account: hash password: %w", err)
		}
		account.PasswordHash = hash
	}
	s.AssignRole(account, role)

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account created")
	return created, nil
}

// AssignRole sets the account's role and replaces its permission set with the
// role's base set. The replacement is total: no permission from the previous
// role survives unless the new base set contains it.
func (s *AccountService) AssignRole(account *domain.Account, role domain.Role) {
	account.Role = role
	account.Permissions = domain.BasePermissions(role, s.catalog)
}

// Get returns the account with the given id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// List returns all accounts, optionally filtered by role.
func (s *AccountService) List(ctx context.Context, role *domain.Role) ([]*domain.Account, error) {
	return s.accounts.List(ctx, role)
}

// UpdateProfile applies the non-nil fields of patch to the account. Password
// changes go through the hasher; a role change goes through AssignRole so the
// permission set is recomputed in the same transaction.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch ports.AccountPatch) (*domain.Account, error) {
	var updated *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Email != nil {
			account.Email = *patch.Email
		}
		if patch.FirstName != nil {
			account.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			account.LastName = *patch.LastName
		}
		if patch.Password != nil && *patch.Password != "" {
			hash, err := s.hasher.Hash(*patch.Password)
			if err != nil {
				return fmt.Errorf("update account: hash password: %w", err)
			}
			account.PasswordHash = hash
		}
		if patch.Role != nil && *patch.Role != account.Role {
			if !patch.Role.Valid() {
				return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *patch.Role)
			}
			if err := s.guardLastAdmin(ctx, account, *patch.Role); err != nil {
				return err
			}
			s.AssignRole(account, *patch.Role)
		}

		if err := s.accounts.Update(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeRole assigns a new role to the account, recomputing its permission
// set. Demoting the last remaining admin is rejected; the count check and the
// update run in one transaction so two concurrent demotions cannot both pass.
func (s *AccountService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	var updated *domain.Account
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.guardLastAdmin(ctx, account, role); err != nil {
			return err
		}

		s.AssignRole(account, role)
		if err := s.accounts.Update(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", updated.ID).Str("role", string(role)).Msg("account role changed")
	return updated, nil
}

// UpdateOwnPassword replaces the account's password after verifying the
// current one and the confirmation. No other account state changes.
func (s *AccountService) UpdateOwnPassword(ctx context.Context, id, current, next, confirmation string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(current, account.PasswordHash) {
		return fmt.Errorf("%w: current password does not match", domain.ErrInvalidPassword)
	}
	if next != confirmation {
		return fmt.Errorf("%w: new password and confirmation do not match", domain.ErrInvalidPassword)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("update password: hash: %w", err)
	}
	account.PasswordHash = hash
	return s.accounts.Update(ctx, account)
}

// ResetPassword is the privileged path: it validates the new password against
// the policy and replaces the stored hash without requiring the current one.
func (s *AccountService) ResetPassword(ctx context.Context, id, next string) error {
	if err := ValidatePassword(next); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	account.PasswordHash = hash

	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}
	s.log.Info().Str("account_id", id).Msg("password reset")
	return nil
}

// Delete removes the account, its specialization profile, and its permission
// set in one transaction. Deleting the last admin is rejected.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.accounts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if account.Role == domain.RoleAdmin {
			count, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if count <= 1 {
				return fmt.Errorf("%w: cannot remove the only admin account", domain.ErrIllegalOperation)
			}
		}

		switch account.Specialization {
		case domain.SpecEmployee:
			if err := s.employees.DeleteByAccountID(ctx, id); err != nil {
				return err
			}
		case domain.SpecClient:
			if err := s.clients.DeleteByAccountID(ctx, id); err != nil {
				return err
			}
		}

		account.Permissions = domain.NewPermissionSet()
		account.Specialization = domain.SpecNone
		if err := s.accounts.Update(ctx, account); err != nil {
			return err
		}

		return s.accounts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

// guardLastAdmin rejects a role change that would leave the system without
// any admin account.
func (s *AccountService) guardLastAdmin(ctx context.Context, account *domain.Account, next domain.Role) error {
	if account.Role != domain.RoleAdmin || next == domain.RoleAdmin {
		return nil
	}
	count, err := s.accounts.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count <= 1 {
		return fmt.Errorf("%w: cannot remove the only admin account", domain.ErrIllegalOperation)
	}
	return nil
}
