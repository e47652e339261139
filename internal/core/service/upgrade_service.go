package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// UpgradeService runs the guest-to-client upgrade workflow. Requests move
// PENDING→APPROVED or PENDING→REJECTED and are immutable afterwards.
type UpgradeService struct {
	requests ports.UpgradeRequestRepository
	accounts ports.AccountRepository
	clients  ports.ClientService
	tx       ports.TxRunner
	log      zerolog.Logger
}

// NewUpgradeService builds an UpgradeService.
func NewUpgradeService(
	requests ports.UpgradeRequestRepository,
	accounts ports.AccountRepository,
	clients ports.ClientService,
	tx ports.TxRunner,
	log zerolog.Logger,
) *UpgradeService {
	return &UpgradeService{
		requests: requests,
		accounts: accounts,
		clients:  clients,
		tx:       tx,
		log:      log,
	}
}

// Submit files a new upgrade request for the account. Only guests may apply,
// and only one pending request may exist per account at a time.
func (s *UpgradeService) Submit(ctx context.Context, accountID, details string) (*domain.UpgradeRequest, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleGuest {
		return nil, fmt.Errorf("%w: only guest accounts may request an upgrade to client", domain.ErrValidation)
	}

	pending, err := s.requests.ExistsPendingForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: an upgrade request for this account is already pending", domain.ErrValidation)
	}

	request := &domain.UpgradeRequest{
		AccountID:   accountID,
		Status:      domain.UpgradePending,
		Details:     details,
		RequestedAt: time.Now().UTC(),
	}
	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", created.ID).Str("account_id", accountID).Msg("upgrade request submitted")
	return created, nil
}

// Approve creates a client profile for the request's account (through the
// client service, which also flips the role) and marks the request approved.
// Both effects commit atomically: a failure in either leaves no trace of the
// other.
func (s *UpgradeService) Approve(ctx context.Context, requestID string, draft ports.CreateClientInput) (*domain.Client, error) {
	var client *domain.Client
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.FindByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !request.Status.CanTransitionTo(domain.UpgradeApproved) {
			return fmt.Errorf("%w: only pending requests may be approved (status is %s)", domain.ErrValidation, request.Status)
		}

		request.Status = domain.UpgradeApproved
		if err := s.requests.Update(ctx, request); err != nil {
			return err
		}

		draft.AccountID = request.AccountID
		client, err = s.clients.Create(ctx, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", requestID).Str("client_id", client.BusinessID).Msg("upgrade request approved")
	return client, nil
}

// Reject marks the request rejected and appends the reason to its details.
// The append keeps the guest's original text; terminal requests stay
// immutable.
func (s *UpgradeService) Reject(ctx context.Context, requestID, reason string) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !request.Status.CanTransitionTo(domain.UpgradeRejected) {
		return fmt.Errorf("%w: only pending requests may be rejected (status is %s)", domain.ErrValidation, request.Status)
	}

	request.Status = domain.UpgradeRejected
	if request.Details != "" {
		request.Details += "\n"
	}
	request.Details += "Reason for Rejection: " + reason

	if err := s.requests.Update(ctx, request); err != nil {
		return err
	}

	s.log.Info().Str("request_id", requestID).Msg("upgrade request rejected")
	return nil
}

// PendingRequests returns every request awaiting a decision.
func (s *UpgradeService) PendingRequests(ctx context.Context) ([]*domain.UpgradeRequest, error) {
	return s.requests.ListByStatus(ctx, domain.UpgradePending)
}

// RequestsByStatus returns all requests in the given state.
func (s *UpgradeService) RequestsByStatus(ctx context.Context, status domain.UpgradeStatus) ([]*domain.UpgradeRequest, error) {
	switch status {
	case domain.UpgradePending, domain.UpgradeApproved, domain.UpgradeRejected:
		return s.requests.ListByStatus(ctx, status)
	}
	return nil, fmt.Errorf("%w: unknown upgrade status %q", domain.ErrValidation, status)
}

// RequestsByAccount returns the account's full request history.
func (s *UpgradeService) RequestsByAccount(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.requests.ListByAccount(ctx, accountID)
}
