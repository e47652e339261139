package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

type stubUpgradeService struct {
	submitFn func(ctx context.Context, accountID, details string) (*domain.UpgradeRequest, error)
	byAccFn  func(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error)
}

func (s *stubUpgradeService) Submit(ctx context.Context, accountID, details string) (*domain.UpgradeRequest, error) {
	return s.submitFn(ctx, accountID, details)
}

func (s *stubUpgradeService) Approve(context.Context, string, ports.CreateClientInput) (*domain.Client, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUpgradeService) Reject(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (s *stubUpgradeService) PendingRequests(context.Context) ([]*domain.UpgradeRequest, error) {
	return nil, nil
}

func (s *stubUpgradeService) RequestsByStatus(context.Context, domain.UpgradeStatus) ([]*domain.UpgradeRequest, error) {
	return nil, nil
}

func (s *stubUpgradeService) RequestsByAccount(ctx context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
	return s.byAccFn(ctx, accountID)
}

// A submission is always filed for the caller's own account, never for an id
// from the payload.
func TestUpgradeHandler_Submit_TargetsCaller(t *testing.T) {
	stub := &stubUpgradeService{
		submitFn: func(_ context.Context, accountID, details string) (*domain.UpgradeRequest, error) {
			if accountID != "acc-1" {
				t.Fatalf("expected caller's account id, got %s", accountID)
			}
			return &domain.UpgradeRequest{ID: "req-1", AccountID: accountID, Status: domain.UpgradePending, Details: details}, nil
		},
	}
	h := NewUpgradeHandler(stub, testGuard())

	_, c, rec := newTestContext(http.MethodPost, "/api/upgrade-requests", `{"details":"please"}`)
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleGuest))

	if err := h.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUpgradeHandler_Submit_DeniedForClient(t *testing.T) {
	stub := &stubUpgradeService{
		submitFn: func(context.Context, string, string) (*domain.UpgradeRequest, error) {
			t.Fatalf("service should not be called on denial")
			return nil, nil
		},
	}
	h := NewUpgradeHandler(stub, testGuard())

	_, c, _ := newTestContext(http.MethodPost, "/api/upgrade-requests", `{"details":"again"}`)
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleClient))

	if err := h.Submit(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpgradeHandler_ListByAccount_SelfAllowedForGuest(t *testing.T) {
	stub := &stubUpgradeService{
		byAccFn: func(_ context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
			return []*domain.UpgradeRequest{{ID: "req-1", AccountID: accountID}}, nil
		},
	}
	h := NewUpgradeHandler(stub, testGuard())

	_, c, rec := newTestContext(http.MethodGet, "/api/users/acc-1/upgrade-requests", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleGuest))

	if err := h.ListByAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// An upgraded account loses REQUEST_CLIENT_ACCOUNT but must still see its own
// request history.
func TestUpgradeHandler_ListByAccount_SelfAllowedForClient(t *testing.T) {
	stub := &stubUpgradeService{
		byAccFn: func(_ context.Context, accountID string) ([]*domain.UpgradeRequest, error) {
			return []*domain.UpgradeRequest{{ID: "req-1", AccountID: accountID, Status: domain.UpgradeApproved}}, nil
		},
	}
	h := NewUpgradeHandler(stub, testGuard())

	_, c, rec := newTestContext(http.MethodGet, "/api/users/acc-1/upgrade-requests", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-1")
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleClient))

	if err := h.ListByAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUpgradeHandler_ListByAccount_OtherDeniedForGuest(t *testing.T) {
	stub := &stubUpgradeService{
		byAccFn: func(context.Context, string) ([]*domain.UpgradeRequest, error) {
			t.Fatalf("service should not be called on denial")
			return nil, nil
		},
	}
	h := NewUpgradeHandler(stub, testGuard())

	_, c, _ := newTestContext(http.MethodGet, "/api/users/acc-2/upgrade-requests", "")
	c.SetParamNames("id")
	c.SetParamValues("acc-2")
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleGuest))

	if err := h.ListByAccount(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpgradeHandler_Reject_RequiresReason(t *testing.T) {
	h := NewUpgradeHandler(&stubUpgradeService{}, testGuard())

	_, c, _ := newTestContext(http.MethodPost, "/api/upgrade-requests/req-1/reject", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("req-1")
	withCaller(c, fullCatalogAccount("acc-1", domain.RoleEmployee))

	if err := h.Reject(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
