package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

func (f *fixture) mustCreateEmployee(t *testing.T, email, location string) *domain.Employee {
	t.Helper()
	account := f.mustCreateAccount(t, email, domain.RoleGuest)
	employee, err := f.empSvc.Create(context.Background(), ports.CreateEmployeeInput{
		AccountID: account.ID,
		Location:  location,
	})
	if err != nil {
		t.Fatalf("create employee %s: %v", email, err)
	}
	return employee
}

func TestClientService_Create_WithRequestedEmployee(t *testing.T) {
	f := newFixture()
	employee := f.mustCreateEmployee(t, "emp@example.com", "NYC")
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)
	ctx := context.Background()

	client, err := f.clientSvc.Create(ctx, ports.CreateClientInput{
		AccountID:          account.ID,
		AssignedEmployeeID: employee.BusinessID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if client.AssignedEmployeeID != employee.BusinessID {
		t.Fatalf("expected assignment to %s, got %s", employee.BusinessID, client.AssignedEmployeeID)
	}
	// The business id carries the assigned employee's location tag.
	if client.BusinessID != "NYC-1" {
		t.Fatalf("expected business id NYC-1, got %s", client.BusinessID)
	}

	stored, _ := f.accounts.FindByID(ctx, account.ID)
	if stored.Role != domain.RoleClient {
		t.Fatalf("account role should be client, got %s", stored.Role)
	}
	if stored.Specialization != domain.SpecClient {
		t.Fatalf("account should carry the client specialization")
	}
}

func TestClientService_Create_FallsBackToLowestNumberedEmployee(t *testing.T) {
	f := newFixture()
	first := f.mustCreateEmployee(t, "emp1@example.com", "NYC")
	f.mustCreateEmployee(t, "emp2@example.com", "LON")
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)

	// The requested employee does not exist; the fallback is the
	// lowest-numbered one.
	client, err := f.clientSvc.Create(context.Background(), ports.CreateClientInput{
		AccountID:          account.ID,
		AssignedEmployeeID: "TOK99",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.AssignedEmployeeID != first.BusinessID {
		t.Fatalf("expected fallback to %s, got %s", first.BusinessID, client.AssignedEmployeeID)
	}
}

func TestClientService_Create_ConfiguredFallbackWins(t *testing.T) {
	f := newFixture()
	f.mustCreateEmployee(t, "emp1@example.com", "NYC")
	pinned := f.mustCreateEmployee(t, "emp2@example.com", "LON")
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)

	svc := NewClientService(f.clients, f.employees, f.accounts, f.lifecycle, f.tx, pinned.BusinessID, testLog)
	client, err := svc.Create(context.Background(), ports.CreateClientInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.AssignedEmployeeID != pinned.BusinessID {
		t.Fatalf("expected configured fallback %s, got %s", pinned.BusinessID, client.AssignedEmployeeID)
	}
}

func TestClientService_Create_UnassignedUnderHomebase(t *testing.T) {
	f := newFixture()
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)

	// No employees exist at all.
	client, err := f.clientSvc.Create(context.Background(), ports.CreateClientInput{AccountID: account.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.AssignedEmployeeID != "" {
		t.Fatalf("expected unassigned client, got %s", client.AssignedEmployeeID)
	}
	if client.BusinessID != "HOMEBASE-1" {
		t.Fatalf("expected business id HOMEBASE-1, got %s", client.BusinessID)
	}
}

func TestClientService_Create_RejectsEmployeeAccount(t *testing.T) {
	f := newFixture()
	employee := f.mustCreateEmployee(t, "emp@example.com", "NYC")

	_, err := f.clientSvc.Create(context.Background(), ports.CreateClientInput{AccountID: employee.AccountID})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClientService_Create_RejectsSecondProfileForSameAccount(t *testing.T) {
	f := newFixture()
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)
	ctx := context.Background()

	if _, err := f.clientSvc.Create(ctx, ports.CreateClientInput{AccountID: account.ID}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.clientSvc.Create(ctx, ports.CreateClientInput{AccountID: account.ID}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate profile, got %v", err)
	}

	clients, err := f.clientSvc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected exactly one client profile, got %d", len(clients))
	}
}

func TestClientService_AssignToEmployee(t *testing.T) {
	f := newFixture()
	first := f.mustCreateEmployee(t, "emp1@example.com", "NYC")
	second := f.mustCreateEmployee(t, "emp2@example.com", "LON")
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)
	ctx := context.Background()

	client, err := f.clientSvc.Create(ctx, ports.CreateClientInput{
		AccountID:          account.ID,
		AssignedEmployeeID: first.BusinessID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reassigned, err := f.clientSvc.AssignToEmployee(ctx, client.BusinessID, second.BusinessID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if reassigned.AssignedEmployeeID != second.BusinessID {
		t.Fatalf("expected assignment to %s, got %s", second.BusinessID, reassigned.AssignedEmployeeID)
	}
	// Reassignment never rewrites the business id.
	if reassigned.BusinessID != client.BusinessID {
		t.Fatalf("business id must survive reassignment")
	}
}

func TestClientService_AssignToEmployee_MissingEmployee(t *testing.T) {
	f := newFixture()
	first := f.mustCreateEmployee(t, "emp@example.com", "NYC")
	account := f.mustCreateAccount(t, "client@example.com", domain.RoleGuest)
	ctx := context.Background()

	client, err := f.clientSvc.Create(ctx, ports.CreateClientInput{
		AccountID:          account.ID,
		AssignedEmployeeID: first.BusinessID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Explicit assignment is strict: a missing employee is an error, not a
	// fallback.
	if _, err := f.clientSvc.AssignToEmployee(ctx, client.BusinessID, "TOK99"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientService_ListByEmployee(t *testing.T) {
	f := newFixture()
	employee := f.mustCreateEmployee(t, "emp@example.com", "NYC")
	ctx := context.Background()

	for _, email := range []string{"c1@example.com", "c2@example.com"} {
		account := f.mustCreateAccount(t, email, domain.RoleGuest)
		if _, err := f.clientSvc.Create(ctx, ports.CreateClientInput{
			AccountID:          account.ID,
			AssignedEmployeeID: employee.BusinessID,
		}); err != nil {
			t.Fatalf("create client %s: %v", email, err)
		}
	}

	clients, err := f.clientSvc.ListByEmployee(ctx, employee.BusinessID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}

	if _, err := f.clientSvc.ListByEmployee(ctx, "TOK99"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing employee, got %v", err)
	}
}
