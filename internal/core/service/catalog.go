package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// SeedCatalog inserts every known permission kind that is not already stored,
// then returns the complete catalog. It is idempotent and safe to run on
// every startup. A storage failure here is fatal to the caller: the process
// cannot authorize anything without the catalog.
func SeedCatalog(ctx context.Context, repo ports.PermissionRepository, log zerolog.Logger) (domain.Catalog, error) {
	seeded := 0
	for _, kind := range domain.AllPermissionKinds() {
		exists, err := repo.ExistsByKind(ctx, kind)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("seed catalog: %w", err)
		}
		if exists {
			continue
		}
		perm := domain.Permission{Kind: kind, Description: kind.Description()}
		if err := repo.Insert(ctx, perm); err != nil {
			return domain.Catalog{}, fmt.Errorf("seed catalog: insert %s: %w", kind, err)
		}
		seeded++
	}

	perms, err := repo.FindAll(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("seed catalog: load: %w", err)
	}

	log.Info().Int("seeded", seeded).Int("total", len(perms)).Msg("permission catalog ready")
	return domain.NewCatalog(perms), nil
}

// EnsureBootstrapAdmin guarantees the last-admin invariant holds from process
// start: when no admin account exists, one is created with the configured
// credentials. Returns without side effects when an admin is already present
// or when no credentials are configured.
func EnsureBootstrapAdmin(ctx context.Context, accounts ports.AccountService, repo ports.AccountRepository, email, password string, log zerolog.Logger) error {
	count, err := repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: count: %w", err)
	}
	if count > 0 {
		return nil
	}
	if email == "" || password == "" {
		log.Warn().Msg("no admin account exists and no bootstrap credentials configured")
		return nil
	}

	admin, err := accounts.Create(ctx, ports.CreateAccountInput{
		Email:     email,
		Password:  password,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	log.Info().Str("account_id", admin.ID).Str("email", admin.Email).Msg("bootstrap admin created")
	return nil
}
