package ports

import (
	"context"
	"time"

	"github.com/ddfinv/backoffice/internal/core/domain"
)

// TxRunner wraps a function in a single atomic transaction: every storage
// write inside fn commits together or not at all. The context passed to fn
// must be used for all storage calls made within the transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PasswordHasher abstracts the password hashing collaborator.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenStore tracks revoked session tokens (logout) until they expire.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PermissionEvaluator decides whether an account holds a permission. The
// resource argument is an extension point for resource-level rules; the
// current evaluator accepts it but applies no resource-specific logic.
type PermissionEvaluator interface {
	HasPermission(account *domain.Account, kind domain.PermissionKind, resource any) bool
}
