package service

import (
	"github.com/rs/zerolog"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
)

// Guard is the access control gate consulted before every protected
// operation. A nil caller (no authenticated identity) is always a denial,
// never a crash.
type Guard struct {
	eval ports.PermissionEvaluator
	log  zerolog.Logger
}

// NewGuard builds a Guard around the given evaluator.
func NewGuard(eval ports.PermissionEvaluator, log zerolog.Logger) *Guard {
	return &Guard{eval: eval, log: log}
}

// Require checks that the caller holds the permission and returns
// domain.ErrForbidden otherwise.
func (g *Guard) Require(caller *domain.Account, kind domain.PermissionKind) error {
	if caller == nil || !g.eval.HasPermission(caller, kind, nil) {
		g.deny(caller, kind)
		return domain.ErrForbidden
	}
	return nil
}

// RequireSelfOrOther implements the self-or-other rule for account
// self-service operations: the caller may act when targeting itself while
// holding the "self" variant permission, or when holding the "other" variant
// regardless of the target. The branches are a logical OR; the self branch is
// only checked first for economy.
func (g *Guard) RequireSelfOrOther(caller *domain.Account, targetID string, self, other domain.PermissionKind) error {
	if caller == nil {
		g.deny(nil, other)
		return domain.ErrForbidden
	}
	if caller.ID == targetID && g.eval.HasPermission(caller, self, nil) {
		return nil
	}
	if g.eval.HasPermission(caller, other, nil) {
		return nil
	}
	g.deny(caller, other)
	return domain.ErrForbidden
}

// RequireAdmin restricts an operation to admin callers.
func (g *Guard) RequireAdmin(caller *domain.Account) error {
	if caller == nil || caller.Role != domain.RoleAdmin {
		g.deny(caller, "")
		return domain.ErrForbidden
	}
	return nil
}

// IsSelf reports whether the caller is acting on its own account. Used by
// handlers that route self and other targets to different operations.
func (g *Guard) IsSelf(caller *domain.Account, targetID string) bool {
	return caller != nil && caller.ID == targetID
}

func (g *Guard) deny(caller *domain.Account, kind domain.PermissionKind) {
	ev := g.log.Debug().Str("permission", string(kind))
	if caller != nil {
		ev = ev.Str("account_id", caller.ID).Str("role", string(caller.Role))
	}
	ev.Msg("access denied")
}
