package service

import (
	"github.com/ddfinv/backoffice/internal/core/domain"
)

// Evaluator is the default permission evaluator: admins hold every
// permission, everyone else is checked against their materialized set.
type Evaluator struct{}

// NewEvaluator returns the default Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// HasPermission reports whether the account holds the permission. The
// resource argument is accepted for future resource-level rules (e.g. "may
// edit this client only as its assigned employee") but is currently unused;
// no hidden resource checks happen here.
func (e *Evaluator) HasPermission(account *domain.Account, kind domain.PermissionKind, resource any) bool {
	if account == nil {
		return false
	}
	if account.Role == domain.RoleAdmin {
		return true
	}
	_ = resource
	return account.HasPermission(kind)
}
