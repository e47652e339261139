package domain

import "time"

// UpgradeStatus represents the lifecycle state of a guest upgrade request.
type UpgradeStatus string

const (
	UpgradePending  UpgradeStatus = "PENDING"
	UpgradeApproved UpgradeStatus = "APPROVED"
	UpgradeRejected UpgradeStatus = "REJECTED"
)

// upgradeTransitions defines the allowed state machine transitions. Approved
// and rejected requests are terminal.
var upgradeTransitions = map[UpgradeStatus][]UpgradeStatus{
	UpgradePending: {UpgradeApproved, UpgradeRejected},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s UpgradeStatus) CanTransitionTo(next UpgradeStatus) bool {
	for _, allowed := range upgradeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UpgradeRequest is a guest's application to become a client. At most one
// pending request may exist per account.
type UpgradeRequest struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	Status      UpgradeStatus `json:"status"`
	Details     string        `json:"details"`
	RequestedAt time.Time     `json:"requested_at"`
}
