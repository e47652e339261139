package domain

import "errors"

// Error taxonomy shared by every operation. The transport layer maps these to
// status codes in one place; services only ever wrap them.
var (
	// ErrNotFound: a referenced account, employee, client, or upgrade
	// request does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation: input violates a business rule (non-pending
	// transition, non-guest upgrade, duplicate pending request, ...).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPassword: current-password mismatch, confirmation
	// mismatch, or a new password that fails the policy.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrIllegalOperation: the operation would remove the last admin.
	ErrIllegalOperation = errors.New("illegal operation")

	// ErrForbidden: the access control gate rejected the caller.
	ErrForbidden = errors.New("access forbidden")

	// ErrEmailTaken: storage-level uniqueness violation on email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials: login with unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
