package service

import "errors"

// Expected, client-facing error conditions. Handlers map these to HTTP
// status codes; anything else is treated as an internal error and
// surfaced without detail.
var (
	// ErrNotFound covers both genuinely missing rows and rows that
	// exist in another tenant. Cross-tenant existence is deliberately
	// not observable, so callers cannot enumerate other tenants' data.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied is a role or feature denial where nothing about
	// resource existence is leaked.
	ErrAccessDenied = errors.New("access denied")

	// ErrTenantRequired rejects tenant-scoped writes from a caller
	// with no resolvable tenant.
	ErrTenantRequired = errors.New("tenant context required")

	// ErrFounderExists rejects a second founder account.
	ErrFounderExists = errors.New("founder account already exists")

	// ErrEmailTaken rejects registration with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserLimitReached rejects user creation past the tenant's
	// subscription limit.
	ErrUserLimitReached = errors.New("tenant user limit reached")

	// ErrInvalidCredentials is returned by Authenticate for a bad
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTenantInactive rejects operations against a deactivated tenant.
	ErrTenantInactive = errors.New("tenant is not active")

	// ErrInvalidInput covers request-level validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
