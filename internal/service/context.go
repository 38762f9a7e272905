package service

import (
	"gorm.io/gorm"

	"devhub-api/internal/model"
)

// TenantContext is the caller's identity for one request. It is built
// once by the auth middleware from verified JWT claims and passed by
// value through every service call; nothing mutates it mid-request.
type TenantContext struct {
	UserID    string // caller's system id (USR-NNN)
	UserRole  string
	IsFounder bool
	// Tenant the caller belongs to; nil only for the platform founder.
	TenantID *string
	// Per-feature grants decoded from the user row, e.g. {"crm": "write"}.
	// "tenant": "*" grants everything within the tenant.
	Permissions map[string]string
}

// ScopeToTenant applies the tenant isolation filter to a query. The
// founder sees every tenant's rows; a tenant member sees only their
// own; a caller with no tenant gets a query that matches nothing.
// Deny-by-default: an unfiltered query is never returned for a
// non-founder.
func ScopeToTenant(db *gorm.DB, ctx TenantContext) *gorm.DB {
	if ctx.IsFounder {
		return db
	}
	if ctx.TenantID != nil {
		return db.Where("tenant_id = ?", *ctx.TenantID)
	}
	return db.Where("1 = 0")
}

// CanAccessTenant reports whether the caller may touch data belonging
// to targetTenantID.
func (ctx TenantContext) CanAccessTenant(targetTenantID string) bool {
	if ctx.IsFounder {
		return true
	}
	return ctx.TenantID != nil && *ctx.TenantID == targetTenantID
}

// CanAccessFeature reports whether the caller may use a feature area
// ("crm", "projects", "invoices", "reports", ...). Explicit permission
// grants are honored first, then role defaults. Unknown roles are
// denied.
func (ctx TenantContext) CanAccessFeature(feature string) bool {
	if ctx.IsFounder {
		return true
	}

	if ctx.Permissions["tenant"] == "*" {
		return true
	}
	switch ctx.Permissions[feature] {
	case "*", "read", "write", "manage":
		return true
	}

	switch ctx.UserRole {
	case model.RoleBusinessOwner:
		return true
	case model.RoleManager:
		return feature == "crm" || feature == "projects" || feature == "reports"
	case model.RoleEmployee:
		return feature == "crm" || feature == "projects"
	}
	return false
}

// CanManageUsers reports whether the caller may create or remove users
// in their tenant.
func (ctx TenantContext) CanManageUsers() bool {
	if ctx.IsFounder {
		return true
	}
	return ctx.UserRole == model.RoleBusinessOwner || ctx.UserRole == model.RoleManager
}

// requireTenant returns the caller's tenant id or ErrTenantRequired.
// Creation paths use this so a tenant-scoped row is never written with
// a null tenant.
func (ctx TenantContext) requireTenant() (string, error) {
	if ctx.TenantID == nil {
		return "", ErrTenantRequired
	}
	return *ctx.TenantID, nil
}

// resolveTenant picks the tenant a write applies to. An explicitly
// supplied tenant (the founder operating on a tenant's behalf) must be
// one the caller can access; otherwise the caller's own tenant is
// required.
func resolveTenant(ctx TenantContext, explicit string) (string, error) {
	if explicit != "" {
		if !ctx.CanAccessTenant(explicit) {
			return "", ErrAccessDenied
		}
		return explicit, nil
	}
	return ctx.requireTenant()
}
