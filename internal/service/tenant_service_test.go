package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhub-api/internal/model"
)

func TestCreateTenantFounderOnly(t *testing.T) {
	db := testDB(t)
	svc := NewTenantService(db)

	_, _, err := svc.CreateTenant(memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner), CreateTenantInput{
		BusinessName: "Acme Corp",
		OwnerEmail:   "owner@acme.example",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreateTenantCreatesOwnerAtomically(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, model.FounderSystemID, "founder@devhub.example", model.RoleFounder, nil)
	svc := NewTenantService(db)

	tenant, owner, err := svc.CreateTenant(founderCtx(), CreateTenantInput{
		BusinessName:  "Acme Corp",
		BusinessEmail: "hello@acme.example",
		OwnerEmail:    "owner@acme.example",
		OwnerFullName: "Ada Acme",
		OwnerPassword: "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "TNT-000", tenant.SystemID)
	assert.True(t, tenant.IsActive)
	assert.Equal(t, "starter", tenant.SubscriptionPlan)
	assert.Equal(t, 5, tenant.MaxUsers)

	// The founder row already holds USR-000, so the owner takes the
	// next number in the user sequence.
	assert.Equal(t, "USR-001", owner.SystemID)
	assert.Equal(t, model.RoleBusinessOwner, owner.UserRole)
	assert.Equal(t, "BUSINESS_OWNER", owner.DisplayID)
	require.NotNil(t, owner.TenantID)
	assert.Equal(t, "TNT-000", *owner.TenantID)
}

func TestCreateTenantDuplicateOwnerEmailRollsBack(t *testing.T) {
	db := testDB(t)
	seedUser(t, db, model.FounderSystemID, "founder@devhub.example", model.RoleFounder, nil)
	svc := NewTenantService(db)

	_, _, err := svc.CreateTenant(founderCtx(), CreateTenantInput{
		BusinessName: "Acme Corp",
		OwnerEmail:   "founder@devhub.example",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Nothing from the failed transaction survives.
	var tenants int64
	require.NoError(t, db.Model(&model.Tenant{}).Count(&tenants).Error)
	assert.Zero(t, tenants)
}

func TestGetTenantCrossTenantReadsAsNotFound(t *testing.T) {
	db := testDB(t)
	seedTenant(t, db, "TNT-000", "Acme Corp")
	seedTenant(t, db, "TNT-001", "Globex")
	svc := NewTenantService(db)

	got, err := svc.GetTenant(memberCtx("USR-001", "TNT-000", model.RoleEmployee), "TNT-000")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.BusinessName)

	_, err = svc.GetTenant(memberCtx("USR-001", "TNT-000", model.RoleEmployee), "TNT-001")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetTenant(founderCtx(), "TNT-001")
	require.NoError(t, err)

	_, err = svc.GetTenant(founderCtx(), "TNT-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTenants(t *testing.T) {
	db := testDB(t)
	seedTenant(t, db, "TNT-000", "Acme Corp")
	seedTenant(t, db, "TNT-001", "Globex")
	inactive := seedTenant(t, db, "TNT-002", "Umbrella")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	svc := NewTenantService(db)

	all, err := svc.ListTenants(founderCtx())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "TNT-000", all[0].SystemID)
	assert.Equal(t, "TNT-001", all[1].SystemID)

	own, err := svc.ListTenants(memberCtx("USR-001", "TNT-001", model.RoleManager))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "TNT-001", own[0].SystemID)
}

func TestDeactivateTenant(t *testing.T) {
	db := testDB(t)
	seedTenant(t, db, "TNT-000", "Acme Corp")
	svc := NewTenantService(db)

	err := svc.DeactivateTenant(memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner), "TNT-000")
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.ErrorIs(t, svc.DeactivateTenant(founderCtx(), "TNT-999"), ErrNotFound)

	require.NoError(t, svc.DeactivateTenant(founderCtx(), "TNT-000"))
	var tenant model.Tenant
	require.NoError(t, db.Where("system_id = ?", "TNT-000").First(&tenant).Error)
	assert.False(t, tenant.IsActive)
}

func TestGetTenantContext(t *testing.T) {
	db := testDB(t)
	tenantID := "TNT-000"
	founder := seedUser(t, db, model.FounderSystemID, "founder@devhub.example", model.RoleFounder, nil)
	require.NoError(t, db.Model(founder).Update("is_founder", true).Error)
	member := seedUser(t, db, "USR-001", "emp@acme.example", model.RoleEmployee, &tenantID)
	require.NoError(t, db.Model(member).Update("permissions", `{"invoices":"read"}`).Error)
	svc := NewTenantService(db)

	ctx, err := svc.GetTenantContext(model.FounderSystemID)
	require.NoError(t, err)
	assert.True(t, ctx.IsFounder)
	assert.Nil(t, ctx.TenantID)

	ctx, err = svc.GetTenantContext("USR-001")
	require.NoError(t, err)
	assert.False(t, ctx.IsFounder)
	require.NotNil(t, ctx.TenantID)
	assert.Equal(t, tenantID, *ctx.TenantID)
	assert.Equal(t, "read", ctx.Permissions["invoices"])

	_, err = svc.GetTenantContext("USR-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTenantContextMalformedPermissionsGrantNothing(t *testing.T) {
	db := testDB(t)
	tenantID := "TNT-000"
	user := seedUser(t, db, "USR-001", "emp@acme.example", model.RoleEmployee, &tenantID)
	require.NoError(t, db.Model(user).Update("permissions", "{not json").Error)
	svc := NewTenantService(db)

	ctx, err := svc.GetTenantContext("USR-001")
	require.NoError(t, err)
	assert.Empty(t, ctx.Permissions)
	assert.False(t, ctx.CanAccessFeature("invoices"))
}
