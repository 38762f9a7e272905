package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhub-api/internal/model"
)

func TestCreateCustomerRequiresTenant(t *testing.T) {
	db := testDB(t)
	svc := NewCRMService(db)

	noTenant := TenantContext{UserID: "USR-009", UserRole: model.RoleEmployee}
	_, err := svc.CreateCustomer(noTenant, CreateCustomerInput{Company: "Orphan Inc"})
	assert.ErrorIs(t, err, ErrTenantRequired)

	// The failed call must not have written a row.
	var count int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateCustomerExplicitTenant(t *testing.T) {
	db := testDB(t)
	seedTenant(t, db, "TNT-000", "Acme Corp")
	svc := NewCRMService(db)

	// The founder acts on a tenant's behalf.
	customer, err := svc.CreateCustomer(founderCtx(), CreateCustomerInput{
		Company:  "Initech",
		TenantID: "TNT-000",
	})
	require.NoError(t, err)
	assert.Equal(t, "TNT-000", customer.TenantID)

	// A member cannot write into someone else's tenant.
	_, err = svc.CreateCustomer(memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner), CreateCustomerInput{
		Company:  "Smuggled",
		TenantID: "TNT-001",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// Sequences are global across tenants; visibility is not.
func TestCustomerIsolationAcrossTenants(t *testing.T) {
	db := testDB(t)
	seedTenant(t, db, "TNT-000", "Acme Corp")
	seedTenant(t, db, "TNT-001", "Globex")
	svc := NewCRMService(db)

	acmeOwner := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)
	globexOwner := memberCtx("USR-002", "TNT-001", model.RoleBusinessOwner)

	for i, in := range []struct {
		ctx     TenantContext
		company string
		wantID  string
	}{
		{acmeOwner, "Wayne Enterprises", "CUS-000"},
		{acmeOwner, "Stark Industries", "CUS-001"},
		{globexOwner, "Wonka Industries", "CUS-002"},
	} {
		customer, err := svc.CreateCustomer(in.ctx, CreateCustomerInput{Company: in.company})
		require.NoError(t, err, "create %d", i)
		assert.Equal(t, in.wantID, customer.SystemID)
	}

	acmeManager := memberCtx("USR-003", "TNT-000", model.RoleManager)
	visible, err := svc.ListCustomers(acmeManager, CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "CUS-000", visible[0].SystemID)
	assert.Equal(t, "CUS-001", visible[1].SystemID)

	globexVisible, err := svc.ListCustomers(globexOwner, CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, globexVisible, 1)
	assert.Equal(t, "CUS-002", globexVisible[0].SystemID)

	all, err := svc.ListCustomers(founderCtx(), CustomerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// A customer in another tenant reads as not found, not forbidden.
	_, err = svc.GetCustomer(acmeManager, "CUS-002")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCustomersSearch(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	seedCustomer(t, db, "CUS-001", "TNT-000", "Stark Industries")
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleEmployee)

	found, err := svc.ListCustomers(ctx, CustomerFilter{Search: "wayne"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CUS-000", found[0].SystemID)
}

func TestUpdateCustomerPartial(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	phone := "555-0100"
	_, err := svc.UpdateCustomer(ctx, "CUS-000", UpdateCustomerInput{Phone: &phone})
	require.NoError(t, err)

	var customer model.Customer
	require.NoError(t, db.Where("system_id = ?", "CUS-000").First(&customer).Error)
	assert.Equal(t, "555-0100", customer.Phone)
	assert.Equal(t, "Wayne Enterprises", customer.Company)

	other := memberCtx("USR-002", "TNT-001", model.RoleBusinessOwner)
	_, err = svc.UpdateCustomer(other, "CUS-000", UpdateCustomerInput{Phone: &phone})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCustomerSoftDeletes(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	require.NoError(t, svc.DeleteCustomer(ctx, "CUS-000"))

	_, err := svc.GetCustomer(ctx, "CUS-000")
	assert.ErrorIs(t, err, ErrNotFound)

	// The row survives as a soft delete.
	var count int64
	require.NoError(t, db.Unscoped().Model(&model.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateLeadAssigneeMustShareTenant(t *testing.T) {
	db := testDB(t)
	tenantA, tenantB := "TNT-000", "TNT-001"
	seedUser(t, db, "USR-001", "a@acme.example", model.RoleEmployee, &tenantA)
	seedUser(t, db, "USR-002", "b@globex.example", model.RoleEmployee, &tenantB)
	svc := NewCRMService(db)
	ctx := memberCtx("USR-010", tenantA, model.RoleBusinessOwner)

	lead, err := svc.CreateLead(ctx, CreateLeadInput{
		Company:    "Hooli",
		AssignedTo: "USR-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "LED-000", lead.SystemID)
	assert.Equal(t, model.LeadStageNew, lead.Stage)
	require.NotNil(t, lead.AssignedTo)
	assert.Equal(t, "USR-001", *lead.AssignedTo)

	_, err = svc.CreateLead(ctx, CreateLeadInput{
		Company:    "Hooli",
		AssignedTo: "USR-002",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListLeadsFilters(t *testing.T) {
	db := testDB(t)
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	for _, in := range []CreateLeadInput{
		{Company: "Hooli", Source: "website", Stage: model.LeadStageNew},
		{Company: "Pied Piper", Source: "referral", Stage: model.LeadStageQualified},
		{Company: "Aviato", Source: "referral", Stage: model.LeadStageNew},
	} {
		_, err := svc.CreateLead(ctx, in)
		require.NoError(t, err)
	}

	byStage, err := svc.ListLeads(ctx, LeadFilter{Stage: model.LeadStageQualified})
	require.NoError(t, err)
	require.Len(t, byStage, 1)
	assert.Equal(t, "Pied Piper", byStage[0].Company)

	bySource, err := svc.ListLeads(ctx, LeadFilter{Source: "referral"})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	bySearch, err := svc.ListLeads(ctx, LeadFilter{Search: "aviato"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Aviato", bySearch[0].Company)
}

func TestConvertLead(t *testing.T) {
	db := testDB(t)
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	lead, err := svc.CreateLead(ctx, CreateLeadInput{
		Company:     "Pied Piper",
		ContactName: "Richard",
		Email:       "richard@piedpiper.example",
	})
	require.NoError(t, err)

	customer, err := svc.ConvertLead(ctx, lead.SystemID)
	require.NoError(t, err)
	assert.Equal(t, "CUS-000", customer.SystemID)
	assert.Equal(t, "TNT-000", customer.TenantID)
	assert.Equal(t, "Pied Piper", customer.Company)

	var converted model.Lead
	require.NoError(t, db.Where("system_id = ?", lead.SystemID).First(&converted).Error)
	assert.Equal(t, model.LeadStageClosedWon, converted.Stage)
	assert.True(t, converted.ConvertedToCustomer)
	require.NotNil(t, converted.ConvertedCustomerID)
	assert.Equal(t, "CUS-000", *converted.ConvertedCustomerID)
	assert.False(t, converted.IsActive)

	_, err = svc.ConvertLead(ctx, lead.SystemID)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Cross-tenant conversion reads as not found.
	other := memberCtx("USR-002", "TNT-001", model.RoleBusinessOwner)
	_, err = svc.ConvertLead(other, lead.SystemID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInteractionsAndNotes(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	svc := NewCRMService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleEmployee)

	interaction, err := svc.CreateInteraction(ctx, "CUS-000", CreateInteractionInput{
		InteractionType: "call",
		Subject:         "Renewal pricing",
		Outcome:         "positive",
	})
	require.NoError(t, err)
	assert.Equal(t, "INT-000", interaction.SystemID)
	assert.Equal(t, "USR-001", interaction.UserID)

	note, err := svc.CreateNote(ctx, "CUS-000", "prefers email over phone")
	require.NoError(t, err)
	assert.Equal(t, "NOT-000", note.SystemID)
	assert.Equal(t, "USR-001", note.UserID)

	interactions, err := svc.ListInteractions(ctx, "CUS-000")
	require.NoError(t, err)
	assert.Len(t, interactions, 1)

	notes, err := svc.ListNotes(ctx, "CUS-000")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	// Everything rides on customer visibility.
	other := memberCtx("USR-002", "TNT-001", model.RoleEmployee)
	_, err = svc.CreateNote(other, "CUS-000", "should not land")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ListInteractions(other, "CUS-000")
	assert.ErrorIs(t, err, ErrNotFound)
}
