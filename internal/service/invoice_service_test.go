package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devhub-api/internal/model"
)

func TestCreateInvoice(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	svc := NewInvoiceService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	issue := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID:  "CUS-000",
		IssueDate:   issue,
		DueDate:     issue.AddDate(0, 1, 0),
		AmountCents: 250_000,
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000", invoice.SystemID)
	assert.Equal(t, "TNT-000", invoice.TenantID)
	assert.Equal(t, model.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, "USD", invoice.Currency)
	assert.Nil(t, invoice.PaidDate)
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	seedCustomer(t, db, "CUS-001", "TNT-001", "Wonka Industries")
	svc := NewInvoiceService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	_, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID:  "CUS-000",
		AmountCents: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// The customer must live in the caller's tenant.
	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID:  "CUS-001",
		AmountCents: 100,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	// So must any referenced project.
	require.NoError(t, db.Create(&model.Project{
		SystemID: "PRJ-000",
		TenantID: "TNT-001",
		Name:     "Elsewhere",
		OwnerID:  "USR-002",
	}).Error)
	_, err = svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID:  "CUS-000",
		ProjectID:   "PRJ-000",
		AmountCents: 100,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	svc := NewInvoiceService(db)
	ctx := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)

	invoice, err := svc.CreateInvoice(ctx, CreateInvoiceInput{
		CustomerID:  "CUS-000",
		AmountCents: 100,
	})
	require.NoError(t, err)

	_, err = svc.UpdateInvoiceStatus(ctx, invoice.SystemID, "refunded")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateInvoiceStatus(ctx, invoice.SystemID, model.InvoiceStatusSent)
	require.NoError(t, err)

	_, err = svc.UpdateInvoiceStatus(ctx, invoice.SystemID, model.InvoiceStatusPaid)
	require.NoError(t, err)

	var paid model.Invoice
	require.NoError(t, db.Where("system_id = ?", invoice.SystemID).First(&paid).Error)
	assert.Equal(t, model.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)

	other := memberCtx("USR-002", "TNT-001", model.RoleBusinessOwner)
	_, err = svc.UpdateInvoiceStatus(other, invoice.SystemID, model.InvoiceStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListInvoicesScopingAndFilters(t *testing.T) {
	db := testDB(t)
	seedCustomer(t, db, "CUS-000", "TNT-000", "Wayne Enterprises")
	seedCustomer(t, db, "CUS-001", "TNT-001", "Wonka Industries")
	svc := NewInvoiceService(db)
	acme := memberCtx("USR-001", "TNT-000", model.RoleBusinessOwner)
	globex := memberCtx("USR-002", "TNT-001", model.RoleBusinessOwner)

	first, err := svc.CreateInvoice(acme, CreateInvoiceInput{CustomerID: "CUS-000", AmountCents: 100})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(acme, CreateInvoiceInput{CustomerID: "CUS-000", AmountCents: 200})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(globex, CreateInvoiceInput{CustomerID: "CUS-001", AmountCents: 300})
	require.NoError(t, err)

	_, err = svc.UpdateInvoiceStatus(acme, first.SystemID, model.InvoiceStatusSent)
	require.NoError(t, err)

	own, err := svc.ListInvoices(acme, InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)

	sent, err := svc.ListInvoices(acme, InvoiceFilter{Status: model.InvoiceStatusSent})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, first.SystemID, sent[0].SystemID)

	all, err := svc.ListInvoices(founderCtx(), InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.GetInvoice(globex, first.SystemID)
	assert.ErrorIs(t, err, ErrNotFound)
}
