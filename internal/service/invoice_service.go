package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devhub-api/internal/idgen"
	"devhub-api/internal/model"
)

// InvoiceService manages tenant invoices.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status     string
	CustomerID string
}

// CreateInvoiceInput carries the fields for a new invoice.
type CreateInvoiceInput struct {
	CustomerID  string
	ProjectID   string
	IssueDate   time.Time
	DueDate     time.Time
	AmountCents int64
	Currency    string
	TenantID    string
}

// ListInvoices returns the caller's visible invoices.
func (s *InvoiceService) ListInvoices(ctx TenantContext, filter InvoiceFilter) ([]model.Invoice, error) {
	q := ScopeToTenant(s.db.Model(&model.Invoice{}), ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	var invoices []model.Invoice
	if err := q.Order("system_id").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoice returns an invoice visible to the caller.
func (s *InvoiceService) GetInvoice(ctx TenantContext, systemID string) (*model.Invoice, error) {
	var invoice model.Invoice
	err := ScopeToTenant(s.db.Model(&model.Invoice{}), ctx).
		Where("system_id = ?", systemID).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice creates an invoice for a customer in the caller's
// tenant. The customer and any referenced project must belong to the
// same tenant.
func (s *InvoiceService) CreateInvoice(ctx TenantContext, in CreateInvoiceInput) (*model.Invoice, error) {
	tenantID, err := resolveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: invoice amount must be positive", ErrInvalidInput)
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	var invoice model.Invoice
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Customer{}).
			Where("system_id = ? AND tenant_id = ?", in.CustomerID, tenantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: customer %s", ErrNotFound, in.CustomerID)
		}

		if in.ProjectID != "" {
			if err := tx.Model(&model.Project{}).
				Where("system_id = ? AND tenant_id = ?", in.ProjectID, tenantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: project %s", ErrNotFound, in.ProjectID)
			}
		}

		systemID, err := idgen.Next(tx, idgen.KindInvoice)
		if err != nil {
			return err
		}
		invoice = model.Invoice{
			SystemID:    systemID,
			TenantID:    tenantID,
			CustomerID:  in.CustomerID,
			Status:      model.InvoiceStatusDraft,
			IssueDate:   in.IssueDate,
			DueDate:     in.DueDate,
			AmountCents: in.AmountCents,
			Currency:    currency,
		}
		if in.ProjectID != "" {
			invoice.ProjectID = &in.ProjectID
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateInvoiceStatus moves an invoice to a new status, stamping
// paid_date when it becomes paid.
func (s *InvoiceService) UpdateInvoiceStatus(ctx TenantContext, systemID, status string) (*model.Invoice, error) {
	switch status {
	case model.InvoiceStatusDraft, model.InvoiceStatusPending,
		model.InvoiceStatusSent, model.InvoiceStatusViewed,
		model.InvoiceStatusPaid, model.InvoiceStatusOverdue,
		model.InvoiceStatusCancelled:
	default:
		return nil, fmt.Errorf("%w: invoice status %q", ErrInvalidInput, status)
	}

	invoice, err := s.GetInvoice(ctx, systemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == model.InvoiceStatusPaid && invoice.PaidDate == nil {
		now := time.Now().UTC()
		updates["paid_date"] = &now
	}
	if err := s.db.Model(invoice).Updates(updates).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}
