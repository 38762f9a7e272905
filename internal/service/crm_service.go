package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devhub-api/internal/idgen"
	"devhub-api/internal/model"
)

// CRMService manages customers, leads and their interactions and
// notes, all behind the tenant isolation filter.
type CRMService struct {
	db *gorm.DB
}

func NewCRMService(db *gorm.DB) *CRMService {
	return &CRMService{db: db}
}

// CustomerFilter narrows customer listings.
type CustomerFilter struct {
	Search string
}

// CreateCustomerInput carries the fields for a new customer.
type CreateCustomerInput struct {
	Company      string
	ContactName  string
	Email        string
	Phone        string
	AddressLine1 string
	City         string
	State        string
	PostalCode   string
	Country      string
	// Explicit tenant, for the founder acting on a tenant's behalf.
	TenantID string
}

// ListCustomers returns the caller's visible customers, optionally
// filtered by a case-insensitive search over company, contact name and
// email.
func (s *CRMService) ListCustomers(ctx TenantContext, filter CustomerFilter) ([]model.Customer, error) {
	q := ScopeToTenant(s.db.Model(&model.Customer{}), ctx)
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where(
			"LOWER(company) LIKE LOWER(?) OR LOWER(contact_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			term, term, term,
		)
	}
	var customers []model.Customer
	if err := q.Order("system_id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns a customer visible to the caller; a customer in
// another tenant reads as not found.
func (s *CRMService) GetCustomer(ctx TenantContext, systemID string) (*model.Customer, error) {
	var customer model.Customer
	err := ScopeToTenant(s.db.Model(&model.Customer{}), ctx).
		Where("system_id = ?", systemID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer in the caller's tenant.
func (s *CRMService) CreateCustomer(ctx TenantContext, in CreateCustomerInput) (*model.Customer, error) {
	tenantID, err := resolveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	country := in.Country
	if country == "" {
		country = "US"
	}

	var customer model.Customer
	err = s.db.Transaction(func(tx *gorm.DB) error {
		systemID, err := idgen.Next(tx, idgen.KindCustomer)
		if err != nil {
			return err
		}
		customer = model.Customer{
			SystemID:     systemID,
			TenantID:     tenantID,
			Company:      in.Company,
			ContactName:  in.ContactName,
			Email:        in.Email,
			Phone:        in.Phone,
			AddressLine1: in.AddressLine1,
			City:         in.City,
			State:        in.State,
			PostalCode:   in.PostalCode,
			Country:      country,
			IsActive:     true,
		}
		return tx.Create(&customer).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomerInput carries mutable customer fields; nil pointers
// leave the column untouched.
type UpdateCustomerInput struct {
	Company     *string
	ContactName *string
	Email       *string
	Phone       *string
	IsActive    *bool
}

// UpdateCustomer applies a partial update to a customer in the
// caller's tenant.
func (s *CRMService) UpdateCustomer(ctx TenantContext, systemID string, in UpdateCustomerInput) (*model.Customer, error) {
	customer, err := s.GetCustomer(ctx, systemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Company != nil {
		updates["company"] = *in.Company
	}
	if in.ContactName != nil {
		updates["contact_name"] = *in.ContactName
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return customer, nil
	}

	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer in the caller's tenant.
func (s *CRMService) DeleteCustomer(ctx TenantContext, systemID string) error {
	customer, err := s.GetCustomer(ctx, systemID)
	if err != nil {
		return err
	}
	return s.db.Delete(customer).Error
}

// LeadFilter narrows lead listings.
type LeadFilter struct {
	Stage  string
	Source string
	Search string
}

// CreateLeadInput carries the fields for a new lead.
type CreateLeadInput struct {
	Company        string
	ContactName    string
	Email          string
	Phone          string
	JobTitle       string
	Source         string
	Stage          string
	EstimatedValue int64
	AssignedTo     string
	TenantID       string
}

// ListLeads returns the caller's visible leads.
func (s *CRMService) ListLeads(ctx TenantContext, filter LeadFilter) ([]model.Lead, error) {
	q := ScopeToTenant(s.db.Model(&model.Lead{}), ctx)
	if filter.Stage != "" {
		q = q.Where("stage = ?", filter.Stage)
	}
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where(
			"LOWER(company) LIKE LOWER(?) OR LOWER(contact_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
			term, term, term,
		)
	}
	var leads []model.Lead
	if err := q.Order("system_id").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// GetLead returns a lead visible to the caller.
func (s *CRMService) GetLead(ctx TenantContext, systemID string) (*model.Lead, error) {
	var lead model.Lead
	err := ScopeToTenant(s.db.Model(&model.Lead{}), ctx).
		Where("system_id = ?", systemID).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// CreateLead creates a lead in the caller's tenant.
func (s *CRMService) CreateLead(ctx TenantContext, in CreateLeadInput) (*model.Lead, error) {
	tenantID, err := resolveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	stage := in.Stage
	if stage == "" {
		stage = model.LeadStageNew
	}

	var lead model.Lead
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.AssignedTo != "" {
			// Assignee must be a member of the same tenant.
			var count int64
			if err := tx.Model(&model.User{}).
				Where("system_id = ? AND tenant_id = ?", in.AssignedTo, tenantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: assignee %s", ErrNotFound, in.AssignedTo)
			}
		}

		systemID, err := idgen.Next(tx, idgen.KindLead)
		if err != nil {
			return err
		}
		lead = model.Lead{
			SystemID:       systemID,
			TenantID:       tenantID,
			Company:        in.Company,
			ContactName:    in.ContactName,
			Email:          in.Email,
			Phone:          in.Phone,
			JobTitle:       in.JobTitle,
			Source:         in.Source,
			Stage:          stage,
			EstimatedValue: in.EstimatedValue,
			IsActive:       true,
		}
		if in.AssignedTo != "" {
			lead.AssignedTo = &in.AssignedTo
		}
		return tx.Create(&lead).Error
	})
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// ConvertLead turns a won lead into a customer. The new customer and
// the lead update commit atomically.
func (s *CRMService) ConvertLead(ctx TenantContext, leadSystemID string) (*model.Customer, error) {
	lead, err := s.GetLead(ctx, leadSystemID)
	if err != nil {
		return nil, err
	}
	if lead.ConvertedToCustomer {
		return nil, fmt.Errorf("%w: lead %s already converted", ErrInvalidInput, leadSystemID)
	}

	var customer model.Customer
	err = s.db.Transaction(func(tx *gorm.DB) error {
		systemID, err := idgen.Next(tx, idgen.KindCustomer)
		if err != nil {
			return err
		}
		customer = model.Customer{
			SystemID:    systemID,
			TenantID:    lead.TenantID,
			Company:     lead.Company,
			ContactName: lead.ContactName,
			Email:       lead.Email,
			Phone:       lead.Phone,
			IsActive:    true,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}
		return tx.Model(lead).Updates(map[string]interface{}{
			"stage":                 model.LeadStageClosedWon,
			"converted_to_customer": true,
			"converted_customer_id": customer.SystemID,
			"is_active":             false,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateInteractionInput carries the fields for a customer interaction.
type CreateInteractionInput struct {
	InteractionType string
	Subject         string
	Description     string
	Outcome         string
}

// ListInteractions returns the interactions of a customer the caller
// can see.
func (s *CRMService) ListInteractions(ctx TenantContext, customerSystemID string) ([]model.CustomerInteraction, error) {
	// Tenant check rides on the customer lookup.
	if _, err := s.GetCustomer(ctx, customerSystemID); err != nil {
		return nil, err
	}
	var interactions []model.CustomerInteraction
	if err := s.db.Where("customer_id = ?", customerSystemID).
		Order("system_id").Find(&interactions).Error; err != nil {
		return nil, err
	}
	return interactions, nil
}

// CreateInteraction records an interaction against a customer in the
// caller's tenant.
func (s *CRMService) CreateInteraction(ctx TenantContext, customerSystemID string, in CreateInteractionInput) (*model.CustomerInteraction, error) {
	if _, err := s.GetCustomer(ctx, customerSystemID); err != nil {
		return nil, err
	}

	var interaction model.CustomerInteraction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		systemID, err := idgen.Next(tx, idgen.KindCustomerInteraction)
		if err != nil {
			return err
		}
		interaction = model.CustomerInteraction{
			SystemID:        systemID,
			CustomerID:      customerSystemID,
			UserID:          ctx.UserID,
			InteractionType: in.InteractionType,
			Subject:         in.Subject,
			Description:     in.Description,
			Outcome:         in.Outcome,
		}
		return tx.Create(&interaction).Error
	})
	if err != nil {
		return nil, err
	}
	return &interaction, nil
}

// ListNotes returns the notes of a customer the caller can see.
func (s *CRMService) ListNotes(ctx TenantContext, customerSystemID string) ([]model.CustomerNote, error) {
	if _, err := s.GetCustomer(ctx, customerSystemID); err != nil {
		return nil, err
	}
	var notes []model.CustomerNote
	if err := s.db.Where("customer_id = ?", customerSystemID).
		Order("system_id").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// CreateNote attaches a note to a customer in the caller's tenant.
func (s *CRMService) CreateNote(ctx TenantContext, customerSystemID, content string) (*model.CustomerNote, error) {
	if _, err := s.GetCustomer(ctx, customerSystemID); err != nil {
		return nil, err
	}

	var note model.CustomerNote
	err := s.db.Transaction(func(tx *gorm.DB) error {
		systemID, err := idgen.Next(tx, idgen.KindCustomerNote)
		if err != nil {
			return err
		}
		note = model.CustomerNote{
			SystemID:   systemID,
			CustomerID: customerSystemID,
			UserID:     ctx.UserID,
			Content:    content,
		}
		return tx.Create(&note).Error
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}
