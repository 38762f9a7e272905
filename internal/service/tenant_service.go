package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devhub-api/internal/idgen"
	"devhub-api/internal/model"
)

// TenantService manages tenants and resolves caller contexts.
type TenantService struct {
	db *gorm.DB
}

func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// CreateTenantInput carries the fields for a new tenant and its
// business-owner account. The owner is created in the same transaction
// as the tenant so a partial failure rolls both back.
type CreateTenantInput struct {
	BusinessName     string
	BusinessEmail    string
	BusinessPhone    string
	AddressLine1     string
	City             string
	State            string
	PostalCode       string
	Country          string
	SubscriptionPlan string
	MaxUsers         int

	OwnerEmail    string
	OwnerFullName string
	OwnerPassword string
}

// CreateTenant creates a tenant and its BUSINESS_OWNER user. Founder
// only.
func (s *TenantService) CreateTenant(ctx TenantContext, in CreateTenantInput) (*model.Tenant, *model.User, error) {
	if !ctx.IsFounder {
		return nil, nil, fmt.Errorf("%w: only the platform founder can create tenants", ErrAccessDenied)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash owner password: %w", err)
	}

	country := in.Country
	if country == "" {
		country = "US"
	}
	plan := in.SubscriptionPlan
	if plan == "" {
		plan = "starter"
	}
	maxUsers := in.MaxUsers
	if maxUsers <= 0 {
		maxUsers = 5
	}

	var tenant model.Tenant
	var owner model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", in.OwnerEmail).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		tenantID, err := idgen.Next(tx, idgen.KindTenant)
		if err != nil {
			return err
		}
		tenant = model.Tenant{
			SystemID:         tenantID,
			BusinessName:     in.BusinessName,
			BusinessEmail:    in.BusinessEmail,
			BusinessPhone:    in.BusinessPhone,
			AddressLine1:     in.AddressLine1,
			City:             in.City,
			State:            in.State,
			PostalCode:       in.PostalCode,
			Country:          country,
			SubscriptionPlan: plan,
			MaxUsers:         maxUsers,
			IsActive:         true,
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		userID, err := idgen.Next(tx, idgen.KindUser)
		if err != nil {
			return err
		}
		owner = model.User{
			SystemID:       userID,
			DisplayID:      idgen.DisplayID(userID, false, model.RoleBusinessOwner),
			Email:          in.OwnerEmail,
			FullName:       in.OwnerFullName,
			HashedPassword: string(hash),
			TenantID:       &tenant.SystemID,
			UserRole:       model.RoleBusinessOwner,
			IsActive:       true,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &tenant, &owner, nil
}

// GetTenant returns a tenant visible to the caller. A tenant the caller
// cannot access reads as not found, so existence never leaks across
// the boundary.
func (s *TenantService) GetTenant(ctx TenantContext, systemID string) (*model.Tenant, error) {
	if !ctx.CanAccessTenant(systemID) {
		return nil, ErrNotFound
	}
	var tenant model.Tenant
	err := s.db.Where("system_id = ?", systemID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// ListTenants returns every active tenant for the founder, or the
// caller's own tenant for everyone else.
func (s *TenantService) ListTenants(ctx TenantContext) ([]model.Tenant, error) {
	var tenants []model.Tenant
	q := s.db.Where("is_active = ?", true)
	if !ctx.IsFounder {
		if ctx.TenantID == nil {
			return []model.Tenant{}, nil
		}
		q = q.Where("system_id = ?", *ctx.TenantID)
	}
	if err := q.Order("system_id").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// DeactivateTenant marks a tenant inactive. Founder only; tenants are
// never deleted in normal operation.
func (s *TenantService) DeactivateTenant(ctx TenantContext, systemID string) error {
	if !ctx.IsFounder {
		return fmt.Errorf("%w: only the platform founder can deactivate tenants", ErrAccessDenied)
	}
	result := s.db.Model(&model.Tenant{}).
		Where("system_id = ?", systemID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTenantContext builds the immutable caller context for a user.
// Called once per request by the auth layer.
func (s *TenantService) GetTenantContext(userSystemID string) (TenantContext, error) {
	var user model.User
	err := s.db.Where("system_id = ?", userSystemID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TenantContext{}, ErrNotFound
	}
	if err != nil {
		return TenantContext{}, err
	}

	perms := map[string]string{}
	if user.Permissions != "" {
		if err := json.Unmarshal([]byte(user.Permissions), &perms); err != nil {
			// A malformed permissions blob grants nothing.
			perms = map[string]string{}
		}
	}

	return TenantContext{
		UserID:      user.SystemID,
		UserRole:    user.UserRole,
		IsFounder:   user.IsFounder,
		TenantID:    user.TenantID,
		Permissions: perms,
	}, nil
}
