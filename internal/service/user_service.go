package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"devhub-api/internal/idgen"
	"devhub-api/internal/model"
)

// UserService manages platform and tenant user accounts.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateFounderInput carries the fields for the one-time founder setup.
type CreateFounderInput struct {
	Email    string
	FullName string
	Password string
}

// CreateFounder creates the platform founder with the reserved id
// USR-000. This path bypasses the sequence allocator; it fails with
// ErrFounderExists if a founder row is already present.
func (s *UserService) CreateFounder(in CreateFounderInput) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash founder password: %w", err)
	}

	var founder model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).
			Where("is_founder = ? OR system_id = ?", true, model.FounderSystemID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrFounderExists
		}

		founder = model.User{
			SystemID:       model.FounderSystemID,
			DisplayID:      idgen.DisplayID(model.FounderSystemID, true, model.RoleFounder),
			Email:          in.Email,
			FullName:       in.FullName,
			HashedPassword: string(hash),
			UserRole:       model.RoleFounder,
			IsFounder:      true,
			IsActive:       true,
		}
		return tx.Create(&founder).Error
	})
	if err != nil {
		return nil, err
	}
	return &founder, nil
}

// CreateUserInput carries the fields for a tenant user.
type CreateUserInput struct {
	Email      string
	FullName   string
	Password   string
	UserRole   string
	Department string
	// Tenant to create the user under; required when the founder (who
	// has no tenant of their own) is the caller, ignored otherwise.
	TenantID string
}

// CreateUser creates a user inside a tenant. The caller must be able
// to manage users, the tenant must be active, and the tenant's
// max_users limit is enforced inside the same transaction that inserts
// the row.
func (s *UserService) CreateUser(ctx TenantContext, in CreateUserInput) (*model.User, error) {
	if !ctx.CanManageUsers() {
		return nil, fmt.Errorf("%w: role %s cannot manage users", ErrAccessDenied, ctx.UserRole)
	}
	tenantID, err := resolveTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	role := in.UserRole
	if role == "" {
		role = model.RoleEmployee
	}
	switch role {
	case model.RoleBusinessOwner, model.RoleManager, model.RoleEmployee:
	default:
		return nil, fmt.Errorf("%w: user role %q", ErrInvalidInput, in.UserRole)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user model.User
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var tenant model.Tenant
		err := tx.Where("system_id = ?", tenantID).First(&tenant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !tenant.IsActive {
			return ErrTenantInactive
		}

		var count int64
		if err := tx.Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(tenant.MaxUsers) {
			return ErrUserLimitReached
		}

		if err := tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		systemID, err := idgen.Next(tx, idgen.KindUser)
		if err != nil {
			return err
		}
		user = model.User{
			SystemID:       systemID,
			DisplayID:      idgen.DisplayID(systemID, false, role),
			Email:          in.Email,
			FullName:       in.FullName,
			HashedPassword: string(hash),
			TenantID:       &tenantID,
			UserRole:       role,
			Department:     in.Department,
			IsActive:       true,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns the users visible to the caller: all for the
// founder, the caller's tenant for everyone else.
func (s *UserService) ListUsers(ctx TenantContext) ([]model.User, error) {
	var users []model.User
	if err := ScopeToTenant(s.db.Model(&model.User{}), ctx).
		Order("system_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a user visible to the caller.
func (s *UserService) GetUser(ctx TenantContext, systemID string) (*model.User, error) {
	var user model.User
	err := ScopeToTenant(s.db.Model(&model.User{}), ctx).
		Where("system_id = ?", systemID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies an email/password pair and returns the user.
// Inactive accounts cannot log in.
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
