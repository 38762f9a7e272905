package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"devhub-api/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Customer{},
		&model.CustomerInteraction{},
		&model.CustomerNote{},
		&model.Lead{},
		&model.Project{},
		&model.Invoice{},
		&model.IDSequence{},
	))
	return db
}

func founderCtx() TenantContext {
	return TenantContext{
		UserID:      model.FounderSystemID,
		UserRole:    model.RoleFounder,
		IsFounder:   true,
		Permissions: map[string]string{},
	}
}

func memberCtx(userID, tenantID, role string) TenantContext {
	return TenantContext{
		UserID:      userID,
		UserRole:    role,
		TenantID:    &tenantID,
		Permissions: map[string]string{},
	}
}

func seedTenant(t *testing.T, db *gorm.DB, systemID, name string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{
		SystemID:         systemID,
		BusinessName:     name,
		SubscriptionPlan: "starter",
		IsActive:         true,
		MaxUsers:         5,
		Country:          "US",
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

func seedUser(t *testing.T, db *gorm.DB, systemID, email, role string, tenantID *string) *model.User {
	t.Helper()
	user := &model.User{
		SystemID: systemID,
		Email:    email,
		UserRole: role,
		TenantID: tenantID,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, systemID, tenantID, company string) *model.Customer {
	t.Helper()
	customer := &model.Customer{
		SystemID: systemID,
		TenantID: tenantID,
		Company:  company,
		IsActive: true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
