package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles. FOUNDER is reserved for the single platform founder
// account (USR-000); the remaining roles live inside a tenant.
const (
	RoleFounder       = "FOUNDER"
	RoleBusinessOwner = "BUSINESS_OWNER"
	RoleManager       = "MANAGER"
	RoleEmployee      = "EMPLOYEE"
)

// FounderSystemID is the reserved system id of the platform founder.
const FounderSystemID = "USR-000"

// User represents a person who can log in to the platform.
//   - Platform founder: is_founder=true, tenant_id=NULL, cross-tenant visibility
//   - Business owner: controls a single tenant completely
//   - Managers/employees: work within a tenant with role-based permissions
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SystemID  string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // USR-000, USR-001, ...
	DisplayID string `json:"display_id" gorm:"type:varchar(50);index"`               // FOUNDER for USR-000

	Email          string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	FullName       string `json:"full_name" gorm:"type:varchar(200)"`
	HashedPassword string `json:"-" gorm:"type:varchar(255)"`

	// NULL only for the platform founder.
	TenantID *string `json:"tenant_id,omitempty" gorm:"type:varchar(50);index"`

	UserRole   string `json:"user_role" gorm:"type:varchar(50);default:'EMPLOYEE'"`
	Department string `json:"department" gorm:"type:varchar(100)"`

	// JSON object of per-feature grants, e.g. {"crm": "write", "invoices": "read"}.
	Permissions string `json:"-" gorm:"type:text"`

	IsActive  bool `json:"is_active" gorm:"default:true"`
	IsFounder bool `json:"is_founder" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:SystemID"`
}
