package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents a client business using the DevHub platform.
// Each tenant is a separate business with complete data isolation;
// tenants are created by the platform founder and deactivated rather
// than deleted.
type Tenant struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SystemID string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // TNT-000, TNT-001, ...

	BusinessName  string `json:"business_name" gorm:"type:varchar(200);index;not null"`
	BusinessEmail string `json:"business_email" gorm:"type:varchar(100)"`
	BusinessPhone string `json:"business_phone" gorm:"type:varchar(50)"`

	AddressLine1 string `json:"address_line1" gorm:"type:varchar(200)"`
	AddressLine2 string `json:"address_line2" gorm:"type:varchar(200)"`
	City         string `json:"city" gorm:"type:varchar(100)"`
	State        string `json:"state" gorm:"type:varchar(100)"`
	PostalCode   string `json:"postal_code" gorm:"type:varchar(20)"`
	Country      string `json:"country" gorm:"type:varchar(2);default:'US'"`

	SubscriptionPlan string `json:"subscription_plan" gorm:"type:varchar(50);default:'starter'"` // starter, professional, enterprise
	IsActive         bool   `json:"is_active" gorm:"default:true"`
	MaxUsers         int    `json:"max_users" gorm:"default:5"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
