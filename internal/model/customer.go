package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is an external client served by a tenant business. These are
// the CRM contacts of each tenant, never visible across tenant
// boundaries.
type Customer struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SystemID string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // CUS-000, CUS-001, ...
	TenantID string `json:"tenant_id" gorm:"type:varchar(50);index;not null"`

	Company     string `json:"company" gorm:"type:varchar(200);index"`
	ContactName string `json:"contact_name" gorm:"type:varchar(200)"`
	Email       string `json:"email" gorm:"type:varchar(100)"`
	Phone       string `json:"phone" gorm:"type:varchar(50)"`

	AddressLine1 string `json:"address_line1" gorm:"type:varchar(200)"`
	AddressLine2 string `json:"address_line2" gorm:"type:varchar(200)"`
	City         string `json:"city" gorm:"type:varchar(100)"`
	State        string `json:"state" gorm:"type:varchar(100)"`
	PostalCode   string `json:"postal_code" gorm:"type:varchar(20)"`
	Country      string `json:"country" gorm:"type:varchar(2);default:'US'"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID;references:SystemID"`
}

// CustomerInteraction records a touchpoint with a customer (call,
// email, meeting, demo).
type CustomerInteraction struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SystemID   string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // INT-000, INT-001, ...
	CustomerID string `json:"customer_id" gorm:"type:varchar(50);index;not null"`
	UserID     string `json:"user_id" gorm:"type:varchar(50);index;not null"`

	InteractionType string `json:"interaction_type" gorm:"type:varchar(50)"`
	Subject         string `json:"subject" gorm:"type:varchar(200)"`
	Description     string `json:"description" gorm:"type:text"`
	Outcome         string `json:"outcome" gorm:"type:varchar(50)"` // positive, negative, neutral, follow_up_needed

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:SystemID"`
}

// CustomerNote is a free-form note attached to a customer.
type CustomerNote struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SystemID   string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // NOT-000, NOT-001, ...
	CustomerID string `json:"customer_id" gorm:"type:varchar(50);index;not null"`
	UserID     string `json:"user_id" gorm:"type:varchar(50);index;not null"`

	Content string `json:"content" gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:SystemID"`
}
