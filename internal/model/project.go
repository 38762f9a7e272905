package model

import (
	"time"

	"gorm.io/gorm"
)

// Project status values.
const (
	ProjectStatusPlanned    = "planned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// Project priority values.
const (
	ProjectPriorityLow    = "low"
	ProjectPriorityMedium = "medium"
	ProjectPriorityHigh   = "high"
	ProjectPriorityUrgent = "urgent"
)

// Project is a unit of work a tenant performs, optionally for one of
// its customers.
type Project struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SystemID string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // PRJ-000, PRJ-001, ...
	TenantID string `json:"tenant_id" gorm:"type:varchar(50);index;not null"`

	Name        string `json:"name" gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text"`
	Status      string `json:"status" gorm:"type:varchar(50);index;default:'planned'"`
	Priority    string `json:"priority" gorm:"type:varchar(50);default:'medium'"`

	StartDate *time.Time `json:"start_date,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty" gorm:"index"`

	// Customer the project is delivered for; must belong to the same tenant.
	CustomerID *string `json:"customer_id,omitempty" gorm:"type:varchar(50);index"`
	// System id of the owning user.
	OwnerID string `json:"owner_id" gorm:"type:varchar(50);index"`

	BudgetCents    int64 `json:"budget_cents" gorm:"default:0"`
	EstimatedHours int   `json:"estimated_hours" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant   *Tenant   `json:"-" gorm:"foreignKey:TenantID;references:SystemID"`
	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:SystemID"`
}
