package model

import (
	"time"

	"gorm.io/gorm"
)

// Invoice status values.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusPending   = "pending"
	InvoiceStatusSent      = "sent"
	InvoiceStatusViewed    = "viewed"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice bills a tenant's customer. Earlier schema revisions lacked a
// tenant_id column; it is mandatory here so invoices participate in
// tenant isolation like every other scoped table.
type Invoice struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SystemID string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // INV-000, INV-001, ...
	TenantID string `json:"tenant_id" gorm:"type:varchar(50);index;not null"`

	CustomerID string  `json:"customer_id" gorm:"type:varchar(50);index;not null"`
	ProjectID  *string `json:"project_id,omitempty" gorm:"type:varchar(50);index"`

	Status string `json:"status" gorm:"type:varchar(20);index;default:'draft'"`

	IssueDate time.Time  `json:"issue_date" gorm:"not null"`
	DueDate   time.Time  `json:"due_date" gorm:"index;not null"`
	PaidDate  *time.Time `json:"paid_date,omitempty"`

	AmountCents int64  `json:"amount_cents" gorm:"not null"`
	Currency    string `json:"currency" gorm:"type:varchar(3);default:'USD'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant   *Tenant   `json:"-" gorm:"foreignKey:TenantID;references:SystemID"`
	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:SystemID"`
}
