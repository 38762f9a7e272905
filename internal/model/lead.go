package model

import (
	"time"

	"gorm.io/gorm"
)

// Lead pipeline stages.
const (
	LeadStageNew         = "new"
	LeadStageContacted   = "contacted"
	LeadStageQualified   = "qualified"
	LeadStageProposal    = "proposal"
	LeadStageNegotiation = "negotiation"
	LeadStageClosedWon   = "closed_won"
	LeadStageClosedLost  = "closed_lost"
)

// Lead is a prospective customer in a tenant's sales pipeline.
type Lead struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	SystemID string `json:"system_id" gorm:"type:varchar(50);uniqueIndex;not null"` // LED-000, LED-001, ...
	TenantID string `json:"tenant_id" gorm:"type:varchar(50);index;not null"`

	Company     string `json:"company" gorm:"type:varchar(200);index"`
	ContactName string `json:"contact_name" gorm:"type:varchar(200)"`
	Email       string `json:"email" gorm:"type:varchar(100)"`
	Phone       string `json:"phone" gorm:"type:varchar(50)"`
	JobTitle    string `json:"job_title" gorm:"type:varchar(100)"`

	Source         string `json:"source" gorm:"type:varchar(50)"` // website, referral, cold_call, ...
	Stage          string `json:"stage" gorm:"type:varchar(50);default:'new'"`
	EstimatedValue int64  `json:"estimated_value" gorm:"default:0"`
	Probability    int    `json:"probability" gorm:"default:0"` // 0-100
	LeadScore      int    `json:"lead_score" gorm:"default:0"`

	IsActive            bool    `json:"is_active" gorm:"default:true"`
	ConvertedToCustomer bool    `json:"converted_to_customer" gorm:"default:false"`
	ConvertedCustomerID *string `json:"converted_customer_id,omitempty" gorm:"type:varchar(50)"`

	// System id of the user the lead is assigned to, if any.
	AssignedTo *string `json:"assigned_to,omitempty" gorm:"type:varchar(50);index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant *Tenant `json:"-" gorm:"foreignKey:TenantID;references:SystemID"`
}
