package models

import "time"

// Application status values stored in grant_applications.application_status.
const (
	ApplicationStatusPending   = "Pending"
	ApplicationStatusApproved  = "Approved"
	ApplicationStatusRejected  = "Rejected"
	ApplicationStatusCompleted = "Completed"
)

// GrantApplication represents the grant_applications table.
//
// ApprovedAmount is set once, when the sponsor approves the application.
// TotalPaid only grows, one paid tranche at a time, and never exceeds
// ApprovedAmount. TotalTranches is the planned number of installments; it may
// be incremented (never decremented) when an under-approved tranche leaves a
// shortfall that needs an extra installment.
type GrantApplication struct {
	ID                string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	GrantID           string     `gorm:"column:grant_id;size:36" json:"grant_id"`
	UserID            int        `gorm:"column:user_id" json:"user_id"`
	ApplicationStatus string     `gorm:"column:application_status" json:"application_status"`
	ProjectTitle      string     `gorm:"column:project_title" json:"project_title"`
	WalletAddress     string     `gorm:"column:wallet_address" json:"wallet_address"`
	Ask               float64    `gorm:"column:ask" json:"ask"`
	ApprovedAmount    float64    `gorm:"column:approved_amount" json:"approved_amount"`
	TotalPaid         float64    `gorm:"column:total_paid" json:"total_paid"`
	TotalTranches     int        `gorm:"column:total_tranches" json:"total_tranches"`
	ApprovedAt        *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Grant    Grant          `gorm:"foreignKey:GrantID" json:"grant,omitempty"`
	User     User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tranches []GrantTranche `gorm:"foreignKey:ApplicationID" json:"tranches,omitempty"`
}

// TableName overrides the table name for GrantApplication
func (GrantApplication) TableName() string {
	return "grant_applications"
}

// RemainingAmount is the approved amount not yet paid out.
func (a *GrantApplication) RemainingAmount() float64 {
	return a.ApprovedAmount - a.TotalPaid
}
