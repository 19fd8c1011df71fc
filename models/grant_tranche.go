package models

import "time"

// Tranche status values stored in grant_tranches.status.
const (
	TrancheStatusPending  = "Pending"
	TrancheStatusApproved = "Approved"
	TrancheStatusRejected = "Rejected"
	TrancheStatusPaid     = "Paid"
)

// GrantTranche represents the grant_tranches table, one installment of a
// grant application's payout.
//
// TrancheNumber is 1-based and assigned at creation; non-rejected tranches of
// an application always form a gapless 1..k sequence. Ask is the requested
// (or, for the auto-approved first tranche, computed) amount; ApprovedAmount
// is only set when the sponsor approves the tranche. The Paid transition is
// driven by payment execution outside this service and only observed here.
type GrantTranche struct {
	ID             string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	ApplicationID  string     `gorm:"column:application_id;size:36" json:"application_id"`
	GrantID        string     `gorm:"column:grant_id;size:36" json:"grant_id"`
	TrancheNumber  int        `gorm:"column:tranche_number" json:"tranche_number"`
	Status         string     `gorm:"column:status" json:"status"`
	Ask            float64    `gorm:"column:ask" json:"ask"`
	ApprovedAmount *float64   `gorm:"column:approved_amount" json:"approved_amount,omitempty"`
	HelpWanted     *string    `gorm:"column:help_wanted" json:"help_wanted,omitempty"`
	UpdateNote     *string    `gorm:"column:update_note" json:"update,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`

	// Relations
	Application GrantApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// TableName overrides the table name for GrantTranche
func (GrantTranche) TableName() string {
	return "grant_tranches"
}
