package models

import "time"

// Grant represents the grants table. A "native" grant with an Airtable ID is
// tracked through the regional KYC/tranche workflow; other grants are managed
// directly by their sponsor outside this system.
type Grant struct {
	ID         string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	SponsorID  string     `gorm:"column:sponsor_id;size:36" json:"sponsor_id"`
	Title      string     `gorm:"column:title" json:"title"`
	Slug       string     `gorm:"column:slug;unique" json:"slug"`
	Token      string     `gorm:"column:token" json:"token"`
	MinReward  float64    `gorm:"column:min_reward" json:"min_reward"`
	MaxReward  float64    `gorm:"column:max_reward" json:"max_reward"`
	IsNative    bool       `gorm:"column:is_native" json:"is_native"`
	AirtableID  *string    `gorm:"column:airtable_id" json:"airtable_id,omitempty"`
	Status      string     `gorm:"column:status" json:"status"`
	IsPublished bool       `gorm:"column:is_published" json:"is_published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Sponsor Sponsor `gorm:"foreignKey:SponsorID" json:"sponsor,omitempty"`
}

// TableName overrides the table name for Grant
func (Grant) TableName() string {
	return "grants"
}

// IsTracked reports whether the grant goes through the KYC and tranche
// workflow (a native grant synced to the payment ledger).
func (g *Grant) IsTracked() bool {
	return g.IsNative && g.AirtableID != nil && *g.AirtableID != ""
}
