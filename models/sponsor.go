package models

import "time"

// Sponsor represents the sponsors table. Sponsor members decide tranches for
// the grants their sponsor owns.
type Sponsor struct {
	ID       string     `gorm:"primaryKey;column:id;size:36" json:"id"`
	Name     string     `gorm:"column:name" json:"name"`
	Slug     string     `gorm:"column:slug;unique" json:"slug"`
	LogoURL  *string    `gorm:"column:logo_url" json:"logo_url,omitempty"`
	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides the table name for Sponsor
func (Sponsor) TableName() string {
	return "sponsors"
}
