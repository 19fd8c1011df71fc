package models

import (
	"time"
)

type User struct {
	UserID        int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	Password      string     `gorm:"column:password" json:"-"`
	RoleID        int        `gorm:"column:role_id" json:"role_id"`
	SponsorID     *string    `gorm:"column:sponsor_id;size:36" json:"sponsor_id,omitempty"`
	IsKYCVerified bool       `gorm:"column:is_kyc_verified" json:"is_kyc_verified"`
	KYCName       *string    `gorm:"column:kyc_name" json:"kyc_name,omitempty"`
	Location      *string    `gorm:"column:location" json:"location,omitempty"`
	Twitter       *string    `gorm:"column:twitter" json:"twitter,omitempty"`
	Discord       *string    `gorm:"column:discord" json:"discord,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// FullName joins the user's first and last name for display and ledger sync.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
