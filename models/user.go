package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins run the platform; employees fulfill orders and may
// additionally act as referrers when a commission rate is set for them.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents a platform account (admin or employee)
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone          *string        `gorm:"uniqueIndex" json:"phone"`
	PasswordHash   string         `gorm:"not null" json:"-"`
	Role           string         `gorm:"not null;default:'employee'" json:"role"`
	CommissionRate *float64       `json:"commission_rate"` // referral percentage 0-100, nil = not a referrer
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
