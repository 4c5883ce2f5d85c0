package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a persisted per-user message. It is written as a side
// effect of specific order transitions or by explicit admin action and is
// never read back by the order ledger itself.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	OrderID   *uint          `gorm:"index" json:"order_id,omitempty"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	IsRead    bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
