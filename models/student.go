package models

import (
	"time"

	"gorm.io/gorm"
)

// Student represents a client who purchases academic services.
// Students never log in; their orders are entered by an admin.
type Student struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Phone      *string        `gorm:"uniqueIndex" json:"phone"`
	Email      *string        `json:"email"`
	University string         `json:"university"`
	Major      string         `json:"major"`
	Notes      string         `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Student model
func (Student) TableName() string {
	return "students"
}
