package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a blog article on the marketing site
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `gorm:"type:text" json:"content"`
	IsPublished bool           `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// Testimonial is a student review shown on the marketing site
type Testimonial struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	StudentName string         `gorm:"not null" json:"student_name"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Rating      int            `gorm:"not null;default:5;check:rating >= 1 AND rating <= 5" json:"rating"`
	IsPublished bool           `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Testimonial model
func (Testimonial) TableName() string {
	return "testimonials"
}

// PortfolioItem is a sample of delivered work shown on the marketing site
type PortfolioItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	ServiceID   *uint          `gorm:"index" json:"service_id,omitempty"`
	Service     *Service       `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	ImageS3Key  *string        `json:"image_s3_key"`
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL
	IsPublished bool           `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PortfolioItem model
func (PortfolioItem) TableName() string {
	return "portfolio_items"
}

// AllModels lists every entity for AutoMigrate at startup
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Student{},
		&Category{},
		&Service{},
		&Order{},
		&PaymentRecord{},
		&Transfer{},
		&Expense{},
		&Notification{},
		&Post{},
		&Testimonial{},
		&PortfolioItem{},
	}
}
