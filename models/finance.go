package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentRecord is money received from a student against an order.
// The sum of a given order's records is its paid amount.
type PaymentRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	Order     Order          `gorm:"foreignKey:OrderID" json:"-"`
	Amount    float64        `gorm:"not null;check:amount > 0" json:"amount"`
	Method    string         `gorm:"not null;default:'cash'" json:"method"`
	Note      string         `json:"note"`
	PaidAt    time.Time      `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// Transfer statuses
const (
	TransferPending   = "pending"
	TransferCompleted = "completed"
)

// Transfer is money actually paid out to an employee. Transfers are not
// automatically reconciled against accrued employee profit.
type Transfer struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	Amount        float64        `gorm:"not null;check:amount > 0" json:"amount"`
	Status        string         `gorm:"not null;default:'pending'" json:"status"`
	Note          string         `json:"note"`
	TransferredAt *time.Time     `json:"transferred_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfers"
}

// Expense is an operational cost counted against net profit in reports
type Expense struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Amount    float64        `gorm:"not null;check:amount >= 0" json:"amount"`
	Note      string         `json:"note"`
	SpentAt   time.Time      `json:"spent_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
