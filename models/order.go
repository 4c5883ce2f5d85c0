package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle states. QUOTED, PAID, OVERDUE, FAILED and REFUNDED show up
// in reporting vocabularies on the dashboards but are not reachable states.
const (
	StatusPending    = "PENDING"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusDelivered  = "DELIVERED"
	StatusRevision   = "REVISION"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Order priorities
const (
	PriorityNormal = "normal"
	PriorityUrgent = "urgent"
)

// Payment types
const (
	PaymentCash         = "cash"
	PaymentInstallments = "installments"
)

// OrderFile is a single attachment reference (client brief or delivered work)
type OrderFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FileList is an ordered list of attachments stored as a JSON column
type FileList []OrderFile

// Value implements driver.Valuer for storing the list as JSON text
func (f FileList) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON column back
func (f *FileList) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("unsupported type for FileList: %T", value)
	}
}

// Installment is one scheduled payment when the order is paid in installments
type Installment struct {
	Label   string     `json:"label"`
	Amount  float64    `json:"amount"`
	DueDate *time.Time `json:"due_date,omitempty"`
	IsPaid  bool       `json:"is_paid"`
}

// InstallmentList is stored as a JSON column; only meaningful when the
// order's payment type is "installments"
type InstallmentList []Installment

// Value implements driver.Valuer
func (l InstallmentList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *InstallmentList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for InstallmentList: %T", value)
	}
}

// Order is one student's purchased service engagement.
// The display number ("#0001") is assigned inside the creation transaction
// and carries a unique index so concurrent creations cannot collide.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`

	StudentID  uint     `gorm:"not null;index" json:"student_id"`
	Student    Student  `gorm:"foreignKey:StudentID" json:"student"`
	ServiceID  uint     `gorm:"not null;index" json:"service_id"`
	Service    Service  `gorm:"foreignKey:ServiceID" json:"service"`
	EmployeeID *uint    `gorm:"index" json:"employee_id"` // nil until an admin assigns the order
	Employee   *User    `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ReferrerID *uint    `gorm:"index" json:"referrer_id"`
	Referrer   *User    `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`

	TotalPrice         float64  `gorm:"not null;check:total_price >= 0" json:"total_price"`
	Discount           float64  `gorm:"not null;default:0" json:"discount"`
	EmployeeProfit     float64  `gorm:"not null;default:0" json:"employee_profit"` // admin-set, never derived
	ReferrerCommission *float64 `json:"referrer_commission"`                       // derived from the referrer's rate

	Status              string          `gorm:"not null;default:'PENDING'" json:"status"`
	IsPaid              bool            `gorm:"not null;default:false" json:"is_paid"`
	PaymentType         string          `gorm:"not null;default:'cash'" json:"payment_type"`
	PaymentInstallments InstallmentList `gorm:"type:text" json:"payment_installments"`

	Deadline    *time.Time `json:"deadline"`
	ClientFiles FileList   `gorm:"type:text" json:"client_files"`
	WorkFiles   FileList   `gorm:"type:text" json:"work_files"`

	Priority      string `gorm:"not null;default:'normal'" json:"priority"`
	Grade         string `json:"grade"`
	GradeType     string `json:"grade_type"`
	SubjectName   string `json:"subject_name"`
	OrderType     string `json:"order_type"`
	Description   string `gorm:"type:text" json:"description"`
	RevisionNotes string `gorm:"type:text" json:"revision_notes"`
	RevisionCount int    `gorm:"not null;default:0" json:"revision_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// PayablePrice is the final amount owed by the student
func (o *Order) PayablePrice() float64 {
	return o.TotalPrice - o.Discount
}

// IsTerminal reports whether the order can no longer change status
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}
