package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/utils"
)

// Ledger errors. Controllers map these onto the HTTP error taxonomy.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrReferrerNotFound     = errors.New("referrer not found")
	ErrInvalidTransition    = errors.New("Invalid status transition")
	ErrNotAssignedEmployee  = errors.New("order is assigned to another employee")
	ErrDiscountExceedsTotal = errors.New("discount cannot exceed total price")
	ErrNegativeAmount       = errors.New("money fields must not be negative")
	ErrOrderHasPayments     = errors.New("order has payment records")
)

// transitionTable maps current status to the set of statuses reachable from
// it. One table per role: admins hold the superset of edges, employees only
// advance their own assigned work.
type transitionTable map[string]map[string]bool

var adminTransitions = transitionTable{
	models.StatusPending: {
		models.StatusAssigned:  true,
		models.StatusCancelled: true,
	},
	models.StatusAssigned: {
		models.StatusPending:    true,
		models.StatusInProgress: true,
		models.StatusCancelled:  true,
	},
	models.StatusInProgress: {
		models.StatusAssigned:  true,
		models.StatusDelivered: true,
		models.StatusCancelled: true,
	},
	models.StatusDelivered: {
		models.StatusInProgress: true,
		models.StatusRevision:   true,
		models.StatusCompleted:  true,
		models.StatusCancelled:  true,
	},
	models.StatusRevision: {
		models.StatusInProgress: true,
		models.StatusDelivered:  true,
		models.StatusCancelled:  true,
	},
}

var employeeTransitions = transitionTable{
	models.StatusAssigned: {
		models.StatusInProgress: true,
	},
	models.StatusInProgress: {
		models.StatusDelivered: true,
	},
	models.StatusRevision: {
		models.StatusDelivered: true,
	},
}

// CanTransition reports whether the actor's role allows moving an order from
// one status to another. Setting the same status is not a transition and is
// not evaluated here.
func CanTransition(role, from, to string) bool {
	table := employeeTransitions
	if role == models.RoleAdmin {
		table = adminTransitions
	}
	return table[from][to]
}

// CreateOrderInput carries the admin-supplied fields for a new order
type CreateOrderInput struct {
	StudentID           uint
	ServiceID           uint
	TotalPrice          float64
	Discount            float64
	EmployeeProfit      float64
	EmployeeID          *uint
	ReferrerID          *uint
	Deadline            *time.Time
	PaymentType         string
	PaymentInstallments models.InstallmentList
	Priority            string
	Grade               string
	GradeType           string
	SubjectName         string
	OrderType           string
	Description         string
	ClientFiles         models.FileList
}

// orderNumberAttempts bounds the retry loop when two concurrent creations
// race for the same display number. The unique index on order_number makes
// the loser fail instead of silently duplicating.
const orderNumberAttempts = 3

// CreateOrder creates an order, assigning its display number and deriving
// the referrer commission inside a single transaction.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	if in.TotalPrice < 0 || in.Discount < 0 || in.EmployeeProfit < 0 {
		return nil, ErrNegativeAmount
	}
	if in.Discount > in.TotalPrice {
		return nil, ErrDiscountExceedsTotal
	}

	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order := &models.Order{
			StudentID:           in.StudentID,
			ServiceID:           in.ServiceID,
			TotalPrice:          in.TotalPrice,
			Discount:            in.Discount,
			EmployeeProfit:      in.EmployeeProfit,
			EmployeeID:          in.EmployeeID,
			ReferrerID:          in.ReferrerID,
			Deadline:            in.Deadline,
			PaymentType:         in.PaymentType,
			PaymentInstallments: in.PaymentInstallments,
			Priority:            in.Priority,
			Grade:               in.Grade,
			GradeType:           in.GradeType,
			SubjectName:         in.SubjectName,
			OrderType:           in.OrderType,
			Description:         in.Description,
			ClientFiles:         in.ClientFiles,
			Status:              models.StatusPending,
		}
		if order.PaymentType == "" {
			order.PaymentType = models.PaymentCash
		}
		if order.Priority == "" {
			order.Priority = models.PriorityNormal
		}
		if order.EmployeeID != nil {
			order.Status = models.StatusAssigned
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&models.Student{}, order.StudentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrStudentNotFound
				}
				return err
			}
			if err := tx.First(&models.Service{}, order.ServiceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrServiceNotFound
				}
				return err
			}
			if order.EmployeeID != nil {
				if err := findEmployee(tx, *order.EmployeeID); err != nil {
					return err
				}
			}
			if err := deriveCommission(tx, order); err != nil {
				return err
			}

			number, err := nextOrderNumber(tx)
			if err != nil {
				return err
			}
			order.OrderNumber = number

			return tx.Create(order).Error
		})
		if err == nil {
			return order, nil
		}
		if IsUniqueViolation(err) {
			lastErr = err
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not allocate order number after %d attempts: %w", orderNumberAttempts, lastErr)
}

// OrderPatch is a partial order update. Nil pointer fields are untouched;
// the nullable fields distinguish "absent" from an explicit null.
type OrderPatch struct {
	Status              *string
	EmployeeID          utils.NullableUint
	ReferrerID          utils.NullableUint
	TotalPrice          *float64
	Discount            *float64
	EmployeeProfit      *float64
	IsPaid              *bool
	PaymentType         *string
	PaymentInstallments *models.InstallmentList
	Deadline            utils.NullableTime
	ClientFiles         *models.FileList
	WorkFiles           *models.FileList
	Priority            *string
	Grade               *string
	GradeType           *string
	SubjectName         *string
	OrderType           *string
	Description         *string
	RevisionNotes       *string
}

// ApplyOrderPatch applies a partial update on behalf of the actor inside a
// single transaction: it validates the status transition against the actor's
// role, re-derives the referrer commission whenever the price, discount or
// referrer changes, and emits the revision notification to the assigned
// employee when the order enters REVISION.
func ApplyOrderPatch(db *gorm.DB, actor models.User, orderID uint, patch OrderPatch) (*models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if actor.Role == models.RoleEmployee {
			if order.EmployeeID == nil || *order.EmployeeID != actor.ID {
				return ErrNotAssignedEmployee
			}
		}

		moneyTouched := false

		// Assignment first so a combined assign+transition patch evaluates
		// the transition against the new employee.
		if patch.EmployeeID.Set {
			if patch.EmployeeID.Value != nil {
				if err := findEmployee(tx, *patch.EmployeeID.Value); err != nil {
					return err
				}
				if order.EmployeeID == nil && order.Status == models.StatusPending && patch.Status == nil {
					order.Status = models.StatusAssigned
				}
			}
			order.EmployeeID = patch.EmployeeID.Value
		}

		if patch.TotalPrice != nil {
			order.TotalPrice = *patch.TotalPrice
			moneyTouched = true
		}
		if patch.Discount != nil {
			order.Discount = *patch.Discount
			moneyTouched = true
		}
		if order.TotalPrice < 0 || order.Discount < 0 {
			return ErrNegativeAmount
		}
		if order.Discount > order.TotalPrice {
			return ErrDiscountExceedsTotal
		}
		if patch.EmployeeProfit != nil {
			if *patch.EmployeeProfit < 0 {
				return ErrNegativeAmount
			}
			order.EmployeeProfit = *patch.EmployeeProfit
		}

		if patch.ReferrerID.Set {
			order.ReferrerID = patch.ReferrerID.Value
			moneyTouched = true
		}
		if moneyTouched {
			if err := deriveCommission(tx, &order); err != nil {
				return err
			}
		}

		if patch.Status != nil && *patch.Status != order.Status {
			if !CanTransition(actor.Role, order.Status, *patch.Status) {
				return ErrInvalidTransition
			}
			if *patch.Status == models.StatusRevision {
				order.RevisionCount++
				if err := emitRevisionNotification(tx, &order, patch.RevisionNotes); err != nil {
					return err
				}
			}
			order.Status = *patch.Status
		}

		if patch.IsPaid != nil {
			order.IsPaid = *patch.IsPaid
		}
		if patch.PaymentType != nil {
			order.PaymentType = *patch.PaymentType
		}
		if patch.PaymentInstallments != nil {
			order.PaymentInstallments = *patch.PaymentInstallments
		}
		if patch.Deadline.Set {
			order.Deadline = patch.Deadline.Value
		}
		if patch.ClientFiles != nil {
			order.ClientFiles = *patch.ClientFiles
		}
		if patch.WorkFiles != nil {
			order.WorkFiles = *patch.WorkFiles
		}
		if patch.Priority != nil {
			order.Priority = *patch.Priority
		}
		if patch.Grade != nil {
			order.Grade = *patch.Grade
		}
		if patch.GradeType != nil {
			order.GradeType = *patch.GradeType
		}
		if patch.SubjectName != nil {
			order.SubjectName = *patch.SubjectName
		}
		if patch.OrderType != nil {
			order.OrderType = *patch.OrderType
		}
		if patch.Description != nil {
			order.Description = *patch.Description
		}
		if patch.RevisionNotes != nil {
			order.RevisionNotes = *patch.RevisionNotes
		}

		return tx.Save(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder soft-deletes an order. Orders with payment records are
// protected; notifications referencing the order have the reference
// detached so the message history survives.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		var payments int64
		if err := tx.Model(&models.PaymentRecord{}).Where("order_id = ?", order.ID).Count(&payments).Error; err != nil {
			return err
		}
		if payments > 0 {
			return ErrOrderHasPayments
		}

		if err := tx.Model(&models.Notification{}).Where("order_id = ?", order.ID).
			Update("order_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&order).Error
	})
}

// RecordPayment stores money received against an order and flips is_paid
// once the paid sum covers the payable price.
func RecordPayment(db *gorm.DB, orderID uint, amount float64, method, note string, paidAt time.Time) (*models.PaymentRecord, error) {
	var record models.PaymentRecord

	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		record = models.PaymentRecord{
			OrderID: order.ID,
			Amount:  amount,
			Method:  method,
			Note:    note,
			PaidAt:  paidAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		var paid float64
		if err := tx.Model(&models.PaymentRecord{}).Where("order_id = ?", order.ID).
			Select("COALESCE(SUM(amount), 0)").Scan(&paid).Error; err != nil {
			return err
		}
		if !order.IsPaid && paid >= order.PayablePrice() {
			return tx.Model(&order).Update("is_paid", true).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Earnings is the employee-facing profit summary
type Earnings struct {
	TotalProfit      float64 `json:"total_profit"`      // profit on own COMPLETED orders
	TotalTransferred float64 `json:"total_transferred"` // own completed transfers
	Balance          float64 `json:"balance"`
}

// EmployeeEarnings aggregates what an employee has earned and what has
// already been paid out to them.
func EmployeeEarnings(db *gorm.DB, employeeID uint) (*Earnings, error) {
	var earned float64
	if err := db.Model(&models.Order{}).
		Where("employee_id = ? AND status = ?", employeeID, models.StatusCompleted).
		Select("COALESCE(SUM(employee_profit), 0)").Scan(&earned).Error; err != nil {
		return nil, err
	}

	var transferred float64
	if err := db.Model(&models.Transfer{}).
		Where("user_id = ? AND status = ?", employeeID, models.TransferCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&transferred).Error; err != nil {
		return nil, err
	}

	return &Earnings{
		TotalProfit:      earned,
		TotalTransferred: transferred,
		Balance:          earned - transferred,
	}, nil
}

// findEmployee checks the id resolves to an active employee account
func findEmployee(tx *gorm.DB, id uint) error {
	var employee models.User
	if err := tx.Where("id = ? AND role = ?", id, models.RoleEmployee).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

// deriveCommission recomputes the referrer commission from the order's
// current price, discount and referrer. A missing commission rate on the
// referrer leaves the commission null.
func deriveCommission(tx *gorm.DB, order *models.Order) error {
	if order.ReferrerID == nil {
		order.ReferrerCommission = nil
		return nil
	}

	var referrer models.User
	if err := tx.First(&referrer, *order.ReferrerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferrerNotFound
		}
		return err
	}
	if referrer.CommissionRate == nil {
		order.ReferrerCommission = nil
		return nil
	}

	commission := (order.TotalPrice - order.Discount) * *referrer.CommissionRate / 100
	order.ReferrerCommission = &commission
	return nil
}

// emitRevisionNotification notifies the assigned employee that the order
// needs rework. An unassigned order produces no notification.
func emitRevisionNotification(tx *gorm.DB, order *models.Order, notes *string) error {
	if order.EmployeeID == nil {
		return nil
	}

	message := fmt.Sprintf("طلب تعديل على الطلب %s", order.OrderNumber)
	if notes != nil && *notes != "" {
		message = fmt.Sprintf("%s: %s", message, *notes)
	}

	notification := models.Notification{
		UserID:  *order.EmployeeID,
		OrderID: &order.ID,
		Message: message,
	}
	return tx.Create(&notification).Error
}

// nextOrderNumber derives the next display number from the all-time order
// count, soft-deleted rows included so numbers stay monotonic.
func nextOrderNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Unscoped().Model(&models.Order{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("#%04d", count+1), nil
}

// IsUniqueViolation reports whether the error is a unique-constraint
// failure. Works with both PostgreSQL and SQLite error texts.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// IsForeignKeyViolation reports whether the error is a dangling-reference
// failure from the database.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key")
}
