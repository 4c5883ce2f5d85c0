package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/middleware"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
	"github.com/sheelhammi/sheelhammi-api/utils"
)

// OrderSummary is the flattened shape returned by order listings
type OrderSummary struct {
	ID                 uint       `json:"id"`
	OrderNumber        string     `json:"order_number"`
	Status             string     `json:"status"`
	Priority           string     `json:"priority"`
	StudentName        string     `json:"student_name"`
	ServiceName        string     `json:"service_name"`
	EmployeeName       *string    `json:"employee_name"`
	ReferrerName       *string    `json:"referrer_name"`
	TotalPrice         float64    `json:"total_price"`
	Discount           float64    `json:"discount"`
	EmployeeProfit     float64    `json:"employee_profit"`
	ReferrerCommission *float64   `json:"referrer_commission"`
	IsPaid             bool       `json:"is_paid"`
	PaidAmount         float64    `json:"paid_amount"`
	Deadline           *time.Time `json:"deadline"`
	CreatedAt          time.Time  `json:"created_at"`
}

func summarizeOrder(order models.Order, paidAmount float64) OrderSummary {
	summary := OrderSummary{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		Status:             order.Status,
		Priority:           order.Priority,
		StudentName:        order.Student.Name,
		ServiceName:        order.Service.Name,
		TotalPrice:         order.TotalPrice,
		Discount:           order.Discount,
		EmployeeProfit:     order.EmployeeProfit,
		ReferrerCommission: order.ReferrerCommission,
		IsPaid:             order.IsPaid,
		PaidAmount:         paidAmount,
		Deadline:           order.Deadline,
		CreatedAt:          order.CreatedAt,
	}
	if order.Employee != nil {
		summary.EmployeeName = &order.Employee.Name
	}
	if order.Referrer != nil {
		summary.ReferrerName = &order.Referrer.Name
	}
	return summary
}

// paidAmountsByOrder sums payment records for the given orders in one query
func paidAmountsByOrder(orders []models.Order) (map[uint]float64, error) {
	paid := make(map[uint]float64, len(orders))
	if len(orders) == 0 {
		return paid, nil
	}

	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	type row struct {
		OrderID uint
		Total   float64
	}
	var rows []row
	if err := config.GetDB().Model(&models.PaymentRecord{}).
		Select("order_id, COALESCE(SUM(amount), 0) AS total").
		Where("order_id IN ?", ids).
		Group("order_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		paid[r.OrderID] = r.Total
	}
	return paid, nil
}

// ListOrders handles GET /api/v1/orders - flattened admin order list with
// optional status, service_id and student_id filters
func ListOrders(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Student").Preload("Service").Preload("Employee").Preload("Referrer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if serviceID := c.Query("service_id"); serviceID != "" {
		query = query.Where("service_id = ?", serviceID)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	paid, err := paidAmountsByOrder(orders)
	if err != nil {
		respondDBError(c, err, "")
		return
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, summarizeOrder(order, paid[order.ID]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// GetOrder handles GET /api/v1/orders/:id - full order detail
func GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "order id must be numeric")
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Student").Preload("Service").Preload("Employee").Preload("Referrer").
		First(&order, id).Error; err != nil {
		respondNotFound(c, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	var paidAmount float64
	if err := db.Model(&models.PaymentRecord{}).Where("order_id = ?", order.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&paidAmount).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":       order,
			"paid_amount": paidAmount,
		},
	})
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	StudentID           uint                   `json:"student_id" binding:"required"`
	ServiceID           uint                   `json:"service_id" binding:"required"`
	TotalPrice          *float64               `json:"total_price" binding:"required,gte=0"`
	Discount            float64                `json:"discount" binding:"omitempty,gte=0"`
	EmployeeProfit      float64                `json:"employee_profit" binding:"omitempty,gte=0"`
	EmployeeID          *uint                  `json:"employee_id"`
	ReferrerID          *uint                  `json:"referrer_id"`
	Deadline            *time.Time             `json:"deadline"`
	PaymentType         string                 `json:"payment_type" binding:"omitempty,oneof=cash installments"`
	PaymentInstallments models.InstallmentList `json:"payment_installments"`
	Priority            string                 `json:"priority" binding:"omitempty,oneof=normal urgent"`
	Grade               string                 `json:"grade"`
	GradeType           string                 `json:"grade_type"`
	SubjectName         string                 `json:"subject_name"`
	OrderType           string                 `json:"order_type"`
	Description         string                 `json:"description"`
	ClientFiles         models.FileList        `json:"client_files"`
}

// CreateOrder handles POST /api/v1/orders (admin only)
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	order, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID:           req.StudentID,
		ServiceID:           req.ServiceID,
		TotalPrice:          *req.TotalPrice,
		Discount:            req.Discount,
		EmployeeProfit:      req.EmployeeProfit,
		EmployeeID:          req.EmployeeID,
		ReferrerID:          req.ReferrerID,
		Deadline:            req.Deadline,
		PaymentType:         req.PaymentType,
		PaymentInstallments: req.PaymentInstallments,
		Priority:            req.Priority,
		Grade:               req.Grade,
		GradeType:           req.GradeType,
		SubjectName:         req.SubjectName,
		OrderType:           req.OrderType,
		Description:         req.Description,
		ClientFiles:         req.ClientFiles,
	})
	if err != nil {
		if !respondLedgerError(c, err) {
			respondDBError(c, err, "An order with this number already exists")
		}
		return
	}

	// Load the relationships to return complete data
	if err := db.Preload("Student").Preload("Service").Preload("Employee").Preload("Referrer").
		First(order, order.ID).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderRequest represents the request body for a partial order update.
// The nullable fields distinguish an explicit null (clear) from absence.
type UpdateOrderRequest struct {
	Status              *string                 `json:"status" binding:"omitempty,oneof=PENDING ASSIGNED IN_PROGRESS DELIVERED REVISION COMPLETED CANCELLED"`
	EmployeeID          utils.NullableUint      `json:"employee_id"`
	ReferrerID          utils.NullableUint      `json:"referrer_id"`
	TotalPrice          *float64                `json:"total_price" binding:"omitempty,gte=0"`
	Discount            *float64                `json:"discount" binding:"omitempty,gte=0"`
	EmployeeProfit      *float64                `json:"employee_profit" binding:"omitempty,gte=0"`
	IsPaid              *bool                   `json:"is_paid"`
	PaymentType         *string                 `json:"payment_type" binding:"omitempty,oneof=cash installments"`
	PaymentInstallments *models.InstallmentList `json:"payment_installments"`
	Deadline            utils.NullableTime      `json:"deadline"`
	ClientFiles         *models.FileList        `json:"client_files"`
	WorkFiles           *models.FileList        `json:"work_files"`
	Priority            *string                 `json:"priority" binding:"omitempty,oneof=normal urgent"`
	Grade               *string                 `json:"grade"`
	GradeType           *string                 `json:"grade_type"`
	SubjectName         *string                 `json:"subject_name"`
	OrderType           *string                 `json:"order_type"`
	Description         *string                 `json:"description"`
	RevisionNotes       *string                 `json:"revision_notes"`
}

func (r *UpdateOrderRequest) toPatch() services.OrderPatch {
	return services.OrderPatch{
		Status:              r.Status,
		EmployeeID:          r.EmployeeID,
		ReferrerID:          r.ReferrerID,
		TotalPrice:          r.TotalPrice,
		Discount:            r.Discount,
		EmployeeProfit:      r.EmployeeProfit,
		IsPaid:              r.IsPaid,
		PaymentType:         r.PaymentType,
		PaymentInstallments: r.PaymentInstallments,
		Deadline:            r.Deadline,
		ClientFiles:         r.ClientFiles,
		WorkFiles:           r.WorkFiles,
		Priority:            r.Priority,
		Grade:               r.Grade,
		GradeType:           r.GradeType,
		SubjectName:         r.SubjectName,
		OrderType:           r.OrderType,
		Description:         r.Description,
		RevisionNotes:       r.RevisionNotes,
	}
}

// UpdateOrder handles PATCH /api/v1/orders/:id (admin only)
func UpdateOrder(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "order id must be numeric")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	order, err := services.ApplyOrderPatch(db, actor, uint(id), req.toPatch())
	if err != nil {
		if !respondLedgerError(c, err) {
			respondDBError(c, err, "")
		}
		return
	}

	if err := db.Preload("Student").Preload("Service").Preload("Employee").Preload("Referrer").
		First(order, order.ID).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id (admin only). Orders with
// payment records are protected.
func DeleteOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "order id must be numeric")
		return
	}

	if err := services.DeleteOrder(config.GetDB(), uint(id)); err != nil {
		if !respondLedgerError(c, err) {
			respondDBError(c, err, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// AddPaymentRequest represents the request body for recording a payment
type AddPaymentRequest struct {
	Amount float64    `json:"amount" binding:"required,gt=0"`
	Method string     `json:"method" binding:"omitempty,oneof=cash transfer wallet"`
	Note   string     `json:"note"`
	PaidAt *time.Time `json:"paid_at"`
}

// AddPayment handles POST /api/v1/orders/:id/payments (admin only)
func AddPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "order id must be numeric")
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	method := req.Method
	if method == "" {
		method = "cash"
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	record, err := services.RecordPayment(config.GetDB(), uint(id), req.Amount, method, req.Note, paidAt)
	if err != nil {
		if !respondLedgerError(c, err) {
			respondDBError(c, err, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    record,
	})
}
