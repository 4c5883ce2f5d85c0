package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/middleware"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
)

// ListMyOrders handles GET /api/v1/dashboard/orders - the caller's assigned
// orders only; the employee filter is forced server-side.
func ListMyOrders(c *gin.Context) {
	employee, ok := middleware.CurrentUser(c)
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

	db := config.GetDB()
	query := db.Preload("Student").Preload("Service").
		Where("employee_id = ?", employee.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// loadOwnOrder fetches an order for the calling employee. Both a missing
// order and another employee's order come back as forbidden so the endpoint
// does not leak which order ids exist.
func loadOwnOrder(c *gin.Context, employeeID uint) (*models.Order, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "order id must be numeric")
		return nil, false
	}

	db := config.GetDB()
	var order models.Order
	err = db.Preload("Student").Preload("Service").First(&order, id).Error
	if err != nil || order.EmployeeID == nil || *order.EmployeeID != employeeID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You are not assigned to this order",
			},
		})
		return nil, false
	}
	return &order, true
}

// GetMyOrder handles GET /api/v1/dashboard/orders/:id
func GetMyOrder(c *gin.Context) {
	employee, ok := middleware.CurrentUser(c)
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

	order, ok := loadOwnOrder(c, employee.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateMyOrderRequest is the employee-writable subset of an order
type UpdateMyOrderRequest struct {
	Status    *string          `json:"status" binding:"omitempty,oneof=IN_PROGRESS DELIVERED"`
	WorkFiles *models.FileList `json:"work_files"`
}

// UpdateMyOrder handles PATCH /api/v1/dashboard/orders/:id - an employee may
// only advance the status of their own order and attach work files.
func UpdateMyOrder(c *gin.Context) {
	employee, ok := middleware.CurrentUser(c)
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

	order, ok := loadOwnOrder(c, employee.ID)
	if !ok {
		return
	}

	var req UpdateMyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	updated, err := services.ApplyOrderPatch(db, employee, order.ID, services.OrderPatch{
		Status:    req.Status,
		WorkFiles: req.WorkFiles,
	})
	if err != nil {
		if !respondLedgerError(c, err) {
			respondDBError(c, err, "")
		}
		return
	}

	if err := db.Preload("Student").Preload("Service").First(updated, updated.ID).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// GetEarnings handles GET /api/v1/dashboard/earnings - the caller's accrued
// profit on completed orders minus their completed transfers.
func GetEarnings(c *gin.Context) {
	employee, ok := middleware.CurrentUser(c)
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

	earnings, err := services.EmployeeEarnings(config.GetDB(), employee.ID)
	if err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    earnings,
	})
}
