package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
	"gorm.io/gorm"
)

// CreateTransferRequest represents the request body for a payout to an employee
type CreateTransferRequest struct {
	UserID uint    `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Note   string  `json:"note"`
}

// ListTransfers handles GET /api/v1/transfers (admin only)
func ListTransfers(c *gin.Context) {
	query := config.GetDB().Preload("User").Order("created_at DESC")
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var transfers []models.Transfer
	if err := query.Find(&transfers).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transfers,
	})
}

// CreateTransfer handles POST /api/v1/transfers (admin only)
func CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	var employee models.User
	if err := db.Where("id = ? AND role = ?", req.UserID, models.RoleEmployee).
		First(&employee).Error; err != nil {
		respondNotFound(c, "EMPLOYEE_NOT_FOUND", "Employee not found")
		return
	}

	transfer := models.Transfer{
		UserID: employee.ID,
		Amount: req.Amount,
		Status: models.TransferPending,
		Note:   req.Note,
	}
	if err := db.Create(&transfer).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    transfer,
	})
}

// CompleteTransfer handles POST /api/v1/transfers/:id/complete (admin only).
// Completion notifies the employee.
func CompleteTransfer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "transfer id must be numeric")
		return
	}

	db := config.GetDB()
	var transfer models.Transfer

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&transfer, id).Error; err != nil {
			return err
		}
		if transfer.Status == models.TransferCompleted {
			return nil // already done, idempotent
		}

		now := time.Now()
		if err := tx.Model(&transfer).Updates(map[string]interface{}{
			"status":         models.TransferCompleted,
			"transferred_at": now,
		}).Error; err != nil {
			return err
		}

		notification := models.Notification{
			UserID:  transfer.UserID,
			Message: fmt.Sprintf("تم تحويل مبلغ %.2f إلى حسابك", transfer.Amount),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		respondNotFound(c, "TRANSFER_NOT_FOUND", "Transfer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    transfer,
	})
}

// CreateExpenseRequest represents the request body for recording an expense
type CreateExpenseRequest struct {
	Title   string     `json:"title" binding:"required"`
	Amount  *float64   `json:"amount" binding:"required,gte=0"`
	Note    string     `json:"note"`
	SpentAt *time.Time `json:"spent_at"`
}

// ListExpenses handles GET /api/v1/expenses (admin only)
func ListExpenses(c *gin.Context) {
	var expenses []models.Expense
	if err := config.GetDB().Order("spent_at DESC").Find(&expenses).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    expenses,
	})
}

// CreateExpense handles POST /api/v1/expenses (admin only)
func CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense := models.Expense{
		Title:   req.Title,
		Amount:  *req.Amount,
		Note:    req.Note,
		SpentAt: spentAt,
	}
	if err := config.GetDB().Create(&expense).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    expense,
	})
}

// DeleteExpense handles DELETE /api/v1/expenses/:id (admin only)
func DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "expense id must be numeric")
		return
	}

	db := config.GetDB()
	var expense models.Expense
	if err := db.First(&expense, id).Error; err != nil {
		respondNotFound(c, "EXPENSE_NOT_FOUND", "Expense not found")
		return
	}

	if err := db.Delete(&expense).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Expense deleted",
	})
}
