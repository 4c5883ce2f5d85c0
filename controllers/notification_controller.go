package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/middleware"
	"github.com/sheelhammi/sheelhammi-api/models"
)

// CreateNotificationRequest represents the request body for an admin
// notification. UserID is a specific user id or the literal "all" to
// broadcast to every active employee.
type CreateNotificationRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
	OrderID *uint  `json:"order_id"`
}

// CreateNotification handles POST /api/v1/admin/notifications (admin only)
func CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()

	if req.UserID == "all" {
		var employees []models.User
		if err := db.Where("role = ? AND is_active = ?", models.RoleEmployee, true).
			Find(&employees).Error; err != nil {
			respondDBError(c, err, "")
			return
		}

		notifications := make([]models.Notification, 0, len(employees))
		for _, employee := range employees {
			notifications = append(notifications, models.Notification{
				UserID:  employee.ID,
				OrderID: req.OrderID,
				Message: req.Message,
			})
		}
		if len(notifications) > 0 {
			if err := db.Create(&notifications).Error; err != nil {
				respondDBError(c, err, "")
				return
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": gin.H{
				"delivered": len(notifications),
			},
		})
		return
	}

	var target models.User
	if err := db.Where("id = ?", req.UserID).First(&target).Error; err != nil {
		respondNotFound(c, "USER_NOT_FOUND", "Recipient not found")
		return
	}

	notification := models.Notification{
		UserID:  target.ID,
		OrderID: req.OrderID,
		Message: req.Message,
	}
	if err := db.Create(&notification).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    notification,
	})
}

// ListMyNotifications handles GET /api/v1/dashboard/notifications
func ListMyNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
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

	var notifications []models.Notification
	if err := config.GetDB().Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&notifications).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkNotificationsRequest marks one notification read, or all of the
// caller's when mark_all_as_read is set.
type MarkNotificationsRequest struct {
	NotificationID *uint `json:"notification_id"`
	MarkAllAsRead  bool  `json:"mark_all_as_read"`
}

// MarkNotifications handles PATCH /api/v1/dashboard/notifications.
// Marking is idempotent: already-read rows stay read and the response is
// the same success shape.
func MarkNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
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

	var req MarkNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if req.NotificationID == nil && !req.MarkAllAsRead {
		respondValidationError(c, "notification_id or mark_all_as_read is required")
		return
	}

	db := config.GetDB()

	if req.MarkAllAsRead {
		if err := db.Model(&models.Notification{}).
			Where("user_id = ?", user.ID).
			Update("is_read", true).Error; err != nil {
			respondDBError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "All notifications marked as read",
		})
		return
	}

	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", *req.NotificationID, user.ID).
		First(&notification).Error; err != nil {
		respondNotFound(c, "NOTIFICATION_NOT_FOUND", "Notification not found")
		return
	}

	if err := db.Model(&notification).Update("is_read", true).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}
