package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/utils"
)

// CreateUserRequest represents the request body for provisioning an account
type CreateUserRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	Phone          *string  `json:"phone"`
	Role           string   `json:"role" binding:"omitempty,oneof=admin employee"`
	CommissionRate *float64 `json:"commission_rate" binding:"omitempty,gte=0,lte=100"`
}

// ListUsers handles GET /api/v1/users (admin only), optionally filtered by role
func ListUsers(c *gin.Context) {
	query := config.GetDB().Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
	})
}

// CreateUser handles POST /api/v1/users (admin only) - provisions an
// employee or admin account.
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HASH_ERROR",
				"message": "Failed to hash password",
			},
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PasswordHash:   string(hash),
		Role:           role,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	if err := config.GetDB().Create(&user).Error; err != nil {
		respondDBError(c, err, "A user with this email or phone already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUserRequest represents the request body for updating an account.
// CommissionRate accepts an explicit null to revoke referrer status.
type UpdateUserRequest struct {
	Name           *string             `json:"name"`
	Email          *string             `json:"email" binding:"omitempty,email"`
	Phone          *string             `json:"phone"`
	Password       *string             `json:"password" binding:"omitempty,min=8"`
	CommissionRate utils.NullableFloat `json:"commission_rate"`
	IsActive       *bool               `json:"is_active"`
}

// UpdateUser handles PATCH /api/v1/users/:id (admin only)
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "user id must be numeric")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondNotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "HASH_ERROR",
					"message": "Failed to hash password",
				},
			})
			return
		}
		updates["password_hash"] = string(hash)
	}
	if req.CommissionRate.Set {
		if req.CommissionRate.Value != nil && (*req.CommissionRate.Value < 0 || *req.CommissionRate.Value > 100) {
			respondValidationError(c, "commission_rate must be between 0 and 100")
			return
		}
		updates["commission_rate"] = req.CommissionRate.Value
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			respondDBError(c, err, "A user with this email or phone already exists")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/v1/users/:id (admin only). Accounts with
// assigned orders are deactivated rather than deleted.
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "user id must be numeric")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		respondNotFound(c, "USER_NOT_FOUND", "User not found")
		return
	}

	var assigned int64
	if err := db.Model(&models.Order{}).
		Where("employee_id = ? OR referrer_id = ?", user.ID, user.ID).
		Count(&assigned).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if assigned > 0 {
		// History must survive; deactivate instead
		if err := db.Model(&user).Update("is_active", false).Error; err != nil {
			respondDBError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "User has orders and was deactivated instead of deleted",
		})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted",
	})
}
