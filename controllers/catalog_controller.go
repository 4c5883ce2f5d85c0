package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
)

// ListCategories handles GET /api/v1/categories (public)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.GetDB().Order("name ASC").Find(&categories).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// ListServices handles GET /api/v1/services (public) - active services,
// optionally filtered by category
func ListServices(c *gin.Context) {
	query := config.GetDB().Preload("Category").Where("is_active = ?", true)
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var services []models.Service
	if err := query.Order("name ASC").Find(&services).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services,
	})
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// CreateCategory handles POST /api/v1/categories (admin only)
func CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	category := models.Category{Name: req.Name, Slug: req.Slug}
	if err := config.GetDB().Create(&category).Error; err != nil {
		respondDBError(c, err, "A category with this slug already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory handles DELETE /api/v1/categories/:id (admin only).
// Categories with services are protected.
func DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "category id must be numeric")
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		respondNotFound(c, "CATEGORY_NOT_FOUND", "Category not found")
		return
	}

	var dependents int64
	if err := db.Model(&models.Service{}).Where("category_id = ?", category.ID).Count(&dependents).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if dependents > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HAS_DEPENDENTS",
				"message": "Category has services and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&category).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}

// CreateServiceRequest represents the request body for creating a service
type CreateServiceRequest struct {
	CategoryID  uint     `json:"category_id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Slug        string   `json:"slug" binding:"required"`
	Description string   `json:"description"`
	BasePrice   *float64 `json:"base_price" binding:"required,gte=0"`
}

// CreateService handles POST /api/v1/services (admin only)
func CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	if err := db.First(&models.Category{}, req.CategoryID).Error; err != nil {
		respondNotFound(c, "CATEGORY_NOT_FOUND", "Category not found")
		return
	}

	service := models.Service{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		BasePrice:   *req.BasePrice,
		IsActive:    true,
	}
	if err := db.Create(&service).Error; err != nil {
		respondDBError(c, err, "A service with this slug already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    service,
	})
}

// UpdateServiceRequest represents the request body for updating a service
type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price" binding:"omitempty,gte=0"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateService handles PATCH /api/v1/services/:id (admin only)
func UpdateService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "service id must be numeric")
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondNotFound(c, "SERVICE_NOT_FOUND", "Service not found")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&service).Updates(updates).Error; err != nil {
			respondDBError(c, err, "A service with this slug already exists")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    service,
	})
}

// DeleteService handles DELETE /api/v1/services/:id (admin only). Services
// with orders are protected.
func DeleteService(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "service id must be numeric")
		return
	}

	db := config.GetDB()
	var service models.Service
	if err := db.First(&service, id).Error; err != nil {
		respondNotFound(c, "SERVICE_NOT_FOUND", "Service not found")
		return
	}

	var dependents int64
	if err := db.Model(&models.Order{}).Where("service_id = ?", service.ID).Count(&dependents).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if dependents > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HAS_DEPENDENTS",
				"message": "Service has orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&service).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted",
	})
}
