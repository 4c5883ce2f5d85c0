package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
	"github.com/sheelhammi/sheelhammi-api/tests/testutil"
)

func setupCatalogRouter(db *gorm.DB, actor models.User) *gin.Engine {
	router := gin.New()
	router.GET("/api/v1/categories", ListCategories)
	router.GET("/api/v1/services", ListServices)

	admin := router.Group("/api/v1", testutil.MockAuthMiddleware(actor))
	admin.POST("/categories", CreateCategory)
	admin.DELETE("/categories/:id", DeleteCategory)
	admin.POST("/services", CreateService)
	admin.PATCH("/services/:id", UpdateService)
	admin.DELETE("/services/:id", DeleteService)
	return router
}

func TestPublicCatalogListing(t *testing.T) {
	db := setupTestDB(t)
	_, service := seedCatalog(t, db)

	// an inactive service stays hidden from the public listing
	hidden := models.Service{CategoryID: service.CategoryID, Name: "Hidden", Slug: "hidden", BasePrice: 50}
	assert.NoError(t, db.Create(&hidden).Error)
	assert.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	router := setupCatalogRouter(db, models.User{})

	w := performRequest(router, "GET", "/api/v1/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)

	w = performRequest(router, "GET", "/api/v1/services", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)
}

func TestCreateCategorySlugConflict(t *testing.T) {
	db := setupTestDB(t)
	admin := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
	router := setupCatalogRouter(db, admin)

	body := map[string]interface{}{"name": "Research", "slug": "research"}
	w := performRequest(router, "POST", "/api/v1/categories", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, "POST", "/api/v1/categories", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, w))
}

func TestDeleteCategoryWithServices(t *testing.T) {
	db := setupTestDB(t)
	admin := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
	_, service := seedCatalog(t, db)
	router := setupCatalogRouter(db, admin)

	w := performRequest(router, "DELETE", fmt.Sprintf("/api/v1/categories/%d", service.CategoryID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "HAS_DEPENDENTS", errorCode(t, w))

	empty := models.Category{Name: "Empty", Slug: "empty"}
	assert.NoError(t, db.Create(&empty).Error)
	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/categories/%d", empty.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateService(t *testing.T) {
	db := setupTestDB(t)
	admin := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
	category := models.Category{Name: "Research", Slug: "research"}
	assert.NoError(t, db.Create(&category).Error)
	router := setupCatalogRouter(db, admin)

	w := performRequest(router, "POST", "/api/v1/services", map[string]interface{}{
		"category_id": category.ID,
		"name":        "Thesis",
		"slug":        "thesis",
		"base_price":  150,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, "POST", "/api/v1/services", map[string]interface{}{
		"category_id": 9999,
		"name":        "Orphan",
		"slug":        "orphan",
		"base_price":  10,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CATEGORY_NOT_FOUND", errorCode(t, w))
}

func TestUpdateService(t *testing.T) {
	db := setupTestDB(t)
	admin := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
	_, service := seedCatalog(t, db)
	router := setupCatalogRouter(db, admin)

	w := performRequest(router, "PATCH", fmt.Sprintf("/api/v1/services/%d", service.ID),
		map[string]interface{}{"is_active": false, "base_price": 250})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Service
	assert.NoError(t, db.First(&reloaded, service.ID).Error)
	assert.False(t, reloaded.IsActive)
	assert.InDelta(t, 250.0, reloaded.BasePrice, 0.001)
}

func TestDeleteServiceWithOrders(t *testing.T) {
	db := setupTestDB(t)
	admin := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
	student, service := seedCatalog(t, db)
	router := setupCatalogRouter(db, admin)

	_, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)

	w := performRequest(router, "DELETE", fmt.Sprintf("/api/v1/services/%d", service.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "HAS_DEPENDENTS", errorCode(t, w))
}
