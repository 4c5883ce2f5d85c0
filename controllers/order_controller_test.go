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

func setupOrderRouter(db *gorm.DB, actor models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1", testutil.MockAuthMiddleware(actor))
	group.GET("/orders", ListOrders)
	group.GET("/orders/:id", GetOrder)
	group.POST("/orders", CreateOrder)
	group.PATCH("/orders/:id", UpdateOrder)
	group.DELETE("/orders/:id", DeleteOrder)
	group.POST("/orders/:id/payments", AddPayment)
	return router
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	return testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name: "valid order",
			body: map[string]interface{}{
				"student_id":  student.ID,
				"service_id":  service.ID,
				"total_price": 300,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "missing total price",
			body: map[string]interface{}{
				"student_id": student.ID,
				"service_id": service.ID,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "unknown student",
			body: map[string]interface{}{
				"student_id":  9999,
				"service_id":  service.ID,
				"total_price": 300,
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "STUDENT_NOT_FOUND",
		},
		{
			name: "discount above total",
			body: map[string]interface{}{
				"student_id":  student.ID,
				"service_id":  service.ID,
				"total_price": 100,
				"discount":    150,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name: "bad payment type",
			body: map[string]interface{}{
				"student_id":   student.ID,
				"service_id":   service.ID,
				"total_price":  100,
				"payment_type": "credit",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/api/v1/orders", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
		})
	}
}

func TestCreateOrderReturnsOrderNumber(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	w := performRequest(router, "POST", "/api/v1/orders", map[string]interface{}{
		"student_id":  student.ID,
		"service_id":  service.ID,
		"total_price": 300,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "#0001", data["order_number"])
	assert.Equal(t, models.StatusPending, data["status"])
}

func TestUpdateOrderRecomputesCommission(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	rate := 10.0
	referrer := testutil.CreateTestUser(t, db, "Referrer", "ref@example.com", "password", models.RoleEmployee, &rate)
	router := setupOrderRouter(db, admin)

	order, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID:  student.ID,
		ServiceID:  service.ID,
		TotalPrice: 300,
		ReferrerID: &referrer.ID,
	})
	assert.NoError(t, err)

	w := performRequest(router, "PATCH", fmt.Sprintf("/api/v1/orders/%d", order.ID),
		map[string]interface{}{"discount": 50})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	if assert.NotNil(t, reloaded.ReferrerCommission) {
		assert.InDelta(t, 25.0, *reloaded.ReferrerCommission, 0.001)
	}

	// Explicit null clears the referrer and the derived commission with it
	w = performRequest(router, "PATCH", fmt.Sprintf("/api/v1/orders/%d", order.ID),
		map[string]interface{}{"referrer_id": nil})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Nil(t, reloaded.ReferrerID)
	assert.Nil(t, reloaded.ReferrerCommission)
}

func TestUpdateOrderInvalidTransition(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	order, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID:  student.ID,
		ServiceID:  service.ID,
		TotalPrice: 300,
	})
	assert.NoError(t, err)

	// PENDING -> COMPLETED has no edge even for admins
	w := performRequest(router, "PATCH", fmt.Sprintf("/api/v1/orders/%d", order.ID),
		map[string]interface{}{"status": models.StatusCompleted})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))
}

func TestUpdateOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	w := performRequest(router, "PATCH", "/api/v1/orders/9999",
		map[string]interface{}{"description": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))
}

func TestDeleteOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	plain, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)

	paid, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)
	_, err = services.RecordPayment(db, paid.ID, 50, "cash", "", paid.CreatedAt)
	assert.NoError(t, err)

	w := performRequest(router, "DELETE", fmt.Sprintf("/api/v1/orders/%d", plain.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/orders/%d", paid.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "HAS_DEPENDENTS", errorCode(t, w))

	w = performRequest(router, "DELETE", "/api/v1/orders/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddPaymentEndpoint(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	order, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)

	w := performRequest(router, "POST", fmt.Sprintf("/api/v1/orders/%d/payments", order.ID),
		map[string]interface{}{"amount": 100})
	assert.Equal(t, http.StatusCreated, w.Code)

	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.IsPaid)

	// zero amount fails binding
	w = performRequest(router, "POST", fmt.Sprintf("/api/v1/orders/%d/payments", order.ID),
		map[string]interface{}{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrdersFilters(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	employee := testutil.CreateTestUser(t, db, "Employee", "emp@example.com", "password", models.RoleEmployee, nil)
	router := setupOrderRouter(db, admin)

	_, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)
	_, err = services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 200, EmployeeID: &employee.ID,
	})
	assert.NoError(t, err)

	w := performRequest(router, "GET", "/api/v1/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.Len(t, resp["data"], 2)

	w = performRequest(router, "GET", "/api/v1/orders?status=ASSIGNED", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Len(t, resp["data"], 1)
}

func TestGetOrderIncludesPaidAmount(t *testing.T) {
	db := setupTestDB(t)
	student, service := seedCatalog(t, db)
	admin := seedAdmin(t, db)
	router := setupOrderRouter(db, admin)

	order, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 200,
	})
	assert.NoError(t, err)
	_, err = services.RecordPayment(db, order.ID, 80, "cash", "", order.CreatedAt)
	assert.NoError(t, err)

	w := performRequest(router, "GET", fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.InDelta(t, 80.0, data["paid_amount"].(float64), 0.001)

	w = performRequest(router, "GET", "/api/v1/orders/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
