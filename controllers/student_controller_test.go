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

func setupStudentRouter(db *gorm.DB, actor models.User) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1", testutil.MockAuthMiddleware(actor))
	group.GET("/students", ListStudents)
	group.POST("/students", CreateStudent)
	group.PATCH("/students/:id", UpdateStudent)
	group.DELETE("/students/:id", DeleteStudent)
	return router
}

func TestCreateStudentEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupStudentRouter(db, admin)

	phone := "0501234567"
	w := performRequest(router, "POST", "/api/v1/students", map[string]interface{}{
		"name":       "Omar",
		"phone":      phone,
		"university": "KSU",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// duplicate phone number
	w = performRequest(router, "POST", "/api/v1/students", map[string]interface{}{
		"name":  "Omar Again",
		"phone": phone,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, w))

	// name is required
	w = performRequest(router, "POST", "/api/v1/students", map[string]interface{}{
		"phone": "0500000000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStudentEndpoint(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	student, _ := seedCatalog(t, db)
	router := setupStudentRouter(db, admin)

	w := performRequest(router, "PATCH", fmt.Sprintf("/api/v1/students/%d", student.ID),
		map[string]interface{}{"major": "Computer Science"})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Student
	assert.NoError(t, db.First(&reloaded, student.ID).Error)
	assert.Equal(t, "Computer Science", reloaded.Major)

	w = performRequest(router, "PATCH", "/api/v1/students/9999",
		map[string]interface{}{"major": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteStudentGuard(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	student, service := seedCatalog(t, db)
	router := setupStudentRouter(db, admin)

	_, err := services.CreateOrder(db, services.CreateOrderInput{
		StudentID: student.ID, ServiceID: service.ID, TotalPrice: 100,
	})
	assert.NoError(t, err)

	w := performRequest(router, "DELETE", fmt.Sprintf("/api/v1/students/%d", student.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "HAS_DEPENDENTS", errorCode(t, w))

	free := models.Student{Name: "Free"}
	assert.NoError(t, db.Create(&free).Error)
	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/students/%d", free.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListStudentsSearch(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupStudentRouter(db, admin)

	assert.NoError(t, db.Create(&[]models.Student{
		{Name: "Ahmed"}, {Name: "Mona"}, {Name: "Ahmad"},
	}).Error)

	w := performRequest(router, "GET", "/api/v1/students?q=Ahm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 2)
}
