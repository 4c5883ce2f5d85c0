package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
)

// CreateStudentRequest represents the request body for creating a student
type CreateStudentRequest struct {
	Name       string  `json:"name" binding:"required"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	University string  `json:"university"`
	Major      string  `json:"major"`
	Notes      string  `json:"notes"`
}

// ListStudents handles GET /api/v1/students (admin only)
func ListStudents(c *gin.Context) {
	var students []models.Student
	query := config.GetDB().Order("created_at DESC")
	if search := c.Query("q"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&students).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    students,
	})
}

// CreateStudent handles POST /api/v1/students (admin only)
func CreateStudent(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	student := models.Student{
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		University: req.University,
		Major:      req.Major,
		Notes:      req.Notes,
	}
	if err := config.GetDB().Create(&student).Error; err != nil {
		respondDBError(c, err, "A student with this phone number already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    student,
	})
}

// UpdateStudentRequest represents the request body for updating a student
type UpdateStudentRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	University *string `json:"university"`
	Major      *string `json:"major"`
	Notes      *string `json:"notes"`
}

// UpdateStudent handles PATCH /api/v1/students/:id (admin only)
func UpdateStudent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "student id must be numeric")
		return
	}

	db := config.GetDB()
	var student models.Student
	if err := db.First(&student, id).Error; err != nil {
		respondNotFound(c, "STUDENT_NOT_FOUND", "Student not found")
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.University != nil {
		updates["university"] = *req.University
	}
	if req.Major != nil {
		updates["major"] = *req.Major
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := db.Model(&student).Updates(updates).Error; err != nil {
			respondDBError(c, err, "A student with this phone number already exists")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    student,
	})
}

// DeleteStudent handles DELETE /api/v1/students/:id (admin only). Students
// with orders are protected.
func DeleteStudent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "student id must be numeric")
		return
	}

	db := config.GetDB()
	var student models.Student
	if err := db.First(&student, id).Error; err != nil {
		respondNotFound(c, "STUDENT_NOT_FOUND", "Student not found")
		return
	}

	var orders int64
	if err := db.Model(&models.Order{}).Where("student_id = ?", student.ID).Count(&orders).Error; err != nil {
		respondDBError(c, err, "")
		return
	}
	if orders > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HAS_DEPENDENTS",
				"message": "Student has orders and cannot be deleted",
			},
		})
		return
	}

	if err := db.Delete(&student).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Student deleted",
	})
}
