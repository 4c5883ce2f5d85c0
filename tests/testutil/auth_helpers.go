package testutil

import (
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sheelhammi/sheelhammi-api/middleware"
	"github.com/sheelhammi/sheelhammi-api/models"
)

// MockAuthMiddleware sets up the context exactly as the real RequireAuth
// middleware does, without a token round-trip.
func MockAuthMiddleware(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, user)
		c.Set(middleware.ContextCapabilitiesKey, middleware.CapabilitiesFor(user.Role))
		c.Next()
	}
}

// CreateTestUser inserts a user with a bcrypt-hashed password
func CreateTestUser(t *testing.T, db *gorm.DB, name, email, password, role string, commissionRate *float64) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           role,
		CommissionRate: commissionRate,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
