package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
)

// Context keys set by RequireAuth
const (
	ContextUserKey         = "current_user"
	ContextCapabilitiesKey = "capabilities"
)

// Capabilities is the caller's authority, resolved once per request from
// their role instead of re-checking role strings in every handler.
type Capabilities struct {
	// ManageAllOrders covers the full admin surface: order CRUD, money
	// fields, assignment, finances, content and reporting.
	ManageAllOrders bool
	// AdvanceOwnAssignedOrder covers the employee surface: advancing the
	// status of own assigned orders and attaching work files.
	AdvanceOwnAssignedOrder bool
}

// CapabilitiesFor maps a role onto its capability set
func CapabilitiesFor(role string) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{ManageAllOrders: true}
	case models.RoleEmployee:
		return Capabilities{AdvanceOwnAssignedOrder: true}
	default:
		return Capabilities{}
	}
}

// RequireAuth validates the bearer token, loads the caller's user row and
// stores it with the resolved capability set in the Gin context.
func RequireAuth(tm *services.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or malformed Authorization header",
				},
			})
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tm.ParseToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Session token is invalid or expired",
				},
			})
			c.Abort()
			return
		}

		db := config.GetDB()
		var user models.User
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Account not found or deactivated",
				},
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextCapabilitiesKey, CapabilitiesFor(user.Role))
		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the Gin context
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// GetCapabilities extracts the resolved capability set from the Gin context
func GetCapabilities(c *gin.Context) Capabilities {
	value, exists := c.Get(ContextCapabilitiesKey)
	if !exists {
		return Capabilities{}
	}
	caps, _ := value.(Capabilities)
	return caps
}

// RequireCapability rejects callers whose capability set does not satisfy
// the check. Must run after RequireAuth.
func RequireCapability(check func(Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !check(GetCapabilities(c)) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin gates the admin surface
func RequireAdmin() gin.HandlerFunc {
	return RequireCapability(func(caps Capabilities) bool { return caps.ManageAllOrders })
}

// RequireEmployee gates the employee dashboard surface
func RequireEmployee() gin.HandlerFunc {
	return RequireCapability(func(caps Capabilities) bool { return caps.AdvanceOwnAssignedOrder })
}
