package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/tests/testutil"
)

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "correct-password", models.RoleAdmin, nil)
	deactivated := testutil.CreateTestUser(t, db, "Gone", "gone@example.com", "correct-password", models.RoleEmployee, nil)
	assert.NoError(t, db.Model(&deactivated).Update("is_active", false).Error)

	router := gin.New()
	router.POST("/api/v1/auth/login", Login)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid credentials",
			body:       map[string]interface{}{"email": "admin@example.com", "password": "correct-password"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       map[string]interface{}{"email": "admin@example.com", "password": "wrong"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "unknown email",
			body:       map[string]interface{}{"email": "nobody@example.com", "password": "whatever"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "deactivated account",
			body:       map[string]interface{}{"email": "gone@example.com", "password": "correct-password"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
		},
		{
			name:       "malformed email",
			body:       map[string]interface{}{"email": "not-an-email", "password": "whatever"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/api/v1/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, w))
			}
		})
	}
}

func TestLoginReturnsUsableToken(t *testing.T) {
	db := setupTestDB(t)
	user := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)

	router := gin.New()
	router.POST("/api/v1/auth/login", Login)

	w := performRequest(router, "POST", "/api/v1/auth/login",
		map[string]interface{}{"email": "admin@example.com", "password": "password"})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	returned := data["user"].(map[string]interface{})
	assert.Equal(t, float64(user.ID), returned["id"])
	// the password hash must never leave the server
	assert.NotContains(t, returned, "password_hash")
}

func TestMe(t *testing.T) {
	db := setupTestDB(t)
	user := testutil.CreateTestUser(t, db, "Admin", "admin@example.com", "password", models.RoleAdmin, nil)

	router := gin.New()
	router.GET("/api/v1/auth/me", testutil.MockAuthMiddleware(user), Me)

	w := performRequest(router, "GET", "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, user.Email, data["email"])
}
