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

func setupContentRouter(db *gorm.DB, actor models.User) *gin.Engine {
	router := gin.New()
	router.GET("/api/v1/posts", ListPosts)
	router.GET("/api/v1/posts/:slug", GetPost)
	router.GET("/api/v1/testimonials", ListTestimonials)
	router.GET("/api/v1/portfolio", ListPortfolio)

	admin := router.Group("/api/v1", testutil.MockAuthMiddleware(actor))
	admin.POST("/posts", CreatePost)
	admin.PATCH("/posts/:id", UpdatePost)
	admin.DELETE("/posts/:id", DeletePost)
	admin.POST("/testimonials", CreateTestimonial)
	admin.DELETE("/testimonials/:id", DeleteTestimonial)
	admin.POST("/portfolio", CreatePortfolioItem)
	admin.DELETE("/portfolio/:id", DeletePortfolioItem)
	return router
}

func TestPostPublishing(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupContentRouter(db, admin)

	w := performRequest(router, "POST", "/api/v1/posts", map[string]interface{}{
		"title":        "How to pick a thesis topic",
		"slug":         "thesis-topic",
		"content":      "...",
		"is_published": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(router, "POST", "/api/v1/posts", map[string]interface{}{
		"title":   "Draft",
		"slug":    "draft",
		"content": "...",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// public list shows published posts only
	w = performRequest(router, "GET", "/api/v1/posts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)

	// published post resolves by slug, the draft does not
	w = performRequest(router, "GET", "/api/v1/posts/thesis-topic", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "GET", "/api/v1/posts/draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// duplicate slug
	w = performRequest(router, "POST", "/api/v1/posts", map[string]interface{}{
		"title":   "Dup",
		"slug":    "draft",
		"content": "...",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, w))
}

func TestUpdateAndDeletePost(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupContentRouter(db, admin)

	post := models.Post{Title: "T", Slug: "t", Content: "c"}
	assert.NoError(t, db.Create(&post).Error)

	w := performRequest(router, "PATCH", fmt.Sprintf("/api/v1/posts/%d", post.ID),
		map[string]interface{}{"is_published": true})
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Post
	assert.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.True(t, reloaded.IsPublished)

	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/posts/%d", post.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/posts/%d", post.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTestimonials(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupContentRouter(db, admin)

	w := performRequest(router, "POST", "/api/v1/testimonials", map[string]interface{}{
		"student_name": "Sara",
		"content":      "خدمة ممتازة",
		"is_published": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// rating defaults to 5
	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 5.0, data["rating"])

	w = performRequest(router, "POST", "/api/v1/testimonials", map[string]interface{}{
		"student_name": "Omar",
		"content":      "x",
		"rating":       9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "GET", "/api/v1/testimonials", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w)["data"], 1)
}

func TestPortfolioPresignedImages(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupContentRouter(db, admin)

	mock := services.NewMockS3Service()
	mock.SetAsMockForTesting()
	defer services.SetS3Service(nil)

	// seed the object the item points at
	key, err := mock.UploadFile(makeFileHeader(t, "cover.png", []byte("png-bytes")))
	assert.NoError(t, err)
	assert.Equal(t, "uploads/mock_cover.png", key)

	w := performRequest(router, "POST", "/api/v1/portfolio", map[string]interface{}{
		"title":        "Graduation project",
		"image_s3_key": key,
		"is_published": true,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	item := resp["data"].(map[string]interface{})
	id := uint(item["id"].(float64))

	w = performRequest(router, "GET", "/api/v1/portfolio", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	listed := decodeResponse(t, w)["data"].([]interface{})
	if assert.Len(t, listed, 1) {
		first := listed[0].(map[string]interface{})
		url, _ := first["image_url"].(string)
		assert.Contains(t, url, key)
	}

	// deleting the item removes the backing object too
	w = performRequest(router, "DELETE", fmt.Sprintf("/api/v1/portfolio/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mock.FileExists(key))
}

func TestCreatePortfolioItemUnknownService(t *testing.T) {
	db := setupTestDB(t)
	admin := seedAdmin(t, db)
	router := setupContentRouter(db, admin)

	w := performRequest(router, "POST", "/api/v1/portfolio", map[string]interface{}{
		"title":      "Orphan",
		"service_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SERVICE_NOT_FOUND", errorCode(t, w))
}
