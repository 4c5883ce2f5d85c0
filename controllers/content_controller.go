package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
)

// ListPosts handles GET /api/v1/posts (public) - published posts only
func ListPosts(c *gin.Context) {
	var posts []models.Post
	if err := config.GetDB().Where("is_published = ?", true).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    posts,
	})
}

// GetPost handles GET /api/v1/posts/:slug (public)
func GetPost(c *gin.Context) {
	var post models.Post
	if err := config.GetDB().Where("slug = ? AND is_published = ?", c.Param("slug"), true).
		First(&post).Error; err != nil {
		respondNotFound(c, "POST_NOT_FOUND", "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    post,
	})
}

// CreatePostRequest represents the request body for creating a post
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content" binding:"required"`
	IsPublished bool   `json:"is_published"`
}

// CreatePost handles POST /api/v1/posts (admin only)
func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	post := models.Post{
		Title:       req.Title,
		Slug:        req.Slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		IsPublished: req.IsPublished,
	}
	if err := config.GetDB().Create(&post).Error; err != nil {
		respondDBError(c, err, "A post with this slug already exists")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    post,
	})
}

// UpdatePostRequest represents the request body for updating a post
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	IsPublished *bool   `json:"is_published"`
}

// UpdatePost handles PATCH /api/v1/posts/:id (admin only)
func UpdatePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "post id must be numeric")
		return
	}

	db := config.GetDB()
	var post models.Post
	if err := db.First(&post, id).Error; err != nil {
		respondNotFound(c, "POST_NOT_FOUND", "Post not found")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		if err := db.Model(&post).Updates(updates).Error; err != nil {
			respondDBError(c, err, "A post with this slug already exists")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    post,
	})
}

// DeletePost handles DELETE /api/v1/posts/:id (admin only)
func DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "post id must be numeric")
		return
	}

	db := config.GetDB()
	var post models.Post
	if err := db.First(&post, id).Error; err != nil {
		respondNotFound(c, "POST_NOT_FOUND", "Post not found")
		return
	}

	if err := db.Delete(&post).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted",
	})
}

// ListTestimonials handles GET /api/v1/testimonials (public)
func ListTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	if err := config.GetDB().Where("is_published = ?", true).
		Order("created_at DESC").Find(&testimonials).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    testimonials,
	})
}

// CreateTestimonialRequest represents the request body for a testimonial
type CreateTestimonialRequest struct {
	StudentName string `json:"student_name" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Rating      int    `json:"rating" binding:"omitempty,min=1,max=5"`
	IsPublished bool   `json:"is_published"`
}

// CreateTestimonial handles POST /api/v1/testimonials (admin only)
func CreateTestimonial(c *gin.Context) {
	var req CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rating := req.Rating
	if rating == 0 {
		rating = 5
	}
	testimonial := models.Testimonial{
		StudentName: req.StudentName,
		Content:     req.Content,
		Rating:      rating,
		IsPublished: req.IsPublished,
	}
	if err := config.GetDB().Create(&testimonial).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    testimonial,
	})
}

// DeleteTestimonial handles DELETE /api/v1/testimonials/:id (admin only)
func DeleteTestimonial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "testimonial id must be numeric")
		return
	}

	db := config.GetDB()
	var testimonial models.Testimonial
	if err := db.First(&testimonial, id).Error; err != nil {
		respondNotFound(c, "TESTIMONIAL_NOT_FOUND", "Testimonial not found")
		return
	}

	if err := db.Delete(&testimonial).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Testimonial deleted",
	})
}

// ListPortfolio handles GET /api/v1/portfolio (public) - published items
// with presigned image URLs
func ListPortfolio(c *gin.Context) {
	var items []models.PortfolioItem
	if err := config.GetDB().Preload("Service").Where("is_published = ?", true).
		Order("created_at DESC").Find(&items).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	s3Service := services.GetS3Service()
	if s3Service != nil {
		for i := range items {
			if items[i].ImageS3Key == nil {
				continue
			}
			if url, err := s3Service.GetPresignedURL(*items[i].ImageS3Key); err == nil && url != "" {
				items[i].ImageURL = &url
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// CreatePortfolioItemRequest represents the request body for a portfolio item
type CreatePortfolioItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	ServiceID   *uint   `json:"service_id"`
	ImageS3Key  *string `json:"image_s3_key"`
	IsPublished bool    `json:"is_published"`
}

// CreatePortfolioItem handles POST /api/v1/portfolio (admin only)
func CreatePortfolioItem(c *gin.Context) {
	var req CreatePortfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	db := config.GetDB()
	if req.ServiceID != nil {
		if err := db.First(&models.Service{}, *req.ServiceID).Error; err != nil {
			respondNotFound(c, "SERVICE_NOT_FOUND", "Service not found")
			return
		}
	}

	item := models.PortfolioItem{
		Title:       req.Title,
		Description: req.Description,
		ServiceID:   req.ServiceID,
		ImageS3Key:  req.ImageS3Key,
		IsPublished: req.IsPublished,
	}
	if err := db.Create(&item).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeletePortfolioItem handles DELETE /api/v1/portfolio/:id (admin only).
// The backing S3 object is removed as well.
func DeletePortfolioItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidationError(c, "portfolio item id must be numeric")
		return
	}

	db := config.GetDB()
	var item models.PortfolioItem
	if err := db.First(&item, id).Error; err != nil {
		respondNotFound(c, "PORTFOLIO_ITEM_NOT_FOUND", "Portfolio item not found")
		return
	}

	if item.ImageS3Key != nil {
		if s3Service := services.GetS3Service(); s3Service != nil {
			if err := s3Service.DeleteFile(*item.ImageS3Key); err != nil {
				if cfg := config.GetConfig(); cfg != nil && cfg.Logger != nil {
					cfg.Logger.Warnw("failed to delete portfolio image", "key", *item.ImageS3Key, "error", err)
				}
			}
		}
	}

	if err := db.Delete(&item).Error; err != nil {
		respondDBError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Portfolio item deleted",
	})
}
