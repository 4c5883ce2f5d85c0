package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sheelhammi/sheelhammi-api/config"
	"github.com/sheelhammi/sheelhammi-api/controllers"
	"github.com/sheelhammi/sheelhammi-api/middleware"
	"github.com/sheelhammi/sheelhammi-api/models"
	"github.com/sheelhammi/sheelhammi-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := cfg.Logger
	logger.Info("Starting Sheel Hammi API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database migration completed successfully")

	// S3 is optional in development; uploads report unavailable without it
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			logger.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		logger.Warn("AWS_S3_BUCKET not set, file uploads disabled")
	}

	router := buildRouter(cfg)

	addr := ":" + cfg.Port
	logger.Infof("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

func buildRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(cors.Default())

	tm := services.NewTokenManager(cfg.JWTSecret)

	v1 := router.Group("/api/v1")
	{
		// Public marketing-site surface
		v1.GET("/health", healthCheck)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/services", controllers.ListServices)
		v1.GET("/posts", controllers.ListPosts)
		v1.GET("/posts/:slug", controllers.GetPost)
		v1.GET("/testimonials", controllers.ListTestimonials)
		v1.GET("/portfolio", controllers.ListPortfolio)

		v1.POST("/auth/login", controllers.Login)
		v1.GET("/auth/me", middleware.RequireAuth(tm), controllers.Me)
	}

	admin := v1.Group("", middleware.RequireAuth(tm), middleware.RequireAdmin())
	{
		admin.GET("/orders", controllers.ListOrders)
		admin.POST("/orders", controllers.CreateOrder)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.PATCH("/orders/:id", controllers.UpdateOrder)
		admin.DELETE("/orders/:id", controllers.DeleteOrder)
		admin.POST("/orders/:id/payments", controllers.AddPayment)

		admin.GET("/admin/stats", controllers.GetAdminStats)
		admin.POST("/admin/notifications", controllers.CreateNotification)

		admin.GET("/students", controllers.ListStudents)
		admin.POST("/students", controllers.CreateStudent)
		admin.PATCH("/students/:id", controllers.UpdateStudent)
		admin.DELETE("/students/:id", controllers.DeleteStudent)

		admin.GET("/users", controllers.ListUsers)
		admin.POST("/users", controllers.CreateUser)
		admin.PATCH("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)

		admin.POST("/categories", controllers.CreateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)
		admin.POST("/services", controllers.CreateService)
		admin.PATCH("/services/:id", controllers.UpdateService)
		admin.DELETE("/services/:id", controllers.DeleteService)

		admin.GET("/transfers", controllers.ListTransfers)
		admin.POST("/transfers", controllers.CreateTransfer)
		admin.POST("/transfers/:id/complete", controllers.CompleteTransfer)
		admin.GET("/expenses", controllers.ListExpenses)
		admin.POST("/expenses", controllers.CreateExpense)
		admin.DELETE("/expenses/:id", controllers.DeleteExpense)

		admin.POST("/posts", controllers.CreatePost)
		admin.PATCH("/posts/:id", controllers.UpdatePost)
		admin.DELETE("/posts/:id", controllers.DeletePost)
		admin.POST("/testimonials", controllers.CreateTestimonial)
		admin.DELETE("/testimonials/:id", controllers.DeleteTestimonial)
		admin.POST("/portfolio", controllers.CreatePortfolioItem)
		admin.DELETE("/portfolio/:id", controllers.DeletePortfolioItem)

		admin.POST("/uploads", controllers.UploadFile)
	}

	dashboard := v1.Group("/dashboard", middleware.RequireAuth(tm), middleware.RequireEmployee())
	{
		dashboard.GET("/orders", controllers.ListMyOrders)
		dashboard.GET("/orders/:id", controllers.GetMyOrder)
		dashboard.PATCH("/orders/:id", controllers.UpdateMyOrder)
		dashboard.GET("/earnings", controllers.GetEarnings)
		dashboard.GET("/notifications", controllers.ListMyNotifications)
		dashboard.PATCH("/notifications", controllers.MarkNotifications)
		dashboard.POST("/uploads", controllers.UploadFile)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sheel Hammi API is running",
	})
}
