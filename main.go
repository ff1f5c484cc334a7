package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/factrix/factrix-api/config"
	"github.com/factrix/factrix-api/controllers"
	"github.com/factrix/factrix-api/middleware"
	"github.com/factrix/factrix-api/models"
	"github.com/factrix/factrix-api/services"
)

func main() {
	log.Println("Starting Factrix API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	err = db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.RevokedToken{},
		&models.Order{},
		&models.TNA{},
		&models.Fabric{},
		&models.TechpackIteration{},
		&models.Costing{},
		&models.Comment{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitS3Service(); err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitMailService()

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires the middleware chain and the route table
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Cookie-based sessions require a credentialed CORS setup with an
	// explicit origin
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheck)

	auth := router.Group("/auth")
	{
		auth.POST("/send-otp", controllers.SendOTP)
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logout", controllers.Logout)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
		auth.GET("/check-session", middleware.Authenticated(), controllers.CheckSession)
		auth.POST("/change-password", middleware.Authenticated(), controllers.ChangePassword)
	}

	order := router.Group("/order", middleware.Authenticated())
	{
		order.POST("/create", middleware.MerchantOnly(), controllers.CreateOrder)
		order.GET("/all", controllers.GetAllOrders)
		order.GET("/search", controllers.SearchOrderByStyle)
		order.GET("/details/:orderId", controllers.GetOrderDetails)
		order.PATCH("/update-tna/:tnaId", middleware.MerchantOnly(), controllers.UpdateTNA)
		order.PATCH("/update-fabric/:fabricId", middleware.MerchantOnly(), controllers.UpdateFabric)
		order.PATCH("/update-techpack/:techpackId", middleware.MerchantOnly(), controllers.UpdateTechpack)
		order.PATCH("/update-costing/:costingId", controllers.UpdateCosting)
		order.PATCH("/update-status/:orderId", controllers.UpdateOrderStatus)
	}

	notification := router.Group("/notification", middleware.Authenticated())
	{
		notification.GET("", controllers.GetMyNotifications)
		notification.POST("/comment", controllers.AddComment)
		notification.GET("/order/:orderId/comments", controllers.GetComments)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Factrix API is running",
	})
}
