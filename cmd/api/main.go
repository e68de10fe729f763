package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/locarhq/locar-backend/internal/database"
	"github.com/locarhq/locar-backend/internal/handlers"
	"github.com/locarhq/locar-backend/internal/middleware"
	"github.com/locarhq/locar-backend/internal/reservations"
	"github.com/locarhq/locar-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Wire the reservation engine
	store := reservations.NewGormStore(db)
	notifier := services.NewReservationNotifier(db)
	svc := reservations.NewService(store, notifier)

	// Lifecycle sweeper
	scheduler := cron.New()
	sweeper := services.NewSweeper(db, svc)
	if err := sweeper.Start(scheduler); err != nil {
		log.Fatalf("Failed to schedule reservation sweeper: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		api.GET("/vehicles/available", handlers.GetAvailableVehicles(svc))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Reservation routes
			res := protected.Group("/reservations")
			{
				res.POST("", handlers.CreateReservation(svc))
				res.GET("", handlers.ListReservations(svc))
				res.GET("/:id", handlers.GetReservation(svc))
				res.PATCH("/:id/status", middleware.StaffOnly(), handlers.UpdateReservationStatus(svc))
				res.DELETE("/:id", handlers.CancelReservation(svc))
			}

			// Fleet management routes
			vehicles := protected.Group("/vehicles")
			vehicles.Use(middleware.StaffOnly())
			{
				vehicles.GET("", handlers.GetVehicles(db))
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.PUT("/:id", handlers.UpdateVehicle(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
