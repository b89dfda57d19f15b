package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	tokenService := services.NewTokenService(cfg.JWTSecret, constants.TokenTTL)
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(tokenService, authService))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
