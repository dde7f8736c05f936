package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/config"
	"github.com/hiromasa-t/project-collab-api/internal/database"
	"github.com/hiromasa-t/project-collab-api/internal/handlers"
	"github.com/hiromasa-t/project-collab-api/internal/middleware"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/hiromasa-t/project-collab-api/internal/services"
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

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	identityService := services.NewIdentityService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	inviteService := services.NewInviteService(inviteRepo, projectRepo, userRepo, cfg.InviteTTL)
	membershipService := services.NewMembershipService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	progressService := services.NewProgressService(taskRepo)

	// Background purge of expired invites
	reaper := services.NewInviteReaper(inviteRepo, cfg.InviteReapPeriod)
	reaper.Start()

	// Handlers
	userHandler := handlers.NewUserHandler(identityService)
	projectHandler := handlers.NewProjectHandler(projectService, inviteService, membershipService, progressService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Collaboration API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/me", userHandler.FindOrCreateMe)
			users.PUT("/me", userHandler.UpdateMe)
		}

		projects := api.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.POST("/me", projectHandler.ListMyProjects)
			projects.POST("/join", projectHandler.JoinProject)
			projects.POST("/progress-batch", projectHandler.BatchProgress)
			projects.GET("/:id", middleware.RequireProject(), projectHandler.GetProject)
			projects.POST("/:id/invites", middleware.RequireProject(), projectHandler.CreateInvite)
			projects.POST("/:id/add-member", middleware.RequireProject(), projectHandler.AddMember)
			projects.POST("/:id/remove-member", middleware.RequireProject(), projectHandler.RemoveMember)
			projects.POST("/:id/tasks", middleware.RequireProject(), taskHandler.CreateTask)
			projects.GET("/:id/tasks", middleware.RequireProject(), taskHandler.ListProjectTasks)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("/assigned/:sub", taskHandler.ListAssignedTasks)
			tasks.POST("/:id/reassign", middleware.RequireTask(), taskHandler.ReassignTask)
			tasks.DELETE("/:id", middleware.RequireTask(), taskHandler.DeleteTask)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then stop the reaper and drain the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	reaper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}
