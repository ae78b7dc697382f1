package main

import (
	"log"

	"github.com/devspacehq/devspace-api/internal/config"
	"github.com/devspacehq/devspace-api/internal/constants"
	"github.com/devspacehq/devspace-api/internal/database"
	"github.com/devspacehq/devspace-api/internal/handlers"
	"github.com/devspacehq/devspace-api/internal/middleware"
	"github.com/devspacehq/devspace-api/internal/repository"
	"github.com/devspacehq/devspace-api/internal/services"
	"github.com/devspacehq/devspace-api/internal/vault"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

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

	// Credential secrets are encrypted at rest; the key is mandatory
	secretVault, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("ENCRYPTION_KEY must be a 64-character hex string: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)

	// Services
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	accessService := services.NewAccessService(projectRepo, communityRepo)
	planService := services.NewPlanService(projectRepo, communityRepo, userRepo)
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, planService)
	communityService := services.NewCommunityService(communityRepo, userRepo, accessService, planService)
	notificationService := services.NewNotificationService(notificationRepo, communityRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, accessService, notificationService, aiService)
	messageService := services.NewMessageService(messageRepo, accessService)
	meetingService := services.NewMeetingService(meetingRepo, accessService, notificationService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, planService)
	projectHandler := handlers.NewProjectHandler(projectService, authService)
	communityHandler := handlers.NewCommunityHandler(communityService, authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	messageHandler := handlers.NewMessageHandler(messageService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	noteHandler := handlers.NewNoteHandler()
	commandHandler := handlers.NewCommandHandler()
	credentialHandler := handlers.NewCredentialHandler(secretVault)

	projectAccess := middleware.RequireProjectAccess(accessService)
	communityAccess := middleware.RequireCommunityAccess(accessService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "DevSpace API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PATCH("/me/plan", middleware.RequireAuth(), authHandler.ChangePlan)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)

			// Invitation routes stay outside the access middleware: a caller
			// without a pending entry must see 404, never 403
			projects.POST("/:id/invitation/accept", projectHandler.AcceptInvite)
			projects.POST("/:id/invitation/decline", projectHandler.DeclineInvite)

			// Task and thread routes resolve access in their services
			projects.GET("/:id/tasks", taskHandler.ListTasks)
			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.POST("/:id/tasks/generate", taskHandler.GenerateTasks)
			projects.GET("/:id/messages", messageHandler.ListProjectMessages)
			projects.POST("/:id/messages", messageHandler.PostProjectMessage)

			projects.GET("/:id", projectAccess, projectHandler.GetProject)
			projects.PATCH("/:id", projectAccess, projectHandler.UpdateProject)
			projects.DELETE("/:id", projectAccess, projectHandler.DeleteProject)
			projects.POST("/:id/share", projectAccess, projectHandler.ShareProject)
			projects.DELETE("/:id/share/:email", projectAccess, projectHandler.UnshareProject)

			projects.GET("/:id/notes", projectAccess, noteHandler.ListNotes)
			projects.POST("/:id/notes", projectAccess, noteHandler.CreateNote)
			projects.PATCH("/:id/notes/:note_id", projectAccess, noteHandler.UpdateNote)
			projects.DELETE("/:id/notes/:note_id", projectAccess, noteHandler.DeleteNote)

			projects.GET("/:id/commands", projectAccess, commandHandler.ListCommands)
			projects.POST("/:id/commands", projectAccess, commandHandler.CreateCommand)
			projects.PATCH("/:id/commands/:command_id", projectAccess, commandHandler.UpdateCommand)
			projects.DELETE("/:id/commands/:command_id", projectAccess, commandHandler.DeleteCommand)

			projects.GET("/:id/credentials", projectAccess, credentialHandler.ListCredentials)
			projects.POST("/:id/credentials", projectAccess, credentialHandler.CreateCredential)
			projects.GET("/:id/credentials/:credential_id", projectAccess, credentialHandler.GetCredential)
			projects.PATCH("/:id/credentials/:credential_id", projectAccess, credentialHandler.UpdateCredential)
			projects.DELETE("/:id/credentials/:credential_id", projectAccess, credentialHandler.DeleteCredential)
		}

		// Community routes (protected)
		communities := api.Group("/communities")
		communities.Use(middleware.RequireAuth())
		{
			communities.POST("", communityHandler.CreateCommunity)
			communities.GET("", communityHandler.ListCommunities)

			communities.POST("/:id/invitation/accept", communityHandler.AcceptInvite)
			communities.POST("/:id/invitation/decline", communityHandler.DeclineInvite)

			// Chat and meeting routes resolve access in their services
			communities.GET("/:id/messages", messageHandler.ListCommunityMessages)
			communities.POST("/:id/messages", messageHandler.PostCommunityMessage)
			communities.POST("/:id/messages/read", messageHandler.MarkRead)
			communities.GET("/:id/meetings", meetingHandler.ListMeetings)
			communities.POST("/:id/meetings", meetingHandler.StartMeeting)

			communities.GET("/:id", communityAccess, communityHandler.GetCommunity)
			communities.PATCH("/:id", communityAccess, communityHandler.UpdateCommunity)
			communities.DELETE("/:id", communityAccess, communityHandler.DeleteCommunity)
			communities.POST("/:id/invite", communityAccess, communityHandler.InviteMember)
			communities.DELETE("/:id/members/:user_id", communityAccess, communityHandler.RemoveMember)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskHandler.UnassignTask)
		}

		// Meeting routes (protected)
		meetings := api.Group("/meetings")
		meetings.Use(middleware.RequireAuth())
		{
			meetings.POST("/:id/end", meetingHandler.EndMeeting)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkNotificationRead)
		}

		// Unread chat counters (protected)
		api.GET("/messages/unread", middleware.RequireAuth(), messageHandler.UnreadCounts)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
