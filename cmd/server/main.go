package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/auth"
	"github.com/kmazurek/ticket-system-api/internal/config"
	"github.com/kmazurek/ticket-system-api/internal/constants"
	"github.com/kmazurek/ticket-system-api/internal/database"
	"github.com/kmazurek/ticket-system-api/internal/handlers"
	"github.com/kmazurek/ticket-system-api/internal/middleware"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/services"
	"github.com/kmazurek/ticket-system-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	logg := logger.New(cfg.GinMode)

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
			logg.Warn().Err(err).Msg("failed to add indexes")
		}
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logg))

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

	// Token manager for Bearer authentication
	tokens := auth.NewTokenManager(cfg.TokenSecret, "ticket-system-api")

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	ticketService := services.NewTicketService(ticketRepo, userRepo)
	commentService := services.NewCommentService(commentRepo, ticketRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Ticket System API is running",
		})
	})

	// API routes; every request resolves a principal (or stays anonymous)
	api := r.Group("/api")
	api.Use(middleware.WithPrincipal(tokens))
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/token", authHandler.CreateToken)
			users.POST("/logout", middleware.RequireAuth(), authHandler.Logout)
			users.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			users.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateCurrentUser)
			users.GET("", middleware.RequireAuth(), userHandler.ListEmployees)
			users.POST("", middleware.RequireAuth(), userHandler.CreateUser)
			users.DELETE("/:id", middleware.RequireAuth(), userHandler.DeleteUser)
		}

		// Ticket routes; reads are open, writes require identity
		tickets := api.Group("/tickets")
		{
			tickets.GET("", ticketHandler.ListTickets)
			tickets.GET("/stats", ticketHandler.Stats)
			tickets.GET("/assigned-to-me", middleware.RequireAuth(), ticketHandler.AssignedToMe)
			tickets.GET("/created-by-me", middleware.RequireAuth(), ticketHandler.CreatedByMe)
			tickets.GET("/:id", ticketHandler.GetTicket)
			tickets.POST("", middleware.RequireAuth(), ticketHandler.CreateTicket)
			tickets.PATCH("/:id", middleware.RequireAuth(), ticketHandler.UpdateTicket)
			tickets.DELETE("/:id", middleware.RequireAuth(), ticketHandler.DeleteTicket)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.GET("", commentHandler.ListComments)
			comments.GET("/:id", commentHandler.GetComment)
			comments.POST("", middleware.RequireAuth(), commentHandler.CreateComment)
			comments.PATCH("/:id", middleware.RequireAuth(), commentHandler.UpdateComment)
			comments.DELETE("/:id", middleware.RequireAuth(), commentHandler.DeleteComment)
		}
	}

	// Start server
	logg.Info().Str("addr", ":8080").Msg("server starting")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
