package router

import (
	"log"
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/shaka3507/amanos/internal/feed"
	"github.com/shaka3507/amanos/internal/handlers"
	"github.com/shaka3507/amanos/internal/middleware"
	"github.com/shaka3507/amanos/internal/models"
	"github.com/shaka3507/amanos/internal/notify"
	"github.com/shaka3507/amanos/internal/repositories"
	"github.com/shaka3507/amanos/pkg/config"
	"github.com/shaka3507/amanos/pkg/metrics"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	slog.Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Alert{},
		&models.CrisisItem{},
		&models.ItemClaim{},
		&models.AlertMessage{},
		&models.MessageReaction{},
		&models.AlertInvitation{},
		&models.EmergencyContact{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	slog.Info("PostgreSQL auto-migrations completed for all models")

	// Health check and metrics - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", metrics.Handler())

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	groupRepo := repositories.NewPostgresGroupRepository(pgdb)
	alertRepo := repositories.NewPostgresAlertRepository(pgdb)
	itemRepo := repositories.NewPostgresItemRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	invitationRepo := repositories.NewPostgresInvitationRepository(pgdb)
	contactRepo := repositories.NewPostgresContactRepository(pgdb)
	deliveryLogRepo := repositories.NewMongoDeliveryLogRepository(mgClient.Database("amanos"))

	// --- Shared services ---
	hub := feed.NewHub()
	sender := notify.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)
	notifier := notify.NewNotifier(userRepo, groupRepo, contactRepo, deliveryLogRepo, sender, cfg.SiteURL)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	slog.Info("Auth routes configured")

	// Invitation previews are public so the join page can render before
	// sign-in.
	publicGroup := e.Group("/api/v1")
	invitationHandler := handlers.NewInvitationHandler(invitationRepo, groupRepo, alertRepo)
	invitationHandler.RegisterPublicInvitationRoutes(publicGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	slog.Info("JWT authentication middleware applied to /api/v1 group")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	// Alert routes
	alertHandler := handlers.NewAlertHandler(alertRepo, groupRepo, itemRepo, messageRepo, reactionRepo, contactRepo, userRepo, notifier, hub)
	alertHandler.RegisterAlertRoutes(api)

	// Message routes
	messageHandler := handlers.NewMessageHandler(alertRepo, groupRepo, messageRepo, reactionRepo, userRepo, notifier, hub)
	messageHandler.RegisterMessageRoutes(api)

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(messageRepo, reactionRepo, alertRepo, groupRepo)
	reactionHandler.RegisterReactionRoutes(api)

	// Item claim routes
	itemHandler := handlers.NewItemHandler(itemRepo, alertRepo, groupRepo, hub)
	itemHandler.RegisterItemRoutes(api)

	// Member upload routes
	memberHandler := handlers.NewMemberHandler(alertRepo, groupRepo, userRepo, invitationRepo, notifier)
	memberHandler.RegisterMemberRoutes(api)

	// Invitation acceptance
	invitationHandler.RegisterInvitationRoutes(api)

	// Emergency contact routes
	contactHandler := handlers.NewContactHandler(contactRepo, userRepo, notifier)
	contactHandler.RegisterContactRoutes(api)

	// Notification delivery log
	deliveryLogHandler := handlers.NewDeliveryLogHandler(alertRepo, deliveryLogRepo)
	deliveryLogHandler.RegisterDeliveryLogRoutes(api)

	slog.Info("All routes configured")
}
