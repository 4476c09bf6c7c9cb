package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leomatch/leomatch-backend/internal/config"
	"github.com/leomatch/leomatch-backend/internal/delivery/http"
	"github.com/leomatch/leomatch-backend/internal/delivery/http/handler"
	"github.com/leomatch/leomatch-backend/internal/delivery/http/middleware"
	"github.com/leomatch/leomatch-backend/internal/delivery/telegram"
	"github.com/leomatch/leomatch-backend/internal/infrastructure/database"
	"github.com/leomatch/leomatch-backend/internal/infrastructure/gemini"
	"github.com/leomatch/leomatch-backend/internal/infrastructure/server"
	"github.com/leomatch/leomatch-backend/internal/repository/postgres"
	"github.com/leomatch/leomatch-backend/internal/usecase/admin"
	"github.com/leomatch/leomatch-backend/internal/usecase/auth"
	"github.com/leomatch/leomatch-backend/internal/usecase/matching"
	"github.com/leomatch/leomatch-backend/internal/usecase/registration"
	"github.com/leomatch/leomatch-backend/internal/usecase/relay"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
	Log    *zap.SugaredLogger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, log *zap.SugaredLogger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Redis is optional; without it webhook dedup is disabled.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
	}

	// Gemini is optional; without it matches get no icebreakers.
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Warnw("failed to initialize gemini client", "error", err)
			geminiClient = nil
		}
	}

	// Initialize repositories
	store := postgres.NewStore(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Initialize Telegram delivery
	botClient := telegram.NewClient(cfg.Telegram.BotToken)
	var dedup *telegram.UpdateCache
	if redisClient != nil {
		dedup = telegram.NewUpdateCache(redisClient, cfg.Telegram.DedupTTL)
	}

	// Initialize use cases
	registrationUseCase := registration.NewUseCase(store, botClient, log)

	var ice matching.IcebreakerSource
	if geminiClient != nil {
		ice = geminiClient
	}
	matchingUseCase := matching.NewUseCase(store, botClient, matching.MutualLikePolicy{}, ice, log)

	relayUseCase := relay.NewUseCase(store, botClient, log)
	adminUseCase := admin.NewUseCase(store, statsRepo)
	authUseCase := auth.NewUseCase(
		cfg.Admin.Username,
		cfg.Admin.PasswordHash,
		cfg.JWT.Secret,
		cfg.JWT.ExpiryMin,
	)

	dispatcher := telegram.NewDispatcher(
		registrationUseCase,
		matchingUseCase,
		relayUseCase,
		botClient,
		dedup,
		log,
	)

	// Initialize handlers
	webhookHandler := handler.NewWebhookHandler(dispatcher, log)
	authHandler := handler.NewAuthHandler(authUseCase)
	adminHandler := handler.NewAdminHandler(adminUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		webhookHandler,
		authHandler,
		adminHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, log)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
		Log:    log,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Log.Warnw("error closing redis", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
