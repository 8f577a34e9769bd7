package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptboard/internal/auth"
	"promptboard/internal/config"
	"promptboard/internal/drag"
	"promptboard/internal/handler"
	"promptboard/internal/middleware"
	"promptboard/internal/prompt"
	"promptboard/internal/repository"
	"promptboard/internal/store"
	"promptboard/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Server struct {
	Engine *gin.Engine
	Repo   repository.SnapshotRepository
	Store  *store.Store
	Logger *zap.Logger
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	log := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	log.Info("✅ Connected to storage", zap.String("driver", cfg.StorageDriver))

	boardStore := store.Open(ctx, repo, store.WithKey(cfg.StorageKey), store.WithLogger(log))
	resolver := drag.NewResolver(boardStore)
	generator := prompt.NewOpenAIClient(prompt.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	})
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY is not set, prompt generation is disabled")
	}

	var tokens *auth.Tokens
	if cfg.AuthSecret != "" {
		tokens = auth.NewTokens(cfg.AuthSecret, cfg.AuthTokenTTL)
	}

	// Setup Gin
	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinZapMiddleware(log))

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(boardStore, resolver, generator, log)
	promptHandler := handler.NewPromptHandler(generator, log)
	healthHandler := handler.NewHealthHandler(repo, cfg.StorageDriver)

	// Public routes
	r.GET("/health", healthHandler.Check)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Board routes, protected when AUTH_SECRET is set
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(tokens))
	{
		api.GET("/board", boardHandler.GetBoard)

		// Column routes
		api.POST("/columns", boardHandler.CreateColumn)
		api.PATCH("/columns/:columnId", boardHandler.RenameColumn)

		// Card routes
		api.POST("/columns/:columnId/cards", boardHandler.CreateCard)
		api.PUT("/columns/:columnId/cards/:cardId", boardHandler.UpdateCard)
		api.DELETE("/columns/:columnId/cards/:cardId", boardHandler.DeleteCard)
		api.POST("/cards/:cardId/move", boardHandler.MoveCard)
		api.POST("/cards/:cardId/generate-prompt", boardHandler.GenerateCardPrompt)
		api.POST("/drag", boardHandler.Drag)

		// Prompt routes
		api.POST("/generate-prompt", promptHandler.Generate)
	}

	return &Server{
		Engine: r,
		Repo:   repo,
		Store:  boardStore,
		Logger: log,
		Config: cfg,
	}, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return repository.NewMemoryRepository(), nil
	case config.DriverBolt:
		return repository.NewBoltRepository(cfg.BoltPath, "")
	case config.DriverRedis:
		client, err := repository.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisRepository(client), nil
	case config.DriverPostgres:
		db, err := repository.OpenPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresRepository(db), nil
	case config.DriverAzure:
		return repository.NewAzureTableRepository(ctx, cfg.AzureConnectionString, cfg.AzureTableName)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("❌ Failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}
	if err := s.Repo.Close(); err != nil {
		s.Logger.Error("failed to close storage", zap.Error(err))
	}

	s.Logger.Info("✅ Server exited properly")
	_ = s.Logger.Sync()
}
