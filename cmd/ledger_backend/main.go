package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/handlers"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/middleware"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/platform/config"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/repositories/database/pgsql"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/repositories/memory"
	redisrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/repositories/redis"
	"github.com/sandeshkarki55/accounting-software-sub002/migrations"
	"github.com/sandeshkarki55/accounting-software-sub002/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AddAllowHeaders("Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("storage_backend", cfg.StorageBackend),
		slog.String("sequence_backend", cfg.SequenceBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories wires the configured storage and sequence backends.
// The returned cleanup closes every connection that was opened.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.RepositoryProvider, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var counter repositories.SequenceCounter
	if cfg.SequenceBackend == config.BackendRedis {
		client, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return repositories.RepositoryProvider{}, cleanup, err
		}
		closers = append(closers, func() { _ = client.Close() })
		counter = redisrepo.NewSequenceCounter(client)
		logger.Info("Redis sequence counter connected.")
	}

	if cfg.StorageBackend == config.BackendMemory {
		logger.Warn("Using in-memory storage; data is lost on exit.")
		var opts []memory.StoreOption
		if counter != nil {
			opts = append(opts, memory.WithSequenceCounter(counter))
		}
		return memory.New(opts...).Provider(), cleanup, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return repositories.RepositoryProvider{}, cleanup, err
	}
	closers = append(closers, dbPool.Close)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
		return repositories.RepositoryProvider{}, cleanup, err
	}

	var opts []pgsql.TxOption
	if counter != nil {
		opts = append(opts, pgsql.WithSequenceCounter(counter))
	}
	return pgsql.NewRepositoryProvider(dbPool, opts...), cleanup, nil
}
