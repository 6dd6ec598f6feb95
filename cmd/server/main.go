package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Process signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Server timeouts

	"finflow/internal/api"        // Custom package for API handlers
	"finflow/internal/config"     // Custom package for configuration
	"finflow/internal/db"         // Custom package for database bootstrap
	"finflow/internal/repository" // Custom package for store access
	"finflow/internal/service"    // Custom package for the auth flow
	"finflow/internal/utils"      // Password hashing and tokens

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	setupLogger(cfg)

	// Connect to the database; the pool lives until shutdown
	gdb, err := db.OpenFromConfig(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logrus.Errorf("failed to close DB: %v", err)
		}
	}()

	// Setup Redis client when caching is configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logrus.Info("REDIS_ADDR not set, transaction listing cache disabled")
	}

	hasher, err := utils.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		logrus.Fatalf("invalid password hashing config: %v", err)
	}
	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		logrus.Fatalf("invalid token config: %v", err)
	}
	authService, err := service.NewAuthService(repository.NewUserRepository(gdb), hasher, tokens)
	if err != nil {
		logrus.Fatalf("failed to initialise auth service: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.RouterConfig{
		BasePath:     cfg.BasePath,
		CORSOrigins:  cfg.CORSOrigins,
		DB:           gdb,
		Auth:         authService,
		Tokens:       tokens,
		Transactions: repository.NewTransactionRepository(gdb),
		Cache:        api.ListCache{Client: redisClient, TTL: cfg.CacheTTL},
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Infof("Server running on %s", server.Addr) // Log server start
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

// setupLogger configures the global logrus logger from cfg
func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
