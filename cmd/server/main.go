package main

import (
	"context"   // context package is needed for Redis operations
	"errors"    // Server shutdown errors
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"onesi/internal/api"                 // Custom package for API handlers
	"onesi/internal/config"              // Custom package for configuration
	"onesi/internal/db"                  // Database connection and migration
	"onesi/internal/middleware"          // Custom package for middleware
	"onesi/internal/repository"          // Repository contracts
	"onesi/internal/repository/gormrepo" // SQL repositories
	"onesi/internal/repository/memory"   // In-process repositories
	"onesi/internal/service"             // Application services
	"onesi/internal/utils"               // Cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	store := openStore(cfg)

	// Setup Redis client; without REDIS_ADDR caching is disabled and rate limits are per process
	var redisClient *redis.Client
	var cache utils.Cache = utils.NopCache{}
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		cancel()
		cache = utils.NewRedisCache(redisClient)
	}

	svc := service.New(store, service.Options{
		Cache:             cache,
		CacheTTL:          cfg.CacheTTL,
		AnalyticsCacheTTL: cfg.AnalyticsCacheTTL,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTTTL,
	})

	limiterStore, err := middleware.NewLimiterStore(redisClient, "onesi_track")
	if err != nil {
		logrus.Fatalf("failed to create rate limiter store: %v", err)
	}
	trackLimiter, err := middleware.RateLimitMiddleware(limiterStore, cfg.TrackRate)
	if err != nil {
		logrus.Fatalf("failed to create rate limiter: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.RouterConfig{
		Service:        svc,
		Users:          store.Users,
		JWTSecret:      cfg.JWTSecret,
		TrackLimiter:   trackLimiter,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "driver": cfg.DBDriver}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// setupLogger picks the logrus formatter and level from cfg
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// openStore connects the repositories selected by DB_DRIVER
func openStore(cfg *config.Config) repository.Store {
	if cfg.DBDriver == config.DriverMemory {
		logrus.Warn("Using in-memory storage, data is lost on restart")
		return memory.New()
	}
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			logrus.Fatalf("%v", err)
		}
	}
	return gormrepo.New(conn)
}
