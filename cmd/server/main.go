package main

import (
	"context"   // context package is needed for Redis operations and shutdown
	"errors"    // Server closed detection
	"net/http"  // HTTP server
	"os"        // Signal types
	"os/signal" // Graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // Shutdown grace period

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"voting_system/internal/api"    // Custom package for API handlers
	"voting_system/internal/config" // Custom package for configuration
	"voting_system/internal/db"     // Custom package for database setup
	"voting_system/internal/oauth"  // Custom package for identity providers
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine-readable logs in production
	}

	// Connect to the database
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	// Run migrations on start when asked to
	if cfg.AutoMigrate {
		if err := db.Migrate(conn); err != nil {
			logrus.Fatalf("failed to migrate DB: %v", err)
		}
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Identity providers with a client id configured
	providers := oauth.FromConfig(cfg, api.CallbackURL(cfg))
	if len(providers.Names()) == 0 {
		logrus.Warn("No OAuth providers configured, nobody can log in")
	}

	server := api.NewServer(cfg, conn, redisClient, providers) // Wire services
	r := api.NewRouter(server)                                 // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":      cfg.AppPort,
			"providers": providers.Names(),
		}).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("forced shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		logrus.Errorf("close redis: %v", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close() // Release database connections
	}
}
