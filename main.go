package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/campus-suite/registry-service/internal/config"
	"github.com/campus-suite/registry-service/internal/events"
	"github.com/campus-suite/registry-service/internal/handlers"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/services"
	"github.com/campus-suite/registry-service/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid Redis URL: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	// Pick the record gateway: Postgres when DATABASE_URL is set, the hosted
	// record store when an endpoint is configured, the in-memory mock
	// otherwise.
	var gateway recordstore.Gateway
	switch {
	case cfg.DatabaseURL != "":
		gateway, err = recordstore.NewDatabaseGateway(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Info("Using database record store")
	case cfg.RecordStore.Endpoint != "":
		gateway = recordstore.NewRemoteGateway(recordstore.RemoteConfig{
			Endpoint:  cfg.RecordStore.Endpoint,
			ProjectID: cfg.RecordStore.ProjectID,
			APIKey:    cfg.RecordStore.APIKey,
			Timeout:   cfg.RecordStore.Timeout,
		}, redisClient, slogLogger)
		logger.Info("Using remote record store", "endpoint", cfg.RecordStore.Endpoint)
	default:
		gateway = recordstore.NewMemoryGateway()
		logger.Warn("No record store configured, using in-memory store")
	}

	// Initialize the event publisher
	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
		logger.Info("Publishing record events to Kafka", "brokers", cfg.KafkaBrokers)
	} else {
		publisher = events.NewGoChannelPublisher(slogLogger)
	}

	// Initialize services and handlers
	serviceManager := services.NewServiceManager(gateway, publisher, slogLogger)
	handlerManager := handlers.NewHandlerManager(serviceManager, gateway, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}
	if err := gateway.Close(); err != nil {
		log.Printf("Failed to close record store: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
