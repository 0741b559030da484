package main

// @title           Slack Service API
// @version         1.0
// @description     A RESTful API service for team chat with workspaces, channels and threads
// @host            localhost:8080
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	"slack-service/internal/adapters/kafka"
	"slack-service/internal/adapters/storage"
	"slack-service/internal/api/routes"
	"slack-service/internal/config"
	"slack-service/internal/database"
	"slack-service/internal/events"
	"slack-service/internal/service"
	"slack-service/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting slack service")

	// Initialize Redis connection
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize PostgreSQL connection
	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize object storage for message images
	storageClient, err := storage.NewClient(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.MinIO.Bucket,
		cfg.MinIO.UseSSL,
	)
	if err != nil {
		slog.Error("Failed to connect to object storage", "error", err)
		os.Exit(1)
	}

	// Initialize the invalidation publisher. Kafka keeps a durable event
	// trail while Redis pub/sub fans out to the WebSocket hubs.
	producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		slog.Warn("Kafka unavailable, invalidations use Redis only", "error", err)
		producer = nil
	} else {
		defer producer.Close()
	}
	publisher := events.NewStreamPublisher(producer, cfg.Kafka.Topic, redisClient.GetClient())

	redisService := service.NewRedisService(redisClient)

	// Initialize WebSocket hub
	hub := websocket.NewHub(redisClient.GetClient())
	go hub.Run()

	// Initialize router with all dependencies
	router := routes.NewRouter(
		hub,
		redisService,
		redisClient.GetClient(),
		db,
		storageClient,
		publisher,
		cfg.JWT.Secret,
		cfg.JWT.ExpirationTime,
	)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop WebSocket hub
	hub.Stop()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
