package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suburbmates/payment-service/internal/config"
	"github.com/suburbmates/payment-service/internal/infrastructure/database"
	httpServer "github.com/suburbmates/payment-service/internal/infrastructure/http"
	"github.com/suburbmates/payment-service/internal/infrastructure/insights"
	"github.com/suburbmates/payment-service/internal/infrastructure/notification"
	"github.com/suburbmates/payment-service/internal/usecase"
	"github.com/suburbmates/payment-service/pkg/logger"
	"github.com/suburbmates/payment-service/pkg/messaging"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		Development: cfg.Service.Environment == "local",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Select the notification backend
	var notifier notification.Notifier
	switch cfg.Service.Notifier {
	case "redis":
		redisClient, err := messaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		notifier = notification.NewRedisNotifier(redisClient, cfg.Redis.Channel, zapLogger)
	default:
		notifier = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, zapLogger)
	}

	// Dispute summarization is optional: without a base URL disputes are
	// stored unenriched
	var summarizer insights.DisputeSummarizer
	if cfg.Insights.BaseURL != "" {
		summarizer = insights.NewClient(cfg.Insights.BaseURL, cfg.Insights.APIKey, 10*time.Second, zapLogger)
	}

	locator := usecase.NewOrderLocator(repos.Order, repos.Vendor, repos.Customer, zapLogger)
	processor := usecase.NewWebhookProcessor(
		repos.WebhookEvent,
		repos.Order,
		repos.Vendor,
		repos.Dispute,
		repos.RefundRequest,
		repos.Customer,
		locator,
		notifier,
		summarizer,
		zapLogger,
	)
	refundService := usecase.NewRefundService(
		repos.RefundRequest,
		repos.Order,
		repos.Vendor,
		repos.Customer,
		notifier,
		zapLogger,
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpSrv := httpServer.NewServer(cfg, zapLogger, repos, processor, refundService)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
