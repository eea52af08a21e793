package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bikkkubo/yeni-auto/internal/api"
	"github.com/bikkkubo/yeni-auto/internal/api/handlers"
	"github.com/bikkkubo/yeni-auto/internal/notifier"
	"github.com/bikkkubo/yeni-auto/internal/repository"
	"github.com/bikkkubo/yeni-auto/internal/service"
	"github.com/bikkkubo/yeni-auto/pkg/config"
	"github.com/bikkkubo/yeni-auto/pkg/logger"
	"github.com/bikkkubo/yeni-auto/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting auto-answer service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Knowledge store
	docRepo := repository.NewDocumentRepository(db, appLogger)

	// Answer pipeline: embedding -> retrieval -> synthesis, each collaborator
	// constructed explicitly and injected
	embeddingService := service.NewEmbeddingService(&cfg.OpenAI, &cfg.RAG, appLogger)
	llmService := service.NewLLMService(&cfg.OpenAI, appLogger)

	retrievalService := service.NewRetrievalService(embeddingService, docRepo, &cfg.RAG, appLogger)
	synthesisService := service.NewSynthesisService(llmService, &cfg.RAG, appLogger)
	ragService := service.NewRAGService(retrievalService, synthesisService, appLogger)

	// Operator notifications
	slackNotifier := notifier.NewSlackNotifier(&cfg.Slack, appLogger)

	// Webhook transport
	webhookHandler := handlers.NewWebhookHandler(ragService, slackNotifier, appLogger)
	app := api.SetupRouter(webhookHandler, &cfg.Webhook, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
