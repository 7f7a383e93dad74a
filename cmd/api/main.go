package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/appointbot/appointbot/internal/api/router"
	"github.com/appointbot/appointbot/internal/app/bootstrap"
	appconfig "github.com/appointbot/appointbot/internal/config"
	"github.com/appointbot/appointbot/internal/conversation"
	"github.com/appointbot/appointbot/internal/http/handlers"
	"github.com/appointbot/appointbot/internal/observability/metrics"
	"github.com/appointbot/appointbot/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointbot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	knowledgeStore, err := bootstrap.BuildKnowledgeStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build knowledge store", "error", err)
		os.Exit(1)
	}

	transcripts := bootstrap.BuildTranscriptStore(ctx, cfg, logger)

	reg := prometheus.NewRegistry()
	convMetrics := metrics.NewConversationMetrics(reg)

	newController := func() *conversation.Controller {
		var search conversation.DocumentSearchProvider
		if knowledgeStore != nil {
			search = knowledgeStore
		}
		return conversation.NewController(search, logger, convMetrics, conversation.Options{
			BookingKeywords: cfg.BookingKeywords,
			ResetKeywords:   cfg.ResetKeywords,
			PhoneRegion:     cfg.DefaultPhoneRegion,
			SearchTopK:      cfg.SearchTopK,
		})
	}

	chatHandler := handlers.NewChatHandler(newController, transcripts, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		ChatHandler:    chatHandler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
