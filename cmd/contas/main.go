package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"contas/internal/advisor"
	"contas/internal/amqp"
	"contas/internal/config"
	apphttp "contas/internal/http"
	"contas/internal/ledger"
	applog "contas/internal/log"
	"contas/internal/receipt"
	"contas/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	state, found, err := repo.Load(context.Background())
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}
	logger.Info("Snapshot loaded", "found", found, "transactions", len(state.Transactions))

	// Change feed is optional; the ledger works without it.
	var notifier ledger.Notifier
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		notifier = amqpClient
		logger.Info("AMQP change feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	store := ledger.NewStore(state, repo, notifier)

	var adv apphttp.Advisor
	var receipts apphttp.ReceiptParser
	if cfg.AIEnabled() {
		a, err := advisor.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize advisor", "error", err)
			os.Exit(1)
		}
		adv = a

		p, err := receipt.NewParser(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize receipt parser", "error", err)
			os.Exit(1)
		}
		receipts = p
		logger.Info("AI endpoints enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("AI endpoints disabled - no GEMINI_API_KEY provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, adv, receipts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting contas server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
