package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/riteshkumar/bank-ledger/internal/audit"
	"github.com/riteshkumar/bank-ledger/internal/config"
	"github.com/riteshkumar/bank-ledger/internal/crypto"
	"github.com/riteshkumar/bank-ledger/internal/handler"
	"github.com/riteshkumar/bank-ledger/internal/repository"
	"github.com/riteshkumar/bank-ledger/internal/service"
)

func main() {
	os.Exit(run())
}

// run owns every resource so deferred cleanup happens before the process exits.
func run() int {
	// Load .env file for local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		slog.Error("failed to load configuration", "error", err.Error())
		return 1
	}

	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if cfg.UsingDevelopmentKey {
		logger.Warn("using built-in development encryption key, card numbers in the audit log are not protected",
			"key_policy", cfg.KeyPolicy,
		)
	}

	cipher, err := crypto.NewCredentialCipher(cfg.EncryptionKey, cfg.EncryptionSalt, logger)
	if err != nil {
		logger.Error("failed to initialise credential cipher", "error", err.Error())
		return 1
	}

	auditRepo, err := repository.OpenFileAuditRepository(cfg.LogPath, cfg.LogMaxBytes, audit.NewFormatter(cipher, cfg.MaskUPI), logger)
	if err != nil {
		logger.Error("failed to open audit log", "path", cfg.LogPath, "error", err.Error())
		return 1
	}
	defer func() {
		if err := auditRepo.Close(); err != nil {
			logger.Error("failed to close audit log", "error", err.Error())
		}
	}()
	logger.Info("audit log opened", "path", auditRepo.Path())

	// Initialise repo
	accountRepo := repository.NewAccountRepository()

	// Initialise services
	accountService := service.NewAccountService(accountRepo, auditRepo, logger)
	transactionService := service.NewTransactionService(accountRepo, auditRepo, logger)

	// Initialise handlers
	router := handler.NewRouter(
		handler.NewAccountHandler(accountService, logger),
		handler.NewTransactionHandler(transactionService, logger),
		logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server on port " + cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("failed to start server", "error", err.Error())
		return 1
	case <-quit:
	}
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
	}

	logger.Info("server exited gracefully")
	return 0
}
