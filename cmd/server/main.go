package main

import (
	"context"
	"log"

	"reguguard-backend/app"
	"reguguard-backend/config"
	"reguguard-backend/handlers"
	"reguguard-backend/logging"
)

func main() {
	// Load .env file from the working directory or the project root
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	if !foundEnv {
		logger.Warnw("No .env file found, using environment variables")
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialize application", "error", err)
	}
	defer a.Close()

	if cfg.AdminHash == "" {
		logger.Warnw("ADMIN_PASSWORD_HASH not set, admin routes are disabled")
	}

	r := handlers.NewRouter(
		handlers.NewAnalysisHandler(a.Analysis, cfg.MaxUploadBytes),
		handlers.NewHistoryHandler(a.History, a.Review, a.Export),
		handlers.AdminAuth(cfg.AdminUser, cfg.AdminHash),
	)
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	logger.Infow("Server starting", "port", cfg.Port, "history_backend", cfg.HistoryBackend, "storage", cfg.StorageType)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("Failed to start server", "error", err)
	}
}
