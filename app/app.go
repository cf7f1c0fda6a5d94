// Package app wires configuration, storage, repositories and services together
// for the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"reguguard-backend/classifier"
	"reguguard-backend/config"
	"reguguard-backend/llm"
	"reguguard-backend/repository"
	"reguguard-backend/scraper"
	"reguguard-backend/service"
	"reguguard-backend/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the wired services
type App struct {
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Storage  storage.Storage
	LLM      llm.Client
	Analysis *service.AnalysisService
	Review   *service.ReviewService
	Export   *service.ExportService
	History  *service.HistoryService

	closers []func()
}

// New builds every collaborator from cfg. Close releases them.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	store, err := storage.NewStorage(cfg.StorageConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = store

	historyRepo, feedbackRepo, err := a.initRepositories(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	defs, err := classifier.LoadDefinitions(cfg.DomainsPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.LLM = a.initGemini(ctx)
	cls := classifier.New(
		classifier.WithLLM(a.LLM),
		classifier.WithDefinitions(defs),
		classifier.WithLogger(logger),
	)
	sc := scraper.New(
		scraper.WithCache(scraper.NewStorageCache(store)),
		scraper.WithConcurrency(cfg.Concurrency),
		scraper.WithTimeout(cfg.ScrapeTimeout),
		scraper.WithInterval(cfg.ScrapeInterval),
		scraper.WithLogger(logger),
	)

	a.Analysis = service.NewAnalysisService(
		service.WithClassifier(cls),
		service.WithScraper(sc),
		service.WithLLMClient(a.LLM),
		service.WithHistoryRepository(historyRepo),
		service.WithStorage(store),
		service.WithLogger(logger),
	)
	a.Review = service.NewReviewService(
		service.ReviewWithHistoryRepository(historyRepo),
		service.ReviewWithFeedbackRepository(feedbackRepo),
		service.ReviewWithLogger(logger),
	)
	a.Export = service.NewExportService(
		service.ExportWithHistoryRepository(historyRepo),
		service.ExportWithReviewService(a.Review),
		service.ExportWithStorage(store),
		service.ExportWithLogger(logger),
	)
	a.History = service.NewHistoryService(historyRepo, store, logger)
	return a, nil
}

// Close releases database pools and clients
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) initRepositories(ctx context.Context) (repository.HistoryRepository, repository.FeedbackRepository, error) {
	if a.Config.HistoryBackend != config.HistoryBackendPostgres {
		return repository.NewFileHistoryRepository(a.Config.HistoryPath),
			repository.NewFileFeedbackRepository(a.Config.FeedbackPath), nil
	}

	pool, err := initPostgres(ctx, a.Config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	a.Logger.Infow("Postgres connection established")
	return repository.NewPostgresHistoryRepository(pool), repository.NewPostgresFeedbackRepository(pool), nil
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// initGemini returns nil when no key is configured or the client cannot be built.
// Analyses then use the rule-based path.
func (a *App) initGemini(ctx context.Context) llm.Client {
	client, err := llm.NewGeminiClient(ctx, a.Config.GeminiAPIKey,
		llm.WithModel(a.Config.GeminiModel),
		llm.WithLogger(a.Logger),
	)
	if errors.Is(err, llm.ErrLLMUnavailable) {
		a.Logger.Warnw("GEMINI_API_KEY not set, using rule-based analysis")
		return nil
	}
	if err != nil {
		a.Logger.Warnw("Gemini client unavailable, using rule-based analysis", "error", err)
		return nil
	}
	a.closers = append(a.closers, func() { client.Close() })
	a.Logger.Infow("Gemini client initialized", "model", a.Config.GeminiModel)
	return client
}
