package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopsearch/internal/config"
	"github.com/kailas-cloud/shopsearch/internal/db"
	"github.com/kailas-cloud/shopsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/shopsearch/internal/db/redis"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/keyword"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/relevance"
	"github.com/kailas-cloud/shopsearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/shopsearch/internal/logger"
	"github.com/kailas-cloud/shopsearch/internal/metrics"
	"github.com/kailas-cloud/shopsearch/internal/transport/catalog"
	chiTransport "github.com/kailas-cloud/shopsearch/internal/transport/chi"
	openaiAssist "github.com/kailas-cloud/shopsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/shopsearch/internal/usecase/health"
	"github.com/kailas-cloud/shopsearch/internal/usecase/ratelimit"
	searchuc "github.com/kailas-cloud/shopsearch/internal/usecase/search"
	"github.com/kailas-cloud/shopsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.String("assistant", cfg.Assistant.Provider),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	metrics.RegisterSearchMetrics()

	catalogClient, err := catalog.NewClient(catalog.Config{
		BaseURL:        cfg.Catalog.BaseURL,
		ConsumerKey:    cfg.Catalog.ConsumerKey,
		ConsumerSecret: cfg.Catalog.ConsumerSecret,
		Status:         cfg.Catalog.Status,
		Timeout:        time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog client", zap.Error(err))
	}

	composer, assistantChecker := buildComposer(&cfg.Assistant, logger)

	searchSvc := searchuc.New(
		catalogClient,
		keyword.NewExtractor(cfg.Search.Stopwords),
		relevance.NewScorer(cfg.Search.Weights),
		composer,
		searchuc.Limits{
			ChatLimit:           cfg.Search.ChatLimit,
			LegacyLimit:         cfg.Search.LegacyLimit,
			FullQueryPageSize:   cfg.Search.FullQueryPageSize,
			CombinedPageSize:    cfg.Search.CombinedPageSize,
			KeywordPageSize:     cfg.Search.KeywordPageSize,
			KeywordPasses:       cfg.Search.KeywordPasses,
			PassTimeout:         cfg.Search.PassTimeout(),
			MaxConcurrentPasses: cfg.Search.MaxConcurrentPasses,
		},
	)

	// Counter store backs rate limiting only.
	var apiMiddlewares []func(http.Handler) http.Handler
	var dbPinger healthuc.DBPinger
	if cfg.RateLimit.Enabled {
		store, shared := buildStore(&cfg, logger)
		defer store.Close()
		if shared {
			dbPinger = store
		}

		limiter, err := ratelimit.New(store, cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSec)*time.Second)
		if err != nil {
			logger.Fatal("Failed to create rate limiter", zap.Error(err))
		}
		trusted, err := chiTransport.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
		if err != nil {
			logger.Fatal("Invalid trusted proxies", zap.Error(err))
		}
		apiMiddlewares = append(apiMiddlewares, chiTransport.RateLimitMiddleware(limiter, trusted, logger))
		logger.Info("Rate limiting enabled",
			zap.String("driver", cfg.RateLimit.Driver),
			zap.Int("requests", cfg.RateLimit.Requests),
			zap.Duration("window", limiter.Window()),
		)
	}

	// Pass nil interfaces, not typed nil pointers, for absent components.
	var assistant healthuc.AssistantChecker
	if assistantChecker != nil {
		assistant = assistantChecker
	}
	healthSvc := healthuc.New(catalogClient, dbPinger, assistant)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r, apiMiddlewares...)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildComposer returns the message composer and, for remote providers, its
// health checker.
func buildComposer(cfg *config.AssistantConfig, logger *zap.Logger) (searchuc.Composer, *openaiAssist.Composer) {
	templates := result.NewTemplateComposer(nil)
	if cfg.Provider != config.AssistantOpenAI {
		return templates, nil
	}
	c := openaiAssist.NewComposer(&openaiAssist.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		Provider:  cfg.Provider,
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		MaxTokens: cfg.MaxTokens,
		Fallback:  templates,
		Logger:    logger,
	})
	logger.Info("Assistant composer created", zap.String("model", cfg.Model))
	return c, c
}

// buildStore creates the rate-limit counter store. shared reports whether the
// store is an external database worth health-checking.
func buildStore(cfg *config.Config, logger *zap.Logger) (store db.Store, shared bool) {
	if cfg.RateLimit.Driver != config.DriverRedis {
		return memory.NewStore(), false
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}

	ctx := context.Background()
	if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
	return s, true
}
