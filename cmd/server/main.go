package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petfit/backend/config"
	httpDelivery "github.com/petfit/backend/internal/delivery/http"
	"github.com/petfit/backend/internal/domain"
	"github.com/petfit/backend/internal/infrastructure/adminapi"
	"github.com/petfit/backend/internal/infrastructure/cache"
	"github.com/petfit/backend/internal/infrastructure/configstore"
	"github.com/petfit/backend/internal/infrastructure/static"
	"github.com/petfit/backend/internal/logging"
	"github.com/petfit/backend/internal/usecase"
	"github.com/petfit/backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := logging.Component("main")

	logger.Info().
		Str("version", version.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("table_source", cfg.Tables.Source).
		Msg("starting PetFit backend")

	source, closeSource, err := newTableSource(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open config table source")
	}
	defer closeSource()

	memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)
	defer memoryCache.Close()

	scoringService := usecase.NewScoringService(usecase.ScoringConfig{
		EnableDebugLogging: cfg.Scoring.Debug,
	})

	recommendationService := usecase.NewRecommendationService(
		memoryCache,
		source,
		scoringService,
		usecase.RecommendationServiceConfig{
			CacheTTL:       cfg.Cache.TTL,
			MaxConcurrency: cfg.Scoring.MaxConcurrency,
			DefaultPreset:  domain.ParseWeightsPreset(cfg.Scoring.DefaultPreset),
		},
	)

	logger.Info().
		Int("max_concurrency", cfg.Scoring.MaxConcurrency).
		Str("default_preset", cfg.Scoring.DefaultPreset).
		Bool("debug", cfg.Scoring.Debug).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("scoring configured")

	limiter := httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP)
	limiter.StartCleanup(5 * time.Minute)
	defer limiter.Stop()

	handler := httpDelivery.NewHandler(recommendationService, version.Version)
	router := httpDelivery.SetupRouter(cfg, handler, limiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newTableSource builds the config-table source named in the configuration
func newTableSource(cfg *config.Config) (domain.ConfigTableSource, func(), error) {
	noop := func() {}

	switch cfg.Tables.Source {
	case config.TableSourceSQLite:
		store, err := configstore.Open(cfg.Tables.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		ctx := context.Background()
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, noop, err
		}
		defaults := usecase.DefaultScoringTables()
		seeded, err := store.SeedIfEmpty(ctx, defaults.HarmfulIngredients, defaults.AllergenKeywords)
		if err != nil {
			_ = store.Close()
			return nil, noop, err
		}
		if seeded {
			logging.Component("main").Info().
				Str("path", cfg.Tables.SQLitePath).
				Msg("seeded empty config tables with built-in lists")
		}
		return store, func() { _ = store.Close() }, nil

	case config.TableSourceHTTP:
		client := adminapi.NewClient(cfg.Tables.AdminBaseURL, cfg.Tables.AdminToken, cfg.RateLimit.AdminAPI)
		return client, noop, nil

	default:
		tables := usecase.DefaultScoringTables()
		return static.NewSource(tables.HarmfulIngredients, tables.AllergenKeywords), noop, nil
	}
}
