package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/pachawayra-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pachawayra-service/internal/adapter/kafka"
	"github.com/couchcryptid/pachawayra-service/internal/adapter/mapbox"
	"github.com/couchcryptid/pachawayra-service/internal/adapter/nominatim"
	"github.com/couchcryptid/pachawayra-service/internal/adapter/placecache"
	"github.com/couchcryptid/pachawayra-service/internal/adapter/postgres"
	"github.com/couchcryptid/pachawayra-service/internal/adapter/sqlite"
	"github.com/couchcryptid/pachawayra-service/internal/catalog"
	"github.com/couchcryptid/pachawayra-service/internal/config"
	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/export"
	"github.com/couchcryptid/pachawayra-service/internal/favorites"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/pipeline"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	cat, err := catalog.Open(cfg.RefDataDir, logger)
	if err != nil {
		logger.Error("failed to load reference data", "dir", cfg.RefDataDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("favorites store close error", "error", err)
		}
	}()

	// Activity stream (feature-flagged via KAFKA_ENABLED).
	var recorder favorites.Recorder = pipeline.Discard{}
	var writer *kafkaadapter.Writer
	var activity *pipeline.Pipeline
	ready := httpadapter.AllReady{cat}
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		activity = pipeline.New(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval, cfg.ActivityQueueSize)
		recorder = activity
		ready = append(ready, activity)
		logger.Info("activity stream enabled", "topic", cfg.KafkaActivityTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("activity stream disabled")
	}

	places := newPlaceSearcher(cfg, metrics, logger)

	trips := planner.New(cat, clock, planner.SystemRandom{}, cfg.Location, metrics)
	favs := favorites.NewService(store, cat, clock, recorder, metrics, logger)
	exporter := export.New(export.Options{
		FontURL:      cfg.PDFFontURL,
		ImageBaseURL: cfg.ImageBaseURL,
		Timeout:      cfg.AssetTimeout,
	}, clock, recorder, metrics, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Planner:   trips,
		Favorites: favs,
		Exporter:  exporter,
		Places:    places,
		Ready:     ready,
	}, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start activity pipeline.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if activity == nil {
			return
		}
		if err := activity.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("activity pipeline did not drain before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// openStore opens the configured favorites backend. When the database cannot be
// reached the service keeps running on an in-memory list.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) favorites.Store {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var (
		store favorites.Store
		err   error
	)
	switch cfg.FavoritesBackend {
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath, logger)
	case config.BackendPostgres:
		store, err = postgres.Connect(ctx, cfg.DatabaseURL)
	default:
		logger.Info("favorites kept in memory")
		return favorites.NewMemoryStore()
	}
	if err != nil {
		logger.Warn("favorites database unavailable, falling back to memory",
			"backend", cfg.FavoritesBackend,
			"error", err,
		)
		return favorites.NewMemoryStore()
	}
	logger.Info("favorites store ready", "backend", cfg.FavoritesBackend)
	return store
}

// newPlaceSearcher builds the configured provider behind the LRU cache. It
// returns nil when place search is disabled.
func newPlaceSearcher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.PlaceSearcher {
	var provider domain.PlaceSearcher
	switch cfg.PlacesProvider {
	case config.ProviderNominatim:
		provider = nominatim.NewClient(cfg.NominatimURL, cfg.PlacesUserAgent, cfg.PlacesRateLimit, cfg.PlacesTimeout, metrics, logger)
	case config.ProviderMapbox:
		provider = mapbox.NewClient(cfg.MapboxToken, cfg.PlacesTimeout, metrics, logger)
	default:
		metrics.PlaceSearchEnabled.Set(0)
		logger.Info("place search disabled")
		return nil
	}
	metrics.PlaceSearchEnabled.Set(1)
	logger.Info("place search enabled",
		"provider", cfg.PlacesProvider,
		"cache_size", cfg.PlacesCacheSize,
		"timeout", cfg.PlacesTimeout,
	)
	return placecache.New(provider, cfg.PlacesCacheSize, metrics)
}
