package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database.

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Favorites backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Place search providers.
const (
	ProviderNominatim = "nominatim"
	ProviderMapbox    = "mapbox"
	ProviderDisabled  = "disabled"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Travel dates are interpreted at midnight in this zone.
	Timezone string
	Location *time.Location

	// Reference data directory; empty means the embedded data set.
	RefDataDir string

	// Favorites store.
	FavoritesBackend string
	SQLitePath       string
	DatabaseURL      string

	// Place search configuration.
	PlacesProvider  string
	NominatimURL    string
	PlacesUserAgent string
	PlacesRateLimit float64
	PlacesTimeout   time.Duration
	PlacesCacheSize int
	MapboxToken     string

	// PDF export assets.
	PDFFontURL   string
	ImageBaseURL string
	AssetTimeout time.Duration

	// Activity stream.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaActivityTopic string
	BatchSize          int
	BatchFlushInterval time.Duration
	ActivityQueueSize  int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	placesTimeout, err := parseDuration("PLACES_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	assetTimeout, err := parseDuration("ASSET_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("PLACES_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid PLACES_RATE_LIMIT")
	}

	timezone := sharedcfg.EnvOrDefault("TIMEZONE", "America/Lima")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Timezone:        timezone,
		Location:        loc,
		RefDataDir:      os.Getenv("REFDATA_DIR"),

		FavoritesBackend: strings.ToLower(sharedcfg.EnvOrDefault("FAVORITES_BACKEND", BackendSQLite)),
		SQLitePath:       sharedcfg.EnvOrDefault("SQLITE_PATH", "favorites.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),

		PlacesProvider:  strings.ToLower(sharedcfg.EnvOrDefault("PLACES_PROVIDER", ProviderNominatim)),
		NominatimURL:    sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		PlacesUserAgent: sharedcfg.EnvOrDefault("PLACES_USER_AGENT", "pachawayra-service/1.0"),
		PlacesRateLimit: rateLimit,
		PlacesTimeout:   placesTimeout,
		PlacesCacheSize: parsePositiveInt("PLACES_CACHE_SIZE", 1000),
		MapboxToken:     os.Getenv("MAPBOX_TOKEN"),

		PDFFontURL:   os.Getenv("PDF_FONT_URL"),
		ImageBaseURL: os.Getenv("IMAGE_BASE_URL"),
		AssetTimeout: assetTimeout,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaActivityTopic: sharedcfg.EnvOrDefault("KAFKA_ACTIVITY_TOPIC", "pachawayra-activity"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		ActivityQueueSize:  parsePositiveInt("ACTIVITY_QUEUE_SIZE", 1000),
	}

	switch cfg.FavoritesBackend {
	case BackendSQLite, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("FAVORITES_BACKEND is postgres but DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("unknown FAVORITES_BACKEND %q", cfg.FavoritesBackend)
	}

	switch cfg.PlacesProvider {
	case ProviderNominatim, ProviderDisabled:
	case ProviderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("PLACES_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("unknown PLACES_PROVIDER %q", cfg.PlacesProvider)
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaActivityTopic == "" {
			return nil, errors.New("KAFKA_ACTIVITY_TOPIC is required")
		}
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
