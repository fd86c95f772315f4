package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// Config holds the runtime settings of the dispatch service.
type Config struct {
	Port string

	DBDriver    string // "sqlite" or "pgx"
	DBPath      string
	DatabaseURL string
	SeedPath    string

	AddressStore string // "sql", "redis" or "memory"
	RedisURL     string

	GeocoderProvider string // "yandex" or "ors"
	YandexAPIKey     string
	ORSAPIKey        string
	GeocoderTimeout  time.Duration

	RankConcurrency int

	StanClusterID string
	StanClientID  string
	NatsURL       string
	StanSubject   string
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:             Get("PORT", "8080"),
		DBDriver:         Get("DB_DRIVER", "sqlite"),
		DBPath:           Get("DB_PATH", "data/app.db"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		SeedPath:         Get("SEED_PATH", "data/seeds/catalog.json"),
		AddressStore:     Get("ADDRESS_STORE", "sql"),
		RedisURL:         Get("REDIS_URL", "redis://localhost:6379/0"),
		GeocoderProvider: Get("GEOCODER_PROVIDER", "yandex"),
		YandexAPIKey:     Get("YANDEX_GEO_APIKEY", ""),
		ORSAPIKey:        Get("ORS_API_KEY", ""),
		StanClusterID:    Get("STAN_CLUSTER_ID", ""),
		StanClientID:     Get("STAN_CLIENT_ID", ""),
		NatsURL:          Get("NATS_URL", "nats://localhost:4222"),
		StanSubject:      Get("STAN_SUBJECT", "orders.created"),
	}

	var err error
	if cfg.GeocoderTimeout, err = getDuration("GEOCODER_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RankConcurrency, err = getInt("RANK_CONCURRENCY", 5); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "pgx":
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when DB_DRIVER=pgx")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.AddressStore {
	case "sql", "redis", "memory":
	default:
		return fmt.Errorf("config: unsupported ADDRESS_STORE %q", c.AddressStore)
	}

	switch c.GeocoderProvider {
	case "yandex":
		if c.YandexAPIKey == "" {
			return errors.New("config: YANDEX_GEO_APIKEY is required")
		}
	case "ors":
		if c.ORSAPIKey == "" {
			return errors.New("config: ORS_API_KEY is required")
		}
	default:
		return fmt.Errorf("config: unsupported GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	if c.GeocoderTimeout <= 0 {
		return errors.New("config: GEOCODER_TIMEOUT must be positive")
	}
	if c.RankConcurrency < 1 {
		return errors.New("config: RANK_CONCURRENCY must be at least 1")
	}
	return nil
}
