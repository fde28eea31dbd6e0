package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	platformpostgres "github.com/Apurer/go-gin-ecommerce-api/internal/platform/postgres"
)

const devJWTSecret = "dev-secret-change-me"

// Config carries environment-driven settings for the API, worker and seeder processes.
type Config struct {
	Port                    string
	PostgresDSN             string
	JWTSecret               string
	JWTExpiresIn            time.Duration
	RedisAddr               string
	ProductCacheTTL         time.Duration
	CloudinaryCloudName     string
	CloudinaryAPIKey        string
	CloudinaryAPISecret     string
	TemporalAddress         string
	TemporalNamespace       string
	TemporalDisabled        bool
	SeedOnStart             bool
	SeedEndpointEnabled     bool
	RevocationPurgeInterval time.Duration
	ShutdownTimeout         time.Duration
}

// LoadConfig reads an optional .env file, then the environment, applies
// defaults and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:                envDefault("PORT", "3000"),
		PostgresDSN:         platformpostgres.DSNFromEnv(),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CloudinaryCloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
		CloudinaryAPIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
		CloudinaryAPISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SeedOnStart:         isTruthy(os.Getenv("SEED_ON_START")),
		SeedEndpointEnabled: isTruthy(os.Getenv("SEED_ENDPOINT_ENABLED")),
		ShutdownTimeout:     10 * time.Second,
	}

	var err error
	if cfg.JWTExpiresIn, err = durationEnv("JWT_EXPIRES_IN", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ProductCacheTTL, err = durationEnv("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("REVOCATION_PURGE_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("REVOCATION_PURGE_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.RevocationPurgeInterval = time.Duration(minutes) * time.Minute
	}

	if cfg.JWTSecret == "" {
		if cfg.PostgresDSN != "" {
			return Config{}, errors.New("JWT_SECRET is required when a database is configured")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// CloudinaryConfigured reports whether all three credentials are present.
func (c Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 1h or 30m", key)
	}
	return d, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
