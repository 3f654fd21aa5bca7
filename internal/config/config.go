package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting.
type Config struct {
	DatabaseURL string
	Port        int
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// AutoProvision controls whether order submissions referencing unknown
	// products materialize them in the catalog. Matches the upstream
	// storefront behavior when enabled.
	AutoProvision bool

	// LowStockThreshold is the stock level at which the background sweep
	// reports a product.
	LowStockThreshold int
}

// Load reads configuration from the environment, consulting a local .env
// file when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              envInt("PORT", 8080),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		MinioEndpoint:     envString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:    envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:    envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:       envBool("MINIO_USE_SSL", false),
		MinioBucket:       envString("MINIO_BUCKET", "product-images"),
		AutoProvision:     envBool("CATALOG_AUTO_PROVISION", true),
		LowStockThreshold: envInt("LOW_STOCK_THRESHOLD", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
