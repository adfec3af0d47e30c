package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Dataset sources
const (
	DataSourceSeed     = "seed"
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
	DataSourceS3       = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    zerolog.Level

	// Dataset source
	DataSource  string
	DataFile    string
	DatabaseURL string

	// S3 Storage
	S3 S3Config

	// Metrics
	TrendThreshold decimal.Decimal

	// Rate limiting of mutating routes
	RateLimitPerMinute int
	RateLimitBurst     int
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	ObjectKey       string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	threshold, err := decimal.NewFromString(getEnv("TREND_STABLE_THRESHOLD", "50"))
	if err != nil {
		return nil, fmt.Errorf("TREND_STABLE_THRESHOLD must be a decimal: %w", err)
	}

	perMinute, err := getEnvInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		LogLevel:    level,
		DataSource:  strings.ToLower(getEnv("DATA_SOURCE", DataSourceSeed)),
		DataFile:    getEnv("DATA_FILE", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			ObjectKey:       getEnv("S3_OBJECT_KEY", "dataset.json"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
		TrendThreshold:     threshold,
		RateLimitPerMinute: perMinute,
		RateLimitBurst:     burst,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourceSeed:
	case DataSourceFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required when DATA_SOURCE=file")
		}
	case DataSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	case DataSourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when DATA_SOURCE=s3")
		}
		if c.S3.ObjectKey == "" {
			return fmt.Errorf("S3_OBJECT_KEY is required when DATA_SOURCE=s3")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: seed, file, postgres, s3")
	}
	if c.TrendThreshold.IsNegative() {
		return fmt.Errorf("TREND_STABLE_THRESHOLD must not be negative")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
