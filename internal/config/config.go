// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Catalog     CatalogConfig
	Store       StoreConfig
	Session     SessionConfig
	Database    DatabaseConfig
	AWS         AWSConfig
	Geocoding   GeocodingConfig
	I18n        I18nConfig
	Frontend    FrontendConfig
}

type FrontendConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	RateLimit    bool
}

type CatalogConfig struct {
	BaseURL      string
	Categories   []string
	Timeout      time.Duration
	LoadAttempts int
	RetryDelay   time.Duration
}

type StoreConfig struct {
	MerchantName       string
	CurrencySymbol     string
	CurrencyMultiplier float64
	SettlementDelay    time.Duration
	SeedOrders         bool
}

type SessionConfig struct {
	SecretKey string
	TTLHours  int
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type GeocodingConfig struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	DefaultLat float64
	DefaultLng float64
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			RateLimit:    getEnvAsBool("SERVER_RATE_LIMIT", true),
		},
		Catalog: CatalogConfig{
			BaseURL:      getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),
			Categories:   getEnvAsList("CATALOG_CATEGORIES", []string{"laptops", "smartphones"}),
			Timeout:      getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
			LoadAttempts: getEnvAsInt("CATALOG_LOAD_ATTEMPTS", 3),
			RetryDelay:   getEnvAsDuration("CATALOG_RETRY_DELAY", 2*time.Second),
		},
		Store: StoreConfig{
			MerchantName:       getEnv("STORE_MERCHANT_NAME", "TechStore"),
			CurrencySymbol:     getEnv("STORE_CURRENCY_SYMBOL", "R$"),
			CurrencyMultiplier: getEnvAsFloat("STORE_CURRENCY_MULTIPLIER", 5.5),
			SettlementDelay:    getEnvAsDuration("STORE_SETTLEMENT_DELAY", 3*time.Second),
			SeedOrders:         getEnvAsBool("STORE_SEED_ORDERS", true),
		},
		Session: SessionConfig{
			SecretKey: getEnv("SESSION_SECRET", defaultSessionSecret),
			TTLHours:  getEnvAsInt("SESSION_TTL", 24),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "techstore"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "techstore-payment-artifacts"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Geocoding: GeocodingConfig{
			BaseURL:    getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:  getEnv("GEOCODING_USER_AGENT", "techstore-backend/1.0"),
			Timeout:    getEnvAsDuration("GEOCODING_TIMEOUT", 5*time.Second),
			DefaultLat: getEnvAsFloat("GEOCODING_DEFAULT_LAT", -30.0346),
			DefaultLng: getEnvAsFloat("GEOCODING_DEFAULT_LNG", -51.2177),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Frontend: FrontendConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Session.SecretKey == defaultSessionSecret && c.Environment == "production" {
		return fmt.Errorf("session secret key must be changed in production")
	}

	if c.Database.Enabled && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	if c.Store.CurrencyMultiplier <= 0 {
		return fmt.Errorf("currency multiplier must be positive, got %v", c.Store.CurrencyMultiplier)
	}

	if len(c.Catalog.Categories) == 0 {
		return fmt.Errorf("at least one catalog category is required")
	}

	if c.Catalog.LoadAttempts < 1 {
		c.Catalog.LoadAttempts = 1
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// Accepts Go duration strings ("3s") or bare milliseconds ("3000").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
