package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 所有环境变量只在这里读取
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; runs are not persisted when empty)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Eastmoney market data
	Market MarketConfig

	// Hot stock pipeline
	HotStock HotStockConfig

	// Notification
	WebhookURL string

	// Scheduler
	RunSchedule string // cron spec for the daily run

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds market data source configuration
type MarketConfig struct {
	BaseURL        string  // push2 quote API
	HistoryBaseURL string  // push2his kline API
	FallbackURL    string  // HTML ranking page used when the JSON API fails
	RatePerSecond  float64 // client-side request rate limit
	Timeout        time.Duration
}

// HotStockConfig holds the discovery and scoring parameters
type HotStockConfig struct {
	FetchCount     int           // per-ranking-list fetch size
	TopN           int           // recommendations to keep
	MinScore       float64       // composite score cutoff
	CacheTTL       time.Duration // ranking list cache TTL
	MaxConcurrent  int           // enrichment worker pool size
	HistoryDays    int           // calendar days of history to request
	MinHistoryDays int           // minimum bars required for analysis
	EnrichTimeout  time.Duration // per-candidate enrichment bound

	Filter FilterConfig
	Weight WeightConfig
}

// FilterConfig holds candidate eligibility thresholds
type FilterConfig struct {
	MinPrice     float64 // 元
	MaxPrice     float64 // 元
	MinMarketCap float64 // 元 (e.g. 5e9 = 50亿)
	MinListDays  int
}

// WeightConfig holds composite score weights (must sum to 1.0)
type WeightConfig struct {
	Trend      float64
	MarketHeat float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 只有这个函数调用 os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			BaseURL:        getEnv("MARKET_BASE_URL", "https://push2.eastmoney.com"),
			HistoryBaseURL: getEnv("MARKET_HISTORY_BASE_URL", "https://push2his.eastmoney.com"),
			FallbackURL:    getEnv("MARKET_FALLBACK_URL", ""),
			RatePerSecond:  getEnvAsFloat("MARKET_RATE_PER_SECOND", 5.0),
			Timeout:        getEnvAsDuration("MARKET_TIMEOUT", "10s"),
		},

		HotStock: HotStockConfig{
			FetchCount:     getEnvAsInt("HOTSTOCK_FETCH_COUNT", 30),
			TopN:           getEnvAsInt("HOTSTOCK_TOP_N", 5),
			MinScore:       getEnvAsFloat("HOTSTOCK_MIN_SCORE", 60),
			CacheTTL:       getEnvAsDuration("HOTSTOCK_CACHE_TTL", "30m"),
			MaxConcurrent:  getEnvAsInt("HOTSTOCK_MAX_CONCURRENT", 10),
			HistoryDays:    getEnvAsInt("HOTSTOCK_HISTORY_DAYS", 60),
			MinHistoryDays: getEnvAsInt("HOTSTOCK_MIN_HISTORY_DAYS", 30),
			EnrichTimeout:  getEnvAsDuration("HOTSTOCK_ENRICH_TIMEOUT", "15s"),

			Filter: FilterConfig{
				MinPrice:     getEnvAsFloat("HOTSTOCK_MIN_PRICE", 3.0),
				MaxPrice:     getEnvAsFloat("HOTSTOCK_MAX_PRICE", 300.0),
				MinMarketCap: getEnvAsFloat("HOTSTOCK_MIN_MARKET_CAP", 5e9),
				MinListDays:  getEnvAsInt("HOTSTOCK_MIN_LIST_DAYS", 90),
			},

			Weight: WeightConfig{
				Trend:      getEnvAsFloat("HOTSTOCK_WEIGHT_TREND", 0.6),
				MarketHeat: getEnvAsFloat("HOTSTOCK_WEIGHT_MARKET_HEAT", 0.4),
			},
		},

		WebhookURL:  getEnv("WEBHOOK_URL", ""),
		RunSchedule: getEnv("RUN_SCHEDULE", "0 0 16 * * MON-FRI"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks configuration invariants before anything else runs.
// A failure here is fatal: no network call may happen with a broken config.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	hs := &c.HotStock
	if hs.FetchCount <= 0 {
		return fmt.Errorf("HOTSTOCK_FETCH_COUNT must be positive, got %d", hs.FetchCount)
	}
	if hs.TopN <= 0 {
		return fmt.Errorf("HOTSTOCK_TOP_N must be positive, got %d", hs.TopN)
	}
	if hs.MaxConcurrent <= 0 {
		return fmt.Errorf("HOTSTOCK_MAX_CONCURRENT must be positive, got %d", hs.MaxConcurrent)
	}
	if hs.MinHistoryDays <= 0 || hs.HistoryDays < hs.MinHistoryDays {
		return fmt.Errorf("history window invalid: history_days=%d min_history_days=%d",
			hs.HistoryDays, hs.MinHistoryDays)
	}
	if hs.Filter.MinPrice < 0 || hs.Filter.MaxPrice <= hs.Filter.MinPrice {
		return fmt.Errorf("price band invalid: min=%.2f max=%.2f",
			hs.Filter.MinPrice, hs.Filter.MaxPrice)
	}
	if sum := hs.Weight.Trend + hs.Weight.MarketHeat; math.Abs(sum-1.0) > 0.01 {
		return fmt.Errorf("score weights must sum to 1.0, got %.3f", sum)
	}
	if hs.Weight.Trend < 0 || hs.Weight.MarketHeat < 0 {
		return fmt.Errorf("score weights must be non-negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
