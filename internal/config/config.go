// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Forecast  ForecastConfig
	Recommend RecommendConfig
	Storage   StorageConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
	// MaxConcurrentQueries caps in-flight reads through the pool semaphore.
	MaxConcurrentQueries int64
}

type CacheConfig struct {
	Enabled                  bool
	RedisURL                 string
	RedisHost                string
	RedisPort                string
	RedisPassword            string
	RedisDB                  int
	HealthTTLSeconds         int
	RecommendationTTLSeconds int
}

// ForecastConfig tunes inventory scans. The forecasting constants themselves
// are fixed in the forecast package.
type ForecastConfig struct {
	StockoutThresholdDays int
	// ScanMaxStock, when > 0, skips products with stock at or above it
	// during stockout scans.
	ScanMaxStock      int
	DashboardTopRisks int
}

type RecommendConfig struct {
	DefaultLimit   int
	PopularDays    int
	NewArrivalDays int
}

// StorageConfig selects where exported reports go. Driver is one of
// "local", "s3" or "minio".
type StorageConfig struct {
	Driver    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	ExportDir string
}

type LogConfig struct {
	Level string
	JSON  bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.GetViper()
		setDefaults(v)

		// Read from environment variables
		v.AutomaticEnv()

		instance = fromViper(v)
		ensureDir(instance.Storage.ExportDir)
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stockcast")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_CONCURRENT_QUERIES", 10)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_HEALTH_TTL_SECONDS", 60)
	v.SetDefault("CACHE_RECOMMENDATION_TTL_SECONDS", 300)

	v.SetDefault("FORECAST_STOCKOUT_THRESHOLD_DAYS", 7)
	v.SetDefault("FORECAST_SCAN_MAX_STOCK", 0)
	v.SetDefault("FORECAST_DASHBOARD_TOP_RISKS", 10)

	v.SetDefault("RECOMMEND_DEFAULT_LIMIT", 10)
	v.SetDefault("RECOMMEND_POPULAR_DAYS", 30)
	v.SetDefault("RECOMMEND_NEW_ARRIVAL_DAYS", 30)

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "stockcast-reports")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_EXPORT_DIR", "./data/exports")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:                 v.GetString("DB_HOST"),
			Port:                 v.GetString("DB_PORT"),
			User:                 v.GetString("DB_USER"),
			Password:             v.GetString("DB_PASSWORD"),
			DBName:               v.GetString("DB_NAME"),
			SSLMode:              v.GetString("DB_SSLMODE"),
			MaxOpenConns:         v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:         v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxConcurrentQueries: v.GetInt64("DB_MAX_CONCURRENT_QUERIES"),
		},
		Cache: CacheConfig{
			Enabled:                  v.GetBool("CACHE_ENABLED"),
			RedisURL:                 v.GetString("REDIS_URL"),
			RedisHost:                v.GetString("REDIS_HOST"),
			RedisPort:                v.GetString("REDIS_PORT"),
			RedisPassword:            v.GetString("REDIS_PASSWORD"),
			RedisDB:                  v.GetInt("REDIS_DB"),
			HealthTTLSeconds:         v.GetInt("CACHE_HEALTH_TTL_SECONDS"),
			RecommendationTTLSeconds: v.GetInt("CACHE_RECOMMENDATION_TTL_SECONDS"),
		},
		Forecast: ForecastConfig{
			StockoutThresholdDays: v.GetInt("FORECAST_STOCKOUT_THRESHOLD_DAYS"),
			ScanMaxStock:          v.GetInt("FORECAST_SCAN_MAX_STOCK"),
			DashboardTopRisks:     v.GetInt("FORECAST_DASHBOARD_TOP_RISKS"),
		},
		Recommend: RecommendConfig{
			DefaultLimit:   v.GetInt("RECOMMEND_DEFAULT_LIMIT"),
			PopularDays:    v.GetInt("RECOMMEND_POPULAR_DAYS"),
			NewArrivalDays: v.GetInt("RECOMMEND_NEW_ARRIVAL_DAYS"),
		},
		Storage: StorageConfig{
			Driver:    v.GetString("STORAGE_DRIVER"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			Region:    v.GetString("STORAGE_REGION"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			ExportDir: v.GetString("STORAGE_EXPORT_DIR"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
		},
	}
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
