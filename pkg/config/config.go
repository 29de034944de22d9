// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Extraction ExtractionConfig
	Engine     EngineConfig
	Storage    StorageConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Jobs       JobsConfig
	Server     ServerConfig
}

// ExtractionConfig tunes the pipeline itself.
type ExtractionConfig struct {
	DefaultMode   string
	Language      string
	LayoutEnabled bool
	MinFigureSide int
	TempDir       string
}

// EngineConfig selects the layout engine.
type EngineConfig struct {
	// Backend is "http" or "tesseract".
	Backend     string
	URL         string
	Endpoint    string
	Timeout     time.Duration
	MaxRetries  int
	CropPadding int
}

// StorageConfig describes where uploads and artifacts go.
type StorageConfig struct {
	Backend       string
	Bucket        string
	Region        string
	Prefix        string
	OutputDir     string
	UploadDir     string
	PresignExpiry time.Duration
	Retries       int
	RetryBackoff  time.Duration
}

// RedisConfig configures the job queue connection.
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

// Address returns host:port.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DatabaseConfig configures the results database.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JobsConfig configures the background extraction worker.
type JobsConfig struct {
	Concurrency     int
	Queues          []string
	MaxRetries      int
	PollInterval    time.Duration
	ShutdownTimeout time.Duration
	DequeueTimeout  time.Duration
	RetryDelay      time.Duration
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimitMB int
	Debug       bool
	Version     string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			DefaultMode:   getEnv("EXTRACT_DEFAULT_MODE", "ALL"),
			Language:      getEnv("EXTRACT_LANGUAGE", "en"),
			LayoutEnabled: getEnvBool("EXTRACT_LAYOUT_ENABLED", true),
			MinFigureSide: getEnvInt("EXTRACT_MIN_FIGURE_SIDE", 50),
			TempDir:       getEnv("EXTRACT_TEMP_DIR", os.TempDir()),
		},
		Engine: EngineConfig{
			Backend:     getEnv("ENGINE_BACKEND", "http"),
			URL:         getEnv("ENGINE_URL", "http://localhost:8866"),
			Endpoint:    getEnv("ENGINE_ENDPOINT", "/predict/structure"),
			Timeout:     getEnvDuration("ENGINE_TIMEOUT", 2*time.Minute),
			MaxRetries:  getEnvInt("ENGINE_MAX_RETRIES", 3),
			CropPadding: getEnvInt("ENGINE_CROP_PADDING", 5),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_MODE", "local"),
			Bucket:        getEnv("AWS_BUCKET", ""),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			Prefix:        getEnv("STORAGE_PREFIX", "docextract"),
			OutputDir:     getEnv("OUTPUT_DIR", "./outputs"),
			UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
			PresignExpiry: getEnvDuration("STORAGE_PRESIGN_EXPIRY", 24*time.Hour),
			Retries:       getEnvInt("STORAGE_RETRIES", 3),
			RetryBackoff:  getEnvDuration("STORAGE_RETRY_BACKOFF", 200*time.Millisecond),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnvInt("REDIS_PORT", 6379),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			Namespace: getEnv("REDIS_NAMESPACE", "docextract"),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DB_ENABLED", true),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "docextract"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Jobs: loadJobsConfig(),
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 50),
			Debug:       getEnvBool("DEBUG", false),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}
}

func loadJobsConfig() JobsConfig {
	return JobsConfig{
		Concurrency:     getEnvInt("JOBS_CONCURRENCY", 2),
		Queues:          getEnvStringSlice("JOBS_QUEUES", []string{"extractions"}),
		MaxRetries:      getEnvInt("JOBS_MAX_RETRIES", 2),
		PollInterval:    getEnvDuration("JOBS_POLL_INTERVAL", time.Second),
		ShutdownTimeout: getEnvDuration("JOBS_SHUTDOWN_TIMEOUT", 30*time.Second),
		DequeueTimeout:  getEnvDuration("JOBS_DEQUEUE_TIMEOUT", 5*time.Second),
		RetryDelay:      getEnvDuration("JOBS_RETRY_DELAY", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvStringSlice(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
