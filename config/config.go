// Package config reads service settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"reguguard-backend/storage"

	"github.com/joho/godotenv"
)

// History backends
const (
	HistoryBackendFile     = "file"
	HistoryBackendPostgres = "postgres"
)

const (
	defaultPort           = "8080"
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultHistoryPath    = "data/analysis_history.jsonl"
	defaultFeedbackPath   = "data/feedback.jsonl"
	defaultScrapeTimeout  = 15 * time.Second
	defaultScrapeInterval = 500 * time.Millisecond
	defaultConcurrency    = 4
	defaultMaxUploadBytes = 20 << 20
	defaultAdminUser      = "admin"
)

// Config holds every setting the server and CLI need
type Config struct {
	Port           string
	GeminiAPIKey   string
	GeminiModel    string
	StorageType    string
	StorageLocal   string
	S3Bucket       string
	S3Region       string
	AWSAccessKey   string
	AWSSecretKey   string
	HistoryBackend string
	HistoryPath    string
	FeedbackPath   string
	DatabaseURL    string
	DomainsPath    string
	Concurrency    int
	ScrapeTimeout  time.Duration
	ScrapeInterval time.Duration
	AdminUser      string
	AdminHash      string
	Debug          bool
	MaxUploadBytes int64
}

// LoadDotEnv loads .env from the working directory, then from the project root
// relative to cmd/<name>. It reports whether a file was found.
func LoadDotEnv() bool {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			return false
		}
	}
	return true
}

// Load reads the configuration from the environment. Call LoadDotEnv first to
// pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", defaultPort),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getenv("GEMINI_MODEL", defaultGeminiModel),
		StorageType:    getenv("STORAGE_TYPE", string(storage.StorageTypeLocal)),
		StorageLocal:   os.Getenv("STORAGE_LOCAL_PATH"),
		S3Bucket:       os.Getenv("AWS_S3_BUCKET"),
		S3Region:       os.Getenv("AWS_REGION"),
		AWSAccessKey:   os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		HistoryBackend: strings.ToLower(getenv("HISTORY_BACKEND", HistoryBackendFile)),
		HistoryPath:    getenv("HISTORY_PATH", defaultHistoryPath),
		FeedbackPath:   getenv("FEEDBACK_PATH", defaultFeedbackPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DomainsPath:    os.Getenv("DOMAIN_DEFINITIONS_PATH"),
		AdminUser:      getenv("ADMIN_USER", defaultAdminUser),
		AdminHash:      os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	var err error
	if cfg.Concurrency, err = intEnv("SCRAPE_CONCURRENCY", defaultConcurrency); err != nil {
		return nil, err
	}
	if cfg.ScrapeTimeout, err = durationEnv("SCRAPE_TIMEOUT", defaultScrapeTimeout); err != nil {
		return nil, err
	}
	if cfg.ScrapeInterval, err = durationEnv("SCRAPE_INTERVAL", defaultScrapeInterval); err != nil {
		return nil, err
	}
	if cfg.Debug, err = boolEnv("LOG_DEBUG", false); err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	switch cfg.HistoryBackend {
	case HistoryBackendFile:
	case HistoryBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when HISTORY_BACKEND=%s", HistoryBackendPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.HistoryBackend)
	}
	return cfg, nil
}

// StorageConfig returns the object storage settings
func (c *Config) StorageConfig() storage.StorageConfig {
	return storage.StorageConfig{
		Type:         storage.StorageType(c.StorageType),
		LocalPath:    c.StorageLocal,
		S3Bucket:     c.S3Bucket,
		S3Region:     c.S3Region,
		AWSAccessKey: c.AWSAccessKey,
		AWSSecretKey: c.AWSSecretKey,
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, v)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
