package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverGCS        = "gcs"
	StorageDriverFilesystem = "filesystem"
)

// Config represents backend configuration loaded from environment variables.
type Config struct {
	AppEnv               string
	Port                 string
	StorageDriver        string
	ServiceAccountB64    string
	GoogleCloudProject   string
	BucketName           string
	StoragePath          string
	StorageBaseURL       string
	StorageSigningSecret string
	AllowedOrigins       []string
	MaxUploadBytes       int64
	MaxJSONBytes         int64
	SignedURLTTL         time.Duration
	DatabaseURL          string
	GeoIPDBPath          string
	RateLimitPerMin      int
	HTTPReadTimeout      time.Duration
	HTTPWriteTimeout     time.Duration
	HTTPIdleTimeout      time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "3001")
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 port,
		StorageDriver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverGCS)),
		ServiceAccountB64:    strings.TrimSpace(os.Getenv("GCP_SA_KEY_BASE64")),
		GoogleCloudProject:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		BucketName:           strings.TrimSpace(os.Getenv("BUCKET_NAME")),
		StoragePath:          getEnv("STORAGE_PATH", "./data"),
		StorageBaseURL:       getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%s/objects", port)),
		StorageSigningSecret: os.Getenv("STORAGE_SIGNING_SECRET"),
		AllowedOrigins:       splitList(os.Getenv("ALLOWED_ORIGIN")),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_MB", 15)) << 20,
		MaxJSONBytes:         int64(getEnvInt("MAX_JSON_MB", 25)) << 20,
		SignedURLTTL:         time.Hour * time.Duration(getEnvInt("SIGNED_URL_TTL_HOURS", 24*7)),
		DatabaseURL:          strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	switch cfg.StorageDriver {
	case StorageDriverGCS:
		if cfg.ServiceAccountB64 == "" {
			return nil, errors.New("GCP_SA_KEY_BASE64 is required")
		}
		if cfg.BucketName == "" {
			return nil, errors.New("BUCKET_NAME is required")
		}
	case StorageDriverFilesystem:
		if strings.TrimSpace(cfg.StoragePath) == "" {
			return nil, errors.New("STORAGE_PATH is required for the filesystem driver")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// StudioConfig configures the terminal client.
type StudioConfig struct {
	AppEnv       string
	APIBaseURL   string
	GeminiAPIKey string
	GeminiModel  string
	Password     string
	WardrobeFile string
	Locale       string
	HTTPTimeout  time.Duration
}

// LoadStudioConfig reads the client configuration. The VITE_ prefixed names
// are accepted so an existing front-end .env keeps working.
func LoadStudioConfig() (*StudioConfig, error) {
	cfg := &StudioConfig{
		AppEnv:       getEnv("APP_ENV", "development"),
		APIBaseURL:   strings.TrimRight(firstEnv("http://localhost:3001", "API_BASE_URL", "VITE_API_BASE_URL"), "/"),
		GeminiAPIKey: firstEnv("", "GEMINI_API_KEY", "API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
		Password:     os.Getenv("STUDIO_PASSWORD"),
		WardrobeFile: os.Getenv("WARDROBE_FILE"),
		Locale:       firstEnv("en", "STUDIO_LOCALE", "LANG"),
		HTTPTimeout:  time.Second * time.Duration(getEnvInt("HTTP_CLIENT_TIMEOUT_SECONDS", 180)),
	}
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func firstEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
