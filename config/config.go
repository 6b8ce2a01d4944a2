package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// AI Service Configuration (resume extraction + description enhancement)
	AIServiceURL     string
	AIRequestTimeout time.Duration
	// Autosave Configuration
	AutosaveQuietPeriod time.Duration
	// Redis Configuration (rate limiting)
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitUploadThreshold int
	RateLimitAIThreshold     int
	RateLimitGlobalThreshold int
	// Upload limits
	MaxResumeSizeBytes int64
}

func LoadConfig() (*Config, error) {
	// .env is only effective locally; ignored in production when absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBUrl:            getEnv("DATABASE_URL", ""),
		FrontendURL:      strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AIServiceURL:     strings.TrimRight(getEnv("AI_SERVICE_URL", "http://localhost:8000"), "/"),
		AIRequestTimeout: time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		// Quiet period before a dirty draft is flushed to the store
		AutosaveQuietPeriod: time.Duration(getEnvInt("AUTOSAVE_QUIET_MS", 2000)) * time.Millisecond,
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitUploadThreshold: getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 5),   // 5 resume uploads per window
		RateLimitAIThreshold:     getEnvInt("RATE_LIMIT_AI_THRESHOLD", 20),      // 20 AI calls per window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // 100 requests per window
		// Resume uploads are capped at 10 MiB
		MaxResumeSizeBytes: getEnvInt64("MAX_RESUME_SIZE_BYTES", 10*1024*1024),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvInt64 returns an int64 environment variable or fallback if not set/invalid
func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}
