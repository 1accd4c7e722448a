package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv             string
	LogLevel           slog.Level
	ApiServicePort     string
	ApiGrpcPort        string
	PostgreSQLHost     string
	PostgreSQLPort     int64
	PostgreSQLUser     string
	PostgreSQLPassword string
	PostgreSQLDatabase string
	JWTSecret          string
	TokenExpiration    int64 // Token lifetime in seconds
	RedisHost          string
	RedisPort          int64
	RedisPassword      string
	RedisDB            int64
	UploadDir          string
	MaxUploadSize      int64
	AuthRateLimit      int64 // Requests per minute per client IP on /auth
	MessageRateLimit   int64 // Messages per minute per user
	ShutdownTimeout    int64 // Seconds
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")
)

func LoadConfig() *Config {
	// A missing .env file is fine; the process environment still applies.
	_ = godotenv.Load()

	return &Config{
		AppEnv:             getEnv("APP_ENV", "development"),               // Default development
		LogLevel:           getLogLevel(),                                  // Default INFO
		ApiServicePort:     getEnv("API_SERVICE_PORT", "8080"),             // Default 8080
		ApiGrpcPort:        getEnv("API_GRPC_PORT", "50052"),               // Default 50052 (health only)
		PostgreSQLHost:     getEnv("POSTGRESQL_HOST", "db"),                // Default db
		PostgreSQLPort:     getEnvAsInt64("POSTGRESQL_PORT", 5432),         // Default 5432
		PostgreSQLUser:     getEnv("POSTGRESQL_USER", "tripsync_user"),     // Default user
		PostgreSQLPassword: getEnv("POSTGRESQL_PASSWORD", ""),              // Default empty
		PostgreSQLDatabase: getEnv("POSTGRESQL_DATABASE", "tripsync_db"),   // Default database name
		JWTSecret:          getEnv("JWT_SECRET", ""),                       // No default, see Validate
		TokenExpiration:    getEnvAsInt64("TOKEN_EXPIRATION", 604800),      // Default 7 days
		RedisHost:          getEnv("REDIS_HOST", "redis"),                  // Default redis
		RedisPort:          getEnvAsInt64("REDIS_PORT", 6379),              // Default 6379
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),                   // Default empty
		RedisDB:            getEnvAsInt64("REDIS_DB", 0),                   // Default 0
		UploadDir:          getEnv("UPLOAD_DIR", "public/uploads"),         // Served under /uploads
		MaxUploadSize:      getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024), // Default 10 MiB
		AuthRateLimit:      getEnvAsInt64("AUTH_RATE_LIMIT", 20),           // Default 20/min
		MessageRateLimit:   getEnvAsInt64("MESSAGE_RATE_LIMIT", 30),        // Default 30/min
		ShutdownTimeout:    getEnvAsInt64("SHUTDOWN_TIMEOUT", 15),          // Default 15 seconds
	}
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("TOKEN_EXPIRATION must be positive, got %d", c.TokenExpiration)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	if c.AuthRateLimit <= 0 || c.MessageRateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
