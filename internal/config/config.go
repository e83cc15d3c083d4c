package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	TokenTTL    time.Duration

	// Пустой NATSURL отключает загрузку файлов
	NATSURL        string
	UploadBucket   string
	MaxUploadBytes int64

	TypingQuietPeriod time.Duration
	HistoryLimit      int
	DefaultRoom       string
	MaxMessageLength  int
	MaxRoomNameLength int

	ArchiveBuffer   int
	ShutdownTimeout time.Duration
	GinMode         string
}

// Load читает .env.local, затем .env, затем переменные окружения
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Info(".env not found, using environment variables")
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		NATSURL:        os.Getenv("NATS_URL"),
		UploadBucket:   getEnv("UPLOAD_BUCKET", "chat-uploads"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 16<<20)),

		TypingQuietPeriod: getEnvAsDuration("TYPING_QUIET_PERIOD", time.Second),
		HistoryLimit:      getEnvAsInt("HISTORY_LIMIT", 50),
		DefaultRoom:       getEnv("DEFAULT_ROOM", "General"),
		MaxMessageLength:  getEnvAsInt("MAX_MESSAGE_LENGTH", 2000),
		MaxRoomNameLength: getEnvAsInt("MAX_ROOM_NAME_LENGTH", 50),

		ArchiveBuffer:   getEnvAsInt("ARCHIVE_BUFFER", 1024),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		GinMode:         getEnv("GIN_MODE", "release"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	for name, v := range map[string]string{
		"DATABASE_URL": c.DatabaseURL,
		"REDIS_URL":    c.RedisURL,
		"JWT_SECRET":   c.JWTSecret,
	} {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is not set", name))
		}
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit))
	}
	if c.DefaultRoom == "" {
		errs = append(errs, errors.New("DEFAULT_ROOM is empty"))
	}
	return errors.Join(errs...)
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
		slog.Warn("invalid integer env, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", key, "value", valueStr)
		return defaultValue
	}
	return value
}
