package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Session storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration
type Config struct {
	APIID    int
	APIHash  string
	ProxyURL string
	LogLevel string
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Notify   NotifyConfig
}

// SessionConfig selects where the session is kept
type SessionConfig struct {
	Backend    string
	Path       string
	Name       string
	Passphrase string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NotifyConfig holds the optional Bot API reporter settings
type NotifyConfig struct {
	BotToken string
	ChatID   int64
}

// Load reads configuration from environment variables. Values from
// envFiles (default .env, ignored if missing) never override the process
// environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	apiID, err := getEnvAsInt("TG_ID", 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	chatID, err := getEnvAsInt("NOTIFY_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIID:    apiID,
		APIHash:  os.Getenv("TG_HASH"),
		ProxyURL: os.Getenv("TG_PROXY_URL"),
		LogLevel: getEnv("LOG_LEVEL", "warn"),
		Session: SessionConfig{
			Backend:    getEnv("SESSION_BACKEND", BackendFile),
			Path:       getEnv("SESSION_FILE", "app.session"),
			Name:       getEnv("SESSION_NAME", "app"),
			Passphrase: os.Getenv("SESSION_PASSPHRASE"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "userbot"),
			User:     getEnv("DB_USER", "userbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Notify: NotifyConfig{
			BotToken: os.Getenv("NOTIFY_BOT_TOKEN"),
			ChatID:   int64(chatID),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.APIID == 0 {
		return fmt.Errorf("TG_ID is required")
	}
	if c.APIHash == "" {
		return fmt.Errorf("TG_HASH is required")
	}

	switch c.Session.Backend {
	case BackendFile:
		if c.Session.Path == "" {
			return fmt.Errorf("SESSION_FILE is required")
		}
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case BackendRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of %s, %s, %s; got %q",
			BackendFile, BackendPostgres, BackendRedis, c.Session.Backend)
	}

	if c.Notify.BotToken != "" && c.Notify.ChatID == 0 {
		return fmt.Errorf("NOTIFY_CHAT_ID is required when NOTIFY_BOT_TOKEN is set")
	}

	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return n, nil
}
