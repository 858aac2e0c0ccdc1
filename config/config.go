package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	App     AppConfig
	DevAPI  DevAPIConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
}

type SessionConfig struct {
	Backend string // file or redis
	File    string
	Profile string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

type DevAPIConfig struct {
	Port          string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   strings.TrimRight(getEnv("API_BASE_URL", "https://propbackend.onrender.com/api"), "/"),
			Timeout:   time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 0),
		},
		Session: SessionConfig{
			Backend: getEnv("SESSION_BACKEND", "file"),
			File:    getEnv("SESSION_FILE", defaultSessionFile()),
			Profile: getEnv("SESSION_PROFILE", "default"),
			TTL:     time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 48)) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		DevAPI: DevAPIConfig{
			Port:          getEnv("PORT", "8080"),
			JWTSecret:     getEnv("DEVAPI_JWT_SECRET", "dev-secret"),
			AdminEmail:    getEnv("DEVAPI_ADMIN_EMAIL", "admin@example.com"),
			AdminPassword: getEnv("DEVAPI_ADMIN_PASSWORD", "admin123"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	switch c.Session.Backend {
	case "file":
		if c.Session.File == "" {
			return fmt.Errorf("SESSION_FILE is required for the file session backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q (want file or redis)", c.Session.Backend)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative")
	}

	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".propfront-session.json"
	}
	return dir + string(os.PathSeparator) + "propfront" + string(os.PathSeparator) + "session.json"
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}
