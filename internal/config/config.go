package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Log      LogConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address string // listen address (e.g., ":8080")
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret      string        // JWT signing secret
	AccessTokenTTL time.Duration // lifetime of issued access tokens
}

// CacheConfig contains Redis cache settings. When Enabled is false the
// service runs with a noop store and every count read goes to the
// database.
type CacheConfig struct {
	Enabled          bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ContactsCountTTL time.Duration
}

// LogConfig contains logging settings.
type LogConfig struct {
	Mode string // "dev" or "prod"
}

// Load loads configuration from environment variables with sensible
// defaults. JWT_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in
// development. WARNING: only use in development.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	tokenTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	countTTL, err := getEnvDuration("CACHE_CONTACTS_COUNT_TTL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("CACHE_REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheEnabled, err := getEnvBool("CACHE_ENABLED", true)
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "app.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", defaultSecret),
			AccessTokenTTL: tokenTTL,
		},
		Cache: CacheConfig{
			Enabled:          cacheEnabled,
			RedisAddr:        getEnv("CACHE_REDIS_ADDR", "localhost:6379"),
			RedisPassword:    getEnv("CACHE_REDIS_PASSWORD", ""),
			RedisDB:          redisDB,
			ContactsCountTTL: countTTL,
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "dev"),
		},
	}, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return boolVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values
// are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, Cache: %s (enabled=%t), Auth: *** (masked) ***}",
		c.Database.Path, c.HTTP.Address, c.Cache.RedisAddr, c.Cache.Enabled)
}
