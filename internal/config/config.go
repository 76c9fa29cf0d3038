package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Geocoding GeocodingConfig
	Redis     RedisConfig
	Recovery  RecoveryConfig
	Login     LoginConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	CORSOrigins    []string
	TrustedProxies []string // peers allowed to report the client address
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SessionConfig struct {
	Secret string
	Secure bool
}

type GeocodingConfig struct {
	APIKey  string
	Timeout time.Duration
	// Strict makes a failing geocoder abort checkout instead of dropping coordinates
	Strict bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RecoveryConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginConfig throttles login attempts per client IP
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "localhost"),
			Env:            getEnv("ENV", "development"),
			CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS"), // empty disables cross-origin access
			TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		},
		Database: parseDatabaseConfig(),
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			Secure: getEnvAsBool("SESSION_SECURE", false),
		},
		Geocoding: GeocodingConfig{
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			Timeout: getEnvAsDuration("GEOCODE_TIMEOUT", 5*time.Second),
			Strict:  getEnvAsBool("GEOCODE_STRICT", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Recovery: RecoveryConfig{
			MaxAttempts: getEnvAsInt("RECOVERY_MAX_ATTEMPTS", 5),
			Window:      getEnvAsDuration("RECOVERY_WINDOW", 15*time.Minute),
		},
		Login: LoginConfig{
			MaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 10),
			Window:      getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "moviestore"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
