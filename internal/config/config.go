package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the development API server
type Config struct {
	// Database Configuration
	Database DatabaseConfig

	// HTTP Configuration
	Server ServerConfig

	// Token issuing
	Auth AuthConfig

	// Seeded administrator
	Admin AdminConfig

	// Logging Configuration
	Logging LoggingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds listener and CORS settings
type ServerConfig struct {
	Address     string
	CORSOrigins []string
}

// AuthConfig holds access token settings
type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// AdminConfig holds the account seeded on startup. Empty email disables seeding.
type AdminConfig struct {
	Email    string
	Password string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	loadDotEnv()

	ttl, err := durationEnv("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "storefront-dev-secret"
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && len(adminPassword) < 8 {
		return nil, fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters when ADMIN_EMAIL is set")
	}

	return &Config{
		Database: DatabaseConfig{
			URL: envOr("DATABASE_URL", "storefront-dev.sqlite"),
		},
		Server: ServerConfig{
			Address:     envOr("SERVER_ADDR", ":8080"),
			CORSOrigins: splitList(envOr("CORS_ORIGINS", "http://localhost:5173")),
		},
		Auth: AuthConfig{
			JWTSecret:      jwtSecret,
			AccessTokenTTL: ttl,
		},
		Admin: AdminConfig{
			Email:    adminEmail,
			Password: adminPassword,
		},
		Logging: LoggingConfig{
			Level:  envOr("LOG_LEVEL", "info"),
			Format: envOr("LOG_FORMAT", "json"),
		},
	}, nil
}

// CLIConfig holds the storefront CLI settings
type CLIConfig struct {
	APIURL     string // empty means "use the selected server"
	TokenStore string // keyring, file, memory
	Email      string
	Password   string
	LogLevel   string
	Timeout    time.Duration
}

// LoadCLI loads CLI configuration from environment variables
func LoadCLI() (*CLIConfig, error) {
	loadDotEnv()

	timeout, err := durationEnv("STOREFRONT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return &CLIConfig{
		APIURL:     strings.TrimRight(os.Getenv("STOREFRONT_API_URL"), "/"),
		TokenStore: envOr("STOREFRONT_TOKEN_STORE", "keyring"),
		Email:      os.Getenv("STOREFRONT_EMAIL"),
		Password:   os.Getenv("STOREFRONT_PASSWORD"),
		LogLevel:   envOr("STOREFRONT_LOG_LEVEL", "warn"),
		Timeout:    timeout,
	}, nil
}

func loadDotEnv() {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
