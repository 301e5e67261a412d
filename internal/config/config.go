package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Backend API
	APIHost        string        `env:"CHAT_API_HOST"`
	APIPort        int           `env:"CHAT_API_PORT" default:"5000"`
	RequestTimeout time.Duration `env:"CHAT_REQUEST_TIMEOUT" default:"30s"`
	// InsecureTLS accepts any server certificate. Development only; the
	// backend usually runs with a self-signed cert on the local network.
	InsecureTLS bool `env:"CHAT_INSECURE_TLS" default:"true"`

	// Credential storage
	CredentialsFile string `env:"CHAT_CREDENTIALS_FILE"`
	CredentialsKey  string `env:"CHAT_CREDENTIALS_KEY"`

	// Local file storage for room profile pictures
	AppDataDir string `env:"CHAT_APP_DATA_DIR"`

	// Dev server
	DevServerPort int    `env:"DEVSERVER_PORT" default:"5000"`
	DatabasePath  string `env:"DEVSERVER_DB" default:"chatrum.db"`
	RedisURL      string `env:"DEVSERVER_REDIS_URL"`
	RateLimitRPS  int    `env:"DEVSERVER_RATE_LIMIT_RPS" default:"50"`

	// Development
	LogLevel string `env:"LOG_LEVEL" default:"debug"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from the working directory
	if err := godotenv.Load(".env"); err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// Backend API
	if err := loadEnvString(&config.APIHost, "CHAT_API_HOST", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.APIPort, "CHAT_API_PORT", 5000); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RequestTimeout, "CHAT_REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.InsecureTLS, "CHAT_INSECURE_TLS", true); err != nil {
		return nil, err
	}

	// Credential storage
	if err := loadEnvString(&config.CredentialsFile, "CHAT_CREDENTIALS_FILE", defaultCredentialsFile()); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.CredentialsKey, "CHAT_CREDENTIALS_KEY", ""); err != nil {
		return nil, err
	}

	// File storage
	if err := loadEnvString(&config.AppDataDir, "CHAT_APP_DATA_DIR", defaultAppDataDir()); err != nil {
		return nil, err
	}

	// Dev server
	if err := loadEnvInt(&config.DevServerPort, "DEVSERVER_PORT", 5000); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.DatabasePath, "DEVSERVER_DB", "chatrum.db"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisURL, "DEVSERVER_REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitRPS, "DEVSERVER_RATE_LIMIT_RPS", 50); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}

	return config, nil
}

func defaultAppDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatrum"
	}
	return filepath.Join(home, ".chatrum")
}

func defaultCredentialsFile() string {
	return filepath.Join(defaultAppDataDir(), "credentials.enc")
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.APIPort < 1 || c.APIPort > 65535 {
		errors = append(errors, "CHAT_API_PORT must be between 1 and 65535")
	}
	if c.DevServerPort < 1 || c.DevServerPort > 65535 {
		errors = append(errors, "DEVSERVER_PORT must be between 1 and 65535")
	}
	if c.RequestTimeout <= 0 {
		errors = append(errors, "CHAT_REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitRPS < 1 {
		errors = append(errors, "DEVSERVER_RATE_LIMIT_RPS must be at least 1")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
