/*
Package configs is responsible for loading and parsing the application's configuration settings.

Two configurations live here: ClientConfig drives the client core (backend base address,
per-call timeout, session persistence), and ServerConfig drives the development backend.
Both are read from operating system environment variables, optionally seeded from a .env file.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvDevelopment is the default running environment.
	EnvDevelopment = "development"

	// EnvProduction requires every address and secret to be set explicitly.
	EnvProduction = "production"

	// DefaultBaseURL is the backend address used in development when API_BASE_URL is unset.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultHTTPTimeout bounds every backend call made by the client.
	DefaultHTTPTimeout = 10 * time.Second
)

// ClientConfig contains all configuration parameters required by the client core.
type ClientConfig struct {
	Environment string

	// BaseURL is the backend address. It is fixed at startup and never changes at runtime.
	BaseURL string

	// HTTPTimeout is applied to every transport call.
	HTTPTimeout time.Duration

	// SessionFile is where the persisted session is kept. Empty keeps it in memory only.
	SessionFile string

	// RefreshEnabled turns on the refresh-token exchange before auto-logout.
	RefreshEnabled bool
}

// ServerConfig contains the parameters of the development backend.
type ServerConfig struct {
	Environment string
	Port        int

	AllowedOrigins []string
	JWTSecret      string

	// AssetBaseURL prefixes image keys when no object storage is configured.
	AssetBaseURL string

	// S3 settings are optional; when the bucket is set the others are required.
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// IsDevelopment reports whether the client runs in the development environment.
func (c *ClientConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// HasObjectStorage reports whether S3 settings were supplied.
func (c *ServerConfig) HasObjectStorage() bool {
	return c.S3BucketName != ""
}

// loadDotEnv seeds the environment from a .env file when one exists.
// Variables already present in the environment win over the file.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); err != nil {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func environment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = EnvDevelopment
	}
	return env
}

// LoadClientConfig reads and validates the client configuration from environment variables.
func LoadClientConfig() (*ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ClientConfig{}
	cfg.Environment = environment()

	// --- Backend address ---
	cfg.BaseURL = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if cfg.BaseURL == "" {
		if cfg.Environment != EnvDevelopment {
			return nil, fmt.Errorf("API_BASE_URL environment variable is required in %s environment", cfg.Environment)
		}
		cfg.BaseURL = DefaultBaseURL
	}

	// --- Transport ---
	cfg.HTTPTimeout = DefaultHTTPTimeout
	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT environment variable: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", timeout)
		}
		cfg.HTTPTimeout = timeout
	}

	if refreshStr := os.Getenv("TOKEN_REFRESH_ENABLED"); refreshStr != "" {
		enabled, err := strconv.ParseBool(refreshStr)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_REFRESH_ENABLED environment variable: %w", err)
		}
		cfg.RefreshEnabled = enabled
	}

	// --- Session persistence ---
	cfg.SessionFile = os.Getenv("SESSION_FILE")

	return cfg, nil
}

// LoadServerConfig reads and parses the development backend configuration.
func LoadServerConfig() (*ServerConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{}
	cfg.Environment = environment()

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// AllowedOrigins
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// JWTSecret
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if cfg.Environment != EnvDevelopment {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in %s environment for security", cfg.Environment)
		}
		jwtSecret = "habitpet_insecure_development_secret"
	}
	cfg.JWTSecret = jwtSecret

	cfg.AssetBaseURL = strings.TrimRight(os.Getenv("ASSET_BASE_URL"), "/")

	// --- S3 Storage Settings ---
	cfg.S3BucketName = os.Getenv("S3_BUCKET_NAME")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	if cfg.S3BucketName != "" {
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT environment variable is required when S3_BUCKET_NAME is set")
		}
		if cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "" {
			return nil, fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required when S3_BUCKET_NAME is set")
		}
	}

	return cfg, nil
}
