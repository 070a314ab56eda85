package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Redis         RedisConfig         `json:"redis"`
	RateLimit     RateLimitConfig     `json:"rate_limit"`
	Tracing       TracingConfig       `json:"tracing"`
	Logging       LoggingConfig       `json:"logging"`
	Collaborators CollaboratorsConfig `json:"collaborators"`
	Engine        EngineConfig        `json:"engine"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string `json:"port"`
	Host string `json:"host"`
	// Max request body size in bytes
	MaxRequestBodySize int64 `json:"max_request_body_size"`
	// Allowed CORS origins (comma-separated)
	AllowedOrigins string `json:"allowed_origins"`
}

// DatabaseConfig holds the tracking audit log configuration.
type DatabaseConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// RedisConfig holds the guest context cache configuration. When
// disabled, an in-memory cache is used instead.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool `json:"enabled"`
	Rate    int  `json:"rate"`
	Window  int  `json:"window"` // in seconds
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	Enabled     bool   `json:"enabled"`
	Endpoint    string `json:"endpoint"`
	Environment string `json:"environment"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Development bool `json:"development"`
}

// CollaboratorsConfig holds the external lookup endpoints. An empty
// base URL selects the built-in static data source.
type CollaboratorsConfig struct {
	BaseURL   string `json:"base_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// EngineConfig holds engine tunables.
type EngineConfig struct {
	ContextCacheTTLSeconds int    `json:"context_cache_ttl_seconds"`
	SeedDefaultConfig      bool   `json:"seed_default_config"`
	SeedPropertyID         string `json:"seed_property_id"`
	EventHooksEnabled      bool   `json:"event_hooks_enabled"`
}

// LoadConfig loads configuration from environment variables and/or a
// JSON config file. Environment variables take precedence over file
// values.
func LoadConfig(configFile string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			Host:               getEnv("SERVER_HOST", ""),
			MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 10<<20),
			AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Enabled: getEnvBool("DATABASE_ENABLED", true),
			Path:    getEnv("DATABASE_PATH", "./upsell_tracking.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),
			Rate:    getEnvInt("RATE_LIMIT_RATE", 100),
			Window:  getEnvInt("RATE_LIMIT_WINDOW", 60),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("TRACING_ENDPOINT", "http://localhost:14268/api/traces"),
			Environment: getEnv("TRACING_ENVIRONMENT", "development"),
		},
		Logging: LoggingConfig{
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		Collaborators: CollaboratorsConfig{
			BaseURL:   getEnv("PMS_BASE_URL", ""),
			TimeoutMS: getEnvInt("PMS_TIMEOUT_MS", 2000),
		},
		Engine: EngineConfig{
			ContextCacheTTLSeconds: getEnvInt("CONTEXT_CACHE_TTL_SECONDS", 300),
			SeedDefaultConfig:      getEnvBool("SEED_DEFAULT_CONFIG", false),
			SeedPropertyID:         getEnv("SEED_PROPERTY_ID", "demo-property"),
			EventHooksEnabled:      getEnvBool("EVENT_HOOKS_ENABLED", true),
		},
	}

	// Load from config file if provided
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		// Environment variables win over file values
		overrideFromEnv(cfg)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON file.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, cfg)
}

// overrideFromEnv overrides configuration with environment variables.
func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = origins
	}
	if maxBodySize := os.Getenv("MAX_REQUEST_BODY_SIZE"); maxBodySize != "" {
		if size, err := strconv.ParseInt(maxBodySize, 10, 64); err == nil {
			cfg.Server.MaxRequestBodySize = size
		}
	}
	if enabled := os.Getenv("DATABASE_ENABLED"); enabled != "" {
		cfg.Database.Enabled = isTrue(enabled)
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if enabled := os.Getenv("REDIS_ENABLED"); enabled != "" {
		cfg.Redis.Enabled = isTrue(enabled)
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		cfg.RateLimit.Enabled = isTrue(enabled)
	}
	if rate := os.Getenv("RATE_LIMIT_RATE"); rate != "" {
		if r, err := strconv.Atoi(rate); err == nil {
			cfg.RateLimit.Rate = r
		}
	}
	if window := os.Getenv("RATE_LIMIT_WINDOW"); window != "" {
		if w, err := strconv.Atoi(window); err == nil {
			cfg.RateLimit.Window = w
		}
	}
	if enabled := os.Getenv("TRACING_ENABLED"); enabled != "" {
		cfg.Tracing.Enabled = isTrue(enabled)
	}
	if endpoint := os.Getenv("TRACING_ENDPOINT"); endpoint != "" {
		cfg.Tracing.Endpoint = endpoint
	}
	if baseURL := os.Getenv("PMS_BASE_URL"); baseURL != "" {
		cfg.Collaborators.BaseURL = baseURL
	}
	if timeout := os.Getenv("PMS_TIMEOUT_MS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			cfg.Collaborators.TimeoutMS = t
		}
	}
	if seed := os.Getenv("SEED_DEFAULT_CONFIG"); seed != "" {
		cfg.Engine.SeedDefaultConfig = isTrue(seed)
	}
	if propertyID := os.Getenv("SEED_PROPERTY_ID"); propertyID != "" {
		cfg.Engine.SeedPropertyID = propertyID
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Database.Enabled && c.Database.Path == "" {
		return fmt.Errorf("database path is required when the audit log is enabled")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Rate <= 0 {
			return fmt.Errorf("rate limit rate must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
	}
	if c.Collaborators.TimeoutMS <= 0 {
		return fmt.Errorf("collaborator timeout must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns the default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable or returns the default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return isTrue(value)
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvInt64 gets an int64 environment variable or returns the default value.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func isTrue(value string) bool {
	return strings.ToLower(value) == "true" || value == "1"
}
