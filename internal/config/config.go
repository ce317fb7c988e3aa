package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Summary  SummaryConfig  `yaml:"summary" envconfig:"SUMMARY"`
	Limits   LimitsConfig   `yaml:"limits" envconfig:"LIMITS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// SummaryConfig configures the outbound text-generation API used for
// natural-language summaries of the current dashboard view.
type SummaryConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey    string        `yaml:"api_key" envconfig:"API_KEY"`
	Model     string        `yaml:"model" envconfig:"MODEL"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxTokens int           `yaml:"max_tokens" envconfig:"MAX_TOKENS"`
	RPS       float64       `yaml:"rps" envconfig:"RPS"`
	Burst     int           `yaml:"burst" envconfig:"BURST"`
}

// LimitsConfig bounds what a single session may upload
type LimitsConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	MaxFiles       int   `yaml:"max_files" envconfig:"MAX_FILES"`
}

// Load loads configuration from an optional YAML file layered under
// environment variables. Environment variables take precedence.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration from the given YAML file path (skipped
// when the file does not exist), applies environment overrides, then fills
// remaining zero values with defaults.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Environment variables override file values. Only variables actually
	// present in the environment touch the struct.
	if err := envconfig.Process("TASKLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configFilePath returns the config file location, overridable via env
func configFilePath() string {
	if p := os.Getenv("TASKLENS_CONFIG"); p != "" {
		return p
	}
	return "tasklens.yaml"
}

// applyDefaults fills zero-valued fields after file and env layering
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.MaxHeaderBytes == 0 {
		c.Server.MaxHeaderBytes = 1 << 20
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 2 * time.Minute
	}

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"http://localhost:3000"}
		c.Security.EnableCORS = true
	}
	if c.Security.RateLimit.RPS == 0 {
		c.Security.RateLimit.Enabled = true
		c.Security.RateLimit.RPS = 50
	}
	if c.Security.RateLimit.Burst == 0 {
		c.Security.RateLimit.Burst = 25
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/tasklens.log"
	}

	if c.Summary.BaseURL == "" {
		c.Summary.BaseURL = "https://api.openai.com"
	}
	if c.Summary.Model == "" {
		c.Summary.Model = "gpt-4o-mini"
	}
	if c.Summary.Timeout == 0 {
		c.Summary.Timeout = 30 * time.Second
	}
	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 1024
	}
	if c.Summary.RPS == 0 {
		c.Summary.RPS = 1
	}
	if c.Summary.Burst == 0 {
		c.Summary.Burst = 2
	}

	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 32 << 20
	}
	if c.Limits.MaxFiles == 0 {
		c.Limits.MaxFiles = 32
	}
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %f", c.Security.RateLimit.RPS)
	}
	if c.Limits.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Limits.MaxUploadBytes)
	}
	if c.Limits.MaxFiles <= 0 {
		return fmt.Errorf("max files must be positive, got %d", c.Limits.MaxFiles)
	}
	if c.Summary.Timeout <= 0 {
		return fmt.Errorf("summary timeout must be positive, got %s", c.Summary.Timeout)
	}
	return nil
}

// SummaryConfigured reports whether the summary API can be called
func (c *Config) SummaryConfigured() bool {
	return c.Summary.APIKey != ""
}
