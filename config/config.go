package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`
	Debug  bool         `yaml:"debug"`

	// Application version
	Version string `yaml:"version"`

	Log LogConfig `yaml:"log"`

	// CORS Configuration
	CORS CORSConfig `yaml:"cors"`

	// Rate Limiting
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Transcript TranscriptConfig `yaml:"transcript"`
	Model      ModelConfig      `yaml:"model"`

	// Optional outcome sinks
	History HistoryConfig `yaml:"history"`
	Archive ArchiveConfig `yaml:"archive"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr is the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type LogConfig struct {
	Dir    string `yaml:"dir"`
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	BurstSize         int  `yaml:"burst_size"`
}

type TranscriptConfig struct {
	Languages    []string      `yaml:"languages"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	BaseURL      string        `yaml:"base_url"`
	UserAgent    string        `yaml:"user_agent"`
}

// ModelConfig selects the summarization backend and its generation limits.
// Name, MaxInputChars, MaxLength and MinLength left at zero are filled from
// the preset named by Variant.
type ModelConfig struct {
	Backend          string        `yaml:"backend"`
	Variant          string        `yaml:"variant"`
	Name             string        `yaml:"name"`
	MaxInputChars    int           `yaml:"max_input_chars"`
	MaxLength        int           `yaml:"max_length"`
	MinLength        int           `yaml:"min_length"`
	Endpoint         string        `yaml:"endpoint"`
	APIKey           string        `yaml:"api_key"`
	LoadTimeout      time.Duration `yaml:"load_timeout"`
	InferenceTimeout time.Duration `yaml:"inference_timeout"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendAnthropic   = "anthropic"
)

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Version: "1.0.0",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		CORS: CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"*"},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"X-Request-ID"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
			BurstSize:         10,
		},
		Transcript: TranscriptConfig{
			Languages:    []string{"en"},
			FetchTimeout: 30 * time.Second,
			BaseURL:      "https://www.youtube.com",
		},
		Model: ModelConfig{
			Backend:          BackendHuggingFace,
			Variant:          VariantSmall,
			LoadTimeout:      2 * time.Minute,
			InferenceTimeout: 90 * time.Second,
		},
		History: HistoryConfig{
			DBPath: "./data/history.db",
		},
		Archive: ArchiveConfig{
			Region: "us-east-1",
			Prefix: "summaries",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Model.resolve(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validateServer(c); err != nil {
		return err
	}

	if err := validateModel(c); err != nil {
		return err
	}

	if err := validateSinks(c); err != nil {
		return err
	}

	return nil
}

func validateServer(c *Config) error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server port is required")
	}
	if c.Server.ReadTimeout <= 0 {
		return errors.New("read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.New("write timeout must be positive")
	}
	if c.Transcript.FetchTimeout <= 0 {
		return errors.New("transcript fetch timeout must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("rate limit requests per minute must be positive")
	}
	return nil
}

func validateModel(c *Config) error {
	m := c.Model
	switch m.Backend {
	case BackendHuggingFace, BackendOpenAI, BackendAnthropic:
	default:
		return fmt.Errorf("unknown model backend %q", m.Backend)
	}
	if m.Name == "" {
		return errors.New("model name is required")
	}
	if m.MaxInputChars <= 0 {
		return errors.New("model max input chars must be positive")
	}
	if m.MinLength <= 0 || m.MaxLength <= 0 {
		return errors.New("model summary lengths must be positive")
	}
	if m.MinLength > m.MaxLength {
		return errors.New("model min length cannot be greater than max length")
	}
	if m.InferenceTimeout <= 0 || m.LoadTimeout <= 0 {
		return errors.New("model timeouts must be positive")
	}
	return nil
}

func validateSinks(c *Config) error {
	if c.History.Enabled && c.History.DBPath == "" {
		return errors.New("history is enabled but no database path is set")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return errors.New("archive is enabled but no bucket is set")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Errorf("config file %s does not exist", path)
	}
	return decodeFile(path, cfg)
}
