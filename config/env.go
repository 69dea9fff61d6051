package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// applyEnv overrides cfg with any environment variable that is set.
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Debug = getEnvAsBool("DEBUG", cfg.Debug)
	cfg.Version = getEnv("VERSION", cfg.Version)

	cfg.Log.Dir = getEnv("LOG_DIR", cfg.Log.Dir)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.CORS.Enabled = getEnvAsBool("CORS_ENABLED", cfg.CORS.Enabled)
	cfg.CORS.AllowedOrigins = getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = getEnvAsStringSlice("CORS_ALLOWED_METHODS", cfg.CORS.AllowedMethods)
	cfg.CORS.AllowedHeaders = getEnvAsStringSlice("CORS_ALLOWED_HEADERS", cfg.CORS.AllowedHeaders)
	cfg.CORS.ExposedHeaders = getEnvAsStringSlice("CORS_EXPOSED_HEADERS", cfg.CORS.ExposedHeaders)
	cfg.CORS.AllowCredentials = getEnvAsBool("CORS_ALLOW_CREDENTIALS", cfg.CORS.AllowCredentials)
	cfg.CORS.MaxAge = getEnvAsInt("CORS_MAX_AGE", cfg.CORS.MaxAge)

	cfg.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.RequestsPerMinute = getEnvAsInt("RATE_LIMIT_RPM", cfg.RateLimit.RequestsPerMinute)
	cfg.RateLimit.BurstSize = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimit.BurstSize)

	cfg.Transcript.Languages = getEnvAsStringSlice("TRANSCRIPT_LANGUAGES", cfg.Transcript.Languages)
	cfg.Transcript.FetchTimeout = getEnvAsDuration("TRANSCRIPT_FETCH_TIMEOUT", cfg.Transcript.FetchTimeout)
	cfg.Transcript.BaseURL = getEnv("YOUTUBE_BASE_URL", cfg.Transcript.BaseURL)
	cfg.Transcript.UserAgent = getEnv("YOUTUBE_USER_AGENT", cfg.Transcript.UserAgent)

	cfg.Model.Backend = getEnv("MODEL_BACKEND", cfg.Model.Backend)
	cfg.Model.Variant = getEnv("MODEL_VARIANT", cfg.Model.Variant)
	cfg.Model.Name = getEnv("MODEL_NAME", cfg.Model.Name)
	cfg.Model.MaxInputChars = getEnvAsInt("MODEL_MAX_INPUT_CHARS", cfg.Model.MaxInputChars)
	cfg.Model.MaxLength = getEnvAsInt("MODEL_MAX_LENGTH", cfg.Model.MaxLength)
	cfg.Model.MinLength = getEnvAsInt("MODEL_MIN_LENGTH", cfg.Model.MinLength)
	cfg.Model.Endpoint = getEnv("MODEL_ENDPOINT", cfg.Model.Endpoint)
	cfg.Model.APIKey = getEnv("MODEL_API_KEY", cfg.Model.APIKey)
	cfg.Model.LoadTimeout = getEnvAsDuration("MODEL_LOAD_TIMEOUT", cfg.Model.LoadTimeout)
	cfg.Model.InferenceTimeout = getEnvAsDuration("MODEL_INFERENCE_TIMEOUT", cfg.Model.InferenceTimeout)

	cfg.History.Enabled = getEnvAsBool("HISTORY_ENABLED", cfg.History.Enabled)
	cfg.History.DBPath = getEnv("DB_PATH", cfg.History.DBPath)

	cfg.Archive.Enabled = getEnvAsBool("ARCHIVE_ENABLED", cfg.Archive.Enabled)
	cfg.Archive.Bucket = getEnv("ARCHIVE_BUCKET", cfg.Archive.Bucket)
	cfg.Archive.Region = getEnv("ARCHIVE_REGION", cfg.Archive.Region)
	cfg.Archive.Endpoint = getEnv("ARCHIVE_ENDPOINT", cfg.Archive.Endpoint)
	cfg.Archive.AccessKey = getEnv("ARCHIVE_ACCESS_KEY", cfg.Archive.AccessKey)
	cfg.Archive.SecretKey = getEnv("ARCHIVE_SECRET_KEY", cfg.Archive.SecretKey)
	cfg.Archive.Prefix = getEnv("ARCHIVE_PREFIX", cfg.Archive.Prefix)
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		warnInvalid(key, value, defaultValue, "Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		warnInvalid(key, value, defaultValue, "Invalid boolean, using default")
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warnInvalid(key, value, defaultValue, "Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts
		}
	}
	return defaultValue
}

func warnInvalid(key, value string, defaultValue any, msg string) {
	logrus.WithFields(logrus.Fields{
		"key":          key,
		"value":        value,
		"defaultValue": defaultValue,
	}).Warn(msg)
}
