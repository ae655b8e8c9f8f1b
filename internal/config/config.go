package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Config holds the worker's configuration values.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	NewInterviewChannel string
	EndInterviewChannel string

	GeminiAPIKey  string
	GeminiModel   string
	MistralAPIKey string
	GDriveAPIKey  string

	// Extractor selects the resume text backend: "mistral" for the hosted
	// OCR API or "docconv" for local document conversion.
	Extractor string

	ProblemCount      int
	MaxConcurrentJobs int
	ResumeCacheTTL    time.Duration
	ExtractTimeout    time.Duration
	InferTimeout      time.Duration

	LogLevel  string
	LogFormat string

	Database *DBConfig
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NEW_INTERVIEW_CHANNEL", "new-interview")
	v.SetDefault("END_INTERVIEW_CHANNEL", "end-interview")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("EXTRACTOR", "mistral")
	v.SetDefault("PROBLEM_COUNT", 3)
	v.SetDefault("MAX_CONCURRENT_JOBS", 8)
	v.SetDefault("RESUME_CACHE_TTL", "3h")
	v.SetDefault("EXTRACT_TIMEOUT", "60s")
	v.SetDefault("INFER_TIMEOUT", "90s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "interviews")
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	// A missing .env file is fine; env vars alone are a valid setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			slog.Warn("failed to read .env file", "error", err)
		}
	}

	cfg := &Config{
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		NewInterviewChannel: v.GetString("NEW_INTERVIEW_CHANNEL"),
		EndInterviewChannel: v.GetString("END_INTERVIEW_CHANNEL"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		GeminiModel:         v.GetString("GEMINI_MODEL"),
		MistralAPIKey:       v.GetString("MISTRAL_API_KEY"),
		GDriveAPIKey:        v.GetString("GDRIVE_API_KEY"),
		Extractor:           v.GetString("EXTRACTOR"),
		ProblemCount:        v.GetInt("PROBLEM_COUNT"),
		MaxConcurrentJobs:   v.GetInt("MAX_CONCURRENT_JOBS"),
		ResumeCacheTTL:      v.GetDuration("RESUME_CACHE_TTL"),
		ExtractTimeout:      v.GetDuration("EXTRACT_TIMEOUT"),
		InferTimeout:        v.GetDuration("INFER_TIMEOUT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		Database: &DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			Username:        v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Database:        v.GetString("DB_NAME"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set")
	}
	switch c.Extractor {
	case "mistral":
		if c.MistralAPIKey == "" {
			return fmt.Errorf("MISTRAL_API_KEY must be set when EXTRACTOR is mistral")
		}
	case "docconv":
	default:
		return fmt.Errorf("unsupported extractor %q (want mistral or docconv)", c.Extractor)
	}
	if c.ProblemCount < 1 {
		return fmt.Errorf("PROBLEM_COUNT must be at least 1, got %d", c.ProblemCount)
	}
	if c.MaxConcurrentJobs < 0 {
		return fmt.Errorf("MAX_CONCURRENT_JOBS cannot be negative, got %d", c.MaxConcurrentJobs)
	}
	if c.ResumeCacheTTL <= 0 {
		return fmt.Errorf("RESUME_CACHE_TTL must be positive, got %s", c.ResumeCacheTTL)
	}
	return nil
}
