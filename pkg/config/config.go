package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	SheetBackendMemory   = "memory"
	SheetBackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Sheet       SheetConfig
	Moderator   ModeratorConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Notify      NotifyConfig
	Submissions SubmissionsConfig
	Export      ExportConfig
	CORS        CORSConfig
	Log         LogConfig
}

// SheetConfig selects and tunes the row-store backend behind the directory.
type SheetConfig struct {
	Backend  string
	Table    string
	Timezone string
}

// ModeratorConfig holds the shared-secret moderation credentials and session tuning.
type ModeratorConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NotifyConfig configures the best-effort submission email.
type NotifyConfig struct {
	Enabled    bool
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	From       string
	To         string
	PanelURL   string
	Workers    int
	MaxRetries int
}

// SubmissionsConfig gates the public submission rate limiter.
type SubmissionsConfig struct {
	RateLimitEnabled bool
	RateLimit        int
	RateWindow       time.Duration
}

// ExportConfig toggles the moderator listing export endpoint.
type ExportConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Sheet = SheetConfig{
		Backend:  v.GetString("SHEET_BACKEND"),
		Table:    v.GetString("SHEET_TABLE"),
		Timezone: v.GetString("SHEET_TIMEZONE"),
	}

	cfg.Moderator = ModeratorConfig{
		Password:      v.GetString("MODERATOR_PASSWORD"),
		PasswordHash:  v.GetString("MODERATOR_PASSWORD_HASH"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionTTL:    parseDuration(v.GetString("SESSION_TTL"), 12*time.Hour),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Notify = NotifyConfig{
		Enabled:    v.GetBool("ENABLE_NOTIFICATIONS"),
		SMTPHost:   v.GetString("SMTP_HOST"),
		SMTPPort:   v.GetInt("SMTP_PORT"),
		SMTPUser:   v.GetString("SMTP_USER"),
		SMTPPass:   v.GetString("SMTP_PASSWORD"),
		From:       v.GetString("NOTIFY_FROM"),
		To:         v.GetString("NOTIFY_TO"),
		PanelURL:   v.GetString("NOTIFY_PANEL_URL"),
		Workers:    v.GetInt("NOTIFY_WORKERS"),
		MaxRetries: v.GetInt("NOTIFY_MAX_RETRIES"),
	}

	cfg.Submissions = SubmissionsConfig{
		RateLimitEnabled: v.GetBool("ENABLE_SUBMISSION_RATE_LIMIT"),
		RateLimit:        v.GetInt("SUBMISSION_RATE_LIMIT"),
		RateWindow:       parseDuration(v.GetString("SUBMISSION_RATE_WINDOW"), time.Hour),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SHEET_BACKEND", SheetBackendPostgres)
	v.SetDefault("SHEET_TABLE", "directory_sheet")
	v.SetDefault("SHEET_TIMEZONE", "Asia/Jerusalem")

	v.SetDefault("MODERATOR_PASSWORD", "manager123")
	v.SetDefault("MODERATOR_PASSWORD_HASH", "")
	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_TTL", "12h")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kosher_directory")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_NOTIFICATIONS", false)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("NOTIFY_FROM", "")
	v.SetDefault("NOTIFY_TO", "")
	v.SetDefault("NOTIFY_PANEL_URL", "")
	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_MAX_RETRIES", 3)

	v.SetDefault("ENABLE_SUBMISSION_RATE_LIMIT", false)
	v.SetDefault("SUBMISSION_RATE_LIMIT", 20)
	v.SetDefault("SUBMISSION_RATE_WINDOW", "1h")

	v.SetDefault("ENABLE_EXPORT", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
