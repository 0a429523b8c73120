package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	CORS      CORSConfig
	Log       LogConfig
	Extractor ExtractorConfig
	Poll      PollConfig
	Upload    UploadConfig
	Email     EmailConfig
	OTP       OTPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds settings for the upload archive bucket.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorConfig holds settings for the external OCR/AI extraction service.
type ExtractorConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	RetryMaxAttempts int           `mapstructure:"retry_max_attempts"`
	BreakerEnabled   bool          `mapstructure:"breaker_enabled"`
}

// PollConfig holds task status polling settings.
type PollConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	StatusTimeout time.Duration `mapstructure:"status_timeout"`
	MarkerTTL     time.Duration `mapstructure:"marker_ttl"`
}

// UploadConfig holds document upload settings.
type UploadConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	TempDir       string `mapstructure:"temp_dir"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// OTPConfig holds one-time password settings for registration.
type OTPConfig struct {
	Expiry time.Duration `mapstructure:"expiry"`
}

// Load reads configuration from environment variables with the SHIPDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SHIPDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "shipdesk")
	v.SetDefault("db.password", "shipdesk_secret")
	v.SetDefault("db.name", "shipdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "2h")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "shipdesk")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "shipdesk-uploads")
	v.SetDefault("s3.endpoint", "")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.base_url", "http://127.0.0.1:5000")
	v.SetDefault("extractor.timeout", "30s")
	v.SetDefault("extractor.retry_max_attempts", 3)
	v.SetDefault("extractor.breaker_enabled", true)

	// Poll defaults
	v.SetDefault("poll.interval", "2s")
	v.SetDefault("poll.status_timeout", "10s")
	v.SetDefault("poll.marker_ttl", "5s")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.temp_dir", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@shipdesk.io")
	v.SetDefault("email.from_name", "Shipdesk")

	// OTP defaults
	v.SetDefault("otp.expiry", "10m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "SHIPDESK_SERVER_PORT",
		"server.read_timeout":          "SHIPDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "SHIPDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":           "SHIPDESK_SERVER_ENVIRONMENT",
		"db.host":                      "SHIPDESK_DB_HOST",
		"db.port":                      "SHIPDESK_DB_PORT",
		"db.user":                      "SHIPDESK_DB_USER",
		"db.password":                  "SHIPDESK_DB_PASSWORD",
		"db.name":                      "SHIPDESK_DB_NAME",
		"db.sslmode":                   "SHIPDESK_DB_SSLMODE",
		"db.max_open":                  "SHIPDESK_DB_MAX_OPEN",
		"db.max_idle":                  "SHIPDESK_DB_MAX_IDLE",
		"jwt.secret":                   "SHIPDESK_JWT_SECRET",
		"jwt.access_expiry":            "SHIPDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":           "SHIPDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                   "SHIPDESK_JWT_ISSUER",
		"s3.region":                    "SHIPDESK_S3_REGION",
		"s3.bucket":                    "SHIPDESK_S3_BUCKET",
		"s3.endpoint":                  "SHIPDESK_S3_ENDPOINT",
		"s3.access_key":                "SHIPDESK_S3_ACCESS_KEY",
		"s3.secret_key":                "SHIPDESK_S3_SECRET_KEY",
		"cors.allowed_origins":         "SHIPDESK_CORS_ALLOWED_ORIGINS",
		"log.level":                    "SHIPDESK_LOG_LEVEL",
		"log.format":                   "SHIPDESK_LOG_FORMAT",
		"extractor.base_url":           "SHIPDESK_EXTRACTOR_BASE_URL",
		"extractor.timeout":            "SHIPDESK_EXTRACTOR_TIMEOUT",
		"extractor.retry_max_attempts": "SHIPDESK_EXTRACTOR_RETRY_MAX_ATTEMPTS",
		"extractor.breaker_enabled":    "SHIPDESK_EXTRACTOR_BREAKER_ENABLED",
		"poll.interval":                "SHIPDESK_POLL_INTERVAL",
		"poll.status_timeout":          "SHIPDESK_POLL_STATUS_TIMEOUT",
		"poll.marker_ttl":              "SHIPDESK_POLL_MARKER_TTL",
		"upload.max_file_size_mb":      "SHIPDESK_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.temp_dir":              "SHIPDESK_UPLOAD_TEMP_DIR",
		"email.provider":               "SHIPDESK_EMAIL_PROVIDER",
		"email.region":                 "SHIPDESK_EMAIL_REGION",
		"email.from_address":           "SHIPDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":              "SHIPDESK_EMAIL_FROM_NAME",
		"otp.expiry":                   "SHIPDESK_OTP_EXPIRY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SHIPDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SHIPDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extractor = ExtractorConfig{
		BaseURL:          strings.TrimRight(v.GetString("extractor.base_url"), "/"),
		Timeout:          v.GetDuration("extractor.timeout"),
		RetryMaxAttempts: v.GetInt("extractor.retry_max_attempts"),
		BreakerEnabled:   v.GetBool("extractor.breaker_enabled"),
	}
	cfg.Poll = PollConfig{
		Interval:      v.GetDuration("poll.interval"),
		StatusTimeout: v.GetDuration("poll.status_timeout"),
		MarkerTTL:     v.GetDuration("poll.marker_ttl"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		TempDir:       v.GetString("upload.temp_dir"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.OTP = OTPConfig{
		Expiry: v.GetDuration("otp.expiry"),
	}

	return cfg, nil
}
