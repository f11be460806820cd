package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Site     SiteConfig     `yaml:"site"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// defaults seeds the bool settings that default to true. An env-default tag
// on these would also overwrite an explicit false from YAML.
func defaults() Config {
	return Config{
		Database: DatabaseConfig{Autoflush: true},
		Auth:     AuthConfig{RequireVerified: true},
		Log:      LogConfig{Compress: true},
		CORS:     CORSConfig{AllowCredentials: true},
		Jobs:     JobsConfig{Enabled: true},
	}
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"starter"`
	// Autoflush is the default for new record sessions.
	Autoflush bool `yaml:"autoflush" env:"DATABASE_AUTOFLUSH"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	SecretKey       string        `yaml:"secret_key"       env:"SECRET_KEY"                 env-required:"true"`
	URLPrefix       string        `yaml:"url_prefix"       env:"AUTH_URL_PREFIX"            env-default:"/auth/v1"`
	RequireVerified bool          `yaml:"require_verified" env:"AUTH_REQUIRE_USER_VERIFIED"`
	TokenLifetime   time.Duration `yaml:"token_lifetime"   env:"AUTH_TOKEN_LIFETIME"        env-default:"168h"`
	VerifyTokenTTL  time.Duration `yaml:"verify_token_ttl" env:"AUTH_VERIFY_TOKEN_TTL"      env-default:"1h"`
	ResetTokenTTL   time.Duration `yaml:"reset_token_ttl"  env:"AUTH_RESET_TOKEN_TTL"       env-default:"1h"`
	BcryptCost      int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"           env-default:"12"`
	MinPasswordLen  int           `yaml:"min_password_len" env:"AUTH_MIN_PASSWORD_LEN"      env-default:"8"`
	// LoginRateLimit is the number of auth requests allowed per client per minute.
	LoginRateLimit int `yaml:"login_rate_limit" env:"AUTH_LOGIN_RATE_LIMIT" env-default:"20"`
}

// Mail backends.
const (
	MailBackendSMTP   = "smtp"
	MailBackendResend = "resend"
	MailBackendLog    = "log"
)

// MailConfig holds outgoing mail settings.
type MailConfig struct {
	Backend      string `yaml:"backend"       env:"MAIL_BACKEND"        env-default:"smtp"`
	Host         string `yaml:"host"          env:"MAIL_SERVER"         env-default:"localhost"`
	Port         int    `yaml:"port"          env:"MAIL_PORT"           env-default:"1025"`
	Username     string `yaml:"username"      env:"MAIL_USERNAME"`
	Password     string `yaml:"password"      env:"MAIL_PASSWORD"`
	StartTLS     bool   `yaml:"starttls"      env:"MAIL_STARTTLS"       env-default:"false"`
	From         string `yaml:"from"          env:"MAIL_FROM"           env-default:"delivered@resend.dev"`
	FromName     string `yaml:"from_name"     env:"MAIL_FROM_NAME"`
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	ResendURL    string `yaml:"resend_url"    env:"RESEND_URL"          env-default:"https://api.resend.com/emails"`
	// Concurrency bounds background sends.
	Concurrency int `yaml:"concurrency" env:"MAIL_CONCURRENCY" env-default:"4"`
	// QueueSize caps messages waiting for delivery; further ones are dropped.
	QueueSize int `yaml:"queue_size" env:"MAIL_QUEUE_SIZE" env-default:"1000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	// File enables a rotating log file next to stdout output.
	File       string `yaml:"file"        env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
	Compress   bool   `yaml:"compress"    env:"LOG_COMPRESS"`
}

// SiteConfig describes the public site, used in emails.
type SiteConfig struct {
	Name    string `yaml:"name"     env:"SITE_NAME" env-default:"Starter"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"  env-default:"http://localhost:8000"`
}

// JobsConfig holds scheduled job settings.
type JobsConfig struct {
	Enabled          bool   `yaml:"enabled"            env:"JOBS_ENABLED"`
	TokenCleanupCron string `yaml:"token_cleanup_cron" env:"JOBS_TOKEN_CLEANUP_CRON" env-default:"@hourly"`
}

// FromAddress returns the From header value.
func (c MailConfig) FromAddress() string {
	if c.FromName == "" {
		return c.From
	}
	return c.FromName + " <" + c.From + ">"
}

// URL joins path onto the site base URL.
func (c SiteConfig) URL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
