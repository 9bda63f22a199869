package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	RedisURL    string `env:"REDIS_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`

	SessionCookieName string `env:"SESSION_COOKIE_NAME" envDefault:"admin_session"`
	SessionTTLSeconds int    `env:"SESSION_TTL_SECONDS" envDefault:"315360000"`
	CookieSecure      bool   `env:"COOKIE_SECURE" envDefault:"false"`

	StaticDir       string `env:"STATIC_DIR" envDefault:"static"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"static/ads"`
	StaticURLPrefix string `env:"STATIC_URL_PREFIX" envDefault:"/static/ads"`
	MaxUploadBytes  int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	StorageBackend  string `env:"STORAGE_BACKEND" envDefault:"local"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3Region        string `env:"S3_REGION"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3UseSSL        bool   `env:"S3_USE_SSL" envDefault:"false"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	ShortLinkEndpoint       string `env:"SHORTLINK_ENDPOINT" envDefault:"https://www.buly.kr/api/shoturl.siso"`
	ShortLinkCustomerID     string `env:"SHORTLINK_CUSTOMER_ID"`
	ShortLinkPartnerAPIID   string `env:"SHORTLINK_PARTNER_API_ID"`
	ShortLinkTimeoutSeconds int    `env:"SHORTLINK_TIMEOUT_SECONDS" envDefault:"5"`

	IframeAllowedHosts []string `env:"IFRAME_ALLOWED_HOSTS" envDefault:"minishop.linkprice.com" envSeparator:","`

	OrphanSweepIntervalMinutes int `env:"ORPHAN_SWEEP_INTERVAL_MINUTES" envDefault:"60"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c *Config) ShortLinkTimeout() time.Duration {
	return time.Duration(c.ShortLinkTimeoutSeconds) * time.Second
}

func (c *Config) OrphanSweepInterval() time.Duration {
	return time.Duration(c.OrphanSweepIntervalMinutes) * time.Minute
}

func (c *Config) Validate() error {
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if c.ShortLinkTimeoutSeconds <= 0 || c.ShortLinkTimeoutSeconds > MaxShortLinkTimeoutSeconds {
		return fmt.Errorf("SHORTLINK_TIMEOUT_SECONDS must be between 1 and %d", MaxShortLinkTimeoutSeconds)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if len(c.IframeAllowedHosts) == 0 {
		return fmt.Errorf("IFRAME_ALLOWED_HOSTS must contain at least one host")
	}

	switch c.StorageBackend {
	case StorageBackendLocal:
	case StorageBackendS3:
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when STORAGE_BACKEND=s3")
		}
		if c.S3PublicBaseURL == "" {
			return fmt.Errorf("S3_PUBLIC_BASE_URL is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageBackendLocal, StorageBackendS3)
	}

	if c.IsProduction() {
		if !c.CookieSecure {
			log.Warn().Msg("COOKIE_SECURE is false in production: session cookie will be sent over plain HTTP")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if c.ShortLinkCustomerID == "" || c.ShortLinkPartnerAPIID == "" {
			log.Warn().Msg("short link credentials are empty in production: target URLs will be used verbatim")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for i, host := range cfg.IframeAllowedHosts {
		cfg.IframeAllowedHosts[i] = strings.ToLower(strings.TrimSpace(host))
	}
	return &cfg, nil
}
