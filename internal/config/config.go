package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`

	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresUser   string `toml:"postgres_user"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// http surface
	AllowedOrigins []string `toml:"allowed_origins"`
	APIBaseURL     string   `toml:"api_base_url"`
	UploadsDir     string   `toml:"uploads_dir"`
	ContactInbox   string   `toml:"contact_inbox"`

	// auth
	JWTTTLHours      int  `toml:"jwt_ttl_hours"`
	SessionTTLHours  int  `toml:"session_ttl_hours"`
	OTPTTLMinutes    int  `toml:"otp_ttl_minutes"`
	RequireSessionID bool `toml:"require_session_id"`

	// trust X-Real-Ip / X-Forwarded-For, only set when a reverse proxy owns them
	BehindProxy bool `toml:"behind_proxy"`

	// rate limits, requests per minute per client
	LoginRateLimitAllowedPerMin     int `toml:"login_rate_limit_allowed_per_min"`
	PasswordResetRateLimitPerMin    int `toml:"password_reset_rate_limit_per_min"`
	ContactRateLimitAllowedPerMin   int `toml:"contact_rate_limit_allowed_per_min"`
	TranslateRateLimitAllowedPerMin int `toml:"translate_rate_limit_allowed_per_min"`

	// translation
	TranslateCacheSizeMB     int    `toml:"translate_cache_size_mb"`
	TranslateCacheTTLMinutes int    `toml:"translate_cache_ttl_minutes"`
	TranslateBaseURL         string `toml:"translate_base_url"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.UploadsDir == "" {
		c.UploadsDir = "./uploads"
	}
	if c.JWTTTLHours <= 0 {
		c.JWTTTLHours = 24
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24
	}
	if c.OTPTTLMinutes <= 0 {
		c.OTPTTLMinutes = 10
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.PasswordResetRateLimitPerMin <= 0 {
		c.PasswordResetRateLimitPerMin = 5
	}
	if c.ContactRateLimitAllowedPerMin <= 0 {
		c.ContactRateLimitAllowedPerMin = 5
	}
	if c.TranslateRateLimitAllowedPerMin <= 0 {
		c.TranslateRateLimitAllowedPerMin = 120
	}
	if c.TranslateCacheSizeMB <= 0 {
		c.TranslateCacheSizeMB = 32
	}
	if c.TranslateCacheTTLMinutes <= 0 {
		c.TranslateCacheTTLMinutes = 24 * 60
	}
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPTTLMinutes) * time.Minute
}

func (c *Config) TranslateCacheTTL() time.Duration {
	return time.Duration(c.TranslateCacheTTLMinutes) * time.Minute
}
