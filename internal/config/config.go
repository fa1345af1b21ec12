package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTPAddr    string `koanf:"http_addr"`
	Port        string `koanf:"port"`
	DatabaseURL string `koanf:"database_url"`

	// ClientURL is a comma separated list of origins allowed for CORS and websockets.
	ClientURL            string   `koanf:"client_url"`
	CORSAllowedOrigins   []string `koanf:"-"`
	CORSAllowCredentials bool     `koanf:"cors_allow_credentials"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `koanf:"trust_proxy"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	ReconcileInterval time.Duration `koanf:"reconcile_interval"`

	StoryRateLimit   int           `koanf:"story_rate_limit"`
	StoryRateWindow  time.Duration `koanf:"story_rate_window"`
	ReportRateLimit  int           `koanf:"report_rate_limit"`
	ReportRateWindow time.Duration `koanf:"report_rate_window"`

	AdminUsername     string        `koanf:"admin_username"`
	AdminPasswordHash string        `koanf:"admin_password_hash"`
	JWTSecret         string        `koanf:"jwt_secret"`
	AdminTokenTTL     time.Duration `koanf:"admin_token_ttl"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:          ":3000",
		ClientURL:         "*",
		LogLevel:          "info",
		LogFormat:         "json",
		ReconcileInterval: 10 * time.Minute,
		StoryRateLimit:    3,
		StoryRateWindow:   15 * time.Minute,
		ReportRateLimit:   5,
		ReportRateWindow:  15 * time.Minute,
		AdminTokenTTL:     12 * time.Hour,
	}
}

// AdminEnabled reports whether the moderation endpoints can issue tokens.
func (c Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPasswordHash != "" && c.JWTSecret != ""
}

// Load reads .env (if present), then layers defaults and environment variables.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	if p := strings.TrimSpace(cfg.Port); p != "" {
		cfg.HTTPAddr = ":" + strings.TrimPrefix(p, ":")
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("missing env: DATABASE_URL")
	}

	cfg.CORSAllowedOrigins = nil
	for _, o := range strings.Split(cfg.ClientURL, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.StoryRateLimit <= 0 || cfg.ReportRateLimit <= 0 {
		return Config{}, errors.New("rate limits must be positive")
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
