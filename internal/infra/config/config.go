package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreValkey = "valkey"
)

// Config aggregates runtime configuration used across the web app.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	CSRF    CSRFConfig    `yaml:"csrf"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// BackendConfig points at the external calculation service.
type BackendConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// SessionConfig controls where per-visitor UI state lives.
type SessionConfig struct {
	CookieName string        `yaml:"cookieName"`
	TTL        time.Duration `yaml:"ttl"`
	Store      string        `yaml:"store"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared view store.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// CSRFConfig enables form protection when Key is set.
type CSRFConfig struct {
	Key    string `yaml:"key"`
	Secure bool   `yaml:"secure"`
}

// Enabled reports whether CSRF protection should wrap the router.
func (c CSRFConfig) Enabled() bool {
	return c.Key != ""
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_READ_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_WRITE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.Session.CookieName = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_STORE"); v != "" {
		cfg.Session.Store = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("VALKEY_PREFIX"); v != "" {
		cfg.Session.Valkey.Prefix = v
	}
	if v := os.Getenv("CSRF_KEY"); v != "" {
		cfg.CSRF.Key = v
	}
	if v := os.Getenv("CSRF_SECURE"); v != "" {
		cfg.CSRF.Secure = parseBool(v)
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 2 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		Session: SessionConfig{
			CookieName: "birthchart_session",
			TTL:        time.Hour,
			Store:      StoreMemory,
			Valkey: ValkeyConfig{
				Prefix: "birthchart",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTP.Address == "" {
		errs = append(errs, errors.New("http.address cannot be empty"))
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			errs = append(errs, errors.New("http.rateLimit.requestsPerMinute must be positive"))
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("http.rateLimit.burst must be positive"))
		}
	}
	if err := validateBaseURL(c.Backend.BaseURL); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		errs = append(errs, errors.New("session.cookieName cannot be empty"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	switch c.Session.Store {
	case StoreMemory:
	case StoreValkey:
		if strings.TrimSpace(c.Session.Valkey.Addr) == "" {
			errs = append(errs, errors.New("session.valkey.addr cannot be empty when the valkey store is selected"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.store must be %q or %q (got %q)", StoreMemory, StoreValkey, c.Session.Store))
	}
	if c.CSRF.Enabled() && len(c.CSRF.Key) != 32 {
		errs = append(errs, errors.New("csrf.key must be exactly 32 bytes"))
	}

	return errors.Join(errs...)
}

func validateBaseURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("backend.baseUrl (BACKEND_URL) cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend.baseUrl: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.baseUrl must use http or https (got %q)", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("backend.baseUrl is missing a host (got %q)", raw)
	}
	return nil
}
