package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres (password comes from the environment, not the config file)
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus metrics server
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// admin auth rate limiting
	AuthRateLimitMaxAttempts int `toml:"auth_rate_limit_max_attempts"`
	AuthRateLimitWindowMins  int `toml:"auth_rate_limit_window_minutes"`

	// audio episodes storage
	AudioRootPath      string `toml:"audio_root_path"`
	AudioPublicBaseURL string `toml:"audio_public_base_url"`
}

// IsProduction reports whether the server runs in the production
// deployment mode (affects the admin password fallback behavior).
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("no config section for env: %s", env)
		}
		t.Development.Environment = EnvDevelopment
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("no config section for env: %s", env)
		}
		t.Production.Environment = EnvProduction
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var configToml Toml
	if err := toml.Unmarshal(configBytes, &configToml); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	cfg, err := configToml.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.AuthRateLimitMaxAttempts <= 0 {
		cfg.AuthRateLimitMaxAttempts = 5
	}
	if cfg.AuthRateLimitWindowMins <= 0 {
		cfg.AuthRateLimitWindowMins = 15
	}

	return cfg, nil
}
