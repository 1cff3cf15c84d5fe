package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Auth      AuthConfig      `yaml:"auth"`
	Health    HealthConfig    `yaml:"health"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig points at the routine document used to bootstrap the
// exercise catalog on first run.
type CatalogConfig struct {
	RoutinePath string `yaml:"routine_path"`
}

// AuthConfig gates the HTTP API behind an X-API-Key header. An empty key
// leaves the API open — fine on loopback, set it when serving over tsnet.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// HealthConfig configures the external health-data gateway. When disabled,
// completed workouts are only written to local history.
type HealthConfig struct {
	Enabled    bool   `yaml:"enabled"`
	GatewayURL string `yaml:"gateway_url"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix GYMFLOW_ and underscore-separated paths:
//
//	GYMFLOW_SERVER_HOST, GYMFLOW_SERVER_PORT,
//	GYMFLOW_DB_PATH, GYMFLOW_ROUTINE_PATH, GYMFLOW_API_KEY,
//	GYMFLOW_HEALTH_ENABLED, GYMFLOW_HEALTH_GATEWAY_URL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMFLOW_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMFLOW_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMFLOW_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GYMFLOW_ROUTINE_PATH"); v != "" {
		cfg.Catalog.RoutinePath = v
	}
	if v := os.Getenv("GYMFLOW_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("GYMFLOW_HEALTH_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Health.Enabled = enabled
		}
	}
	if v := os.Getenv("GYMFLOW_HEALTH_GATEWAY_URL"); v != "" {
		cfg.Health.GatewayURL = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Catalog.RoutinePath == "" {
		return fmt.Errorf("catalog.routine_path is required")
	}
	if c.Health.Enabled && c.Health.GatewayURL == "" {
		return fmt.Errorf("health.gateway_url is required when health.enabled")
	}
	return nil
}
