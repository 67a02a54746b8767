package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Provider struct {
		ProxyURL       string `yaml:"proxy_url"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"provider"`
	Proxy struct {
		ListenAddr    string `yaml:"listen_addr"`
		UpstreamURL   string `yaml:"upstream_url"`
		CachePath     string `yaml:"cache_path"`
		CacheTTLHours int    `yaml:"cache_ttl_hours"`
		PruneCron     string `yaml:"prune_cron"`
	} `yaml:"proxy"`
	Simulation struct {
		DefaultSymbol string `yaml:"default_symbol"`
	} `yaml:"simulation"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("PROVIDER_PROXY_URL"); v != "" {
		cfg.Provider.ProxyURL = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Provider.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("PROXY_LISTEN_ADDR"); v != "" {
		cfg.Proxy.ListenAddr = v
	}
	if v := os.Getenv("PROXY_UPSTREAM_URL"); v != "" {
		cfg.Proxy.UpstreamURL = v
	}
	if v := os.Getenv("CACHE_PATH"); v != "" {
		cfg.Proxy.CachePath = v
	}
	if v := os.Getenv("CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Proxy.CacheTTLHours = n
		}
	}
	if v := os.Getenv("DEFAULT_SYMBOL"); v != "" {
		cfg.Simulation.DefaultSymbol = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 30
	}
	if cfg.Proxy.ListenAddr == "" {
		cfg.Proxy.ListenAddr = "127.0.0.1:5001"
	}
	if cfg.Proxy.UpstreamURL == "" {
		cfg.Proxy.UpstreamURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Proxy.CachePath == "" {
		cfg.Proxy.CachePath = "data/chart_cache.db"
	}
	if cfg.Proxy.CacheTTLHours == 0 {
		cfg.Proxy.CacheTTLHours = 24
	}
	if cfg.Proxy.PruneCron == "" {
		cfg.Proxy.PruneCron = "0 0 3 * * *"
	}
	if cfg.Simulation.DefaultSymbol == "" {
		cfg.Simulation.DefaultSymbol = "SPY"
	}

	return cfg, nil
}

// Validate checks that all required fields are sensible.
func (c *Config) Validate() error {
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("provider.timeout_seconds must be positive")
	}
	if c.Proxy.CacheTTLHours <= 0 {
		return fmt.Errorf("proxy.cache_ttl_hours must be positive")
	}
	return nil
}

// ProviderTimeout returns the provider call timeout as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CacheTTL returns the proxy cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Proxy.CacheTTLHours) * time.Hour
}
