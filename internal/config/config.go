package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Callback struct {
		BaseURL        string `yaml:"baseUrl"`
		ServiceKey     string `yaml:"serviceKey"`
		TimeoutSeconds int    `yaml:"timeoutSeconds"`
	} `yaml:"callback"`

	Analysis struct {
		MinDelaySeconds float64 `yaml:"minDelaySeconds"`
		MaxDelaySeconds float64 `yaml:"maxDelaySeconds"`
		SuccessRate     float64 `yaml:"successRate"`
	} `yaml:"analysis"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// defaultConfig returns the baseline configuration. Defaults are filled in
// before the yaml parse so an explicit zero in the file (successRate: 0,
// minDelaySeconds: 0) is honored rather than treated as unset.
func defaultConfig() Config {
	var cfg Config
	cfg.Server.Port = 8090
	cfg.Callback.BaseURL = "http://localhost:8080"
	cfg.Callback.ServiceKey = "a1b2c3d4e5f67890"
	cfg.Callback.TimeoutSeconds = 30
	cfg.Analysis.MinDelaySeconds = 5.0
	cfg.Analysis.MaxDelaySeconds = 10.0
	cfg.Analysis.SuccessRate = 0.8
	cfg.RateLimit.Capacity = 60
	cfg.RateLimit.RefillRate = 10
	return cfg
}

// Load reads config.yaml if present over the defaults, then applies env
// overrides (PORT, MAIN_SERVICE_URL, SERVICE_SECRET_KEY). A missing file is
// fine: the service can run from defaults and environment alone.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("MAIN_SERVICE_URL"); v != "" {
		c.Callback.BaseURL = v
	}
	if v := os.Getenv("SERVICE_SECRET_KEY"); v != "" {
		c.Callback.ServiceKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.MaxDelaySeconds < c.Analysis.MinDelaySeconds {
		return fmt.Errorf("maxDelaySeconds (%v) must be >= minDelaySeconds (%v)",
			c.Analysis.MaxDelaySeconds, c.Analysis.MinDelaySeconds)
	}
	if c.Analysis.SuccessRate < 0 || c.Analysis.SuccessRate > 1 {
		return fmt.Errorf("successRate must be in [0,1], got %v", c.Analysis.SuccessRate)
	}
	return nil
}

// Duration helpers for wiring

func (c *Config) MinDelay() time.Duration {
	return time.Duration(c.Analysis.MinDelaySeconds * float64(time.Second))
}

func (c *Config) MaxDelay() time.Duration {
	return time.Duration(c.Analysis.MaxDelaySeconds * float64(time.Second))
}

func (c *Config) CallbackTimeout() time.Duration {
	return time.Duration(c.Callback.TimeoutSeconds) * time.Second
}
