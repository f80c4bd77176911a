// Package config loads the YAML configuration of the tinyservice CLI: logging,
// metrics and the routing table of built-in handlers with their middleware.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/tinyservice/logging"
)

// Handler kinds understood by the CLI.
const (
	HandlerEcho    = "echo"
	HandlerUpper   = "upper"
	HandlerReverse = "reverse"
	HandlerLength  = "length"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root configuration document.
type Config struct {
	Logging LoggingConfig          `yaml:"logging"`
	Metrics MetricsConfig          `yaml:"metrics"`
	Engine  EngineConfig           `yaml:"engine"`
	Routes  map[string]RouteConfig `yaml:"routes"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// EngineConfig mirrors engine.Config.
type EngineConfig struct {
	MaxPolls int `yaml:"max_polls"`
}

// RouteConfig describes one route: the handler and the layers wrapped around it.
type RouteConfig struct {
	Handler     string           `yaml:"handler"`
	Prefix      string           `yaml:"prefix,omitempty"`
	Suffix      string           `yaml:"suffix,omitempty"`
	RateLimit   *RateLimitConfig `yaml:"rate_limit,omitempty"`
	MaxInFlight int              `yaml:"max_in_flight,omitempty"`
	Trace       bool             `yaml:"trace,omitempty"`
}

// RateLimitConfig configures a token bucket.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns a configuration with one route per built-in handler.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true, Namespace: "tinyservice"},
		Routes: map[string]RouteConfig{
			HandlerEcho:    {Handler: HandlerEcho, Trace: true},
			HandlerUpper:   {Handler: HandlerUpper, Suffix: "!"},
			HandlerReverse: {Handler: HandlerReverse, MaxInFlight: 4},
			HandlerLength:  {Handler: HandlerLength, RateLimit: &RateLimitConfig{RPS: 10, Burst: 5}},
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result. A document
// that sets routes replaces the default routing table.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Routes = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Routes == nil {
		cfg.Routes = Default().Routes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks levels, formats, handler kinds and limits.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: logging.format must be json or text, got %q", ErrInvalidConfig, c.Logging.Format)
	}

	if c.Engine.MaxPolls < 0 {
		return fmt.Errorf("%w: engine.max_polls must not be negative", ErrInvalidConfig)
	}

	for _, name := range c.RouteNames() {
		if err := c.Routes[name].validate(); err != nil {
			return fmt.Errorf("%w: route %s: %v", ErrInvalidConfig, name, err)
		}
	}

	return nil
}

func (r RouteConfig) validate() error {
	switch r.Handler {
	case HandlerEcho, HandlerUpper, HandlerReverse, HandlerLength:
	case "":
		return errors.New("handler is required")
	default:
		return fmt.Errorf("unknown handler %q", r.Handler)
	}

	if r.MaxInFlight < 0 {
		return errors.New("max_in_flight must not be negative")
	}

	if r.RateLimit != nil {
		if r.RateLimit.RPS <= 0 {
			return errors.New("rate_limit.rps must be positive")
		}
		if r.RateLimit.Burst < 1 {
			return errors.New("rate_limit.burst must be at least 1")
		}
	}

	return nil
}

// RouteNames returns the configured route names in sorted order.
func (c *Config) RouteNames() []string {
	names := make([]string, 0, len(c.Routes))
	for name := range c.Routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoggerConfig converts the logging section.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultLoggerConfig()
	if lvl, err := logging.ParseLevel(c.Logging.Level); err == nil {
		cfg.Level = lvl
	}
	cfg.Format = c.Logging.Format
	return cfg
}
