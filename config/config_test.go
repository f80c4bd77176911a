package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tinyservice/logging"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"echo", "length", "reverse", "upper"}, cfg.RouteNames())
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
logging:
  level: debug
metrics:
  enabled: false
engine:
  max_polls: 100
routes:
  shout:
    handler: upper
    suffix: "!!"
    trace: true
    rate_limit:
      rps: 2.5
      burst: 3
`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "tinyservice", cfg.Metrics.Namespace)
	assert.Equal(t, 100, cfg.Engine.MaxPolls)
	assert.Equal(t, []string{"shout"}, cfg.RouteNames())

	shout := cfg.Routes["shout"]
	assert.Equal(t, HandlerUpper, shout.Handler)
	assert.Equal(t, "!!", shout.Suffix)
	require.NotNil(t, shout.RateLimit)
	assert.Equal(t, 2.5, shout.RateLimit.RPS)

	lc := cfg.LoggerConfig()
	assert.Equal(t, logging.LogLevelDebug, lc.Level)
	assert.Equal(t, "json", lc.Format)
}

func TestParse_EmptyKeepsDefaultRoutes(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  format: text\n"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Len(t, cfg.Routes, 4)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad level", "logging: {level: loud}"},
		{"bad format", "logging: {format: xml}"},
		{"negative polls", "engine: {max_polls: -1}"},
		{"missing handler", "routes: {a: {trace: true}}"},
		{"unknown handler", "routes: {a: {handler: rot13}}"},
		{"negative in flight", "routes: {a: {handler: echo, max_in_flight: -2}}"},
		{"zero rps", "routes: {a: {handler: echo, rate_limit: {rps: 0, burst: 1}}}"},
		{"zero burst", "routes: {a: {handler: echo, rate_limit: {rps: 1, burst: 0}}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyservice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes: {e: {handler: echo}}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, cfg.RouteNames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("routes: [not, a, map]"))
	assert.Error(t, err)
}
