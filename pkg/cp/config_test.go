package cp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
	assert.Nil(t, cfg.StopCondition())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_solutions: 3
max_nodes: 1000
time_limit: 2s
log_level: debug
workers: 4
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxSolutions)
	assert.Equal(t, 1000, cfg.MaxNodes)
	assert.Equal(t, 2*time.Second, cfg.TimeLimit)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	assert.Equal(t, 4, cfg.Workers)

	stop := cfg.StopCondition()
	require.NotNil(t, stop)
	assert.False(t, stop(SearchStatistics{Solutions: 2}))
	assert.True(t, stop(SearchStatistics{Solutions: 3}))
	assert.True(t, stop(SearchStatistics{Nodes: 1000}))
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("CP_MAX_NODES", "77")
	t.Setenv("CP_TIME_LIMIT", "150ms")
	t.Setenv("CP_LOG_LEVEL", "error")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.MaxNodes)
	assert.Equal(t, 150*time.Millisecond, cfg.TimeLimit)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative solutions", func(c *Config) { c.MaxSolutions = -1 }},
		{"negative nodes", func(c *Config) { c.MaxNodes = -5 }},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative time", func(c *Config) { c.TimeLimit = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidArgument)
		})
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_nodes: [1, 2"), 0o600))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)

	ok, err := CompatibleWith("v0.1.0")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = CompatibleWith("0.2.0")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = CompatibleWith("not a version")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
