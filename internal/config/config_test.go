package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvHome, EnvStorageBackend, EnvLogLevel, EnvMirrorDir, EnvTargetHours} {
		t.Setenv(k, "")
	}
}

func TestTemplateParsesToDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal(stripLineComments([]byte(configTemplate)), &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromWritesTemplateOnFirstRun(t *testing.T) {
	clearEnv(t)
	home := filepath.Join(t.TempDir(), ".wtt")

	cfg, err := LoadFrom(home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 40.0, cfg.WeeklyTargetHours)

	data, err := os.ReadFile(filepath.Join(home, FileName))
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))
}

func TestLoadFromPartialFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	content := `// mine
{
  "storage": {"backend": "sqlite"},
  // shorter week
  "weekly_target_hours": 32
}`
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(content), 0o600))

	cfg, err := LoadFrom(home)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 32.0, cfg.WeeklyTargetHours)
	assert.Equal(t, DefaultTickSeconds, cfg.TickSeconds)
	assert.Equal(t, DefaultClientID, cfg.Outlook.ClientID)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(`{"log_level":"info"}`), 0o600))

	t.Setenv(EnvStorageBackend, "sqlite")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMirrorDir, "/mnt/share")
	t.Setenv(EnvTargetHours, "35.5")

	cfg, err := LoadFrom(home)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/mnt/share", cfg.Backup.MirrorDir)
	assert.Equal(t, 35.5, cfg.WeeklyTargetHours)
}

func TestBadTargetFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTargetHours, "forty")
	_, err := LoadFrom(t.TempDir())
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, EnvTargetHours, verr.Field)
}

func TestParseError(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(`{"storage": `), 0o600))
	_, err := LoadFrom(home)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, field: "storage.backend"},
		{name: "negative target", mutate: func(c *Config) { c.WeeklyTargetHours = -1 }, field: "weekly_target_hours"},
		{name: "target above a week", mutate: func(c *Config) { c.WeeklyTargetHours = 200 }, field: "weekly_target_hours"},
		{name: "zero tick", mutate: func(c *Config) { c.TickSeconds = 0 }, field: "tick_seconds"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, field: "log_level"},
		{name: "bad lookahead", mutate: func(c *Config) { c.Outlook.LookaheadDays = -3 }, field: "outlook.lookahead_days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestHomeDirFromEnv(t *testing.T) {
	t.Setenv(EnvHome, "/data/wtt")
	home, err := HomeDir()
	require.NoError(t, err)
	assert.Equal(t, "/data/wtt", home)
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("WTT_LOG_LEVEL=debug\nWTT_MIRROR_DIR=/from/dotenv\n"), 0o600))
	t.Setenv(EnvMirrorDir, "/from/env")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	loadDotEnv(env, filepath.Join(dir, "missing.env"))
	assert.Equal(t, "debug", os.Getenv(EnvLogLevel))
	assert.Equal(t, "/from/env", os.Getenv(EnvMirrorDir))
	require.NoError(t, os.Unsetenv(EnvLogLevel))
}
