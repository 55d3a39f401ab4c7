package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, AuthModeHeader, cfg.AuthMode)
	assert.Equal(t, "0 20 * * *", cfg.ReminderCron)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
port: 9000
database_path: /tmp/file.db
log_level: debug
allowed_origins:
  - http://localhost:5173
`)
	t.Setenv("DATABASE_PATH", "/tmp/env.db")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.ServerPort, "file value kept when env is unset")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/env.db", cfg.DatabasePath, "env overrides file")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"port out of range", func(c *Config) { c.ServerPort = 70000 }, true},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "oauth" }, true},
		{"jwt without secret", func(c *Config) { c.AuthMode = AuthModeJWT }, true},
		{"jwt with secret", func(c *Config) { c.AuthMode = AuthModeJWT; c.JWTSecret = "s3cret" }, false},
		{"bad cron", func(c *Config) { c.ReminderCron = "every day" }, true},
		{"reminders disabled", func(c *Config) { c.ReminderCron = "" }, false},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_SecureCookies(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SECURE_COOKIES", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies)

	t.Setenv("SECURE_COOKIES", "sometimes")
	_, err = Load("")
	assert.Error(t, err)
}
