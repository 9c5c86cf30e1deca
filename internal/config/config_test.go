package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []int{1, 3, 5}, cfg.Horizons)
	assert.Equal(t, 10000.0, cfg.DefaultInvestment)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fundsim.toml")
	content := `
port = "9090"
environment = "production"
session_duration = "2h"
horizons = [1, 10]
currency = "EUR"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("FUNDSIM_CURRENCY", "MAD")
	t.Setenv("FUNDSIM_RATE_BURST", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, []int{1, 10}, cfg.Horizons)
	assert.Equal(t, "MAD", cfg.Currency, "env overrides the file")
	assert.Equal(t, 7, cfg.RateBurst)
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`session_duration = "soon"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_HorizonsFromEnv(t *testing.T) {
	t.Setenv("FUNDSIM_HORIZONS", "2, 4")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, cfg.Horizons)

	t.Setenv("FUNDSIM_HORIZONS", "2,x")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, cfg.Horizons, "malformed list falls back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative horizon", func(c *Config) { c.Horizons = []int{1, -1} }},
		{"empty secret", func(c *Config) { c.SecretKey = "" }},
		{"zero session", func(c *Config) { c.SessionDuration = 0 }},
		{"negative investment", func(c *Config) { c.DefaultInvestment = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
