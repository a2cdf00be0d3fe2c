package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("API_URL", "http://kiosk.local:8000/api/v1/")
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://kiosk.local:8000/api/v1", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Minute, cfg.DetailsCacheTTL)
	assert.Equal(t, 2, cfg.APIMaxRetries)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "kioskarr.db"), cfg.DatabaseFile)
	assert.False(t, cfg.Ephemeral)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "kioskarr.yaml")
	content := `
API_URL: "https://kiosk.example.com"
REFRESH_INTERVAL: "45s"
LOG_LEVEL: "debug"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://kiosk.example.com", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "warn", cfg.LogLevel, "environment overrides config file")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing_api_url",
			env:     map[string]string{},
			wantErr: "API_URL is required",
		},
		{
			name:    "relative_api_url",
			env:     map[string]string{"API_URL": "kiosk.local/api"},
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "refresh_too_fast",
			env:     map[string]string{"API_URL": "http://kiosk.local", "REFRESH_INTERVAL": "100ms"},
			wantErr: "REFRESH_INTERVAL",
		},
		{
			name:    "negative_retries",
			env:     map[string]string{"API_URL": "http://kiosk.local", "API_MAX_RETRIES": "-1"},
			wantErr: "API_MAX_RETRIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_DIR", t.TempDir())
			t.Setenv("API_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(viper.New(), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("API_URL", "http://kiosk.local")

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
