package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "x-auth-token", cfg.Backend.AuthHeader)
	assert.Equal(t, "/login", cfg.Backend.LoginPath)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, 10, cfg.Records.PageSize)
	assert.Equal(t, 10000, cfg.Records.ExportLimit)
	assert.Equal(t, 1500*time.Millisecond, cfg.Capture.AutoSaveDelay)
	assert.True(t, cfg.Capture.AutoSave)
}

func TestLoadFromEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BACKEND_BASE_URL", "https://permits.example.org/")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("AUTOSAVE_DELAY", "2s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://permits.example.org", cfg.Backend.BaseURL)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, 2*time.Second, cfg.Capture.AutoSaveDelay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
