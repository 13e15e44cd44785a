package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"BACKEND_URL", "HTTP_TIMEOUT", "PORT", "LOG_LEVEL", "TRACING_ENABLED"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://stories.internal:9000/api")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("PORT", "9999")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://stories.internal:9000/api", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 9999, cfg.Port)
	assert.True(t, cfg.TracingEnabled)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "BACKEND_URL=http://from-file/api\nLOG_LEVEL=\"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("BACKEND_URL", "http://from-env/api")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "http://from-env/api", os.Getenv("BACKEND_URL"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}
