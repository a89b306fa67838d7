package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("UPSTREAM_URL", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.SecretFromDefault)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.Upstream.URL)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "prod-secret")
	t.Setenv("UPSTREAM_URL", "http://frontend:3000/")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Auth.SecretFromDefault)
	assert.Equal(t, "http://frontend:3000", cfg.Upstream.URL)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout())
}

func TestLoadRejectsBadUpstream(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "not a url")

	_, err := Load()
	require.Error(t, err)
}
