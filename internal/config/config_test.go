package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("TRUST_PROXY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 3, cfg.StoryRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.StoryRateWindow)
	assert.Equal(t, 5, cfg.ReportRateLimit)
	assert.False(t, cfg.AdminEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/whispers")
	t.Setenv("PORT", "8081")
	t.Setenv("CLIENT_URL", "https://a.example, https://b.example")
	t.Setenv("RECONCILE_INTERVAL", "30s")
	t.Setenv("STORY_RATE_LIMIT", "10")
	t.Setenv("ADMIN_USERNAME", "mod")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.ReconcileInterval)
	assert.Equal(t, 10, cfg.StoryRateLimit)
	assert.True(t, cfg.AdminEnabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
