package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, "development", cfg.Env)

	assert.False(t, cfg.Postgres.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.HubSpot.OAuthConfigured())

	assert.Equal(t, "https://app.hubspot.com/oauth/authorize", cfg.HubSpot.AuthURL)
	assert.Equal(t, "https://api.hubapi.com", cfg.HubSpot.APIBaseURL)
	assert.Contains(t, cfg.HubSpot.Scopes, "crm.objects.invoices.write")

	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL.Duration)
	assert.Equal(t, 20, cfg.Security.RateLimitRequests)
	assert.Equal(t, 10*time.Minute, cfg.Security.StateTTL.Duration)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "7d")
	t.Setenv("HUBSPOT_CLIENT_ID", "client-id")
	t.Setenv("HUBSPOT_CLIENT_SECRET", "client-secret")
	t.Setenv("HUBSPOT_REDIRECT_URL", "https://example.com/auth/callback")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL.Duration)
	assert.True(t, cfg.HubSpot.OAuthConfigured())
	assert.True(t, cfg.Postgres.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.Security.RateLimitRequests)
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "too-short")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "db.internal",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		DBName:   "crm",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db.internal port=5432 user=app password=secret dbname=crm sslmode=disable", p.DSN())
}

func TestRedisAddress(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: "6379"}
	assert.Equal(t, "cache.internal:6379", r.Address())
}

func TestOAuthConfigured(t *testing.T) {
	h := HubSpotConfig{ClientID: "id", ClientSecret: "secret"}
	assert.False(t, h.OAuthConfigured())

	h.RedirectURL = "https://example.com/auth/callback"
	assert.True(t, h.OAuthConfigured())
}
