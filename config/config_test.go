package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModePassword, cfg.Auth.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
	assert.Equal(t, "academy:session:", cfg.Redis.KeyPrefix)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 6, cfg.HTTP.CompressionLevel)
	assert.Equal(t, "academy-gallery", cfg.Storage.Bucket)
	assert.Equal(t, "data.object.id", cfg.Payments.ProviderRefExpr)
	assert.Equal(t, map[string]string{
		"paid":     "paid",
		"unpaid":   "failed",
		"refunded": "refunded",
	}, cfg.Payments.StatusMap)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAuthModeParsing(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	cfg := parseConfig(t)
	assert.Equal(t, AuthModeOAuth, cfg.Auth.Mode)

	t.Setenv("AUTH_MODE", "mock")
	cfg = parseConfig(t)
	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)

	t.Setenv("AUTH_MODE", "ldap")
	var bad AppConfig
	assert.Error(t, env.Parse(&bad))
}

func TestAuthValidate(t *testing.T) {
	cfg := parseConfig(t)

	assert.Error(t, cfg.Auth.Validate(false), "JWT secret required in production")
	assert.NoError(t, cfg.Auth.Validate(true), "dev may run without a secret")

	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Auth.Validate(false))

	cfg.Auth.Mode = AuthModeOAuth
	assert.Error(t, cfg.Auth.Validate(false), "oauth needs a discovery URL")
	cfg.Auth.OAuth.DiscoveryURL = "https://idp.example.com"
	assert.NoError(t, cfg.Auth.Validate(false))
}

func TestDevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg := parseConfig(t)
	assert.True(t, cfg.IsDev)
}

func TestCompressionLevelClamped(t *testing.T) {
	t.Setenv("HTTP_COMPRESSION_LEVEL", "42")
	cfg := parseConfig(t)
	assert.Equal(t, 9, cfg.HTTP.CompressionLevel)

	t.Setenv("HTTP_COMPRESSION_LEVEL", "-3")
	cfg = parseConfig(t)
	assert.Equal(t, 1, cfg.HTTP.CompressionLevel)
}

func TestMetricsDisabledWithoutAddress(t *testing.T) {
	t.Setenv("OBSERVABILITY_METRICS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_METRICS_STATSD_ADDRESS", "   ")
	cfg := parseConfig(t)
	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestSlackDisabledWithoutWebhook(t *testing.T) {
	t.Setenv("OBSERVABILITY_NOTIFICATIONS_ENABLED", "true")
	t.Setenv("OBSERVABILITY_NOTIFICATIONS_SLACK_ENABLED", "true")
	cfg := parseConfig(t)
	assert.False(t, cfg.Observability.Notifications.Slack.Enabled)

	t.Setenv("OBSERVABILITY_NOTIFICATIONS_SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T0/B0/x")
	cfg = parseConfig(t)
	assert.True(t, cfg.Observability.Notifications.Slack.Enabled)
}

func TestPaymentStatusMapOverride(t *testing.T) {
	t.Setenv("PAYMENT_STATUS_MAP", "succeeded:paid,canceled:failed")
	cfg := parseConfig(t)
	assert.Equal(t, map[string]string{"succeeded": "paid", "canceled": "failed"}, cfg.Payments.StatusMap)
}
