package bootstrap

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodaworks/academy/config"
	"github.com/rodaworks/academy/internal/domain/model"
	"github.com/rodaworks/academy/internal/observability/statsd"
)

func TestPaymentMappingFromConfig(t *testing.T) {
	mapping, err := paymentMappingFromConfig(config.PaymentsConfig{
		ProviderRefExpr: "data.object.id",
		OrderIDExpr:     "data.object.metadata.order_id",
		StatusExpr:      "data.object.payment_status",
		AmountExpr:      "data.object.amount_total",
		StatusMap: map[string]string{
			"paid":     "paid",
			"unpaid":   "failed",
			"refunded": "refunded",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "data.object.id", mapping.ProviderRef)
	assert.Equal(t, model.OrderStatusPaid, mapping.StatusMap["paid"])
	assert.Equal(t, model.OrderStatusFailed, mapping.StatusMap["unpaid"])
	assert.NoError(t, mapping.Validate())
}

func TestPaymentMappingFromConfig_UnknownStatus(t *testing.T) {
	_, err := paymentMappingFromConfig(config.PaymentsConfig{
		ProviderRefExpr: "id",
		StatusExpr:      "status",
		StatusMap:       map[string]string{"succeeded": "settled"},
	})
	assert.ErrorContains(t, err, "unknown order status")
}

func TestBuildContactNotifier_Disabled(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Observability.Notifications.Slack.Enabled = false

	notifier, err := buildContactNotifier(cfg, slog.Default())
	require.NoError(t, err)
	assert.Nil(t, notifier)
}

func TestBuildContactNotifier_Enabled(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.HTTP.BaseURL = "https://academy.example.com"
	cfg.Observability.Notifications.Slack.Enabled = true
	cfg.Observability.Notifications.Slack.WebhookURL = "https://hooks.slack.com/services/T0/B0/x"
	cfg.Observability.Notifications.Slack.Channel = "#academy-inbox"

	notifier, err := buildContactNotifier(cfg, slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, notifier)
}

func TestBuildObservability_DisabledUsesNop(t *testing.T) {
	obs, err := buildObservability(config.ObservabilityMetricsConfig{Enabled: false}, slog.Default())
	require.NoError(t, err)

	assert.Nil(t, obs.MetricsClient)
	_, isNop := obs.MetricsSink.(statsd.Nop)
	assert.True(t, isNop)
}
