package config

import "strings"

// PaymentsConfig controls how payment provider webhooks are interpreted.
// Provider payloads differ in shape, so the field locations are configured
// as JMESPath expressions per deployment.
type PaymentsConfig struct {
	// WebhookToken is a shared secret the provider sends in X-Webhook-Token.
	// Empty disables the check (rely on network controls instead).
	WebhookToken string `env:"WEBHOOK_TOKEN"`

	// ProviderRefExpr extracts the provider's charge/session identifier.
	ProviderRefExpr string `env:"PROVIDER_REF_EXPR" envDefault:"data.object.id"`

	// OrderIDExpr extracts our order ID from provider metadata. Optional.
	OrderIDExpr string `env:"ORDER_ID_EXPR" envDefault:"data.object.metadata.order_id"`

	// StatusExpr extracts the provider's status string.
	StatusExpr string `env:"STATUS_EXPR" envDefault:"data.object.payment_status"`

	// AmountExpr extracts the charged amount in cents. Optional, used for a
	// consistency check only.
	AmountExpr string `env:"AMOUNT_EXPR" envDefault:"data.object.amount_total"`

	// StatusMap translates provider status values to ours
	// (pending/paid/failed/refunded).
	StatusMap map[string]string `env:"STATUS_MAP" envDefault:"paid:paid,unpaid:failed,refunded:refunded" envSeparator:"," envKeyValSeparator:":"`
}

// Sanitize trims expression whitespace.
func (c *PaymentsConfig) Sanitize() {
	c.WebhookToken = strings.TrimSpace(c.WebhookToken)
	c.ProviderRefExpr = strings.TrimSpace(c.ProviderRefExpr)
	c.OrderIDExpr = strings.TrimSpace(c.OrderIDExpr)
	c.StatusExpr = strings.TrimSpace(c.StatusExpr)
	c.AmountExpr = strings.TrimSpace(c.AmountExpr)
}
