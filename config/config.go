// Package config defines the application configuration, loaded from
// environment variables via github.com/caarlos0/env. Configuration is split
// by concern:
//   - auth.go: authentication modes, tokens, sessions
//   - database.go: Postgres and Redis
//   - http.go: HTTP server
//   - storage.go: object storage for gallery images
//   - payments.go: payment webhook mapping
//   - observability.go: metrics and staff notifications
package config

import (
	"os"
	"strings"
)

// AppConfig is the root configuration struct composing the per-concern
// sections.
type AppConfig struct {
	// IsDev controls development behavior (mock auth defaults, seed data).
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth     AuthConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	HTTP     HTTPConfig
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Payments PaymentsConfig `envPrefix:"PAYMENT_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// Call after env parsing and before use.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Payments.Sanitize()
	c.Observability.Sanitize()
	c.detectDevMode()
}

// detectDevMode also honors APP_ENV=development so deployments that set a
// conventional environment name get dev behavior without a second variable.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
