package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects how users authenticate.
type AuthMode string

const (
	// AuthModePassword uses email/password credentials with bearer tokens.
	// This is the default and what members and the CLI use.
	AuthModePassword AuthMode = "password"
	// AuthModeOAuth additionally enables the staff OIDC browser flow.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock enables a config-driven dev identity provider in place
	// of a real IdP. Development only.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC settings for the staff browser flow.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"academy"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"academy"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls the mock identity used when Mode=mock.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID" envDefault:"dev-user"`
	Name   string   `env:"NAME"    envDefault:"Dev User"`
	Email  string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups []string `env:"GROUPS"  envDefault:"academy-admins" envSeparator:";"`
}

// RoleGroupsConfig maps identity provider groups to application roles for
// the OIDC flow. Unset groups simply never match.
type RoleGroupsConfig struct {
	Admin      string `env:"ADMIN_GROUP"      envDefault:"academy-admins"`
	Manager    string `env:"MANAGER_GROUP"    envDefault:"academy-managers"`
	Instructor string `env:"INSTRUCTOR_GROUP" envDefault:"academy-instructors"`
	Student    string `env:"STUDENT_GROUP"    envDefault:"academy-students"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication providers are active.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// JWTSecret signs bearer tokens. Required outside development.
	JWTSecret string `env:"AUTH_JWT_SECRET"`

	// SessionTTL bounds how long a server-side session lives.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Roles maps IdP groups to roles for the browser flow.
	Roles RoleGroupsConfig `envPrefix:"AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
}

// Validate checks settings that have no safe fallback.
func (c *AuthConfig) Validate(isDev bool) error {
	if c.JWTSecret == "" && !isDev {
		return fmt.Errorf("AUTH_JWT_SECRET is required outside development")
	}
	if c.Mode == AuthModeOAuth && strings.TrimSpace(c.OAuth.DiscoveryURL) == "" {
		return fmt.Errorf("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth")
	}
	return nil
}
