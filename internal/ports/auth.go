package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"io"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes a browser authentication flow against an IdP.
// Credential (email/password) logins bypass this port and go through the user repository.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves server-side user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// TokenCodec mints and verifies the bearer tokens handed to API clients.
// The token's subject is the server-side session ID; verification only proves
// the token was minted by us, authorization still consults the SessionStore.
type TokenCodec interface {
	Mint(sess domainauth.Session) (string, error)
	SessionID(token string) (string, error)
}

// ObjectStore persists binary objects (gallery images) outside the database.
type ObjectStore interface {
	Put(ctx context.Context, in PutObjectInput) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// PutObjectInput groups parameters for ObjectStore.Put to keep param count ≤3.
type PutObjectInput struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}
