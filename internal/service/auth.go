package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rodaworks/academy/internal/core"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/ports"
)

const defaultSessionTTL = 24 * time.Hour

// invalidCredentialsMessage is deliberately identical for unknown email,
// wrong password, and deactivated account.
const invalidCredentialsMessage = "Invalid credentials"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    core.UserRepository
	Sessions ports.SessionStore
	Tokens   ports.TokenCodec
	Provider ports.AuthProvider // optional; OIDC browser flow
	Roles    ports.RoleMapper   // required when Provider is set

	SessionTTL time.Duration
}

// AuthService orchestrates both authentication flows: credential logins for
// members (login/register/me/logout over bearer tokens) and the browser
// OIDC flow for staff. Both persist the same server-side session record.
type AuthService struct {
	users    core.UserRepository
	sessions ports.SessionStore
	tokens   ports.TokenCodec
	provider ports.AuthProvider
	roles    ports.RoleMapper

	sessionTTL time.Duration
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		tokens:     opts.Tokens,
		provider:   opts.Provider,
		roles:      opts.Roles,
		sessionTTL: ttl,
	}
}

// LoginResult carries the minted token and the user it belongs to.
type LoginResult struct {
	Token string
	User  *model.User
}

// Login verifies credentials and mints a bearer token backed by a
// server-side session. All credential failures return the same
// unauthorized error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	user, err := s.users.GetByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(invalidCredentialsMessage)
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized(invalidCredentialsMessage)
	}

	return s.startSession(ctx, user)
}

// Register creates a member account and logs it in. New accounts always get
// the student role; staff roles are assigned by an admin afterwards.
func (s *AuthService) Register(ctx context.Context, req *model.CreateUserRequest) (*LoginResult, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.Role = domainauth.RoleStudent
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// Me resolves a bearer token to the authoritative user record. The session
// proves authentication; the user row is re-read so a server-side role
// change or deactivation takes effect on the next validation.
func (s *AuthService) Me(ctx context.Context, token string) (*model.User, error) {
	sess, err := s.SessionFromToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Staff who signed in via OIDC have no user row; answer from
			// the session itself.
			return userFromSession(sess), nil
		}
		return nil, err
	}
	if !user.Active {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperrors.Unauthorized("Session expired")
	}
	return user, nil
}

// SessionFromToken verifies a bearer token and loads its live session.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (*domainauth.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("Missing token")
	}
	sessionID, err := s.tokens.SessionID(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Session expired")
	}
	return s.GetSession(ctx, sessionID)
}

// GetSession loads a session by ID, purging it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthorized("Missing session")
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Unauthorized("Session expired")
	}
	if sess.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(apperrors.Unauthorized("Session expired"), deleteErr)
		}
		return nil, apperrors.Unauthorized("Session expired")
	}
	return &sess, nil
}

// Logout revokes the session behind a token. Unknown or already-revoked
// tokens are a no-op; logout never fails for the client.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, err := s.tokens.SessionID(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeSession deletes a session by ID. Used by the browser sign-out flow,
// which holds a session cookie rather than a bearer token.
func (s *AuthService) RevokeSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// BeginLoginResult contains the result of beginning an OIDC login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates the browser OIDC flow.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, apperrors.Internal("OIDC login is not configured")
	}
	if redirectURL == "" {
		return nil, apperrors.Validation("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an OIDC login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the authorization code for an identity, maps the
// provider groups to a role, and persists a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil || s.roles == nil {
		return nil, apperrors.Internal("OIDC login is not configured")
	}
	if input.Code == "" {
		return nil, apperrors.Validation("authorization code is required")
	}
	if input.State == "" {
		return nil, apperrors.Validation("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, apperrors.Validation("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(identity.Groups)
	if role == domainauth.RoleGuest {
		return nil, apperrors.Forbidden("No academy role for this account")
	}

	expiresAt := identity.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.sessionTTL)
	}
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// MintToken issues a bearer token for an existing session.
func (s *AuthService) MintToken(sess domainauth.Session) (string, error) {
	return s.tokens.Mint(sess)
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*LoginResult, error) {
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	token, err := s.tokens.Mint(sess)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func userFromSession(sess *domainauth.Session) *model.User {
	return &model.User{
		ID:     sess.UserID,
		Name:   sess.Name,
		Email:  sess.Email,
		Role:   sess.Role,
		Active: true,
	}
}
