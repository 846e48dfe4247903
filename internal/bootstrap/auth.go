package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rodaworks/academy/config"
	"github.com/rodaworks/academy/internal/adapters/authroles"
	"github.com/rodaworks/academy/internal/adapters/devauth"
	"github.com/rodaworks/academy/internal/adapters/oidc"
	redisadapter "github.com/rodaworks/academy/internal/adapters/redis"
	"github.com/rodaworks/academy/internal/adapters/token"
	"github.com/rodaworks/academy/internal/core"
	"github.com/rodaworks/academy/internal/ports"
	"github.com/rodaworks/academy/internal/service"
)

// devJWTSecret signs tokens when no secret is configured in development.
// Config validation rejects an empty secret outside dev mode.
const devJWTSecret = "academy-dev-only-signing-key"

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	IsDev       bool
	Users       core.UserRepository
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService assembles the auth service for the configured mode.
// Password mode serves only the credential flow; oauth and mock modes add
// a browser identity provider on top of it.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	sessions := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, deps.Redis.KeyPrefix)

	secret := deps.Auth.JWTSecret
	if secret == "" {
		if !deps.IsDev {
			return nil, fmt.Errorf("jwt secret is required outside development")
		}
		if deps.Logger != nil {
			deps.Logger.Warn("AUTH_JWT_SECRET not set, using built-in dev signing key")
		}
		secret = devJWTSecret
	}
	tokens, err := token.NewJWTCodec([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}

	provider, err := buildAuthProvider(deps)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:      deps.Users,
		Sessions:   sessions,
		Tokens:     tokens,
		Provider:   provider,
		Roles:      roleMapperFromConfig(deps.Auth.Roles),
		SessionTTL: deps.Auth.SessionTTL,
	}), nil
}

//nolint:ireturn // the provider is consumed through the port either way.
func buildAuthProvider(deps AuthDeps) (ports.AuthProvider, error) {
	switch deps.Auth.Mode {
	case config.AuthModePassword:
		// Credential flow only; no browser identity provider.
		return nil, nil

	case config.AuthModeOAuth:
		oauth := deps.Auth.OAuth
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     oauth.ClientID,
			ClientSecret: oauth.ClientSecret,
			RedirectURL:  oauth.RedirectURL,
			Scope:        oauth.Scope,
			DiscoveryURL: oauth.DiscoveryURL,
			LogoutURL:    oauth.LogoutURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	case config.AuthModeMock:
		if !deps.IsDev && deps.Logger != nil {
			deps.Logger.Warn("mock auth provider enabled outside development")
		}
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: deps.Auth.DevAuth.UserID,
			Name:   deps.Auth.DevAuth.Name,
			Email:  deps.Auth.DevAuth.Email,
			Groups: deps.Auth.DevAuth.Groups,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", deps.Auth.Mode)
	}
}

func roleMapperFromConfig(cfg config.RoleGroupsConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		AdminGroup:      cfg.Admin,
		ManagerGroup:    cfg.Manager,
		InstructorGroup: cfg.Instructor,
		StudentGroup:    cfg.Student,
	}
}
