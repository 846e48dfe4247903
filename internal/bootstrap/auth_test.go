package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodaworks/academy/config"
	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

func baseAuthDeps() AuthDeps {
	return AuthDeps{
		Auth: config.AuthConfig{
			Mode:       config.AuthModePassword,
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
		},
		Redis: config.RedisConfig{KeyPrefix: "academy:session:"},
	}
}

func TestBuildAuthService_PasswordMode(t *testing.T) {
	svc, err := BuildAuthService(baseAuthDeps())
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestBuildAuthService_SecretRequiredOutsideDev(t *testing.T) {
	deps := baseAuthDeps()
	deps.Auth.JWTSecret = ""

	_, err := BuildAuthService(deps)
	assert.Error(t, err)

	deps.IsDev = true
	svc, err := BuildAuthService(deps)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildAuthService_MockMode(t *testing.T) {
	deps := baseAuthDeps()
	deps.IsDev = true
	deps.Auth.Mode = config.AuthModeMock
	deps.Auth.DevAuth = config.DevAuthConfig{
		UserID: "dev-user",
		Name:   "Dev User",
		Email:  "dev@example.com",
		Groups: []string{"academy-admins"},
	}

	svc, err := BuildAuthService(deps)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestBuildAuthService_UnknownMode(t *testing.T) {
	deps := baseAuthDeps()
	deps.Auth.Mode = config.AuthMode("ldap")

	_, err := BuildAuthService(deps)
	assert.ErrorContains(t, err, "unsupported auth mode")
}

func TestRoleMapperFromConfig(t *testing.T) {
	mapper := roleMapperFromConfig(config.RoleGroupsConfig{
		Admin:      "academy-admins",
		Manager:    "academy-managers",
		Instructor: "academy-instructors",
		Student:    "academy-students",
	})

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"academy-admins", "academy-students"}))
	assert.Equal(t, domainauth.RoleInstructor, mapper.Map([]string{"academy-instructors"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map([]string{"unrelated"}))
}
