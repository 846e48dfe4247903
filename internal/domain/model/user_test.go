package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

func TestCreateUserRequestValidate(t *testing.T) {
	t.Run("valid request defaults role to student", func(t *testing.T) {
		req := CreateUserRequest{
			Name:     "Mestre Bimba",
			Email:    "Bimba@Example.com ",
			Password: "capoeira-regional",
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, domainauth.RoleStudent, req.Role)
		assert.Equal(t, "bimba@example.com", req.Email)
	})

	t.Run("rejects short password", func(t *testing.T) {
		req := CreateUserRequest{Name: "A", Email: "a@b.com", Password: "short"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects guest role", func(t *testing.T) {
		req := CreateUserRequest{
			Name:     "A",
			Email:    "a@b.com",
			Password: "long-enough",
			Role:     domainauth.RoleGuest,
		}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing email", func(t *testing.T) {
		req := CreateUserRequest{Name: "A", Password: "long-enough"}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateUserRequestValidate(t *testing.T) {
	t.Run("requires at least one field", func(t *testing.T) {
		req := UpdateUserRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("normalizes role", func(t *testing.T) {
		role := domainauth.Role(" Instructor ")
		req := UpdateUserRequest{Role: &role}
		require.NoError(t, req.Validate())
		assert.Equal(t, domainauth.RoleInstructor, *req.Role)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		name := "  "
		req := UpdateUserRequest{Name: &name}
		assert.Error(t, req.Validate())
	})
}
