package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
	"github.com/rodaworks/academy/internal/domain/model"
	apperrors "github.com/rodaworks/academy/internal/errors"
	"github.com/rodaworks/academy/internal/mocks"
)

func newUserFixture(t *testing.T) (*UserService, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	return NewUserService(UserServiceOptions{Users: users}), users
}

func TestUserService_Create_WithExplicitRole(t *testing.T) {
	svc, users := newUserFixture(t)
	users.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error) {
			assert.Equal(t, domainauth.RoleInstructor, req.Role)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("armada12345")))
			return &model.User{ID: "user-1", Role: req.Role}, nil
		})

	user, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Name:     "Carlos Lima",
		Email:    "carlos@example.com",
		Password: "armada12345",
		Role:     domainauth.RoleInstructor,
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleInstructor, user.Role)
}

func TestUserService_Create_RejectsGuestRole(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Name:     "Carlos Lima",
		Email:    "carlos@example.com",
		Password: "armada12345",
		Role:     domainauth.RoleGuest,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_Update_RequiresChanges(t *testing.T) {
	svc, _ := newUserFixture(t)

	_, err := svc.Update(context.Background(), "user-1", model.UpdateUserRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "at least one field")
}

func TestUserService_SetPassword(t *testing.T) {
	svc, users := newUserFixture(t)
	users.EXPECT().
		SetPasswordHash(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, hash string) error {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword1"))
		})

	require.NoError(t, svc.SetPassword(context.Background(), "user-1", "newpassword1"))

	err := svc.SetPassword(context.Background(), "user-1", "short")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_List_Defaults(t *testing.T) {
	svc, users := newUserFixture(t)
	users.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, opts model.UsersListOptions) ([]*model.User, error) {
			assert.Equal(t, 50, opts.Limit)
			assert.Equal(t, "created_at", opts.Sort)
			assert.Equal(t, "desc", opts.Dir)
			return nil, nil
		})

	_, err := svc.List(context.Background(), model.UsersListOptions{})
	require.NoError(t, err)
}
