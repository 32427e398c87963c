package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/project-service/internal/domain"
	apperrors "github.com/spec-kit/project-service/pkg/util/errorutil"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, token, _, err := env.auth.Register(ctx, "Dana", "Dana@Example.com ", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEmpty(t, token)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, _, _, err := env.auth.Register(ctx, "Other", "dana@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, _, _, err := env.auth.Register(ctx, "Short", "short@example.com", "abc")
		require.Error(t, err)
		assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("login with correct credentials", func(t *testing.T) {
		got, token, _, err := env.auth.Login(ctx, "dana@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, _, err := env.auth.Login(ctx, "dana@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("unknown email is unauthorized, not 404", func(t *testing.T) {
		_, _, _, err := env.auth.Login(ctx, "nobody@example.com", "password123")
		require.Error(t, err)
		assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
	})
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, token, _, err := env.auth.Register(ctx, "Dana", "dana@example.com", "password123")
	require.NoError(t, err)

	claims, err := env.auth.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	revoked, err := env.sessions.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, env.auth.Logout(ctx, claims.ID))

	revoked, err = env.sessions.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthSuspendedAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, _, _, err := env.auth.Register(ctx, "Dana", "dana@example.com", "password123")
	require.NoError(t, err)

	user.Status = domain.UserStatusSuspended
	require.NoError(t, env.users.Update(ctx, user))

	_, _, _, err = env.auth.Login(ctx, "dana@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestAuthChangePassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	user, _, _, err := env.auth.Register(ctx, "Dana", "dana@example.com", "password123")
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := env.auth.ChangePassword(ctx, user.ID, "nope", "newpassword")
		require.Error(t, err)
		assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("successful change", func(t *testing.T) {
		require.NoError(t, env.auth.ChangePassword(ctx, user.ID, "password123", "newpassword"))

		_, _, _, err := env.auth.Login(ctx, "dana@example.com", "password123")
		require.Error(t, err)

		_, _, _, err = env.auth.Login(ctx, "dana@example.com", "newpassword")
		require.NoError(t, err)
	})
}
