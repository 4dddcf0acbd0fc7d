package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiticket/helpdesk-service/internal/config"
	"github.com/digiticket/helpdesk-service/internal/domain"
	apperrors "github.com/digiticket/helpdesk-service/pkg/util/errorutil"
)

func newAuthFixture() (*fixture, *AuthService) {
	f := newFixture()
	authService := NewAuthService(config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 1,
		BcryptCost:    4,
	}, f.users)
	return f, authService
}

func TestAuthRegister(t *testing.T) {
	_, authService := newAuthFixture()

	user, token, exp, err := authService.Register(context.Background(), "Claire", "Claire@Example.com", "secret", "")
	require.NoError(t, err)

	// Self-registration is active immediately and defaults to CLIENT.
	assert.True(t, user.Active)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, "claire@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	email, err := authService.TokenManager().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, email)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	f, authService := newAuthFixture()
	f.seedUser("Claire", "claire@example.com", domain.RoleClient, true)

	_, _, _, err := authService.Register(context.Background(), "Autre", "claire@example.com", "secret", "")
	assert.True(t, apperrors.IsCode(err, "DUPLICATE_EMAIL"))
}

func TestAuthRegisterValidation(t *testing.T) {
	_, authService := newAuthFixture()

	_, _, _, err := authService.Register(context.Background(), "", "claire@example.com", "secret", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, _, _, err = authService.Register(context.Background(), "Claire", "claire@example.com", "", "")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestAuthAuthenticate(t *testing.T) {
	_, authService := newAuthFixture()

	registered, _, _, err := authService.Register(context.Background(), "Claire", "claire@example.com", "secret", "")
	require.NoError(t, err)

	user, token, _, err := authService.Authenticate(context.Background(), "claire@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthAuthenticateRejections(t *testing.T) {
	f, authService := newAuthFixture()
	_, _, _, err := authService.Register(context.Background(), "Claire", "claire@example.com", "secret", "")
	require.NoError(t, err)

	// Unknown email, wrong password and an inactive account are
	// indistinguishable from the outside.
	_, _, _, err = authService.Authenticate(context.Background(), "nobody@example.com", "secret")
	assert.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))

	_, _, _, err = authService.Authenticate(context.Background(), "claire@example.com", "wrong")
	assert.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))

	stored, err := f.users.GetByEmail(context.Background(), "claire@example.com")
	require.NoError(t, err)
	stored.Active = false
	require.NoError(t, f.users.Update(context.Background(), stored))

	_, _, _, err = authService.Authenticate(context.Background(), "claire@example.com", "secret")
	assert.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
}
