package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 1)

	token, exp, err := tm.IssueToken("claire@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	email, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "claire@example.com", email)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, _, err := tm.IssueToken("claire@example.com")
	require.NoError(t, err)

	other := NewTokenManager("different", 1)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, ComparePassword(hash, "secret"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
