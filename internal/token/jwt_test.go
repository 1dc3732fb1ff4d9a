package token

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessTokenRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")
	userID := uuid.New()

	tok, err := j.GenerateAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	parsed, err := j.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWT_RefreshTokenRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")
	userID := uuid.New()

	tok, jti, err := j.GenerateRefreshToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	parsedID, parsedJTI, err := j.ParseRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, jti, parsedJTI)
}

func TestJWT_TypeMismatch(t *testing.T) {
	j := NewJWT("test-secret")
	userID := uuid.New()

	access, err := j.GenerateAccessToken(userID)
	require.NoError(t, err)
	_, _, err = j.ParseRefreshToken(access)
	require.Error(t, err)

	refresh, _, err := j.GenerateRefreshToken(userID)
	require.NoError(t, err)
	_, err = j.ParseAccessToken(refresh)
	require.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	j := NewJWT("secret-a")
	other := NewJWT("secret-b")

	tok, err := j.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ParseAccessToken(tok)
	require.Error(t, err)
}

func TestNewCredentialToken(t *testing.T) {
	a, err := NewCredentialToken()
	require.NoError(t, err)
	b, err := NewCredentialToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 32 bytes -> 43 chars of unpadded base64url.
	assert.Len(t, a, 43)
	assert.False(t, strings.ContainsAny(a, "+/="))
}
