package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "jo@example.com", "member", testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "jo@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "jo@example.com", "member", testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	// an access token must not be usable on the refresh endpoint
	token, err := GenerateAccessToken(7, "jo@example.com", "member", testSecret)
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(token, testSecret, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	refresh, err := GenerateRefreshToken(7, "jo@example.com", "member", testSecret)
	require.NoError(t, err)

	access, claims, err := RefreshAccessToken(refresh, testSecret, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	accessClaims, err := ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", accessClaims.TokenType)
}

func TestEmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(7, "jo@example.com", "member", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, err = ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}
