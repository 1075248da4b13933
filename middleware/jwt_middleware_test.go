package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("507f1f77bcf86cd799439011", "jane@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "user", claims.UserType)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("id", "a@b.co", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestBlacklistToken(t *testing.T) {
	assert.False(t, IsTokenBlacklisted("some-token"))

	BlacklistToken("some-token", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("some-token"))

	// Already expired tokens are not tracked
	BlacklistToken("stale-token", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted("stale-token"))
}
