package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", time.Minute)
	require.NoError(t, err)

	signed, err := m.GenerateToken("u-1", "jane@example.com", []string{"ADMIN"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Subject)
	assert.Equal(t, []string{"ADMIN"}, claims.Roles)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	a, err := NewTokenManager("secret-a", time.Minute)
	require.NoError(t, err)
	b, err := NewTokenManager("secret-b", time.Minute)
	require.NoError(t, err)

	signed, err := a.GenerateToken("u-1", "jane@example.com", nil)
	require.NoError(t, err)

	_, err = b.ValidateToken(signed)
	require.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m, err := NewTokenManager("secret", time.Nanosecond)
	require.NoError(t, err)

	signed, err := m.GenerateToken("u-1", "jane@example.com", nil)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = m.ValidateToken(signed)
	require.Error(t, err)
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute)
	require.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("hunter22", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}

func TestGenerateRefreshToken(t *testing.T) {
	a, err := GenerateRefreshToken()
	require.NoError(t, err)
	b, err := GenerateRefreshToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
