package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbrp/insurance-bot/internal/auth"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret-a", 60).GenerateToken("admin")
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 60)

	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	// Minimum bcrypt cost keeps the test fast.
	hash, err := auth.HashPassword("geheim", 4)
	require.NoError(t, err)

	require.NoError(t, auth.ComparePassword(hash, "geheim"))
	assert.Error(t, auth.ComparePassword(hash, "falsch"))
}
