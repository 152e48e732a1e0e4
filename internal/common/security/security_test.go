package security

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	m := NewTokenManager([]byte("test-secret"), time.Hour)

	tokenString, expires, err := m.GenerateToken("acc-1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	token, err := jwtauth.VerifyToken(m.Auth, tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", id)
	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("one"), time.Hour)
	other := NewTokenManager([]byte("two"), time.Hour)

	tokenString, _, err := issuer.GenerateToken("acc-1", "user")
	require.NoError(t, err)
	_, err = jwtauth.VerifyToken(other.Auth, tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewTokenManager([]byte("s"), time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tokenString, _, err := m.GenerateToken("acc-1", "user")
	require.NoError(t, err)
	_, err = jwtauth.VerifyToken(m.Auth, tokenString)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, CheckPasswordHash("123456", hash))
	assert.False(t, CheckPasswordHash("1234567", hash))
}
