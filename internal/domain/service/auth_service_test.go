package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewAuthService("secret", 60)

	hashed, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.True(t, svc.VerifyPassword("correct horse battery staple", hashed))
	assert.False(t, svc.VerifyPassword("wrong", hashed))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("secret", 3600)

	token, err := svc.CreateAccessToken("alice")
	require.NoError(t, err)

	subject, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a", 3600).CreateAccessToken("alice")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b", 3600).VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	svc := NewAuthService("secret", -60)

	token, err := svc.CreateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}

func TestExpiry(t *testing.T) {
	svc := NewAuthService("secret", 1800)
	assert.Equal(t, 30*time.Minute, svc.Expiry())
}
