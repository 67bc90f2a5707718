package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-planner/internal/config"
)

func newTestJWTService(expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: expirationHours,
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(24)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWTService_EmptyToken(t *testing.T) {
	svc := newTestJWTService(24)

	_, err := svc.ValidateToken("")
	assert.Error(t, err)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := newTestJWTService(24)

	_, err := svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := newTestJWTService(24)
	other := NewJWTService(&config.JWTConfig{
		Secret:          "a-completely-different-secret-also-32-bytes!",
		ExpirationHours: 24,
	})

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_TokenRoundTripPreservesUserID(t *testing.T) {
	svc := newTestJWTService(1)

	for range 3 {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	}
}
