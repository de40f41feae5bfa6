package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret", "therapy-chatbot")
	userID := uuid.New().String()
	sessionID := uuid.New().String()

	access, refresh, err := svc.GenerateTokenPair(userID, "user@example.com", sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "access", claims.TokenType)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "therapy-chatbot")
	other := NewJWTService("other-secret", "therapy-chatbot")

	access, _, err := svc.GenerateTokenPair(uuid.New().String(), "user@example.com", uuid.New().String())
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "therapy-chatbot")

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromBearer("Bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer("Basic abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer"))
}
