package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New().String()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	extracted, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	require.Equal(t, userID, extracted)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewJWTService("secret-one").GenerateToken(uuid.New().String())
	require.NoError(t, err)

	_, err = NewJWTService("secret-two").ExtractUserID(token)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewJWTService("test-secret")

	_, err := svc.ExtractUserID("не.токен.вовсе")
	require.Error(t, err)

	_, err = svc.ExtractUserID("")
	require.Error(t, err)
}
