package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servifast_backend/internal/config"
	"servifast_backend/internal/models"
	"servifast_backend/pkg/apperrors"
)

func setTestConfig(t *testing.T, secret string, ttlMinutes int) {
	t.Helper()
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = ttlMinutes
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestConfig(t, "test-secret", 60)

	token, err := GenerateToken("user-1", models.UserRoleWorker)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleWorker, claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseTokenWrongSecret(t *testing.T) {
	setTestConfig(t, "test-secret", 60)
	token, err := GenerateToken("user-1", models.UserRoleClient)
	require.NoError(t, err)

	setTestConfig(t, "another-secret", 60)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	setTestConfig(t, "test-secret", -1)
	token, err := GenerateToken("user-1", models.UserRoleClient)
	require.NoError(t, err)

	_, err = ParseToken(token)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeTokenExpired, appErr.Code)
}

func TestParseTokenGarbage(t *testing.T) {
	setTestConfig(t, "test-secret", 60)
	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
