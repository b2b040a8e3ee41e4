package auth

import (
	"testing"
	"time"

	"github.com/apex/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 8 * time.Hour,
		Issuer:          "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret",
		TokenExpiration: 8 * time.Hour,
		Issuer:          "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.TokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(uuid.New(), "admin", "ADMIN")

	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidateToken_Success(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "admin", "ADMIN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: -1 * time.Hour, // Already expired
		Issuer:          "test-issuer",
	}
	svc := NewJWTService(cfg)

	token, err := svc.GenerateToken(uuid.New(), "admin", "ADMIN")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.Value)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_DifferentSecret(t *testing.T) {
	svc1 := newTestJWTService()

	token, err := svc1.GenerateToken(uuid.New(), "admin", "ADMIN")
	require.NoError(t, err)

	cfg := config.JWTConfig{
		Secret:          "different-secret-key-32-chars!",
		TokenExpiration: 8 * time.Hour,
		Issuer:          "test-issuer",
	}
	svc2 := NewJWTService(cfg)

	_, err = svc2.ValidateToken(token.Value)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_GetUserUUID(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "admin", "ADMIN")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.Value)
	require.NoError(t, err)

	userUUID, err := claims.GetUserUUID()

	require.NoError(t, err)
	assert.Equal(t, userID, userUUID)
}
