package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-access-secret-access",
		RefreshSecret:          "refresh-secret-refresh-secret-refresh",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "vendora-test",
	})
}

func testInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   "user",
	}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("valid token round-trips claims", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Email, claims.Email)
		assert.Equal(t, input.Role, claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "vendora-test", claims.Issuer)

		id, err := claims.SubjectID()
		require.NoError(t, err)
		assert.Equal(t, input.UserID, id)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects refresh token as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		// signed with the refresh secret, so it fails validation outright
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "completely-different-secret-value",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
		})
		otherPair, err := other.GenerateTokenPair(testInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(otherPair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, input.UserID.String(), claims.UserID)
	})

	t.Run("rejects access token as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.Error(t, err)
	})
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-access-secret-access",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
	})

	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshSecretFallsBackToAccessSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "only-one-secret-configured-here",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
	})

	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}
