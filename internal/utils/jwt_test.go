package utils

import (
	"testing"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "safetrade-test",
	}}
}

func testUser() *models.User {
	return &models.User{
		Base:         models.Base{ID: uuid.New()},
		Phone:        "0901234567",
		Role:         models.RoleBuyer,
		TokenVersion: 3,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testConfig())
	user := testUser()

	pair, err := m.GenerateTokens(user)
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleBuyer, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)

	refresh, err := m.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, refresh.TokenType)
}

func TestTokenManager_RejectsSwappedTokens(t *testing.T) {
	m := NewTokenManager(testConfig())
	pair, err := m.GenerateTokens(testUser())
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = m.ParseRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testConfig())
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	pair, err := m.GenerateTokens(testUser())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "654321"))
}
