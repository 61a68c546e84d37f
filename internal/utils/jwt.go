package utils

import (
	"errors"
	"time"

	"safetrade/internal/config"
	"safetrade/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenPair is returned by login, register and refresh.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// TokenManager signs and verifies access and refresh tokens with separate secrets.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.JWT.Secret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTTL,
		refreshTTL:    cfg.JWT.RefreshTTL,
		issuer:        cfg.JWT.Issuer,
		now:           time.Now,
	}
}

// GenerateTokens generates an access token and a refresh token for user.
func (m *TokenManager) GenerateTokens(user *models.User) (TokenPair, error) {
	now := m.now()

	access, err := m.sign(user, models.TokenTypeAccess, now, m.accessTTL, m.accessSecret)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(user, models.TokenTypeRefresh, now, m.refreshTTL, m.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

func (m *TokenManager) sign(user *models.User, tokenType string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   user.ID.String(),
		},
		UserID:       user.ID,
		Phone:        user.Phone,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		TokenType:    tokenType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *TokenManager) ParseAccessToken(tokenStr string) (*models.UserClaims, error) {
	return m.parse(tokenStr, models.TokenTypeAccess, m.accessSecret)
}

func (m *TokenManager) ParseRefreshToken(tokenStr string) (*models.UserClaims, error) {
	return m.parse(tokenStr, models.TokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) parse(tokenStr, tokenType string, secret []byte) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
