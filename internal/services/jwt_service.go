package services

import (
	"fmt"
	"time"

	"admin-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTService struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewJWTService(secret string, accessTokenTTL, refreshTokenTTL time.Duration) *JWTService {
	return &JWTService{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// GenerateTokenPair issues an access token carrying the user's role names
// and permission codes, plus a refresh token carrying identity only. Both
// share the session ID as JWT ID so a revoked session kills both.
func (s *JWTService) GenerateTokenPair(user *models.User, profile *models.AccessProfile, sessionID string) (string, string, error) {
	now := time.Now()

	accessClaims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    "admin-service",
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
		UserID:      user.ID,
		Email:       user.Email,
		TokenType:   models.TokenTypeAccess,
		Roles:       profile.Roles,
		Permissions: profile.Permissions,
	}
	accessToken, err := s.sign(accessClaims)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    "admin-service",
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTokenTTL)),
		},
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: models.TokenTypeRefresh,
	}
	refreshToken, err := s.sign(refreshClaims)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// NewSessionID returns a fresh identifier used to correlate a token pair
// with its stored session.
func (s *JWTService) NewSessionID() string {
	return uuid.NewString()
}

// VerifyAccessToken validates signature, expiry and token type.
func (s *JWTService) VerifyAccessToken(tokenString string) (*models.Claims, error) {
	return s.verify(tokenString, models.TokenTypeAccess)
}

// VerifyRefreshToken validates signature, expiry and token type.
func (s *JWTService) VerifyRefreshToken(tokenString string) (*models.Claims, error) {
	return s.verify(tokenString, models.TokenTypeRefresh)
}

func (s *JWTService) sign(claims models.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) verify(tokenString, expectedType string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&models.Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}

	return claims, nil
}
