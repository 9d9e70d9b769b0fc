package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserSession is stored in Redis only, it never crosses the HTTP boundary.
// The token hashes are part of the stored state on purpose.
type UserSession struct {
	ID               string    `json:"id"`
	UserID           int       `json:"user_id"`
	TokenHash        string    `json:"token_hash"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	DeviceInfo       *string   `json:"device_info"`
	IPAddress        *string   `json:"ip_address"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	IsActive         bool      `json:"is_active"`
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens. Roles and
// Permissions are only populated on access tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int      `json:"user_id"`
	Email       string   `json:"email"`
	TokenType   string   `json:"token_type"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
