package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"admin-service/internal/models"
	"admin-service/internal/repository"
)

// SessionService provides business logic for session management
type SessionService struct {
	sessionRepo repository.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepository) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
	}
}

// HashToken fingerprints a token for storage. Raw tokens never go to Redis.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CreateSession stores a new session under the given ID.
func (s *SessionService) CreateSession(ctx context.Context, sessionID string, userID int, accessToken, refreshToken string, deviceInfo, ipAddress *string, expiresAt time.Time) (*models.UserSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID cannot be empty")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	session := &models.UserSession{
		ID:               sessionID,
		UserID:           userID,
		TokenHash:        HashToken(accessToken),
		RefreshTokenHash: HashToken(refreshToken),
		DeviceInfo:       deviceInfo,
		IPAddress:        ipAddress,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
		IsActive:         true,
	}

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession checks that a session exists and is active.
func (s *SessionService) ValidateSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	if !session.IsActive {
		return nil, fmt.Errorf("session is inactive")
	}

	return session, nil
}

// RotateSession replaces the token hashes of an existing session after a
// refresh, keeping the session ID stable.
func (s *SessionService) RotateSession(ctx context.Context, sessionID, accessToken, refreshToken string, expiresAt time.Time) error {
	session, err := s.ValidateSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("cannot rotate session: %w", err)
	}

	session.TokenHash = HashToken(accessToken)
	session.RefreshTokenHash = HashToken(refreshToken)
	session.ExpiresAt = expiresAt

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	return nil
}

// InvalidateSession removes a single session.
func (s *SessionService) InvalidateSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	return s.sessionRepo.DeleteSession(ctx, sessionID)
}

// InvalidateUserSessions removes all sessions for a user, e.g. on account
// deactivation or logout from all devices.
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID int) error {
	return s.sessionRepo.DeleteUserSessions(ctx, userID)
}

// GetUserSessions lists all live sessions for a user.
func (s *SessionService) GetUserSessions(ctx context.Context, userID int) ([]*models.UserSession, error) {
	return s.sessionRepo.GetUserSessions(ctx, userID)
}
