package repository

import (
	"admin-service/internal/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository handles session state in Redis. A session lives as long
// as its refresh token; refreshing an access token renews nothing here.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.UserSession) error
	GetSession(ctx context.Context, sessionID string) (*models.UserSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID int) error
	GetUserSessions(ctx context.Context, userID int) ([]*models.UserSession, error)
}

type sessionRepository struct {
	client     *redis.Client
	expiration time.Duration
}

func NewSessionRepository(client *redis.Client, expiration time.Duration) SessionRepository {
	return &sessionRepository{
		client:     client,
		expiration: expiration,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.UserSession) error {
	if session.ID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}
	if session.UserID <= 0 {
		return fmt.Errorf("user ID cannot be empty")
	}

	session.ExpiresAt = time.Now().Add(r.expiration)
	session.IsActive = true

	sessionData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := r.getSessionKey(session.ID)
	userSessionsKey := r.getUserSessionsKey(session.UserID)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey, sessionData, r.expiration)
	pipe.SAdd(ctx, userSessionsKey, session.ID)
	pipe.Expire(ctx, userSessionsKey, r.expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, sessionID string) (*models.UserSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID cannot be empty")
	}

	sessionKey := r.getSessionKey(sessionID)
	sessionData, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.UserSession
	if err := json.Unmarshal([]byte(sessionData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		// The stored stamp can lapse before the key TTL does. Drop the
		// leftovers inline; going through DeleteSession would re-read the
		// expired session and recurse.
		pipe := r.client.Pipeline()
		pipe.Del(ctx, sessionKey)
		pipe.SRem(ctx, r.getUserSessionsKey(session.UserID), sessionID)
		_, _ = pipe.Exec(ctx)
		return nil, ErrNotFound
	}

	return &session, nil
}

func (r *sessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID cannot be empty")
	}

	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		// Already gone or expired. Deleting a dead session is a no-op.
		return nil
	}

	sessionKey := r.getSessionKey(sessionID)
	userSessionsKey := r.getUserSessionsKey(session.UserID)

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey)
	pipe.SRem(ctx, userSessionsKey, sessionID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func (r *sessionRepository) DeleteUserSessions(ctx context.Context, userID int) error {
	if userID <= 0 {
		return fmt.Errorf("user ID cannot be empty")
	}

	userSessionsKey := r.getUserSessionsKey(userID)
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to get user sessions: %w", err)
	}
	if len(sessionIDs) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, sessionID := range sessionIDs {
		pipe.Del(ctx, r.getSessionKey(sessionID))
	}
	pipe.Del(ctx, userSessionsKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}

func (r *sessionRepository) GetUserSessions(ctx context.Context, userID int) ([]*models.UserSession, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	userSessionsKey := r.getUserSessionsKey(userID)
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return []*models.UserSession{}, nil
		}
		return nil, fmt.Errorf("failed to get user session IDs: %w", err)
	}

	sessions := make([]*models.UserSession, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		session, err := r.GetSession(ctx, sessionID)
		if err != nil {
			// Expired between SMembers and Get, skip it.
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *sessionRepository) getSessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *sessionRepository) getUserSessionsKey(userID int) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}
