package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"admin-service/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRepoMiniredis(t *testing.T, expiration time.Duration) (SessionRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewSessionRepository(client, expiration), mr
}

func testSession(id string, userID int) *models.UserSession {
	return &models.UserSession{
		ID:               id,
		UserID:           userID,
		TokenHash:        "access-hash",
		RefreshTokenHash: "refresh-hash",
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, testSession("sess-1", 1)))

	session, err := repo.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, session.UserID)
	assert.Equal(t, "access-hash", session.TokenHash)
	assert.Equal(t, "refresh-hash", session.RefreshTokenHash)
	assert.True(t, session.IsActive)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestCreateSessionValidatesInput(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	assert.Error(t, repo.CreateSession(ctx, testSession("", 1)))
	assert.Error(t, repo.CreateSession(ctx, testSession("sess-1", 0)))
}

func TestGetSessionMissingIsNotFound(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)

	_, err := repo.GetSession(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSessionExpiredStampWithLiveKeyIsCleanedUp(t *testing.T) {
	repo, mr := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	// The stamp inside the payload can lapse while the Redis key is still
	// present; the lookup must clean up and report not found, not recurse.
	stale := &models.UserSession{
		ID:        "sess-stale",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
		IsActive:  true,
	}
	payload, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, mr.Set("session:sess-stale", string(payload)))
	_, err = mr.SAdd("user_sessions:1", "sess-stale", "sess-other")
	require.NoError(t, err)

	_, err = repo.GetSession(ctx, "sess-stale")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.False(t, mr.Exists("session:sess-stale"))
	member, err := mr.SIsMember("user_sessions:1", "sess-stale")
	require.NoError(t, err)
	assert.False(t, member)
}

func TestGetSessionExpiredKeyIsNotFound(t *testing.T) {
	repo, mr := newSessionRepoMiniredis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, testSession("sess-1", 1)))

	mr.FastForward(2 * time.Minute)

	_, err := repo.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSessionRemovesSetMembership(t *testing.T) {
	repo, mr := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, testSession("sess-1", 1)))
	require.NoError(t, repo.CreateSession(ctx, testSession("sess-2", 1)))

	require.NoError(t, repo.DeleteSession(ctx, "sess-1"))

	_, err := repo.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	members, err := mr.SMembers("user_sessions:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sess-2"}, members)
}

func TestDeleteSessionMissingIsNoOp(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)

	assert.NoError(t, repo.DeleteSession(context.Background(), "unknown"))
}

func TestDeleteUserSessionsDropsAllDevices(t *testing.T) {
	repo, mr := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, testSession("sess-1", 1)))
	require.NoError(t, repo.CreateSession(ctx, testSession("sess-2", 1)))
	require.NoError(t, repo.CreateSession(ctx, testSession("sess-3", 2)))

	require.NoError(t, repo.DeleteUserSessions(ctx, 1))

	_, err := repo.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetSession(ctx, "sess-2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("user_sessions:1"))

	session, err := repo.GetSession(ctx, "sess-3")
	require.NoError(t, err)
	assert.Equal(t, 2, session.UserID)
}

func TestDeleteUserSessionsNoSessionsIsNoOp(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)

	assert.NoError(t, repo.DeleteUserSessions(context.Background(), 1))
}

func TestGetUserSessionsListsOnlyThatUser(t *testing.T) {
	repo, _ := newSessionRepoMiniredis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.CreateSession(ctx, testSession("sess-1", 1)))
	require.NoError(t, repo.CreateSession(ctx, testSession("sess-2", 1)))
	require.NoError(t, repo.CreateSession(ctx, testSession("sess-3", 2)))

	sessions, err := repo.GetUserSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, 1, session.UserID)
	}
}
