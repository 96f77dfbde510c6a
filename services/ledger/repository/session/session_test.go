package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRedis(t *testing.T) (*SessionRepo, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionRepo(&database.RedisClient{Client: client}), mr
}

func newSession(userID uuid.UUID) *models.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		RefreshID: uuid.New(),
		UserAgent: "go-test",
		ClientIP:  "10.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestCreateAndGetSession(t *testing.T) {
	repo, mr := setupMockRedis(t)
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, repo.CreateSession(ctx, session))

	got, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.RefreshID, got.RefreshID)
	assert.Equal(t, "go-test", got.UserAgent)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	ttl := mr.TTL(sessionKey(session.ID))
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl %s", ttl)

	// expiry revokes the session
	mr.FastForward(2 * time.Hour)
	_, err = repo.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, models.ErrSessionRevoked)
}

func TestRotateRefreshID(t *testing.T) {
	repo, _ := setupMockRedis(t)
	ctx := context.Background()

	session := newSession(uuid.New())
	require.NoError(t, repo.CreateSession(ctx, session))

	next := uuid.New()
	rotated, err := repo.RotateRefreshID(ctx, session.ID, session.RefreshID, next, session.ExpiresAt.Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, next, rotated.RefreshID)
	assert.Equal(t, session.RefreshID, rotated.PreviousRefreshID)

	stored, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, next, stored.RefreshID)

	// replaying the old refresh id is rejected
	_, err = repo.RotateRefreshID(ctx, session.ID, session.RefreshID, uuid.New(), session.ExpiresAt, 0)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	_, err = repo.RotateRefreshID(ctx, uuid.New(), session.RefreshID, uuid.New(), session.ExpiresAt, 0)
	assert.ErrorIs(t, err, models.ErrSessionRevoked)
}

func TestRotateRefreshID_GraceWindow(t *testing.T) {
	repo, _ := setupMockRedis(t)
	ctx := context.Background()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return clock }

	session := newSession(uuid.New())
	require.NoError(t, repo.CreateSession(ctx, session))

	next := uuid.New()
	_, err := repo.RotateRefreshID(ctx, session.ID, session.RefreshID, next, session.ExpiresAt, 10*time.Second)
	require.NoError(t, err)

	// a parallel refresh with the same token gets the rotated session untouched
	clock = clock.Add(3 * time.Second)
	again, err := repo.RotateRefreshID(ctx, session.ID, session.RefreshID, uuid.New(), session.ExpiresAt, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, next, again.RefreshID)

	stored, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, next, stored.RefreshID)

	// past the window the old token counts as reuse
	clock = clock.Add(10 * time.Second)
	_, err = repo.RotateRefreshID(ctx, session.ID, session.RefreshID, uuid.New(), session.ExpiresAt, 10*time.Second)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)

	// an id older than the previous one is never accepted
	_, err = repo.RotateRefreshID(ctx, session.ID, next, uuid.New(), session.ExpiresAt, 10*time.Second)
	require.NoError(t, err)
	_, err = repo.RotateRefreshID(ctx, session.ID, session.RefreshID, uuid.New(), session.ExpiresAt, 10*time.Second)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestDeleteSessions(t *testing.T) {
	repo, mr := setupMockRedis(t)
	ctx := context.Background()

	userID := uuid.New()
	first, second, third := newSession(userID), newSession(userID), newSession(userID)
	for _, s := range []*models.Session{first, second, third} {
		require.NoError(t, repo.CreateSession(ctx, s))
	}

	require.NoError(t, repo.DeleteSession(ctx, first))
	_, err := repo.GetSession(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrSessionRevoked)

	members, err := mr.Members(userSessionsKey(userID))
	require.NoError(t, err)
	assert.Len(t, members, 2)

	revoked, err := repo.DeleteUserSessions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, revoked)

	_, err = repo.GetSession(ctx, third.ID)
	assert.ErrorIs(t, err, models.ErrSessionRevoked)
	assert.False(t, mr.Exists(userSessionsKey(userID)))

	// nothing left to revoke
	revoked, err = repo.DeleteUserSessions(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, revoked)
}
