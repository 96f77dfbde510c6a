// Package session stores login sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/piresc/bahikhata/internal/pkg/constants"
	"github.com/piresc/bahikhata/internal/pkg/database"
	"github.com/piresc/bahikhata/internal/pkg/logger"
	"github.com/piresc/bahikhata/internal/pkg/models"
)

// SessionRepo keeps one JSON document per session plus a set of session IDs per user
type SessionRepo struct {
	redisClient *database.RedisClient
	now         func() time.Time
}

// NewSessionRepo creates a new Redis session repository
func NewSessionRepo(redisClient *database.RedisClient) *SessionRepo {
	return &SessionRepo{redisClient: redisClient, now: time.Now}
}

func sessionKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.KeySession, id)
}

func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf(constants.KeyUserSessions, userID)
}

func ttlUntil(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

// CreateSession stores the session until its refresh token expires
func (r *SessionRepo) CreateSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := ttlUntil(session.ExpiresAt)
	_, err = r.redisClient.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), data, ttl)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID.String())
		pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession loads a live session
func (r *SessionRepo) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	raw, err := r.redisClient.Get(ctx, sessionKey(id))
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("session %s: %w", id, models.ErrSessionRevoked)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// maxRotateAttempts bounds the WATCH retries when refreshes race on one session
const maxRotateAttempts = 3

// RotateRefreshID replaces the refresh id under WATCH. A current id that was
// rotated away less than grace ago is a concurrent refresh of the same token and
// gets the session back unchanged. Any other mismatch yields
// models.ErrTokenInvalid, a missing session models.ErrSessionRevoked.
func (r *SessionRepo) RotateRefreshID(ctx context.Context, id, current, next uuid.UUID, expiresAt time.Time, grace time.Duration) (*models.Session, error) {
	key := sessionKey(id)
	var rotated models.Session

	rotate := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return fmt.Errorf("session %s: %w", id, models.ErrSessionRevoked)
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		rotated = models.Session{}
		if err := json.Unmarshal(raw, &rotated); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		now := r.now()
		if rotated.RefreshID != current {
			if rotated.PreviousRefreshID == current && now.Sub(rotated.RotatedAt) <= grace {
				return nil
			}
			return fmt.Errorf("refresh token already used for session %s: %w", id, models.ErrTokenInvalid)
		}

		rotated.PreviousRefreshID = current
		rotated.RefreshID = next
		rotated.RotatedAt = now
		rotated.ExpiresAt = expiresAt
		data, err := json.Marshal(&rotated)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		ttl := ttlUntil(expiresAt)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			pipe.Expire(ctx, userSessionsKey(rotated.UserID), ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxRotateAttempts; attempt++ {
		err := r.redisClient.Client.Watch(ctx, rotate, key)
		if err == nil {
			return &rotated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("session %s changed concurrently: %w", id, models.ErrSessionRevoked)
}

// DeleteSession revokes one session
func (r *SessionRepo) DeleteSession(ctx context.Context, session *models.Session) error {
	_, err := r.redisClient.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.SRem(ctx, userSessionsKey(session.UserID), session.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions revokes every session of the user and reports how many were live
func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int, error) {
	indexKey := userSessionsKey(userID)

	ids, err := r.redisClient.Client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(constants.KeySession, id))
	}

	var revoked int64
	if len(keys) > 0 {
		revoked, err = r.redisClient.Client.Del(ctx, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to delete sessions: %w", err)
		}
	}

	if err := r.redisClient.Delete(ctx, indexKey); err != nil {
		logger.WarnCtx(ctx, "Failed to remove session index",
			logger.String("user_id", userID.String()),
			logger.ErrorField(err))
	}
	return int(revoked), nil
}
