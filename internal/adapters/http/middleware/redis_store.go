package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several kiosk/admin processes can share them.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ SessionStore = (*RedisStore)(nil)

// NewRedisStore creates a store on rdb whose entries expire after ttl.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string { return "gymdesk:sess:" + id }

// Create stores a new anonymous session.
func (rs *RedisStore) Create(ctx context.Context) (Session, error) {
	id, err := generateToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{ID: id, CreatedAt: time.Now()}
	if err := rs.Save(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Get loads a session. Redis expiry enforces the TTL.
func (rs *RedisStore) Get(ctx context.Context, id string) (Session, bool) {
	b, err := rs.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("session_load_failed", "error", err)
		}
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		slog.Warn("session_decode_failed", "error", err)
		return Session{}, false
	}
	s.ID = id
	return s, true
}

// Save writes the session, keeping the remaining lifetime measured from CreatedAt.
func (rs *RedisStore) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := rs.ttl - time.Since(s.CreatedAt)
	if ttl <= 0 {
		return rs.Delete(ctx, s.ID)
	}
	return rs.rdb.Set(ctx, sessionKey(s.ID), b, ttl).Err()
}

// Delete removes a session.
func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	return rs.rdb.Del(ctx, sessionKey(id)).Err()
}
