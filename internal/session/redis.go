package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-staff-console/internal/model"
)

const redisSessionKey = "staff-console:session"

// RedisStore keeps the session tuple as one JSON blob under a single key,
// which makes every write atomic for free. The key carries a TTL matched to
// the session expiry so Redis discards stale credentials on its own.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Load(ctx context.Context) (model.Session, bool, error) {
	raw, err := s.client.Get(ctx, redisSessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, false, nil
	}
	if err != nil {
		return model.Session{}, false, fmt.Errorf("load session from redis: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return model.Session{}, false, nil
	}

	if !sess.Valid() {
		return model.Session{}, false, nil
	}

	return sess, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sess model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return model.ErrSessionExpired
	}

	if err := s.client.Set(ctx, redisSessionKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisSessionKey).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}

	return nil
}
