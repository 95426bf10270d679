package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"go-staff-console/internal/model"
)

func newRedisStore(t *testing.T, now time.Time) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	store.now = func() time.Time { return now }
	return store, mr
}

func TestRedisStore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	sample := model.Session{
		Token:     "tok",
		ExpiresAt: now.Add(time.Hour),
		RegNo:     "EMP042",
		RoleID:    2,
	}

	t.Run("round trips the full tuple", func(t *testing.T) {
		store, _ := newRedisStore(t, now)

		_, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.False(t, present)

		require.NoError(t, store.Save(context.Background(), sample))

		loaded, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.True(t, present)
		require.Equal(t, sample.RegNo, loaded.RegNo)
		require.True(t, sample.ExpiresAt.Equal(loaded.ExpiresAt))
	})

	t.Run("refuses to save an already expired tuple", func(t *testing.T) {
		store, _ := newRedisStore(t, now)

		expired := sample
		expired.ExpiresAt = now.Add(-time.Minute)
		require.ErrorIs(t, store.Save(context.Background(), expired), model.ErrSessionExpired)
	})

	t.Run("key expires with the session", func(t *testing.T) {
		store, mr := newRedisStore(t, now)
		require.NoError(t, store.Save(context.Background(), sample))

		mr.FastForward(time.Hour + time.Minute)

		_, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.False(t, present)
	})

	t.Run("clear removes the tuple", func(t *testing.T) {
		store, _ := newRedisStore(t, now)
		require.NoError(t, store.Save(context.Background(), sample))
		require.NoError(t, store.Clear(context.Background()))

		_, present, err := store.Load(context.Background())
		require.NoError(t, err)
		require.False(t, present)
	})
}
