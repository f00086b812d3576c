package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/backend/internal/domain/notification"
)

type countingSource struct {
	calls int
	creds notification.Credentials
	err   error
}

func (s *countingSource) Resolve(context.Context, uuid.UUID) (notification.Credentials, error) {
	s.calls++
	return s.creds, s.err
}

func TestCredentialCache_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("caches within TTL", func(t *testing.T) {
		source := &countingSource{creds: notification.Credentials{APIKey: "k", APISecret: "s", SenderNumber: "0212345678"}}
		cache := NewCredentialCache(source, time.Minute, 4)
		centerID := uuid.New()

		first, err := cache.Resolve(ctx, centerID)
		require.NoError(t, err)
		second, err := cache.Resolve(ctx, centerID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("expired entry reloads from source", func(t *testing.T) {
		source := &countingSource{creds: notification.Credentials{APIKey: "k"}}
		cache := NewCredentialCache(source, time.Nanosecond, 4)
		centerID := uuid.New()

		_, err := cache.Resolve(ctx, centerID)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
		_, err = cache.Resolve(ctx, centerID)
		require.NoError(t, err)

		assert.Equal(t, 2, source.calls)
	})

	t.Run("evicts least recently used beyond capacity", func(t *testing.T) {
		source := &countingSource{creds: notification.Credentials{APIKey: "k"}}
		cache := NewCredentialCache(source, time.Minute, 2)

		a, b, c := uuid.New(), uuid.New(), uuid.New()
		for _, id := range []uuid.UUID{a, b, c} {
			_, err := cache.Resolve(ctx, id)
			require.NoError(t, err)
		}
		assert.Equal(t, 2, cache.Len())

		// a was evicted, so resolving it again hits the source
		_, err := cache.Resolve(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, 4, source.calls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		source := &countingSource{err: assert.AnError}
		cache := NewCredentialCache(source, time.Minute, 4)
		centerID := uuid.New()

		_, err := cache.Resolve(ctx, centerID)
		require.Error(t, err)
		_, err = cache.Resolve(ctx, centerID)
		require.Error(t, err)

		assert.Equal(t, 2, source.calls)
		assert.Zero(t, cache.Len())
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		source := &countingSource{creds: notification.Credentials{APIKey: "k"}}
		cache := NewCredentialCache(source, time.Minute, 4)
		centerID := uuid.New()

		_, err := cache.Resolve(ctx, centerID)
		require.NoError(t, err)
		cache.Invalidate(centerID)
		_, err = cache.Resolve(ctx, centerID)
		require.NoError(t, err)

		assert.Equal(t, 2, source.calls)
	})
}
