package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retry with exponential backoff", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			CenterID:   uuid.New(),
			Status:     OutboxStatusProcessing,
			MaxRetries: 5,
		}

		entry.MarkFailed("gateway timeout")

		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "gateway timeout", entry.LastError)
		assert.NotNil(t, entry.NextRetryAt)
	})

	t.Run("moves to dead letter after max retries", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:         uuid.New(),
			CenterID:   uuid.New(),
			Status:     OutboxStatusFailed,
			RetryCount: 4,
			MaxRetries: 5,
		}

		entry.MarkFailed("still failing")

		assert.Equal(t, OutboxStatusDead, entry.Status)
		assert.Equal(t, 5, entry.RetryCount)
		assert.True(t, entry.IsDead())
	})
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter entry for retry", func(t *testing.T) {
		entry := &OutboxEntry{
			ID:          uuid.New(),
			CenterID:    uuid.New(),
			EventID:     uuid.New(),
			EventType:   "TestEvent",
			AggregateID: uuid.New(),
			Status:      OutboxStatusDead,
			RetryCount:  5,
			MaxRetries:  5,
			LastError:   "some error",
			CreatedAt:   time.Now().Add(-time.Hour),
			UpdatedAt:   time.Now().Add(-time.Minute),
		}

		err := entry.ResetForRetry()
		assert.NoError(t, err)
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
		assert.Empty(t, entry.LastError)
		assert.Nil(t, entry.NextRetryAt)
	})

	t.Run("fails for non-dead entry", func(t *testing.T) {
		for _, status := range []OutboxStatus{
			OutboxStatusPending,
			OutboxStatusProcessing,
			OutboxStatusSent,
			OutboxStatusFailed,
		} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.Error(t, entry.ResetForRetry(), "status %s", status)
		}
	})
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	t.Run("accepts pending and failed entries", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusFailed} {
			entry := &OutboxEntry{ID: uuid.New(), Status: status}
			assert.NoError(t, entry.MarkProcessing())
			assert.Equal(t, OutboxStatusProcessing, entry.Status)
		}
	})

	t.Run("rejects sent entries", func(t *testing.T) {
		entry := &OutboxEntry{ID: uuid.New(), Status: OutboxStatusSent}
		assert.Error(t, entry.MarkProcessing())
	})
}
