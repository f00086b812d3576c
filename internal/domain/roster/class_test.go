package roster

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClass_IsLateArrival(t *testing.T) {
	class, err := NewClass(uuid.New(), "Algebra II", "15:00", "17:00")
	require.NoError(t, err)
	// default threshold: 10 minutes

	day := func(hh, mm int) time.Time {
		return time.Date(2026, 5, 4, hh, mm, 0, 0, time.UTC)
	}

	assert.False(t, class.IsLateArrival(day(14, 55)))
	assert.False(t, class.IsLateArrival(day(15, 10)))
	assert.True(t, class.IsLateArrival(day(15, 11)))
	assert.True(t, class.IsLateArrival(day(16, 0)))

	t.Run("no start time never marks late", func(t *testing.T) {
		openClass, err := NewClass(uuid.New(), "Self Study", "", "")
		require.NoError(t, err)
		assert.False(t, openClass.IsLateArrival(day(23, 59)))
	})
}

func TestNewClass(t *testing.T) {
	t.Run("rejects malformed times", func(t *testing.T) {
		_, err := NewClass(uuid.New(), "Physics", "3pm", "")
		assert.Error(t, err)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := NewClass(uuid.New(), "", "15:00", "17:00")
		assert.Error(t, err)
	})
}
