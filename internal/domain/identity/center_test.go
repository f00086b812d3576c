package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCenter(t *testing.T) {
	t.Run("creates active center with defaults", func(t *testing.T) {
		center, err := NewCenter("gangnam-01", "Gangnam Learning Lab")
		require.NoError(t, err)

		assert.Equal(t, "GANGNAM-01", center.Code)
		assert.True(t, center.IsActive())
		assert.Equal(t, 60, center.Config.AttendanceRetainDays)
		assert.Equal(t, 365, center.Config.WorkRecordRetainDays)
		assert.NotNil(t, center.Location())
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		for _, code := range []string{"", "has space", "bad/char"} {
			_, err := NewCenter(code, "Name")
			assert.Error(t, err, "code %q", code)
		}
	})
}

func TestCenter_UpdateConfig(t *testing.T) {
	center, err := NewCenter("c1", "Center One")
	require.NoError(t, err)

	t.Run("rejects unknown timezone", func(t *testing.T) {
		cfg := center.Config
		cfg.Timezone = "Mars/Olympus"
		assert.Error(t, center.UpdateConfig(cfg))
	})

	t.Run("rejects non-positive retention", func(t *testing.T) {
		cfg := center.Config
		cfg.AttendanceRetainDays = 0
		assert.Error(t, center.UpdateConfig(cfg))
	})

	t.Run("accepts valid config", func(t *testing.T) {
		cfg := center.Config
		cfg.Timezone = "America/New_York"
		require.NoError(t, center.UpdateConfig(cfg))
		assert.Equal(t, "America/New_York", center.Location().String())
	})
}
