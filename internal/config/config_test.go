package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifetiles/internal/schedule"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LIFETILES_DB", "")
	t.Setenv("LIFETILES_UTC_OFFSET_MIN", "")
	t.Setenv("LIFETILES_RECOMPUTE_TIME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "lifetiles.db", cfg.DatabaseURL)
	assert.Equal(t, schedule.DefaultOffsetMinutes, cfg.OffsetMinutes)
	assert.Equal(t, "00:00", cfg.RecomputeTime)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LIFETILES_DB", "/var/lib/lifetiles/data.db")
	t.Setenv("LIFETILES_UTC_OFFSET_MIN", "-300")
	t.Setenv("LIFETILES_RECOMPUTE_TIME", "04:30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lifetiles/data.db", cfg.DatabaseURL)
	assert.Equal(t, -300, cfg.OffsetMinutes)
	assert.Equal(t, "04:30", cfg.RecomputeTime)
}

func TestLoadBadOffsetFallsBack(t *testing.T) {
	t.Setenv("LIFETILES_UTC_OFFSET_MIN", "eight hours")
	t.Setenv("LIFETILES_RECOMPUTE_TIME", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, schedule.DefaultOffsetMinutes, cfg.OffsetMinutes)
}

func TestLoadBadRecomputeTime(t *testing.T) {
	for _, bad := range []string{"24:00", "12:60", "noon", "9"} {
		t.Setenv("LIFETILES_RECOMPUTE_TIME", bad)
		_, err := Load()
		assert.Error(t, err, bad)
	}
}
