package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Scoring.UrgentBelow)
	assert.Equal(t, 90, cfg.Scoring.FriendlyAt)
	assert.Equal(t, 30, cfg.Anthropic.TimeoutSecs)
	assert.Equal(t, 5, cfg.Dispatch.Concurrency)
	assert.Equal(t, 10.0, cfg.Dispatch.RatePerSec)
	assert.Equal(t, 3, cfg.Nudge.MaxLevel)
	assert.Equal(t, 2, cfg.Nudge.CooldownDays)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "nudge_history.db", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Pipeline.RecordConcurrency)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.NotEmpty(t, cfg.Outreach.FormURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NUDGE_SCORING_URGENT_BELOW", "60")
	t.Setenv("NUDGE_STORE_DRIVER", "postgres")
	t.Setenv("NUDGE_OUTREACH_FROM_NAME", "Campus Office")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Scoring.UrgentBelow)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "Campus Office", cfg.Outreach.FromName)
}
