package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests environment driven configuration.
//
// WHY: Deployments configure the service exclusively through environment
// variables, so defaults and overrides both need to hold.
func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "DB_PATH", "CORS_ALLOWED_ORIGINS",
			"LOG_LEVEL", "LOG_PRETTY", "SNAPSHOT_SCHEDULE", "SCHEDULER_ENABLED"} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "localhost:5001", cfg.Server.Addr)
		assert.Equal(t, "./data/fund_position_manager.db", cfg.Database.Path)
		assert.Equal(t, []string{"http://localhost:3000", "http://localhost"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Pretty)
		assert.True(t, cfg.Scheduler.Enabled)
		assert.Equal(t, DefaultSnapshotSchedule, cfg.Scheduler.SnapshotSchedule)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("DB_PATH", "/tmp/test.db")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_PRETTY", "true")
		t.Setenv("SNAPSHOT_SCHEDULE", "0 30 21 * * *")
		t.Setenv("SCHEDULER_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
		assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.Equal(t, "0 30 21 * * *", cfg.Scheduler.SnapshotSchedule)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("LOG_PRETTY", "sometimes")

		_, err := Load()
		assert.Error(t, err)
	})
}
