package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/postgres")
	t.Setenv("GUILD_ID", "4242")
	t.Setenv("API_ADDR", ":8080")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("STALE_PENDING_AFTER", "")
	t.Setenv("API_GUILD_ID", "")

	cfg, err := load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.StalePendingAfter)
	assert.Equal(t, int64(4242), cfg.APIGuildID)
	assert.Equal(t, "REGISTRATIONS", cfg.ReviewCategoryName)
	assert.Equal(t, "Participant", cfg.ParticipantRoleName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DATABASE_NAME", "tournament")
	t.Setenv("API_GUILD_ID", "777")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("REVIEW_CATEGORY_NAME", "SIGNUPS")

	cfg, err := load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(777), cfg.APIGuildID)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "SIGNUPS", cfg.ReviewCategoryName)
	assert.Equal(t, "postgres://localhost:5432/tournament?sslmode=disable", cfg.GetDatabaseURL())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"DISCORD_TOKEN": "", "DATABASE_URL": "postgres://x"}},
		{"missing database", map[string]string{"DISCORD_TOKEN": "t", "DATABASE_URL": ""}},
		{"bad ttl", map[string]string{"DISCORD_TOKEN": "t", "DATABASE_URL": "postgres://x", "SESSION_TTL": "soon"}},
		{"bad api guild", map[string]string{"DISCORD_TOKEN": "t", "DATABASE_URL": "postgres://x", "API_GUILD_ID": "abc"}},
		{"api without guild", map[string]string{"DISCORD_TOKEN": "t", "DATABASE_URL": "postgres://x", "GUILD_ID": "", "API_GUILD_ID": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "")
			t.Setenv("API_ADDR", ":8080")
			t.Setenv("SESSION_TTL", "")
			t.Setenv("API_GUILD_ID", "")
			t.Setenv("GUILD_ID", "1")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_APIDisabled(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("API_ADDR", "")
	t.Setenv("GUILD_ID", "")
	t.Setenv("API_GUILD_ID", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := load()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIAddr)
	assert.Zero(t, cfg.APIGuildID)
}

func TestGet_UsesTestConfig(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	custom := NewTestConfig()
	custom.ModeratorRoleName = "Judges"
	SetTestConfig(custom)

	assert.Same(t, custom, Get())
}
