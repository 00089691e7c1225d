package common

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"under a minute", 30 * time.Second, "< 1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"hours and minutes", 3*time.Hour + 45*time.Minute, "3h 45m"},
		{"exact hours", 2 * time.Hour, "2h"},
		{"days", 2*24*time.Hour + 14*time.Hour + 30*time.Minute, "2d 14h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestFormatDiscordHelpers(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
	assert.Equal(t, "https://discord.com/channels/1/2/3", FormatDiscordMessageLink(1, 2, 3))
	assert.Equal(t, "<@42>", GetUserMention(42))
	assert.Equal(t, "<@&7>", GetRoleMention(7))
}

func TestTruncateField(t *testing.T) {
	t.Parallel()

	short := "1. Twins - Lv 12"
	assert.Equal(t, short, TruncateField(short))

	long := strings.Repeat("é", MaxEmbedFieldValue+10)
	truncated := TruncateField(long)
	assert.Len(t, []rune(truncated), MaxEmbedFieldValue)
	assert.True(t, strings.HasSuffix(truncated, "…"))
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", TruncateText("abc", 3))
	assert.Equal(t, "ab…", TruncateText("abcd", 3))
}
