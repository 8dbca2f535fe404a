package env

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 100},
		{name: "valid", value: "25", want: 25},
		{name: "not a number", value: "lots", want: 100},
		{name: "zero", value: "0", want: 100},
		{name: "negative", value: "-3", want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BATCH_SIZE", tt.value)
			assert.Equal(t, tt.want, Int("BATCH_SIZE", 100))
		})
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("DEDUP_TTL", "48h")
	assert.Equal(t, 48*time.Hour, Duration("DEDUP_TTL", time.Hour))

	t.Setenv("DEDUP_TTL", "two days")
	assert.Equal(t, time.Hour, Duration("DEDUP_TTL", time.Hour))
}

func TestBool(t *testing.T) {
	t.Setenv("STRICT_MODE", "true")
	assert.True(t, Bool("STRICT_MODE", false))

	t.Setenv("STRICT_MODE", "maybe")
	assert.False(t, Bool("STRICT_MODE", false))
}

func TestList(t *testing.T) {
	t.Setenv("ENABLED_SOURCES", " newsapi, ,guardian ,")
	assert.Equal(t, []string{"newsapi", "guardian"}, List("ENABLED_SOURCES", nil))

	t.Setenv("ENABLED_SOURCES", "")
	assert.Equal(t, []string{"rss"}, List("ENABLED_SOURCES", []string{"rss"}))
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, LogLevel())

	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, slog.LevelInfo, LogLevel())
}
