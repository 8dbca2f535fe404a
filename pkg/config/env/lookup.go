package env

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/stringsutil"
)

// String returns the variable or fallback when it is unset or blank.
func String(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Int parses a positive integer, falling back on missing or invalid values.
func Int(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		slog.Warn("Invalid integer environment variable, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}

// Bool parses a boolean, falling back on missing or invalid values.
func Bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Invalid boolean environment variable, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return b
}

// Duration parses a Go duration such as "168h", falling back on missing, invalid
// or non-positive values.
func Duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration environment variable, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

// List splits a comma separated variable, dropping blank entries.
func List(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return stringsutil.SplitList(raw)
}

// LogLevel reads LOG_LEVEL (debug, info, warn, error).
func LogLevel() slog.Level {
	var level slog.Level
	raw := String("LOG_LEVEL", "info")
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		slog.Warn("Invalid LOG_LEVEL, using info", "value", raw)
		return slog.LevelInfo
	}
	return level
}
