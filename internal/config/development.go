package config

import (
	"log/slog"
	"os"
	"strconv"
)

// Development switches executables to colored debug logs. DEVELOPMENT
// accepts anything strconv.ParseBool does. Any other non-empty value counts
// as true.
func Development() bool {
	value := os.Getenv("DEVELOPMENT")
	if value == "" {
		return false
	}
	if development, err := strconv.ParseBool(value); err == nil {
		return development
	}
	return true
}

// LogLevel reads LOG_LEVEL (debug, info, warn, error). Development builds
// default to debug, everything else to info.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if Development() {
		level = slog.LevelDebug
	}
	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(value)); err == nil {
			level = parsed
		}
	}
	return level
}
