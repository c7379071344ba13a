package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, ":8080", Port())
	t.Setenv("APP_PORT", "9000")
	assert.Equal(t, ":9000", Port())
	t.Setenv("APP_PORT", ":9001")
	assert.Equal(t, ":9001", Port())
}

func TestDevelopment(t *testing.T) {
	for value, want := range map[string]bool{
		"":      false,
		"0":     false,
		"false": false,
		"1":     true,
		"true":  true,
		"yes":   true,
	} {
		t.Setenv("DEVELOPMENT", value)
		assert.Equal(t, want, Development(), "DEVELOPMENT=%q", value)
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv("DEVELOPMENT", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	assert.Equal(t, slog.LevelInfo, LogLevel())

	t.Setenv("DEVELOPMENT", "true")
	assert.Equal(t, slog.LevelDebug, LogLevel())

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, slog.LevelWarn, LogLevel())

	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, slog.LevelDebug, LogLevel())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Empty(t, AllowedOrigins())
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example ,,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, AllowedOrigins())
}

func TestReadSecret(t *testing.T) {
	t.Setenv("TEST_SECRET", "inline")
	value, err := readSecret("TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "inline", value)

	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("from file\n"), 0o600))
	os.Unsetenv("TEST_SECRET")
	t.Setenv("TEST_SECRET_FILE", path)
	value, err = readSecret("TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from file", value)

	_, err = readSecret("TEST_MISSING_SECRET")
	assert.Error(t, err)
}

func TestDbURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/mines")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/mines", url)

	db := Database{Username: "u", Password: "p@ss", Host: "db", Port: 5432, DBName: "mines", SSLMode: "disable"}
	assert.Equal(t, "postgresql://u:p%40ss@db:5432/mines?sslmode=disable", db.URL())
}

func TestNewJournal(t *testing.T) {
	t.Setenv("JOURNAL_FILE", "/var/log/mines.log")
	t.Setenv("JOURNAL_MAX_BACKUPS", "2")
	j, err := NewJournal()
	require.NoError(t, err)
	assert.Equal(t, &Journal{Filename: "/var/log/mines.log", MaxSizeMB: 50, MaxBackups: 2, MaxAgeDays: 30}, j)

	t.Setenv("JOURNAL_MAX_AGE_DAYS", "week")
	_, err = NewJournal()
	assert.Error(t, err)
}

func TestNewWebSocket(t *testing.T) {
	t.Setenv("WS_IDLE_TIMEOUT_SECONDS", "30")
	ws, err := NewWebSocket()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ws.IdleTimeout)
}
