package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bettercorq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configEnv lists every variable Load reads so each test starts from a clean slate.
var configEnv = []string{
	"LOG_LEVEL", "PORT", "STORE_BACKEND", "DATABASE_URL", "SQLITE_PATH", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "GRID_GRANULARITY_MINUTES", "GRID_DAY_START", "GRID_DAY_END",
	"MATCH_TOLERANCE_MINUTES", "TIMEZONE", "EXTRACTION_URL", "EXTRACTION_API_KEY",
	"EXTRACTION_MODEL", "EXTRACTION_TIMEOUT", "EVENT_SOURCES", "EVENT_REFRESH_CRON",
	"CORS_ALLOWED_ORIGINS", "CONTEXT_TIMEOUT", "CONFIG_FILE",
}

func cleanEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GO_ENV", "production")
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, 30, cfg.GridGranularity)
	assert.Equal(t, 15, cfg.MatchTolerance)
	assert.Equal(t, 60*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, 10*time.Second, cfg.ContextTimeout)
	assert.Equal(t, "@every 6h", cfg.EventRefreshCron)
	assert.Empty(t, cfg.EventSources)

	gc, err := cfg.Grid()
	require.NoError(t, err)
	assert.Equal(t, domain.Granularity(30), gc.Granularity)
	assert.Equal(t, "08:00", gc.DayStart.String())
	assert.Equal(t, "22:00", gc.DayEnd.String())
	assert.Equal(t, time.Local, gc.Location)
}

func TestLoad_Environment(t *testing.T) {
	cleanEnv(t)
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("GRID_GRANULARITY_MINUTES", "15")
	t.Setenv("GRID_DAY_START", "07:30")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("EVENT_SOURCES", " events.yaml, https://example.com/cal.ics ,")
	t.Setenv("EXTRACTION_TIMEOUT", "90")
	t.Setenv("CONTEXT_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"events.yaml", "https://example.com/cal.ics"}, cfg.EventSources)
	assert.Equal(t, 90*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, 3*time.Second, cfg.ContextTimeout)

	gc, err := cfg.Grid()
	require.NoError(t, err)
	assert.Equal(t, domain.Granularity(15), gc.Granularity)
	assert.Equal(t, "07:30", gc.DayStart.String())
	assert.Equal(t, "America/New_York", gc.Location.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "backend", env: map[string]string{"STORE_BACKEND": "mongo"}, wantErr: "STORE_BACKEND"},
		{name: "granularity", env: map[string]string{"GRID_GRANULARITY_MINUTES": "20"}, wantErr: "granularity"},
		{name: "not an integer", env: map[string]string{"REDIS_DB": "one"}, wantErr: "REDIS_DB"},
		{name: "window", env: map[string]string{"GRID_DAY_START": "22:00", "GRID_DAY_END": "08:00"}, wantErr: "invalid grid"},
		{name: "day start", env: map[string]string{"GRID_DAY_START": "8am"}, wantErr: "GRID_DAY_START"},
		{name: "tolerance", env: map[string]string{"MATCH_TOLERANCE_MINUTES": "-1"}, wantErr: "MATCH_TOLERANCE_MINUTES"},
		{name: "timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}, wantErr: "TIMEZONE"},
		{name: "duration", env: map[string]string{"CONTEXT_TIMEOUT": "soon"}, wantErr: "CONTEXT_TIMEOUT"},
		{name: "cron", env: map[string]string{"EVENT_REFRESH_CRON": "every day"}, wantErr: "EVENT_REFRESH_CRON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "bettercorq.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9090"
context-timeout = "5s"

[store]
backend = "memory"

[grid]
granularity-minutes = 15
timezone = "UTC"

[events]
sources = ["campus.ics"]
refresh-cron = "0 */2 * * *"
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.ContextTimeout)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 15, cfg.GridGranularity)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, []string{"campus.ics"}, cfg.EventSources)
	assert.Equal(t, "0 */2 * * *", cfg.EventRefreshCron)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is empty", func(t *testing.T) {
		fc, err := LoadFile(filepath.Join(dir, "absent.toml"))
		require.NoError(t, err)
		assert.Nil(t, fc.Server.Port)
	})

	t.Run("unknown key", func(t *testing.T) {
		path := filepath.Join(dir, "typo.toml")
		require.NoError(t, os.WriteFile(path, []byte("[grid]\ngranularity = 15\n"), 0o600))
		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grid.granularity")
	})

	t.Run("bad syntax", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[grid\n"), 0o600))
		_, err := LoadFile(path)
		require.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadFile("")
		require.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger("production", "warn", &buf).Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger("production", "warn", &buf).Warn("shown", "key", "v")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "production logs are JSON")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger("development", "debug", &buf).Debug("dev")
	assert.Contains(t, buf.String(), "msg=dev")

	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
