package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config home at an empty temp dir so the developer's
// own tempo.yml never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.True(t, cfg.PersistRunningTimers)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, "127.0.0.1:7410", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout())
	assert.Empty(t, cfg.Notify.WebhookURL)
	assert.Empty(t, cfg.File)
}

func TestLoad_DefaultFileUnderXDG(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "tempo", "tempo.yml")
	writeConfig(t, path, `
db_path: /tmp/tempo-test.db
persist_running_timers: false
server:
  addr: 127.0.0.1:9999
notify:
  timeout_ms: 1500
  webhook_url: https://hooks.example.com/abc
`)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "/tmp/tempo-test.db", cfg.DBPath)
	assert.False(t, cfg.PersistRunningTimers)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.Equal(t, 1500*time.Millisecond, cfg.Notify.Timeout())
	assert.Equal(t, "https://hooks.example.com/abc", cfg.Notify.WebhookURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, "tempo", "tempo.yml"), "db_path: /from/file.db\n")
	t.Setenv("TEMPO_DB_PATH", "/from/env.db")
	t.Setenv("TEMPO_SERVER_ADDR", "127.0.0.1:1234")
	t.Setenv("TEMPO_LOG_USE_CASES", "true")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)

	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Addr)
	assert.True(t, cfg.LogUseCases)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TEMPO_DB_PATH", "/from/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/from/flag.db"}))

	l := NewLoader()
	require.NoError(t, l.BindFlag(KeyDBPath, fs.Lookup("db")))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.DBPath)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TEMPO_DB_PATH", "/from/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "/flag/default.db", "")
	require.NoError(t, fs.Parse(nil))

	l := NewLoader()
	require.NoError(t, l.BindFlag(KeyDBPath, fs.Lookup("db")))

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)

	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yml")
	writeConfig(t, path, "log_use_cases: true\n")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, path, cfg.File)
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("TEMPO_NOTIFY_TIMEOUT_MS", "0")

	_, err := NewLoader().Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyNotifyTimeoutMs)
}

func TestBindFlag_NilFlag(t *testing.T) {
	err := NewLoader().BindFlag(KeyDBPath, nil)
	assert.Error(t, err)
}
