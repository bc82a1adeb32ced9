// Package config resolves tempo's runtime configuration from defaults, an
// optional YAML file, TEMPO_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TEMPO_DB_PATH.
const EnvPrefix = "TEMPO"

// DefaultServerAddr is the API listen address when none is configured.
const DefaultServerAddr = "127.0.0.1:7410"

// Configuration keys.
const (
	KeyDBPath               = "db_path"
	KeyPersistRunningTimers = "persist_running_timers"
	KeyLogUseCases          = "log_use_cases"
	KeyServerAddr           = "server.addr"
	KeyNotifyTimeoutMs      = "notify.timeout_ms"
	KeyNotifyWebhookURL     = "notify.webhook_url"
)

// Config holds the resolved settings for one process.
type Config struct {
	DBPath               string
	PersistRunningTimers bool
	LogUseCases          bool
	Server               ServerConfig
	Notify               NotifyConfig

	// File is the config file that was read, empty when none was found.
	File string
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	Addr string
}

// NotifyConfig configures webhook delivery.
type NotifyConfig struct {
	TimeoutMs int
	// WebhookURL overrides the stored webhook setting when non-empty.
	WebhookURL string
}

// Timeout returns the delivery timeout as a duration.
func (n NotifyConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMs) * time.Millisecond
}

// Loader wraps a private viper instance so tests and commands never share
// global state.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and environment binding applied.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDBPath, DefaultDBPath())
	v.SetDefault(KeyPersistRunningTimers, true)
	v.SetDefault(KeyLogUseCases, false)
	v.SetDefault(KeyServerAddr, DefaultServerAddr)
	v.SetDefault(KeyNotifyTimeoutMs, 5000)
	v.SetDefault(KeyNotifyWebhookURL, "")

	return &Loader{v: v}
}

// BindFlag makes a command-line flag override key when the flag is set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	if err := l.v.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("binding %s: %w", key, err)
	}
	return nil
}

// Load reads the config file and returns the resolved Config. An explicit
// path must exist; the default path is optional.
func (l *Loader) Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile()
	}

	var file string
	if path != "" {
		l.v.SetConfigFile(path)
		err := l.v.ReadInConfig()
		switch {
		case err == nil:
			file = l.v.ConfigFileUsed()
		case !explicit && isNotFound(err):
		default:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := Config{
		DBPath:               l.v.GetString(KeyDBPath),
		PersistRunningTimers: l.v.GetBool(KeyPersistRunningTimers),
		LogUseCases:          l.v.GetBool(KeyLogUseCases),
		Server: ServerConfig{
			Addr: l.v.GetString(KeyServerAddr),
		},
		Notify: NotifyConfig{
			TimeoutMs:  l.v.GetInt(KeyNotifyTimeoutMs),
			WebhookURL: strings.TrimSpace(l.v.GetString(KeyNotifyWebhookURL)),
		},
		File: file,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%s must not be empty", KeyDBPath)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%s must not be empty", KeyServerAddr)
	}
	if c.Notify.TimeoutMs <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyNotifyTimeoutMs, c.Notify.TimeoutMs)
	}
	return nil
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/tempo/tempo.yml, falling back
// to the platform's usual config directory. Empty if no home is known.
func DefaultConfigFile() string {
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "tempo", "tempo.yml")
}

// DefaultDBPath returns ~/.tempo/tempo.db, or tempo.db in the working
// directory when the home directory cannot be determined.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tempo.db"
	}
	return filepath.Join(home, ".tempo", "tempo.db")
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming")
	}
	return filepath.Join(home, ".config")
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
