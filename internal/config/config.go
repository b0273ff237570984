// Package config resolves runtime settings from an optional tracklit.yaml,
// TRACKLIT_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/keyring"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/storage/driver"
)

const (
	configFileName = "tracklit"
	configFileType = "yaml"
	envPrefix      = "TRACKLIT"

	KeyBackend        = "backend"
	KeyPath           = "path"
	KeyDSN            = "dsn"
	KeyDebug          = "debug"
	KeyLogLevel       = "log_level"
	KeyLockAttempts   = "lock_attempts"
	KeyLockRetryDelay = "lock_retry_delay"
	KeyListen         = "listen"
	KeyMaxBackups     = "max_backups"
)

// Config is the resolved configuration
type Config struct {
	Dir            string
	Backend        string
	Path           string
	DSN            string
	Debug          bool
	LogLevel       string
	LockAttempts   int
	LockRetryDelay time.Duration
	Listen         string
	MaxBackups     int
}

// keyringLookup is replaced in tests
var keyringLookup = keyring.GetConnectionString

// Load reads tracklit.yaml from dir if present. Environment variables
// override the file and the file overrides defaults.
func Load(dir string) (*Config, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(KeyBackend, constants.BackendSQLite)
	v.SetDefault(KeyPath, filepath.Join(dir, constants.DefaultDBName))
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLockAttempts, constants.LockMaxAttempts)
	v.SetDefault(KeyLockRetryDelay, constants.LockRetryDelay)
	v.SetDefault(KeyListen, constants.DefaultListenAddr)
	v.SetDefault(KeyMaxBackups, constants.MaxBackups)
	// AutomaticEnv only consults keys viper already knows about
	v.SetDefault(KeyDSN, "")

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	path, err := ExpandHome(v.GetString(KeyPath))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Dir:            dir,
		Backend:        strings.ToLower(v.GetString(KeyBackend)),
		Path:           path,
		DSN:            v.GetString(KeyDSN),
		Debug:          v.GetBool(KeyDebug),
		LogLevel:       v.GetString(KeyLogLevel),
		LockAttempts:   v.GetInt(KeyLockAttempts),
		LockRetryDelay: v.GetDuration(KeyLockRetryDelay),
		Listen:         v.GetString(KeyListen),
		MaxBackups:     v.GetInt(KeyMaxBackups),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric bounds and normalizes the backend name
func (c *Config) Validate() error {
	dialect, err := driver.ParseDialect(c.Backend)
	if err != nil {
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, constants.BackendSQLite, constants.BackendPostgres)
	}
	c.Backend = string(dialect)
	if c.LockAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", KeyLockAttempts)
	}
	if c.LockRetryDelay < 0 {
		return fmt.Errorf("%s must not be negative", KeyLockRetryDelay)
	}
	if c.MaxBackups < 1 {
		return fmt.Errorf("%s must be at least 1", KeyMaxBackups)
	}
	return nil
}

// Storage builds the storage configuration. For postgres a configured DSN
// must not carry a password; without one the keyring is consulted, where
// a password is allowed.
func (c *Config) Storage() (storage.Config, error) {
	sc := storage.Config{
		Backend:        c.Backend,
		Path:           c.Path,
		LockAttempts:   c.LockAttempts,
		LockRetryDelay: c.LockRetryDelay,
	}
	if c.Backend != constants.BackendPostgres {
		return sc, nil
	}

	if c.DSN != "" {
		if err := driver.ValidateConnString(c.DSN); err != nil {
			return storage.Config{}, fmt.Errorf("dsn: %w", err)
		}
		sc.DSN = c.DSN
		return sc, nil
	}

	dsn, err := keyringLookup()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return storage.Config{}, fmt.Errorf("postgres backend needs %s_DSN or a keyring entry (tracklit keyring set)", envPrefix)
		}
		return storage.Config{}, err
	}
	if err := driver.ValidateConnString(dsn); err != nil && !errors.Is(err, driver.ErrEmbeddedCredentials) {
		return storage.Config{}, fmt.Errorf("keyring dsn: %w", err)
	}
	sc.DSN = dsn
	return sc, nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
