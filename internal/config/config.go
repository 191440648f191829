package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides. Values set here win over the config file.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvSecretKey    = "SECRET_KEY"
	EnvDBConnection = "DB_CONNECTION"
	EnvDataDir      = "DATA_DIR"
)

// Defaults applied when the config file omits a setting.
const (
	DefaultSecretKey        = "replace_this_with_a_secret_in_prod"
	DefaultDataDir          = "./data"
	DefaultUserIDPrefix     = "MINN"
	DefaultResetTokenMaxAge = 3600 // seconds
	DefaultMaxFailedLogins  = 5
	DefaultLockoutSeconds   = 15 * 60
	DefaultSessionHours     = 8
)

// Config is the startup configuration surface. All values are fixed once the
// server boots.
type Config struct {
	SecretKey   string `yaml:"secret-key"`
	DatabaseDSN string `yaml:"database-dsn"` // Empty selects the JSON file store.
	DataDir     string `yaml:"data-dir"`

	UserIDPrefix            string `yaml:"user-id-prefix"`
	ResetTokenMaxAgeSeconds int    `yaml:"reset-token-max-age-seconds"`
	MaxFailedLogins         int    `yaml:"max-failed-logins"`
	LockoutSeconds          int    `yaml:"lockout-seconds"`
	SessionLifetimeHours    int    `yaml:"session-lifetime-hours"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file when present, then applies environment
// overrides and defaults. A missing file is not an error.
func Load(configPath string) (Config, error) {
	cfg := Config{
		SecretKey:               DefaultSecretKey,
		DataDir:                 DefaultDataDir,
		UserIDPrefix:            DefaultUserIDPrefix,
		ResetTokenMaxAgeSeconds: DefaultResetTokenMaxAge,
		MaxFailedLogins:         DefaultMaxFailedLogins,
		LockoutSeconds:          DefaultLockoutSeconds,
		SessionLifetimeHours:    DefaultSessionHours,
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return Config{}, fmt.Errorf("read config file: %w", errRead)
	}

	if secret := strings.TrimSpace(os.Getenv(EnvSecretKey)); secret != "" {
		cfg.SecretKey = secret
	}
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		cfg.DataDir = dir
	}

	if strings.TrimSpace(cfg.UserIDPrefix) == "" {
		cfg.UserIDPrefix = DefaultUserIDPrefix
	}
	if cfg.ResetTokenMaxAgeSeconds <= 0 {
		cfg.ResetTokenMaxAgeSeconds = DefaultResetTokenMaxAge
	}
	if cfg.MaxFailedLogins <= 0 {
		cfg.MaxFailedLogins = DefaultMaxFailedLogins
	}
	if cfg.LockoutSeconds <= 0 {
		cfg.LockoutSeconds = DefaultLockoutSeconds
	}
	if cfg.SessionLifetimeHours <= 0 {
		cfg.SessionLifetimeHours = DefaultSessionHours
	}
	return cfg, nil
}

// ResetTokenMaxAge returns the reset-token expiry window.
func (c Config) ResetTokenMaxAge() time.Duration {
	return time.Duration(c.ResetTokenMaxAgeSeconds) * time.Second
}

// LockoutDuration returns how long a locked account rejects logins.
func (c Config) LockoutDuration() time.Duration {
	return time.Duration(c.LockoutSeconds) * time.Second
}

// SessionLifetime returns how long an authenticated session stays valid.
func (c Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetimeHours) * time.Hour
}
