// Package config loads optional settings from config.yaml and HABITQUEST_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/keyring"
	"github.com/julianstephens/habitquest/internal/utils"
)

type Config struct {
	Storage  string       `mapstructure:"storage"`
	Debug    bool         `mapstructure:"debug"`
	Timezone string       `mapstructure:"timezone"`
	Quests   QuestConfig  `mapstructure:"quests"`
	Relay    RelayConfig  `mapstructure:"relay"`
	Server   ServerConfig `mapstructure:"server"`
	Daemon   DaemonConfig `mapstructure:"daemon"`

	// Dir is the directory config.yaml, logs and backups live in.
	Dir string `mapstructure:"-"`
}

type QuestConfig struct {
	Count int `mapstructure:"count"`
}

type RelayConfig struct {
	URL              string        `mapstructure:"url"`
	SubscriptionFile string        `mapstructure:"subscription_file"`
	Debounce         time.Duration `mapstructure:"debounce"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimit      float64  `mapstructure:"rate_limit"` // requests per second
	Burst          int      `mapstructure:"burst"`
}

type DaemonConfig struct {
	BackupInterval time.Duration `mapstructure:"backup_interval"`
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage", "")
	v.SetDefault("debug", false)
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("quests.count", constants.DefaultDailyQuestCount)
	v.SetDefault("relay.url", "")
	v.SetDefault("relay.subscription_file", filepath.Join(dir, "subscription.json"))
	v.SetDefault("relay.debounce", constants.DefaultRelayDebounce)
	v.SetDefault("server.addr", constants.DefaultServerAddr)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit", constants.DefaultRateLimit)
	v.SetDefault("server.burst", constants.DefaultRateBurst)
	v.SetDefault("daemon.backup_interval", time.Hour)
}

// Load reads config.yaml from dir, then the working directory. A missing
// file is not an error; every key has a default.
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath(".")

	setDefaults(v, dir)

	v.SetEnvPrefix("HABITQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Dir = dir
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.Quests.Count < 1 {
		return fmt.Errorf("quests.count must be at least 1, got %d", c.Quests.Count)
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst < 1 {
		return errors.New("server.rate_limit and server.burst must be positive")
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// BackupDir is where bundle backups are written.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Dir, constants.BackupDirName)
}

// ResolveStorage picks the store DSN: the flag, then config and environment,
// then the OS keyring, then the default SQLite path.
func (c *Config) ResolveStorage(flag string) (string, error) {
	return c.resolveStorage(flag, keyring.GetConnectionString)
}

func (c *Config) resolveStorage(flag string, fromKeyring func() (string, error)) (string, error) {
	switch {
	case flag != "":
		return utils.ExpandHome(flag)
	case c.Storage != "":
		return utils.ExpandHome(c.Storage)
	}
	dsn, err := fromKeyring()
	if err == nil && dsn != "" {
		return dsn, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return "", err
	}
	return filepath.Join(c.Dir, filepath.Base(constants.DefaultStorePath)), nil
}
