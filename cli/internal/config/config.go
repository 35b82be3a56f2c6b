// Package config loads ifxgo connection settings from .ifxgo.yaml, the
// environment and .env files.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/ifxgo/adapter/runtime/client"
)

// AppFs is the filesystem config files are read from and written to.
var AppFs = afero.NewOsFs()

const (
	fileName  = ".ifxgo"
	envPrefix = "IFXGO"
)

// Config holds the CLI configuration
type Config struct {
	Driver         string
	DSN            string
	Database       string
	Username       string
	Password       string
	ConnectTimeout time.Duration
	LiteralAware   bool
	Debug          bool

	// File is the config file that was read, empty when none was found.
	File string
}

// ClientConfig converts the CLI settings into adapter settings.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		DriverName:          c.Driver,
		DSN:                 c.DSN,
		Database:            c.Database,
		Username:            c.Username,
		Password:            c.Password,
		ConnectTimeout:      c.ConnectTimeout,
		LiteralAwareRewrite: c.LiteralAware,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("driver", client.DefaultDriverName)
	v.SetDefault("connect_timeout", 30*time.Second)
	v.SetDefault("literal_aware", false)
	v.SetDefault("debug", false)
	return v
}

// LoadConfig reads configuration. An explicit file must exist; otherwise
// .ifxgo.yaml is looked up in the working directory, the home directory and
// ~/.config/ifxgo, and a missing file is not an error.
func LoadConfig(file string) (*Config, error) {
	v := newViper()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "ifxgo"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	loadDotEnv()

	return &Config{
		Driver:         v.GetString("driver"),
		DSN:            v.GetString("dsn"),
		Database:       v.GetString("database"),
		Username:       v.GetString("username"),
		Password:       v.GetString("password"),
		ConnectTimeout: v.GetDuration("connect_timeout"),
		LiteralAware:   v.GetBool("literal_aware"),
		Debug:          v.GetBool("debug"),
		File:           v.ConfigFileUsed(),
	}, nil
}

// loadDotEnv loads .env and then .env.local, which wins. Both are optional.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

// DefaultPath is where SaveConfig writes when no path is given.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ifxgo", fileName+".yaml"), nil
}

// SaveConfig writes cfg to path, or to DefaultPath when path is empty.
// The password is never written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("driver", cfg.Driver)
	v.Set("dsn", cfg.DSN)
	v.Set("database", cfg.Database)
	v.Set("username", cfg.Username)
	v.Set("connect_timeout", cfg.ConnectTimeout.String())
	v.Set("literal_aware", cfg.LiteralAware)
	v.Set("debug", cfg.Debug)

	if err := AppFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
