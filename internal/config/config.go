package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. CADBRIDGE_LISTEN.
const EnvPrefix = "CADBRIDGE"

// Config holds the bridge configuration.
type Config struct {
	Listen   string         `mapstructure:"listen"`
	LogLevel string         `mapstructure:"log_level"`
	Host     HostConfig     `mapstructure:"host"`
	Document DocumentConfig `mapstructure:"document"`
	Accounts AccountsConfig `mapstructure:"accounts"`
	UI       UIConfig       `mapstructure:"ui"`
}

type HostConfig struct {
	Name string `mapstructure:"name"`
}

type DocumentConfig struct {
	// Path of the JSON document the standalone host works on.
	Path string `mapstructure:"path"`
	// ClientsPath overrides the client sidecar file, defaults to <path>.clients.json.
	ClientsPath string `mapstructure:"clients_path"`
}

type AccountsConfig struct {
	DB string `mapstructure:"db"`
}

type UIConfig struct {
	// OriginPatterns lists the origins allowed to attach to the script transport.
	OriginPatterns []string `mapstructure:"origin_patterns"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen", "127.0.0.1:8787")
	v.SetDefault("log_level", "info")
	v.SetDefault("host.name", "Standalone")
	v.SetDefault("document.path", "")
	v.SetDefault("document.clients_path", "")
	v.SetDefault("accounts.db", defaultAccountsDB())
	v.SetDefault("ui.origin_patterns", []string{"localhost:*", "127.0.0.1:*"})
}

// Load reads configuration from the optional file, env and whatever flags were bound to v.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "cad-ui-bridge"))
		}
		v.SetConfigName("config")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Document.ClientsPath == "" && c.Document.Path != "" {
		c.Document.ClientsPath = c.Document.Path + ".clients.json"
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if c.Document.Path == "" {
		return errors.New("document path is required")
	}
	if c.Accounts.DB == "" {
		return errors.New("accounts database path is required")
	}
	return nil
}

func defaultAccountsDB() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "accounts.db"
	}
	return filepath.Join(dir, "cad-ui-bridge", "accounts.db")
}
