// Package config loads the yoga CLI configuration with Viper.
//
// Precedence (highest first): command-line flags, YOGA_* environment
// variables, the optional config file ($HOME/.yoga/config.yaml), defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys shared by flags, env vars (YOGA_<KEY>, dashes become underscores) and the config file.
const (
	KeyServer    = "server"
	KeyDB        = "db"
	KeyLogLevel  = "log-level"
	KeyLogFormat = "log-format"
	KeyOutput    = "output"
	KeyTimeout   = "timeout"
)

// ClientConfig holds configuration for the yoga CLI.
type ClientConfig struct {
	Server    string        // Backend base URL; requests go to <Server>/api/...
	DBPath    string        // SQLite credential store (default ~/.yoga/yoga.db, ":memory:" for testing)
	LogLevel  string        // Log level: debug, info, warn, error
	LogFormat string        // Log format: text, json
	Output    string        // Output format: table, json, yaml
	Timeout   time.Duration // Per-request HTTP timeout
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Server:    "http://localhost:8080",
		LogLevel:  "info",
		LogFormat: "text",
		Output:    "table",
		Timeout:   30 * time.Second,
	}
}

// Load resolves the configuration. flags may be nil; configFile may be empty,
// in which case $HOME/.yoga/config.yaml is read if present.
func Load(flags *pflag.FlagSet, configFile string) (ClientConfig, error) {
	def := DefaultClientConfig()

	v := viper.New()
	v.SetEnvPrefix("YOGA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyServer, def.Server)
	v.SetDefault(KeyDB, def.DBPath)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyOutput, def.Output)
	v.SetDefault(KeyTimeout, def.Timeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return ClientConfig{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return ClientConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ClientConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := ClientConfig{
		Server:    strings.TrimRight(v.GetString(KeyServer), "/"),
		DBPath:    v.GetString(KeyDB),
		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
		Output:    strings.ToLower(v.GetString(KeyOutput)),
		Timeout:   v.GetDuration(KeyTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// Validate checks the resolved values.
func (c ClientConfig) Validate() error {
	if c.Server == "" {
		return errors.New("config: server must be set")
	}
	if !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return fmt.Errorf("config: server %q must be an http(s) URL", c.Server)
	}
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("config: unknown output format %q (table, json, yaml)", c.Output)
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	return nil
}

// Dir returns the per-user configuration directory (~/.yoga).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".yoga"), nil
}

// ResolveDBPath returns c.DBPath, or ~/.yoga/yoga.db (creating the directory) when unset.
func (c ClientConfig) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return filepath.Join(dir, "yoga.db"), nil
}
