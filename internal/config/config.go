// Package config loads hashdrift settings from an optional YAML file and
// HASHDRIFT_* environment variables. Command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = ".hashdrift.yaml"

// EnvPrefix prefixes environment overrides, e.g. HASHDRIFT_PROTOCOLS=4.
const EnvPrefix = "HASHDRIFT"

// Config holds every setting a command may read.
type Config struct {
	Protocols  int      `mapstructure:"protocols"`
	Categories []string `mapstructure:"categories"`
	ResultsDir string   `mapstructure:"results_dir"`
	Archive    string   `mapstructure:"archive"`
	Format     string   `mapstructure:"format"`
	MinCount   int      `mapstructure:"min_count"`
	FailOnDiff bool     `mapstructure:"fail_on_diff"`
	Verbose    bool     `mapstructure:"verbose"`

	// Identity overrides the detected environment labels.
	Identity IdentityConfig `mapstructure:"identity"`
}

// IdentityConfig overrides parts of the detected SystemIdentity.
type IdentityConfig struct {
	OS             string `mapstructure:"os"`
	RuntimeVersion string `mapstructure:"runtime_version"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Protocols:  6,
		Categories: []string{},
		ResultsDir: ".",
		Format:     "text",
		MinCount:   2,
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("protocols", d.Protocols)
	v.SetDefault("categories", d.Categories)
	v.SetDefault("results_dir", d.ResultsDir)
	v.SetDefault("archive", d.Archive)
	v.SetDefault("format", d.Format)
	v.SetDefault("min_count", d.MinCount)
	v.SetDefault("fail_on_diff", d.FailOnDiff)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("identity.os", "")
	v.SetDefault("identity.runtime_version", "")
}

// Load reads the configuration. An explicit path must exist; otherwise
// FileName is looked up in dir and its absence is not an error.
func Load(path, dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Protocols < 1 {
		return &ConfigError{Field: "protocols", Message: fmt.Sprintf("must be at least 1, got %d", c.Protocols)}
	}
	if c.MinCount < 1 {
		return &ConfigError{Field: "min_count", Message: fmt.Sprintf("must be at least 1, got %d", c.MinCount)}
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return &ConfigError{Field: "format", Message: fmt.Sprintf("unknown format %q", c.Format)}
	}
	return nil
}

// ConfigError reports an invalid setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
