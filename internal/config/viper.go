// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// IdentityConfig lists the cardholders statements may name.
type IdentityConfig struct {
	Cardholders       []string `mapstructure:"cardholders" yaml:"cardholders"`
	DefaultCardholder string   `mapstructure:"default_cardholder" yaml:"default_cardholder"`
}

// ReferenceConfig points at an optional reference data override.
type ReferenceConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ExportConfig controls the standardize command's output.
type ExportConfig struct {
	Format    string `mapstructure:"format" yaml:"format"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// ServerConfig controls the upload endpoint.
type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// Config represents the complete application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Identity  IdentityConfig  `mapstructure:"identity" yaml:"identity"`
	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`
	Export    ExportConfig    `mapstructure:"export" yaml:"export"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// EnvPrefix prefixes every environment override, e.g. STMT_LOG_LEVEL.
const EnvPrefix = "STMT"

// InitializeConfig loads defaults, the optional config.yaml and STMT_*
// environment variables, in increasing order of precedence.
func InitializeConfig() (*Config, error) {
	return InitializeConfigFrom("")
}

// InitializeConfigFrom is InitializeConfig with an explicit config file. An
// explicit file that cannot be read is an error; the default search is not.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-csv")
		v.AddConfigPath(".statement-csv")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.normalize()

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	config.normalize()
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("identity.cardholders", []string{"Rahul", "Ritu"})
	v.SetDefault("identity.default_cardholder", "")

	v.SetDefault("reference.file", "")

	v.SetDefault("export.format", "csv")
	v.SetDefault("export.output_dir", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 10)
}

// normalize trims list entries and fills the default cardholder.
func (c *Config) normalize() {
	names := make([]string, 0, len(c.Identity.Cardholders))
	for _, n := range c.Identity.Cardholders {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	c.Identity.Cardholders = names
	c.Identity.DefaultCardholder = strings.TrimSpace(c.Identity.DefaultCardholder)
	if c.Identity.DefaultCardholder == "" && len(names) > 0 {
		c.Identity.DefaultCardholder = names[0]
	}
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.Identity.Cardholders) == 0 {
		return fmt.Errorf("identity.cardholders must list at least one name")
	}

	known := false
	for _, n := range config.Identity.Cardholders {
		if n == config.Identity.DefaultCardholder {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("identity.default_cardholder %q is not one of identity.cardholders", config.Identity.DefaultCardholder)
	}

	if config.Export.Format != "csv" && config.Export.Format != "xlsx" {
		return fmt.Errorf("invalid export format: %s (must be 'csv' or 'xlsx')", config.Export.Format)
	}

	if config.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}

// MaxUploadBytes converts the upload limit to bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
