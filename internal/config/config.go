// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads rcli settings from defaults, an optional rcli.yaml,
// RCLI_* environment variables and command-line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/toeirei/rcli/internal/core/genpass"
	"github.com/toeirei/rcli/internal/i18n"
)

// ConfigKeyAnnotation marks a flag as an override for a config key.
const ConfigKeyAnnotation = "rcli/config-key"

// Config is the full set of rcli settings.
type Config struct {
	Language string        `mapstructure:"language" yaml:"language"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
	Text     TextConfig    `mapstructure:"text" yaml:"text"`
	Genpass  GenpassConfig `mapstructure:"genpass" yaml:"genpass"`
	HTTP     HTTPConfig    `mapstructure:"http" yaml:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type TextConfig struct {
	// Format is the default signature scheme, "blake3" or "ed25519".
	Format string `mapstructure:"format" yaml:"format"`
}

type GenpassConfig struct {
	Length int `mapstructure:"length" yaml:"length"`
}

type HTTPConfig struct {
	Dir  string `mapstructure:"dir" yaml:"dir"`
	Port int    `mapstructure:"port" yaml:"port"`
	Gzip bool   `mapstructure:"gzip" yaml:"gzip"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Language: "en",
		Log:      LogConfig{Level: "info"},
		Text:     TextConfig{Format: "blake3"},
		Genpass:  GenpassConfig{Length: genpass.DefaultLength},
		HTTP:     HTTPConfig{Dir: ".", Port: 8080, Gzip: true},
	}
}

// Defaults returns DefaultConfig flattened to viper keys.
func Defaults() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"language":       d.Language,
		"log.level":      d.Log.Level,
		"text.format":    d.Text.Format,
		"genpass.length": d.Genpass.Length,
		"http.dir":       d.HTTP.Dir,
		"http.port":      d.HTTP.Port,
		"http.gzip":      d.HTTP.Gzip,
	}
}

var (
	ErrInvalidPort   = errors.New("http.port must be between 1 and 65535")
	ErrInvalidLength = errors.New("genpass.length must be between 4 and 255")
	ErrInvalidFormat = errors.New("text.format must be blake3 or ed25519")
	ErrInvalidLang   = errors.New("language has no translations")
)

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPort, c.HTTP.Port))
	}
	if c.Genpass.Length < 4 || c.Genpass.Length > 255 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidLength, c.Genpass.Length))
	}
	if c.Text.Format != "blake3" && c.Text.Format != "ed25519" {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Text.Format))
	}
	if langs := i18n.Available(); !slices.Contains(langs, c.Language) {
		errs = append(errs, fmt.Errorf("%w: got %q, want one of %s", ErrInvalidLang, c.Language, strings.Join(langs, ", ")))
	}
	return errors.Join(errs...)
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "rcli")
		default:
			configDir = "/etc/rcli"
		}
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(dir, "rcli")
	}
	return filepath.Join(configDir, "rcli.yaml"), nil
}

// BindFlag makes flag name of cmd override the config key.
func BindFlag(cmd *cobra.Command, name, key string) {
	flags := cmd.Flags()
	if flags.Lookup(name) == nil {
		flags = cmd.PersistentFlags()
	}
	_ = flags.SetAnnotation(name, ConfigKeyAnnotation, []string{key})
}

// LoadConfig resolves T from defaults, the config file, the environment and
// the flags of cmd annotated with BindFlag. configFile, when set, is the only
// file consulted. The returned string is the config file used, if any.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, string, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("rcli")
		v.SetConfigType("yaml")
		if userPath, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(userPath))
		}
		if systemPath, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(systemPath))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else (bad YAML, permissions) is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, "", fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("rcli")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		var bindErr error
		visit := func(f *pflag.Flag) {
			if keys, ok := f.Annotations[ConfigKeyAnnotation]; ok && len(keys) == 1 {
				if err := v.BindPFlag(keys[0], f); err != nil {
					bindErr = errors.Join(bindErr, err)
				}
			}
		}
		cmd.Flags().VisitAll(visit)
		cmd.InheritedFlags().VisitAll(visit)
		if bindErr != nil {
			return c, "", bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decode config: %w", err)
	}
	return c, v.ConfigFileUsed(), nil
}

// Marshal renders c as YAML.
func Marshal[T any](c *T) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteConfigFile writes c to path, or to the user config path when path is
// empty, and returns the path written.
func WriteConfigFile[T any](c *T, path string) (string, error) {
	if path == "" {
		p, err := GetConfigPath(false)
		if err != nil {
			return "", err
		}
		path = p
	}

	data, err := Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
