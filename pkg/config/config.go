// Package config loads the gowheel configuration: logging settings, the
// interpreter wheels are installed for, the install scheme, build options
// and the ordered list of supported compatibility tags.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/gowheel/internal/logger"
	"github.com/glorpus-work/gowheel/pkg/errors"
	"github.com/glorpus-work/gowheel/pkg/fsutil"
	"github.com/glorpus-work/gowheel/pkg/platform"
	"github.com/glorpus-work/gowheel/pkg/scheme"
	"github.com/glorpus-work/gowheel/pkg/wheel"
)

// Config represents the application configuration.
type Config struct {
	Settings    Settings             `yaml:"settings"`
	Interpreter platform.Interpreter `yaml:"interpreter"`
	Scheme      scheme.Scheme        `yaml:"scheme"`
	Build       BuildConfig          `yaml:"build"`
	// Tags lists the supported compatibility tags, most preferred first.
	Tags []string `yaml:"tags"`
}

// Settings represents general application settings.
type Settings struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json

	// WheelDir receives built wheels.
	WheelDir string `yaml:"wheel_dir,omitempty"`
	// HooksDir holds optional pre-install.tengo / post-install.tengo scripts.
	HooksDir string `yaml:"hooks_dir,omitempty"`
	// Strategy orders compatible wheels: default or earliest-compatible.
	Strategy string `yaml:"strategy,omitempty"`

	// Platform overrides the launcher layout, e.g. to prepare a Windows tree.
	Platform platform.Platform `yaml:"platform,omitempty"`
}

// BuildConfig holds the options passed through to every wheel build.
type BuildConfig struct {
	GlobalOptions []string `yaml:"global_options,omitempty"`
	BuildOptions  []string `yaml:"build_options,omitempty"`
}

// Default configuration values.
const (
	// DefaultTag is supported by every Python 3 environment.
	DefaultTag = "py3-none-any"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	wheelDir := "wheelhouse"
	if cacheDir, err := os.UserCacheDir(); err == nil {
		wheelDir = filepath.Join(cacheDir, "gowheel", "wheels")
	}

	return &Config{
		Settings: Settings{
			LogLevel:  "info",
			LogFormat: string(logger.FormatText),
			WheelDir:  wheelDir,
			Strategy:  string(wheel.StrategyLatest),
			Platform:  platform.CurrentPlatform(),
		},
		Tags: []string{DefaultTag},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig saves configuration to a file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid. The scheme is only checked
// when at least one directory is set; commands that need it validate it again.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateSettings(c.Settings); err != nil {
		return err
	}
	if c.Interpreter.Version != "" {
		if _, err := c.Interpreter.MajorMinor(); err != nil {
			return err
		}
	}
	if c.Scheme != (scheme.Scheme{}) {
		if err := c.Scheme.Validate(); err != nil {
			return err
		}
	}
	if _, err := c.SupportedTags(); err != nil {
		return err
	}
	return nil
}

func validateSettings(s Settings) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return fmt.Errorf("invalid log level %q", s.LogLevel)
	}
	switch logger.OutputFormat(s.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q (expected text or json)", s.LogFormat)
	}
	switch wheel.Strategy(s.Strategy) {
	case wheel.StrategyLatest, wheel.StrategyEarliestCompatible:
	default:
		return fmt.Errorf("invalid strategy %q", s.Strategy)
	}
	if s.Platform.OS == "" || strings.ContainsAny(s.Platform.OS, " /\\") {
		return fmt.Errorf("invalid platform os %q", s.Platform.OS)
	}
	return nil
}

// SupportedTags parses Tags in order of preference.
func (c *Config) SupportedTags() ([]wheel.Tag, error) {
	return wheel.ParseTags(c.Tags)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "gowheel", "config.yaml"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.LogFormat == "" {
		c.Settings.LogFormat = defaults.Settings.LogFormat
	}
	if c.Settings.WheelDir == "" {
		c.Settings.WheelDir = defaults.Settings.WheelDir
	}
	if c.Settings.Strategy == "" {
		c.Settings.Strategy = defaults.Settings.Strategy
	}
	if c.Settings.Platform.OS == "" {
		c.Settings.Platform = defaults.Settings.Platform
	}
	if len(c.Tags) == 0 {
		c.Tags = defaults.Tags
	}
}
