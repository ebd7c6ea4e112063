// Package config loads tyexpr settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "TYEXPR_CONFIG"

// DefaultFiles are looked up in the working directory, in order, when no
// config path is given.
var DefaultFiles = []string{".tyexpr.toml", ".tyexpr.yaml"}

// Formats lists the accepted output formats.
var Formats = []string{"tree", "pretty", "json", "yaml"}

// ColorModes lists the accepted color modes.
var ColorModes = []string{"auto", "always", "never"}

// Config holds the complete tool configuration.
type Config struct {
	Requires string       `toml:"requires" yaml:"requires"`   // semver constraint on the tool version
	MaxDepth int          `toml:"max_depth" yaml:"max_depth"` // type nesting limit
	Output   OutputConfig `toml:"output" yaml:"output"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	Color  string `toml:"color" yaml:"color"`
	Indent string `toml:"indent" yaml:"indent"`
	Width  int    `toml:"width" yaml:"width"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxDepth: 128,
		Output: OutputConfig{
			Format: "tree",
			Color:  "auto",
			Indent: "|   ",
			Width:  80,
		},
	}
}

// Load reads the file at path over the defaults. The format follows the
// file extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the config file to use: explicit if set, then $TYEXPR_CONFIG,
// then the first of DefaultFiles present in the working directory. It
// returns "" when there is none.
func Find(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}
	for _, name := range DefaultFiles {
		_, err := os.Stat(name)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking config file: %w", err)
		}
	}
	return "", nil
}

// Resolve finds and loads the configuration. Without a config file it
// returns the defaults and an empty path.
func Resolve(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if !contains(Formats, c.Output.Format) {
		return fmt.Errorf("invalid output.format %q (want %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if !contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("invalid output.color %q (want %s)", c.Output.Color, strings.Join(ColorModes, ", "))
	}
	if c.Output.Width <= 0 {
		return fmt.Errorf("output.width must be positive, got %d", c.Output.Width)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
		}
	}
	return nil
}

// CheckVersion reports whether version satisfies the requires constraint.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("tyexpr %s does not satisfy requires %q", v, c.Requires)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
