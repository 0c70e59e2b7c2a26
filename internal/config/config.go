// Package config loads the optional site configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the site root
const FileName = "mite.yaml"

const (
	DefaultTitle     = "mite site"
	DefaultGenerated = "site.gen.go"
	DefaultAddr      = ":8080"
	DefaultDebounce  = "300ms"
)

// Config represents the site configuration
type Config struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Favicon     string `yaml:"favicon"`

	// Generated is the path of the retained generated program, relative to the site root
	Generated string `yaml:"generated"`
	// Addr is the listen address of the preview server
	Addr string `yaml:"addr"`
	// Debounce is the quiet window of watch mode, as a Go duration
	Debounce string `yaml:"debounce"`
}

// Default returns the configuration used when the site has no configuration file
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. A missing file is not an error,
// the defaults are returned instead.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Generated == "" {
		c.Generated = DefaultGenerated
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Debounce == "" {
		c.Debounce = DefaultDebounce
	}
}

// Validate checks the values that are parsed lazily
func (c *Config) Validate() error {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return fmt.Errorf("invalid debounce %q: %w", c.Debounce, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid debounce %q: must not be negative", c.Debounce)
	}
	return nil
}

// DebounceDuration returns the watch quiet window
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}
