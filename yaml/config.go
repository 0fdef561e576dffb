// Package yaml loads linkminer settings from a YAML config file.
package yaml

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/linkminer"
	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG config home.
const AppName = "linkminer"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds the settings a config file may provide. Nil fields were not
// present in the file.
type Config struct {
	MaxDepth    *int           `yaml:"max_depth"`
	Timeout     *time.Duration `yaml:"timeout"`
	Order       *string        `yaml:"order"`
	Mode        *string        `yaml:"mode"`
	Concurrency *int           `yaml:"concurrency"`
	UserAgent   *string        `yaml:"user_agent"`
	Format      *string        `yaml:"format"`
}

// DefaultPath returns $XDG_CONFIG_HOME/linkminer/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadConfig reads and validates the config file at path.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was given explicitly.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, linkminer.Errorf(linkminer.EINVALID, "parsing %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values present in the file.
func (c *Config) Validate() error {
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		return linkminer.Errorf(linkminer.EINVALID, "max_depth must not be negative")
	}
	if c.Timeout != nil && *c.Timeout <= 0 {
		return linkminer.Errorf(linkminer.EINVALID, "timeout must be positive")
	}
	if c.Concurrency != nil && *c.Concurrency < 1 {
		return linkminer.Errorf(linkminer.EINVALID, "concurrency must be at least 1")
	}
	if c.Order != nil {
		if _, err := linkminer.ParseTraversalOrder(*c.Order); err != nil {
			return err
		}
	}
	if c.Mode != nil {
		if _, err := linkminer.ParseExecutionMode(*c.Mode); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the values present in the file onto cfg.
func (c *Config) Apply(cfg *linkminer.CrawlConfig) {
	if c.MaxDepth != nil {
		cfg.MaxDepth = *c.MaxDepth
	}
	if c.Timeout != nil {
		cfg.Timeout = *c.Timeout
	}
	if c.Order != nil {
		cfg.Order, _ = linkminer.ParseTraversalOrder(*c.Order)
	}
	if c.Mode != nil {
		cfg.Mode, _ = linkminer.ParseExecutionMode(*c.Mode)
	}
	if c.Concurrency != nil {
		cfg.Concurrency = *c.Concurrency
	}
}
