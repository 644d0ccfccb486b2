// Package config loads layout presets and service settings from YAML or
// TOML files.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/biocatalog/pkg/validation"
	"github.com/dd0wney/biocatalog/pkg/visualization"
)

var (
	// ErrUnknownPreset is returned for a preset name with no definition
	ErrUnknownPreset = errors.New("unknown layout preset")
	// ErrUnsupportedFormat is returned for a config file extension other
	// than .yaml, .yml or .toml
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// DefaultPreset is used when neither a flag nor a file names one
const DefaultPreset = "default"

// CacheConfig sizes the relation-map memo cache. Size 0 disables it.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache settings
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 512, TTL: 15 * time.Minute}
}

// Config is the resolved configuration of a run
type Config struct {
	Preset  string
	Layout  *visualization.LayoutConfig
	Cache   CacheConfig
	Workers int // 0 selects one worker per CPU
}

// FromPreset returns the configuration for a named preset with default
// service settings
func FromPreset(name string) (*Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	layout, ok := visualization.Preset(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPreset, name, visualization.PresetNames())
	}
	return &Config{
		Preset: name,
		Layout: layout,
		Cache:  DefaultCacheConfig(),
	}, nil
}

// Validate checks the layout and service settings together
func (c *Config) Validate() error {
	cv := validation.NewConfigValidator("Config")
	cv.NonNegative("Cache.Size", c.Cache.Size).
		MinDuration("Cache.TTL", c.Cache.TTL, 0).
		NonNegative("Workers", c.Workers).
		Custom("Layout", func() error {
			if c.Layout == nil {
				return errors.New("layout config is required")
			}
			return c.Layout.Validate()
		})
	return cv.Validate()
}

// NewLayout builds the radial layout for the resolved layout settings.
// Every field is used as configured, including zero padding or band gap.
func (c *Config) NewLayout() (*visualization.RadialLayout, error) {
	return visualization.NewValidatedRadialLayout(c.Layout)
}
