package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dd0wney/biocatalog/pkg/visualization"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a config file. Every layout field is
// optional and overrides the base preset when present.
type File struct {
	Base    string         `yaml:"base" toml:"base"`
	Layout  LayoutOverride `yaml:"layout" toml:"layout"`
	Cache   CacheOverride  `yaml:"cache" toml:"cache"`
	Workers *int           `yaml:"workers" toml:"workers"`
}

// LayoutOverride mirrors visualization.LayoutConfig with optional fields.
// Bands are keyed by bucket name.
type LayoutOverride struct {
	Thresholds       *visualization.Thresholds     `yaml:"thresholds" toml:"thresholds"`
	Bands            map[string]visualization.Band `yaml:"bands" toml:"bands"`
	BandGap          *float64                      `yaml:"band_gap" toml:"band_gap"`
	Padding          *float64                      `yaml:"padding" toml:"padding"`
	Iterations       *int                          `yaml:"iterations" toml:"iterations"`
	EasingExponent   *float64                      `yaml:"easing_exponent" toml:"easing_exponent"`
	IndexModulus     *int                          `yaml:"index_modulus" toml:"index_modulus"`
	JitterMagnitude  *float64                      `yaml:"jitter" toml:"jitter"`
	AngleJitter      *float64                      `yaml:"angle_jitter" toml:"angle_jitter"`
	NodeSizeBase     *float64                      `yaml:"node_size_base" toml:"node_size_base"`
	NodeSizeBoost    *float64                      `yaml:"node_size_boost" toml:"node_size_boost"`
	NodeSizeExponent *float64                      `yaml:"node_size_exponent" toml:"node_size_exponent"`
	SpreadCeiling    *float64                      `yaml:"spread_ceiling" toml:"spread_ceiling"`
	SpreadFloor      *float64                      `yaml:"spread_floor" toml:"spread_floor"`
	LowMeanCutoff    *float64                      `yaml:"low_mean_cutoff" toml:"low_mean_cutoff"`
	LowMeanScale     *float64                      `yaml:"low_mean_scale" toml:"low_mean_scale"`
	HighMeanScale    *float64                      `yaml:"high_mean_scale" toml:"high_mean_scale"`
	Seed             *string                       `yaml:"seed" toml:"seed"`
}

// CacheOverride holds optional cache settings. TTL uses Go duration syntax.
type CacheOverride struct {
	Size *int    `yaml:"size" toml:"size"`
	TTL  *string `yaml:"ttl" toml:"ttl"`
}

// Load reads a config file, choosing the decoder by extension. The file's
// base preset, or fallbackPreset when the file names none, supplies every
// field the file leaves out. The result is validated.
func Load(path, fallbackPreset string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var file File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, &file)
	case ".toml":
		err = decodeTOML(data, &file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := file.Resolve(fallbackPreset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies the file on top of its base preset
func (f *File) Resolve(fallbackPreset string) (*Config, error) {
	base := f.Base
	if base == "" {
		base = fallbackPreset
	}
	cfg, err := FromPreset(base)
	if err != nil {
		return nil, err
	}

	if err := f.Layout.apply(cfg.Layout); err != nil {
		return nil, err
	}

	if f.Cache.Size != nil {
		cfg.Cache.Size = *f.Cache.Size
	}
	if f.Cache.TTL != nil {
		ttl, err := time.ParseDuration(*f.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("cache.ttl: %w", err)
		}
		cfg.Cache.TTL = ttl
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *LayoutOverride) apply(c *visualization.LayoutConfig) error {
	if o.Thresholds != nil {
		c.Thresholds = *o.Thresholds
	}
	for name, band := range o.Bands {
		b, ok := visualization.ParseBucket(name)
		if !ok {
			return fmt.Errorf("layout.bands: unknown bucket %q", name)
		}
		c.BaseBands[b] = band
	}

	setFloat(&c.BandGap, o.BandGap)
	setFloat(&c.Padding, o.Padding)
	setInt(&c.Iterations, o.Iterations)
	setFloat(&c.EasingExponent, o.EasingExponent)
	setInt(&c.IndexModulus, o.IndexModulus)
	setFloat(&c.JitterMagnitude, o.JitterMagnitude)
	setFloat(&c.AngleJitter, o.AngleJitter)
	setFloat(&c.NodeSizeBase, o.NodeSizeBase)
	setFloat(&c.NodeSizeBoost, o.NodeSizeBoost)
	setFloat(&c.NodeSizeExponent, o.NodeSizeExponent)
	setFloat(&c.SpreadCeiling, o.SpreadCeiling)
	setFloat(&c.SpreadFloor, o.SpreadFloor)
	setFloat(&c.LowMeanCutoff, o.LowMeanCutoff)
	setFloat(&c.LowMeanScale, o.LowMeanScale)
	setFloat(&c.HighMeanScale, o.HighMeanScale)
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func decodeYAML(data []byte, file *File) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, file *File) error {
	md, err := toml.Decode(string(data), file)
	if err != nil {
		return fmt.Errorf("decode toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("decode toml: unknown keys %v", undecoded)
	}
	return nil
}
