// Package config loads segmentation settings from defaults, an optional YAML
// file and TEXTSEG_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	yaml "go.yaml.in/yaml/v3"

	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/imaging"
	"github.com/ironsheep/textseg/internal/segerr"
)

// EnvPrefix prefixes every environment variable Load consults.
const EnvPrefix = "TEXTSEG_"

// Render holds annotation colors as "#rgb" or "#rrggbb".
type Render struct {
	LineColor string `yaml:"line_color" json:"line_color"`
	WordColor string `yaml:"word_color" json:"word_color"`
}

// Config is the full set of knobs for one run.
type Config struct {
	BinarizeThreshold float64          `yaml:"binarize_threshold" json:"binarize_threshold"`
	Segmentation      detection.Config `yaml:"segmentation" json:"segmentation"`
	Render            Render           `yaml:"render" json:"render"`

	// Workers bounds the parallel column pass. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BinarizeThreshold: 0.5,
		Segmentation:      detection.DefaultConfig(),
		Render: Render{
			LineColor: "#ff0000",
			WordColor: "#00ff00",
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty) and the process environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.MergeYAML(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeYAML overlays the keys present in data onto c. Unknown keys are
// rejected.
func (c *Config) MergeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// ApplyEnv overlays TEXTSEG_* variables found by lookup onto c.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"BINARIZE_THRESHOLD", &c.BinarizeThreshold},
		{"DENSITY_THRESHOLD_LINE", &c.Segmentation.LineDensity},
		{"DENSITY_THRESHOLD_WORD", &c.Segmentation.WordDensity},
		{"DENSITY_THRESHOLD_CHAR", &c.Segmentation.CharDensity},
	}
	for _, f := range floats {
		v, ok := lookup(EnvPrefix + f.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, f.key, err)
		}
		*f.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"MIN_RUN_LINE", &c.Segmentation.LineMinRun},
		{"MIN_RUN_WORD", &c.Segmentation.WordMinRun},
		{"MIN_RUN_CHAR", &c.Segmentation.CharMinRun},
		{"BRIDGE_WIDTH_LINE", &c.Segmentation.BridgeWidthLine},
		{"BRIDGE_HEIGHT_LINE", &c.Segmentation.BridgeHeightLine},
		{"BRIDGE_WIDTH_WORD", &c.Segmentation.BridgeWidthWord},
		{"WORKERS", &c.Workers},
	}
	for _, i := range ints {
		v, ok := lookup(EnvPrefix + i.key)
		if !ok {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, i.key, err)
		}
		*i.dst = parsed
	}

	if v, ok := lookup(EnvPrefix + "TRAILING_RUN"); ok {
		if err := c.Segmentation.TrailingRun.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sTRAILING_RUN: %w", EnvPrefix, err)
		}
	}
	if v, ok := lookup(EnvPrefix + "LINE_COLOR"); ok {
		c.Render.LineColor = v
	}
	if v, ok := lookup(EnvPrefix + "WORD_COLOR"); ok {
		c.Render.WordColor = v
	}
	return nil
}

// Validate checks every field and returns the first violation.
func (c *Config) Validate() error {
	if err := imaging.ValidateThreshold(c.BinarizeThreshold); err != nil {
		return err
	}
	if err := c.Segmentation.Validate(); err != nil {
		return err
	}
	if _, err := imaging.ParseColor(c.Render.LineColor); err != nil {
		return fmt.Errorf("render.line_color: %w", err)
	}
	if _, err := imaging.ParseColor(c.Render.WordColor); err != nil {
		return fmt.Errorf("render.word_color: %w", err)
	}
	if c.Workers < 0 {
		return segerr.NewConfigOutOfRange("workers", c.Workers, "[0, inf)")
	}
	return nil
}

// Marshal renders c as YAML, in the layout Load reads.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
