package detection

import (
	"fmt"
	"strings"

	"github.com/ironsheep/textseg/internal/segerr"
)

// Granularity selects what the column pass inside a line looks for.
type Granularity int

const (
	// Words uses the word thresholds and the word-bridged mask when present.
	Words Granularity = iota
	// Chars uses the character thresholds and never a bridged mask.
	Chars
)

func (g Granularity) String() string {
	if g == Chars {
		return "chars"
	}
	return "words"
}

// ParseGranularity accepts "words"/"word" and "chars"/"char"/"characters".
// The empty string means Words.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words", "word", "":
		return Words, nil
	case "chars", "char", "characters":
		return Chars, nil
	default:
		return 0, fmt.Errorf("unknown granularity: %s", s)
	}
}

// Config holds the numeric knobs of a segmentation run.
//
// Bridge sizes of zero disable bridging for that pass.
type Config struct {
	LineDensity float64 `yaml:"density_threshold_line" json:"density_threshold_line"`
	LineMinRun  int     `yaml:"min_run_line" json:"min_run_line"`
	WordDensity float64 `yaml:"density_threshold_word" json:"density_threshold_word"`
	WordMinRun  int     `yaml:"min_run_word" json:"min_run_word"`
	CharDensity float64 `yaml:"density_threshold_char" json:"density_threshold_char"`
	CharMinRun  int     `yaml:"min_run_char" json:"min_run_char"`

	BridgeWidthLine  int `yaml:"bridge_width_line" json:"bridge_width_line"`
	BridgeHeightLine int `yaml:"bridge_height_line" json:"bridge_height_line"`
	BridgeWidthWord  int `yaml:"bridge_width_word" json:"bridge_width_word"`

	TrailingRun TrailingRunPolicy `yaml:"trailing_run" json:"trailing_run"`
}

// DefaultConfig returns the documented defaults: 0.1/5 for lines, 0.001/1 for
// words, 0.05/3 for characters, no bridging, trailing runs closed.
func DefaultConfig() Config {
	return Config{
		LineDensity: 0.1,
		LineMinRun:  5,
		WordDensity: 0.001,
		WordMinRun:  1,
		CharDensity: 0.05,
		CharMinRun:  3,
		TrailingRun: TrailingRunClose,
	}
}

// Validate checks every knob against its domain and returns the first
// violation as a ConfigOutOfRange error.
func (c Config) Validate() error {
	densities := []struct {
		name  string
		value float64
	}{
		{"density_threshold_line", c.LineDensity},
		{"density_threshold_word", c.WordDensity},
		{"density_threshold_char", c.CharDensity},
	}
	for _, d := range densities {
		// NaN fails both comparisons, so test for membership instead
		if !(d.value >= 0 && d.value <= 1) {
			return segerr.NewConfigOutOfRange(d.name, d.value, "[0, 1]")
		}
	}

	runs := []struct {
		name  string
		value int
	}{
		{"min_run_line", c.LineMinRun},
		{"min_run_word", c.WordMinRun},
		{"min_run_char", c.CharMinRun},
	}
	for _, r := range runs {
		if r.value < 1 {
			return segerr.NewConfigOutOfRange(r.name, r.value, "[1, inf)")
		}
	}

	bridges := []struct {
		name  string
		value int
	}{
		{"bridge_width_line", c.BridgeWidthLine},
		{"bridge_height_line", c.BridgeHeightLine},
		{"bridge_width_word", c.BridgeWidthWord},
	}
	for _, b := range bridges {
		if b.value < 0 {
			return segerr.NewConfigOutOfRange(b.name, b.value, "[0, inf)")
		}
	}

	if c.TrailingRun != TrailingRunClose && c.TrailingRun != TrailingRunDiscard {
		return segerr.NewConfigOutOfRange("trailing_run", c.TrailingRun.String(), "{close, discard}")
	}
	return nil
}

// LineParams returns the run parameters of the line pass.
func (c Config) LineParams() RunParams {
	return RunParams{DensityThreshold: c.LineDensity, MinRun: c.LineMinRun, Trailing: c.TrailingRun}
}

// ChildParams returns the run parameters of the column pass at g.
func (c Config) ChildParams(g Granularity) RunParams {
	if g == Chars {
		return RunParams{DensityThreshold: c.CharDensity, MinRun: c.CharMinRun, Trailing: c.TrailingRun}
	}
	return RunParams{DensityThreshold: c.WordDensity, MinRun: c.WordMinRun, Trailing: c.TrailingRun}
}
