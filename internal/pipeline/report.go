package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/imaging"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the serializable summary of a Result.
type Report struct {
	Path        string               `json:"path,omitempty" yaml:"path,omitempty"`
	Width       int                  `json:"width" yaml:"width"`
	Height      int                  `json:"height" yaml:"height"`
	Polarity    string               `json:"polarity" yaml:"polarity"`
	Granularity string               `json:"granularity" yaml:"granularity"`
	LineCount   int                  `json:"line_count" yaml:"line_count"`
	Lines       []detection.LineView `json:"lines" yaml:"lines"`
	Variants    *imaging.Variants    `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// Report builds the summary of r.
func (r *Result) Report() *Report {
	views := make([]detection.LineView, 0, len(r.Lines))
	for _, l := range r.Lines {
		views = append(views, l.View())
	}
	return &Report{
		Path:        r.Path,
		Width:       r.Mask.Cols(),
		Height:      r.Mask.Rows(),
		Polarity:    r.Polarity().String(),
		Granularity: r.Granularity.String(),
		LineCount:   len(r.Lines),
		Lines:       views,
		Variants:    r.Variants,
	}
}

// ValidateFormat accepts text, json and yaml.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown report format %q (want text, json or yaml)", format)
}

// Write renders rep to w in format.
func (rep *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, rep.text())
		return err
	}
	return ValidateFormat(format)
}

func (rep *Report) text() string {
	var b strings.Builder
	if rep.Path != "" {
		fmt.Fprintf(&b, "page:     %s (%dx%d)\n", rep.Path, rep.Width, rep.Height)
	}
	fmt.Fprintf(&b, "polarity: %s\n", rep.Polarity)
	fmt.Fprintf(&b, "lines:    %d\n", rep.LineCount)
	for _, l := range rep.Lines {
		fmt.Fprintf(&b, "  line %d rows %d-%d: %d %s\n",
			l.Index, l.Box.RowStart, l.Box.RowEnd, len(l.Children), rep.Granularity)
	}
	if rep.Variants != nil {
		fmt.Fprintf(&b, "wrote:    %s\n          %s\n          %s\n",
			rep.Variants.RGB, rep.Variants.Gray, rep.Variants.Binary)
	}
	return b.String()
}
