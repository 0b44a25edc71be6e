package detection

import (
	"fmt"

	"github.com/ironsheep/textseg/internal/segerr"
)

// Polarity maps mask values to meaning: which boolean value is ink.
type Polarity int

const (
	// TextIsHigh means true cells are text and false cells are background.
	TextIsHigh Polarity = iota + 1
	// TextIsLow means false cells are text and true cells are background.
	TextIsLow
)

// Text returns the mask value that encodes ink.
func (p Polarity) Text() bool {
	return p == TextIsHigh
}

// Background returns the mask value that encodes paper.
func (p Polarity) Background() bool {
	return !p.Text()
}

// Inverse returns the opposite polarity.
func (p Polarity) Inverse() Polarity {
	if p == TextIsHigh {
		return TextIsLow
	}
	return TextIsHigh
}

// Valid reports whether p is one of the two defined encodings.
func (p Polarity) Valid() bool {
	return p == TextIsHigh || p == TextIsLow
}

func (p Polarity) String() string {
	switch p {
	case TextIsHigh:
		return "text_is_high"
	case TextIsLow:
		return "text_is_low"
	default:
		return fmt.Sprintf("polarity(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid polarity %d", int(p))
	}
	return []byte(p.String()), nil
}

// PerimeterSample holds the value counts gathered by DetectPolarity.
type PerimeterSample struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Total is the number of sampled pixels.
func (s PerimeterSample) Total() int {
	return s.Low + s.High
}

// SamplePerimeter counts the false and true cells on the border of the
// region [1, rows-2] x [1, cols-2]. Perimeter coordinates that fall outside
// the mask are skipped rather than clamped, and each pixel is counted once.
func SamplePerimeter(m *Mask) PerimeterSample {
	var s PerimeterSample
	r0, r1 := 1, m.Rows()-2
	c0, c1 := 1, m.Cols()-2
	if r1 < r0 {
		r0, r1 = r1, r0
	}
	if c1 < c0 {
		c0, c1 = c1, c0
	}

	seen := make(map[[2]int]struct{})
	visit := func(r, c int) {
		if !m.In(r, c) {
			return
		}
		key := [2]int{r, c}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if m.At(r, c) {
			s.High++
		} else {
			s.Low++
		}
	}

	for c := c0; c <= c1; c++ {
		visit(r0, c)
		visit(r1, c)
	}
	for r := r0 + 1; r < r1; r++ {
		visit(r, c0)
		visit(r, c1)
	}
	return s
}

// DetectPolarity decides which mask value is text by sampling the inset
// perimeter. Page margins are assumed to be mostly paper, so the majority
// value is background and the minority value is text. An exact tie fails with
// AmbiguousPolarity: there is no basis for choosing.
func DetectPolarity(m *Mask) (Polarity, error) {
	s := SamplePerimeter(m)
	switch {
	case s.High > s.Low:
		return TextIsLow, nil
	case s.Low > s.High:
		return TextIsHigh, nil
	default:
		return 0, segerr.NewAmbiguousPolarity(s.Total())
	}
}
