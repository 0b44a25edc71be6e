package detection

import (
	"fmt"
	"strings"
)

// Axis selects the direction a projection profile is indexed along.
type Axis int

const (
	// Rows indexes the profile by row; each cross-section is a row of the band.
	Rows Axis = iota
	// Columns indexes the profile by column; each cross-section is a column
	// of the band.
	Columns
)

func (a Axis) String() string {
	switch a {
	case Rows:
		return "rows"
	case Columns:
		return "columns"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis accepts "rows"/"row" and "columns"/"column"/"cols".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "row":
		return Rows, nil
	case "columns", "column", "cols", "col":
		return Columns, nil
	default:
		return 0, fmt.Errorf("unknown axis: %s", s)
	}
}

// TrailingRunPolicy decides what happens to a run that is still open when a
// scan reaches the end of its band. The same policy applies to every pass.
type TrailingRunPolicy int

const (
	// TrailingRunClose emits the open run if it meets the minimum length.
	TrailingRunClose TrailingRunPolicy = iota
	// TrailingRunDiscard drops the open run.
	TrailingRunDiscard
)

func (p TrailingRunPolicy) String() string {
	switch p {
	case TrailingRunClose:
		return "close"
	case TrailingRunDiscard:
		return "discard"
	default:
		return fmt.Sprintf("trailing_run(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p TrailingRunPolicy) MarshalText() ([]byte, error) {
	switch p {
	case TrailingRunClose, TrailingRunDiscard:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("invalid trailing run policy %d", int(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *TrailingRunPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "close", "":
		*p = TrailingRunClose
	case "discard":
		*p = TrailingRunDiscard
	default:
		return fmt.Errorf("unknown trailing run policy: %s", text)
	}
	return nil
}

// Interval is an inclusive index range [Start, End] along an axis.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the number of indices covered.
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// RunParams are the hysteresis knobs of one segmentation pass.
type RunParams struct {
	// DensityThreshold is the minimum fraction of text pixels a cross-section
	// needs to count as inside text.
	DensityThreshold float64
	// MinRun is the number of consecutive qualifying cross-sections needed
	// before a run is reported.
	MinRun int
	// Trailing controls runs still open at the end of the band.
	Trailing TrailingRunPolicy
}

// Profile computes the projection profile of band along axis: for every index
// i in the band, the fraction of text-valued pixels in cross-section i.
// The returned slice is indexed relative to the band's start along axis.
func Profile(m *Mask, band BoundingBox, axis Axis, pol Polarity) []float64 {
	text := pol.Text()

	if axis == Rows {
		profile := make([]float64, band.Height())
		length := float64(band.Width())
		for r := band.RowStart; r <= band.RowEnd; r++ {
			n := 0
			for c := band.ColStart; c <= band.ColEnd; c++ {
				if m.At(r, c) == text {
					n++
				}
			}
			profile[r-band.RowStart] = float64(n) / length
		}
		return profile
	}

	profile := make([]float64, band.Width())
	length := float64(band.Height())
	for c := band.ColStart; c <= band.ColEnd; c++ {
		n := 0
		for r := band.RowStart; r <= band.RowEnd; r++ {
			if m.At(r, c) == text {
				n++
			}
		}
		profile[c-band.ColStart] = float64(n) / length
	}
	return profile
}

// Runs applies run-length segmentation with hysteresis to a 1D signal.
//
// A position whose value reaches p.DensityThreshold extends the current run.
// A position below it ends the run: the run is emitted as [i-r, i-1] when its
// length r is at least p.MinRun, and silently dropped otherwise. Emitted
// intervals are shifted by offset.
func Runs(profile []float64, offset int, p RunParams) []Interval {
	intervals := make([]Interval, 0)
	run := 0

	for i, density := range profile {
		if density >= p.DensityThreshold {
			run++
			continue
		}
		if run >= p.MinRun {
			intervals = append(intervals, Interval{
				Start: offset + i - run,
				End:   offset + i - 1,
			})
		}
		run = 0
	}

	if p.Trailing == TrailingRunClose && run > 0 && run >= p.MinRun {
		n := len(profile)
		intervals = append(intervals, Interval{
			Start: offset + n - run,
			End:   offset + n - 1,
		})
	}

	return intervals
}

// Segment is the projection-profile segmenter: it scans band along axis and
// returns the ordered intervals, in absolute mask coordinates, where the text
// density stays at or above the threshold for at least MinRun positions.
//
// The band must lie inside the mask.
func Segment(m *Mask, band BoundingBox, axis Axis, pol Polarity, p RunParams) []Interval {
	offset := band.RowStart
	if axis == Columns {
		offset = band.ColStart
	}
	return Runs(Profile(m, band, axis, pol), offset, p)
}
