package detection

import (
	"fmt"

	"github.com/ironsheep/textseg/internal/segerr"
)

// Direction is the orientation of a gap-bridging structuring element.
type Direction int

const (
	// Horizontal bridges along each row with a 1 x width element.
	Horizontal Direction = iota
	// Vertical bridges along each column with a width x 1 element.
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Bridge dilates the text pixels of m with a flat line element of the given
// width, so that text runs closer than width pixels fuse into one. The element
// covers offsets [-width/2, width-1-width/2] around each pixel; width 1 is the
// identity. A gap of g pixels closes only when width > g: a width equal to the
// gap leaves one background pixel between the runs. The source mask is left
// untouched.
func Bridge(m *Mask, pol Polarity, dir Direction, width int) (*Mask, error) {
	if width < 1 {
		return nil, segerr.NewConfigOutOfRange("bridge width", width, "[1, inf)")
	}

	text := pol.Text()
	out := &Mask{rows: m.rows, cols: m.cols, bits: make([]bool, len(m.bits))}
	for i := range out.bits {
		out.bits[i] = !text
	}

	before := width / 2
	after := width - 1 - before

	// One line at a time: prefix sums of text pixels, then a window query.
	lines, length := m.rows, m.cols
	index := func(line, pos int) int { return line*m.cols + pos }
	if dir == Vertical {
		lines, length = m.cols, m.rows
		index = func(line, pos int) int { return pos*m.cols + line }
	}

	prefix := make([]int, length+1)
	for line := 0; line < lines; line++ {
		for pos := 0; pos < length; pos++ {
			prefix[pos+1] = prefix[pos]
			if m.bits[index(line, pos)] == text {
				prefix[pos+1]++
			}
		}
		for pos := 0; pos < length; pos++ {
			lo := pos - after
			hi := pos + before
			if lo < 0 {
				lo = 0
			}
			if hi > length-1 {
				hi = length - 1
			}
			if prefix[hi+1]-prefix[lo] > 0 {
				out.bits[index(line, pos)] = text
			}
		}
	}

	return out, nil
}
