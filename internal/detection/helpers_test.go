package detection

import "testing"

// box is a test shorthand for an inclusive region.
func box(r0, c0, r1, c1 int) BoundingBox {
	return BoundingBox{RowStart: r0, ColStart: c0, RowEnd: r1, ColEnd: c1}
}

// createPageMask builds a rows x cols mask of paper with the given regions
// filled with ink, encoded according to pol.
func createPageMask(t *testing.T, rows, cols int, pol Polarity, ink ...BoundingBox) *Mask {
	t.Helper()
	text := pol.Text()
	return NewMask(rows, cols, func(r, c int) bool {
		for _, b := range ink {
			if r >= b.RowStart && r <= b.RowEnd && c >= b.ColStart && c <= b.ColEnd {
				return text
			}
		}
		return !text
	})
}

// createStripedMask lays out horizontal text bands of varying height and gap,
// each made of glyph-like column blocks, on white paper.
func createStripedMask(t *testing.T, rows, cols int, seed int) *Mask {
	t.Helper()
	var ink []BoundingBox
	r := 3 + seed%4
	for r < rows-4 {
		h := 3 + (r+seed)%6
		if r+h >= rows-2 {
			break
		}
		c := 2 + (seed+r)%5
		for c < cols-4 {
			w := 2 + (c*7+seed)%6
			if c+w >= cols-2 {
				break
			}
			ink = append(ink, box(r, c, r+h-1, c+w-1))
			c += w + 1 + (c+r+seed)%9
		}
		r += h + 1 + (r*3+seed)%5
	}
	return createPageMask(t, rows, cols, TextIsLow, ink...)
}
