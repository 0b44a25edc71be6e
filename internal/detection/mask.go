package detection

import "fmt"

// Mask is an immutable rows x cols boolean grid stored row-major.
//
// A Mask does not know which value means ink; that mapping is carried by a
// Polarity. Operations that change pixels (Invert, Bridge) return a new Mask.
type Mask struct {
	rows int
	cols int
	bits []bool
}

// NewMask builds a rows x cols mask whose cell (r, c) is fn(r, c).
// Non-positive dimensions yield an empty mask.
func NewMask(rows, cols int, fn func(r, c int) bool) *Mask {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	m := &Mask{rows: rows, cols: cols, bits: make([]bool, rows*cols)}
	if fn == nil {
		return m
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.bits[r*cols+c] = fn(r, c)
		}
	}
	return m
}

// MaskFromRows builds a mask from a slice of equal-length rows.
func MaskFromRows(grid [][]bool) (*Mask, error) {
	rows := len(grid)
	cols := 0
	if rows > 0 {
		cols = len(grid[0])
	}
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d", r, len(row), cols)
		}
	}
	return NewMask(rows, cols, func(r, c int) bool { return grid[r][c] }), nil
}

// Rows returns the mask height.
func (m *Mask) Rows() int { return m.rows }

// Cols returns the mask width.
func (m *Mask) Cols() int { return m.cols }

// In reports whether (r, c) is inside the mask.
func (m *Mask) In(r, c int) bool {
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// At returns the value at (r, c). Out-of-range coordinates panic.
func (m *Mask) At(r, c int) bool {
	if !m.In(r, c) {
		panic(fmt.Sprintf("mask index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
	return m.bits[r*m.cols+c]
}

// Bounds is the box covering the whole mask. It is only valid for a
// non-empty mask.
func (m *Mask) Bounds() (BoundingBox, error) {
	return NewBoundingBox(0, 0, m.rows-1, m.cols-1)
}

// Invert returns a new mask with every value flipped.
func (m *Mask) Invert() *Mask {
	out := &Mask{rows: m.rows, cols: m.cols, bits: make([]bool, len(m.bits))}
	for i, v := range m.bits {
		out.bits[i] = !v
	}
	return out
}

// Count returns how many cells hold v.
func (m *Mask) Count(v bool) int {
	n := 0
	for _, b := range m.bits {
		if b == v {
			n++
		}
	}
	return n
}

// Equal reports whether both masks have the same shape and contents.
func (m *Mask) Equal(other *Mask) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}
