package detection

import (
	"image"

	"github.com/ironsheep/textseg/internal/segerr"
)

// BoundingBox is an axis-aligned rectangle over the pixel grid.
//
// All four edges are inclusive: a box with RowStart == RowEnd is one pixel
// tall. Boxes are built with NewBoundingBox, which rejects degenerate extents.
type BoundingBox struct {
	RowStart int `json:"row_start" yaml:"row_start"`
	ColStart int `json:"col_start" yaml:"col_start"`
	RowEnd   int `json:"row_end" yaml:"row_end"`
	ColEnd   int `json:"col_end" yaml:"col_end"`
}

// NewBoundingBox returns the box spanning rows rowStart..rowEnd and columns
// colStart..colEnd, or an InvalidRegion error when either extent is empty.
func NewBoundingBox(rowStart, colStart, rowEnd, colEnd int) (BoundingBox, error) {
	if rowEnd < rowStart || colEnd < colStart {
		return BoundingBox{}, segerr.NewInvalidRegion(rowStart, colStart, rowEnd, colEnd)
	}
	return BoundingBox{
		RowStart: rowStart,
		ColStart: colStart,
		RowEnd:   rowEnd,
		ColEnd:   colEnd,
	}, nil
}

// mustBox is used where the scan logic guarantees a valid extent. A failure
// here is a defect in the scanner, not a property of the input.
func mustBox(rowStart, colStart, rowEnd, colEnd int) BoundingBox {
	b, err := NewBoundingBox(rowStart, colStart, rowEnd, colEnd)
	if err != nil {
		panic(err)
	}
	return b
}

// Height is the number of rows covered by the box.
func (b BoundingBox) Height() int {
	return b.RowEnd - b.RowStart + 1
}

// Width is the number of columns covered by the box.
func (b BoundingBox) Width() int {
	return b.ColEnd - b.ColStart + 1
}

// Area is Width * Height.
func (b BoundingBox) Area() int {
	return b.Width() * b.Height()
}

// Contains reports whether other lies entirely inside b.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.RowStart >= b.RowStart && other.RowEnd <= b.RowEnd &&
		other.ColStart >= b.ColStart && other.ColEnd <= b.ColEnd
}

// Overlaps reports whether b and other share at least one pixel.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	return b.RowStart <= other.RowEnd && other.RowStart <= b.RowEnd &&
		b.ColStart <= other.ColEnd && other.ColStart <= b.ColEnd
}

// Rect converts the box to an image.Rectangle (X = column, Y = row) with the
// usual exclusive maximum, offset by origin.
func (b BoundingBox) Rect(origin image.Point) image.Rectangle {
	return image.Rect(
		origin.X+b.ColStart,
		origin.Y+b.RowStart,
		origin.X+b.ColEnd+1,
		origin.Y+b.RowEnd+1,
	)
}
