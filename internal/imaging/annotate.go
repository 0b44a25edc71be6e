package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/segerr"
)

// ParseColor parses a "#rgb" or "#rrggbb" drawing color.
func ParseColor(hex string) (colorful.Color, error) {
	if len(hex) != 4 && len(hex) != 7 {
		return colorful.Color{}, segerr.NewInvalidDrawTarget(fmt.Sprintf("color %q is not a 3-component hex color", hex), nil)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, segerr.NewInvalidDrawTarget(fmt.Sprintf("color %q is not a 3-component hex color", hex), err)
	}
	return c, nil
}

// DrawBox paints a one-pixel rectangle just outside box onto dst in color c,
// so the region's own pixels stay visible.
//
// dst must use an 8-bit RGB(A) color model; gray or 16-bit targets fail with
// InvalidDrawTarget, as does a color outside the RGB gamut. Perimeter pixels
// falling outside dst are skipped.
func DrawBox(dst draw.Image, box detection.BoundingBox, c colorful.Color) error {
	switch dst.ColorModel() {
	case color.RGBAModel, color.NRGBAModel:
	default:
		return segerr.NewInvalidDrawTarget("draw target must be an 8-bit RGB image", nil)
	}
	if !c.IsValid() {
		return segerr.NewInvalidDrawTarget(fmt.Sprintf("color %v is outside the RGB gamut", c), nil)
	}

	r, g, b := c.RGB255()
	ink := color.NRGBA{R: r, G: g, B: b, A: 0xFF}

	bounds := dst.Bounds()
	set := func(row, col int) {
		p := image.Pt(bounds.Min.X+col, bounds.Min.Y+row)
		if p.In(bounds) {
			dst.Set(p.X, p.Y, ink)
		}
	}

	top, bottom := box.RowStart-1, box.RowEnd+1
	left, right := box.ColStart-1, box.ColEnd+1
	for col := left; col <= right; col++ {
		set(top, col)
		set(bottom, col)
	}
	for row := top; row <= bottom; row++ {
		set(row, left)
		set(row, right)
	}
	return nil
}

// Annotate returns an RGB copy of img with every line box drawn in
// lineColor and every segmented child box in childColor. img is not
// modified.
func Annotate(img image.Image, lines []*detection.Line, lineColor, childColor colorful.Color) (*image.NRGBA, error) {
	out, err := ToRGB(img)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := DrawBox(out, line.Box, lineColor); err != nil {
			return nil, err
		}
	}
	for _, line := range lines {
		for _, child := range line.Children() {
			if err := DrawBox(out, child, childColor); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
