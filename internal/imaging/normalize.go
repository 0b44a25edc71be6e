package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/textseg/internal/segerr"
)

// Channels reports the number of channels per pixel of img.
//
//   - *image.Gray, *image.Gray16: 1
//   - *image.YCbCr: 3
//   - *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
//     *image.NYCbCrA, *image.Paletted, *image.CMYK: 4
//
// Any other type (alpha-only masks, custom image.Image implementations) fails
// with UnsupportedPixelFormat.
func Channels(img image.Image) (int, error) {
	n := 0
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		n = 1
	case *image.YCbCr:
		n = 3
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
		*image.NYCbCrA, *image.Paletted, *image.CMYK:
		n = 4
	}
	if err := CheckChannels(n); err != nil {
		return 0, segerr.NewUnsupportedPixelFormat(fmt.Sprintf("%T", img), n)
	}
	return n, nil
}

// CheckChannels accepts 1 (gray), 3 (RGB) and 4 (RGBA) channels.
func CheckChannels(n int) error {
	switch n {
	case 1, 3, 4:
		return nil
	}
	return segerr.NewUnsupportedPixelFormat("raw", n)
}

// ToRGB returns the opaque RGB working copy of img: gray is replicated to
// three channels and any alpha is composited over white paper. The result has
// its origin at (0, 0).
func ToRGB(img image.Image) (*image.NRGBA, error) {
	if _, err := Channels(img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	paper := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(paper, img, image.Pt(0, 0), 1.0), nil
}

// Luma weights of the RGB to gray conversion (ITU-R BT.709).
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// Normalize converts img to 8-bit grayscale via its RGB working copy, using
// the BT.709 luma weights.
func Normalize(img image.Image) (*image.Gray, error) {
	rgb, err := ToRGB(img)
	if err != nil {
		return nil, err
	}
	g := effect.GrayscaleWithWeights(rgb, lumaR, lumaG, lumaB)
	out := image.NewGray(rgb.Bounds())
	draw.Draw(out, out.Bounds(), g, g.Bounds().Min, draw.Src)
	return out, nil
}
