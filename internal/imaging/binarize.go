package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/segerr"
)

// ValidateThreshold checks a binarization threshold against [0, 1].
func ValidateThreshold(threshold float64) error {
	if !(threshold >= 0 && threshold <= 1) {
		return segerr.NewConfigOutOfRange("binarize_threshold", threshold, "[0, 1]")
	}
	return nil
}

// Binarize thresholds a grayscale image into a mask. A cell is true when its
// intensity, scaled to [0, 1], is strictly greater than threshold, so bright
// paper comes out true and dark ink false. Which value is text is decided
// later by detection.DetectPolarity.
func Binarize(gray *image.Gray, threshold float64) (*detection.Mask, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	b := gray.Bounds()
	// intensity/255 > t  <=>  intensity >= floor(255t)+1 for integer intensities
	level := math.Floor(threshold*255) + 1
	if level > 255 {
		return detection.NewMask(b.Dy(), b.Dx(), nil), nil
	}

	cut := uint8(level)
	return detection.NewMask(b.Dy(), b.Dx(), func(r, c int) bool {
		return gray.Pix[r*gray.Stride+c] >= cut
	}), nil
}

// MaskImage renders a mask as a grayscale image with text white and
// background black, whatever the mask's own encoding.
func MaskImage(m *detection.Mask, pol detection.Polarity) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	text := pol.Text()
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if m.At(r, c) == text {
				img.SetGray(c, r, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}
