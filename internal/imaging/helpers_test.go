package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

// createInMemoryImage creates a solid color RGBA image.
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with four colored quadrants:
// red top-left, green top-right, blue bottom-left, white bottom-right.
func createPatternImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255}
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255}
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255}
			} else {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// createPageImage creates a white grayscale page with black ink in the given
// rectangles (image coordinates, exclusive max).
func createPageImage(width, height int, ink ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	for _, r := range ink {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

// writePNG encodes img to a temp file and returns its path. The file is
// removed when the test finishes.
func writePNG(t *testing.T, img image.Image, pattern string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}
