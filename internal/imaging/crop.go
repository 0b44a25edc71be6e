package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/textseg/internal/detection"
)

// CropResult contains the cropped image data
type CropResult struct {
	Box         detection.BoundingBox `json:"box"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	ImageBase64 string                `json:"image_base64"`
	MimeType    string                `json:"mime_type"`
}

// Crop extracts the pixels covered by box (inclusive, row/column
// coordinates) and returns them as a base64 PNG, optionally rescaled.
func Crop(img image.Image, box detection.BoundingBox, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	rect := box.Rect(bounds.Min)

	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region rows %d..%d cols %d..%d outside image %dx%d",
			box.RowStart, box.RowEnd, box.ColStart, box.ColEnd, bounds.Dy(), bounds.Dx())
	}

	cropped := imaging.Crop(img, rect)

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Box:         box,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// RegionBox resolves a named page region ("top-half", "bottom-left",
// "center", ...) to a box on a rows x cols page.
func RegionBox(rows, cols int, region string) (detection.BoundingBox, error) {
	midC := cols / 2
	midR := rows / 2

	var r0, c0, r1, c1 int
	switch region {
	case "full":
		r0, c0, r1, c1 = 0, 0, rows, cols
	case "top-left":
		r0, c0, r1, c1 = 0, 0, midR, midC
	case "top-right":
		r0, c0, r1, c1 = 0, midC, midR, cols
	case "bottom-left":
		r0, c0, r1, c1 = midR, 0, rows, midC
	case "bottom-right":
		r0, c0, r1, c1 = midR, midC, rows, cols
	case "top-half":
		r0, c0, r1, c1 = 0, 0, midR, cols
	case "bottom-half":
		r0, c0, r1, c1 = midR, 0, rows, cols
	case "left-half":
		r0, c0, r1, c1 = 0, 0, rows, midC
	case "right-half":
		r0, c0, r1, c1 = 0, midC, rows, cols
	case "center":
		// Center 50% of the page
		qR := rows / 4
		qC := cols / 4
		r0, c0, r1, c1 = qR, qC, rows-qR, cols-qC
	default:
		return detection.BoundingBox{}, fmt.Errorf("unknown region: %s", region)
	}

	// r1/c1 above are exclusive
	return detection.NewBoundingBox(r0, c0, r1-1, c1-1)
}
