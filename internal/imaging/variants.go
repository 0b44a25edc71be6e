package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Variant file suffixes, inserted before the extension.
const (
	SuffixRGB    = "_rgb"
	SuffixGray   = "_gray"
	SuffixBinary = "_bin"
)

// Variants lists the paths written by SaveVariants.
type Variants struct {
	RGB    string `json:"rgb" yaml:"rgb"`
	Gray   string `json:"gray" yaml:"gray"`
	Binary string `json:"binary" yaml:"binary"`
}

// VariantPath inserts suffix before the extension of path. Extensions that
// cannot be encoded (e.g. .webp) are replaced by .png.
func VariantPath(path, suffix string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		ext = ".png"
	}
	return base + suffix + ext
}

// SaveVariants writes the annotated RGB, grayscale and binarized renditions
// of the page at path next to it.
func SaveVariants(path string, rgb, gray, bin image.Image) (*Variants, error) {
	v := &Variants{
		RGB:    VariantPath(path, SuffixRGB),
		Gray:   VariantPath(path, SuffixGray),
		Binary: VariantPath(path, SuffixBinary),
	}

	for _, out := range []struct {
		path string
		img  image.Image
	}{
		{v.RGB, rgb},
		{v.Gray, gray},
		{v.Binary, bin},
	} {
		if err := imaging.Save(out.img, out.path); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", out.path, err)
		}
	}
	return v, nil
}
