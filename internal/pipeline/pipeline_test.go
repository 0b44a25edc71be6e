package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/textseg/internal/config"
	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/segerr"
)

func box(r0, c0, r1, c1 int) detection.BoundingBox {
	return detection.BoundingBox{RowStart: r0, ColStart: c0, RowEnd: r1, ColEnd: c1}
}

// createPage builds a white RGBA page with black ink in the given boxes.
func createPage(width, height int, ink ...detection.BoundingBox) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	for _, b := range ink {
		for y := b.RowStart; y <= b.RowEnd; y++ {
			for x := b.ColStart; x <= b.ColEnd; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func newPipeline(t *testing.T, mutate func(*config.Config)) *Pipeline {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestAnalyze_TwoLines(t *testing.T) {
	page := createPage(300, 100,
		box(10, 20, 14, 40), box(10, 100, 14, 130),
		box(40, 50, 47, 200),
	)
	p := newPipeline(t, nil)

	res, err := p.Analyze(context.Background(), page, Options{Granularity: detection.Words})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if res.Polarity() != detection.TextIsLow {
		t.Errorf("polarity: got %v, want text_is_low", res.Polarity())
	}
	if len(res.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(res.Lines))
	}
	if res.Lines[0].Box != box(10, 0, 14, 299) {
		t.Errorf("line 0: got %+v", res.Lines[0].Box)
	}
	if res.Lines[1].Box != box(40, 0, 47, 299) {
		t.Errorf("line 1: got %+v", res.Lines[1].Box)
	}

	words := res.Lines[0].Children()
	if len(words) != 2 || words[0] != box(10, 20, 14, 40) || words[1] != box(10, 100, 14, 130) {
		t.Errorf("line 0 words: got %+v", words)
	}
	if got := res.Lines[1].Children(); len(got) != 1 || got[0] != box(40, 50, 47, 200) {
		t.Errorf("line 1 words: got %+v", got)
	}
	if res.Annotated != nil {
		t.Error("Annotated should be nil unless requested")
	}
}

func TestAnalyze_InvertedPage(t *testing.T) {
	page := createPage(300, 100, box(10, 20, 14, 80))
	// white text on black paper
	for i := 0; i < len(page.Pix); i += 4 {
		page.Pix[i] = 255 - page.Pix[i]
		page.Pix[i+1] = 255 - page.Pix[i+1]
		page.Pix[i+2] = 255 - page.Pix[i+2]
	}
	p := newPipeline(t, nil)

	res, err := p.Analyze(context.Background(), page, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Polarity() != detection.TextIsHigh {
		t.Errorf("polarity: got %v, want text_is_high", res.Polarity())
	}
	if len(res.Lines) != 1 || res.Lines[0].Box != box(10, 0, 14, 299) {
		t.Fatalf("lines: got %+v", res.Report().Lines)
	}
	if got := res.Lines[0].Children(); len(got) != 1 || got[0] != box(10, 20, 14, 80) {
		t.Errorf("words: got %+v", got)
	}
}

func TestAnalyze_NarrowInkBelowLineDensity(t *testing.T) {
	// 21 of 300 columns is a row density of 0.07, under the 0.1 line threshold
	page := createPage(300, 100, box(10, 20, 14, 40))
	p := newPipeline(t, nil)

	res, err := p.Analyze(context.Background(), page, Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("lines: got %+v, want none", res.Report().Lines)
	}
}

func TestAnalyze_Annotate(t *testing.T) {
	page := createPage(300, 100, box(10, 20, 14, 80))
	p := newPipeline(t, nil)

	res, err := p.Analyze(context.Background(), page, Options{Annotate: true})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Annotated == nil {
		t.Fatal("Annotated is nil")
	}

	red := color.NRGBA{255, 0, 0, 255}
	green := color.NRGBA{0, 255, 0, 255}
	// rectangles are drawn one pixel outside the region
	if got := res.Annotated.NRGBAAt(0, 9); got != red {
		t.Errorf("line top: got %+v, want red", got)
	}
	if got := res.Annotated.NRGBAAt(0, 15); got != red {
		t.Errorf("line bottom: got %+v, want red", got)
	}
	if got := res.Annotated.NRGBAAt(19, 12); got != green {
		t.Errorf("word left: got %+v, want green", got)
	}
	if got := res.Annotated.NRGBAAt(20, 12); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("ink: got %+v, want black", got)
	}
}

func TestAnalyze_BlankPage(t *testing.T) {
	p := newPipeline(t, nil)
	res, err := p.Analyze(context.Background(), createPage(50, 50), Options{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("lines: got %d, want 0", len(res.Lines))
	}
}

func TestAnalyze_AmbiguousPolarity(t *testing.T) {
	// left half black, right half white: the perimeter splits evenly
	page := createPage(10, 10, box(0, 0, 9, 4))
	p := newPipeline(t, nil)

	_, err := p.Analyze(context.Background(), page, Options{})
	if !errors.Is(err, segerr.ErrAmbiguousPolarity) {
		t.Errorf("got %v, want AmbiguousPolarity", err)
	}
}

func TestAnalyze_UnsupportedPixelFormat(t *testing.T) {
	p := newPipeline(t, nil)
	_, err := p.Analyze(context.Background(), image.NewAlpha(image.Rect(0, 0, 10, 10)), Options{})
	if !errors.Is(err, segerr.ErrUnsupportedPixelFormat) {
		t.Errorf("got %v, want UnsupportedPixelFormat", err)
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	page := createPage(300, 100, box(10, 20, 14, 80))
	p := newPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, page, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestAnalyze_CancelledBlankPage(t *testing.T) {
	p := newPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Analyze(ctx, createPage(50, 50), Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Segmentation.LineMinRun = 0
	if _, err := New(cfg, nil); !errors.Is(err, segerr.ErrConfigOutOfRange) {
		t.Errorf("got %v, want ConfigOutOfRange", err)
	}
	if _, err := New(nil, nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestSegmentLines_MatchesSequential(t *testing.T) {
	var ink []detection.BoundingBox
	for r := 5; r+6 < 200; r += 12 {
		for c := 3 + r%7; c+5 < 400; c += 9 + r%5 {
			ink = append(ink, box(r, c, r+5, c+4))
		}
	}
	page := createPage(400, 200, ink...)

	seq := newPipeline(t, func(c *config.Config) { c.Workers = 1 })
	par := newPipeline(t, func(c *config.Config) { c.Workers = 8 })

	for _, g := range []detection.Granularity{detection.Words, detection.Chars} {
		a, err := seq.Analyze(context.Background(), page, Options{Granularity: g})
		if err != nil {
			t.Fatalf("sequential Analyze failed: %v", err)
		}
		b, err := par.Analyze(context.Background(), page, Options{Granularity: g})
		if err != nil {
			t.Fatalf("parallel Analyze failed: %v", err)
		}
		if len(a.Lines) != len(b.Lines) || len(a.Lines) == 0 {
			t.Fatalf("%v: line count %d vs %d", g, len(a.Lines), len(b.Lines))
		}
		for i := range a.Lines {
			ca, cb := a.Lines[i].Children(), b.Lines[i].Children()
			if len(ca) != len(cb) {
				t.Fatalf("%v line %d: %d vs %d children", g, i, len(ca), len(cb))
			}
			for j := range ca {
				if ca[j] != cb[j] {
					t.Errorf("%v line %d child %d: %+v vs %+v", g, i, j, ca[j], cb[j])
				}
			}
		}
	}
}

func TestProcessFile_SaveVariants(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, createPage(300, 100, box(10, 20, 14, 40))); err != nil {
		t.Fatalf("failed to encode page: %v", err)
	}
	f.Close()

	p := newPipeline(t, nil)
	res, err := p.ProcessFile(context.Background(), path, Options{SaveVariants: true})
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if res.Info == nil || res.Info.Width != 300 || res.Info.Height != 100 {
		t.Errorf("Info: got %+v", res.Info)
	}
	if res.Variants == nil {
		t.Fatal("Variants is nil")
	}
	want := []string{
		filepath.Join(dir, "page_rgb.png"),
		filepath.Join(dir, "page_gray.png"),
		filepath.Join(dir, "page_bin.png"),
	}
	for i, got := range []string{res.Variants.RGB, res.Variants.Gray, res.Variants.Binary} {
		if got != want[i] {
			t.Errorf("variant %d: got %s, want %s", i, got, want[i])
		}
		if _, err := os.Stat(got); err != nil {
			t.Errorf("variant %s missing: %v", got, err)
		}
	}
	if p.Cache().Len() != 1 {
		t.Errorf("cache: got %d entries, want 1", p.Cache().Len())
	}
}

func TestProcessFile_Missing(t *testing.T) {
	p := newPipeline(t, nil)
	if _, err := p.ProcessFile(context.Background(), "/nonexistent/page.png", Options{}); err == nil {
		t.Error("ProcessFile should fail for missing file")
	}
}
