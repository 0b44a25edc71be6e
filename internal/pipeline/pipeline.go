// Package pipeline runs one page through decode, normalization,
// binarization, polarity detection, line segmentation and the per-line
// column pass, and optionally writes the annotated variants.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/textseg/internal/config"
	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/imaging"
)

// Options selects what a run produces beyond the line hierarchy.
type Options struct {
	// Granularity of the column pass.
	Granularity detection.Granularity
	// Annotate draws line and child boxes onto an RGB copy of the page.
	Annotate bool
	// SaveVariants writes the _rgb, _gray and _bin files next to the input.
	// It implies Annotate.
	SaveVariants bool
}

// Result is everything one run produced.
type Result struct {
	Path        string
	Info        *imaging.ImageInfo
	Gray        *image.Gray
	Mask        *detection.Mask
	Document    *detection.Document
	Granularity detection.Granularity
	Lines       []*detection.Line
	Annotated   *image.NRGBA
	Variants    *imaging.Variants
	Elapsed     time.Duration
}

// Polarity is shorthand for r.Document.Polarity().
func (r *Result) Polarity() detection.Polarity {
	return r.Document.Polarity()
}

// Pipeline holds a validated configuration and an image cache shared by
// every run.
type Pipeline struct {
	cfg       *config.Config
	cache     *imaging.ImageCache
	lineColor colorful.Color
	wordColor colorful.Color
}

// New validates cfg and prepares a pipeline. A nil cache gets a private one.
func New(cfg *config.Config, cache *imaging.ImageCache) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lineColor, err := imaging.ParseColor(cfg.Render.LineColor)
	if err != nil {
		return nil, err
	}
	wordColor, err := imaging.ParseColor(cfg.Render.WordColor)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &Pipeline{cfg: cfg, cache: cache, lineColor: lineColor, wordColor: wordColor}, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// Cache returns the image cache used by ProcessFile.
func (p *Pipeline) Cache() *imaging.ImageCache { return p.cache }

// ProcessFile loads the page at path through the cache and analyzes it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	info, err := imaging.LoadImageInfo(p.cache, path)
	if err != nil {
		return nil, err
	}
	img, err := p.cache.Load(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded page", "path", path, "width", info.Width, "height", info.Height,
		"format", info.Format, "channels", info.Channels)

	res, err := p.Analyze(ctx, img, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", path, err)
	}
	res.Path = path
	res.Info = info

	if opts.SaveVariants {
		bin := imaging.MaskImage(res.Mask, res.Polarity())
		variants, err := imaging.SaveVariants(path, res.Annotated, res.Gray, bin)
		if err != nil {
			return nil, err
		}
		res.Variants = variants
		slog.Debug("Wrote variants", "rgb", variants.RGB, "gray", variants.Gray, "bin", variants.Binary)
	}

	return res, nil
}

// Analyze runs the full segmentation of an in-memory page. A context that is
// already done fails before any work starts.
func (p *Pipeline) Analyze(ctx context.Context, img image.Image, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	doc, gray, err := p.Prepare(img)
	if err != nil {
		return nil, err
	}

	lines := doc.Lines()
	slog.Debug("Line pass completed", "polarity", doc.Polarity().String(), "lines", len(lines))

	if err := SegmentLines(ctx, doc, lines, opts.Granularity, p.workers()); err != nil {
		return nil, err
	}

	res := &Result{
		Gray:        gray,
		Mask:        doc.Mask(),
		Document:    doc,
		Granularity: opts.Granularity,
		Lines:       lines,
	}

	if opts.Annotate || opts.SaveVariants {
		annotated, err := imaging.Annotate(img, lines, p.lineColor, p.wordColor)
		if err != nil {
			return nil, err
		}
		res.Annotated = annotated
	}

	res.Elapsed = time.Since(start)
	slog.Info("Segmented page",
		"polarity", doc.Polarity().String(),
		"lines", len(lines),
		"granularity", opts.Granularity.String(),
		"children", countChildren(lines),
		"duration_ms", res.Elapsed.Milliseconds())

	return res, nil
}

// Prepare normalizes and binarizes img and builds its document, without
// running any pass.
func (p *Pipeline) Prepare(img image.Image) (*detection.Document, *image.Gray, error) {
	gray, mask, err := p.Binarize(img)
	if err != nil {
		return nil, nil, err
	}
	doc, err := detection.NewDocument(mask, p.cfg.Segmentation)
	if err != nil {
		return nil, nil, err
	}
	return doc, gray, nil
}

// Binarize normalizes img to grayscale and thresholds it with the
// configured binarization threshold.
func (p *Pipeline) Binarize(img image.Image) (*image.Gray, *detection.Mask, error) {
	gray, err := imaging.Normalize(img)
	if err != nil {
		return nil, nil, err
	}
	mask, err := imaging.Binarize(gray, p.cfg.BinarizeThreshold)
	if err != nil {
		return nil, nil, err
	}
	return gray, mask, nil
}

func (p *Pipeline) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SegmentLines runs the column pass on every line, at most workers at a
// time. Each goroutine writes only to its own line.
func SegmentLines(ctx context.Context, doc *detection.Document, lines []*detection.Line, g detection.Granularity, workers int) error {
	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for _, line := range lines {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			children := doc.Segment(line, g)
			slog.Debug("Column pass completed", "line", line.Index, "granularity", g.String(), "children", len(children))
			return nil
		})
	}
	return eg.Wait()
}

func countChildren(lines []*detection.Line) int {
	n := 0
	for _, l := range lines {
		n += len(l.Children())
	}
	return n
}
