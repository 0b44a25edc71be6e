package detection

import (
	"sync"

	"github.com/ironsheep/textseg/internal/segerr"
)

// Line is a detected text line: a full-width band of rows plus the word or
// character boxes found inside it. Each Line owns its child list; nothing
// else holds a reference to it.
type Line struct {
	// Index is the line's position in reading order (top to bottom).
	Index int
	// Box spans the line's rows and the full page width.
	Box BoundingBox

	children    []BoundingBox
	granularity Granularity
	segmented   bool
}

// Children returns a copy of the boxes found by the last column pass.
func (l *Line) Children() []BoundingBox {
	out := make([]BoundingBox, len(l.children))
	copy(out, l.children)
	return out
}

// Segmented reports whether a column pass has run on this line.
func (l *Line) Segmented() bool {
	return l.segmented
}

// Granularity reports the granularity of the last column pass.
func (l *Line) Granularity() Granularity {
	return l.granularity
}

// LineView is a plain snapshot of a Line for reports and serialization.
type LineView struct {
	Index       int           `json:"index" yaml:"index"`
	Box         BoundingBox   `json:"box" yaml:"box"`
	Granularity string        `json:"granularity,omitempty" yaml:"granularity,omitempty"`
	Children    []BoundingBox `json:"children" yaml:"children"`
}

// View returns a snapshot of the line.
func (l *Line) View() LineView {
	v := LineView{
		Index:    l.Index,
		Box:      l.Box,
		Children: l.Children(),
	}
	if l.segmented {
		v.Granularity = l.granularity.String()
	}
	return v
}

// BuildLines runs the segmenter along rows over the whole mask and returns
// one full-width Line per detected row interval, top to bottom.
//
// cfg must already be validated.
func BuildLines(m *Mask, pol Polarity, cfg Config) []*Line {
	lines := make([]*Line, 0)
	page, err := m.Bounds()
	if err != nil {
		return lines
	}

	for i, iv := range Segment(m, page, Rows, pol, cfg.LineParams()) {
		lines = append(lines, &Line{
			Index: i,
			Box:   mustBox(iv.Start, 0, iv.End, m.Cols()-1),
		})
	}
	return lines
}

// BuildWordsOrChars runs the segmenter along columns restricted to the
// line's rows and stores the resulting boxes, left to right, as the line's
// children. The column pass covers the line's own column span, which for
// lines from BuildLines is the full page width.
//
// The result depends only on the arguments: running it again with the same
// inputs replaces the children with an identical list. A line with no
// qualifying columns ends up with no children, which is not an error.
func BuildWordsOrChars(line *Line, m *Mask, pol Polarity, cfg Config, g Granularity) []BoundingBox {
	intervals := Segment(m, line.Box, Columns, pol, cfg.ChildParams(g))

	children := make([]BoundingBox, 0, len(intervals))
	for _, iv := range intervals {
		children = append(children, mustBox(line.Box.RowStart, iv.Start, line.Box.RowEnd, iv.End))
	}

	line.children = children
	line.granularity = g
	line.segmented = true
	return line.Children()
}

// Document ties one binarized page to its polarity, configuration and any
// bridged variants of its mask, and owns the detected lines.
//
// The source mask and bridged masks are never modified after construction,
// so distinct lines may be segmented concurrently.
type Document struct {
	mask     *Mask
	lineMask *Mask
	wordMask *Mask
	polarity Polarity
	cfg      Config

	linesOnce sync.Once
	lines     []*Line
}

// NewDocument validates cfg, detects the mask's polarity and prepares the
// bridged masks cfg asks for.
func NewDocument(m *Mask, cfg Config) (*Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pol, err := DetectPolarity(m)
	if err != nil {
		return nil, err
	}
	return newDocument(m, pol, cfg)
}

// NewDocumentWithPolarity is NewDocument for callers that already know the
// polarity.
func NewDocumentWithPolarity(m *Mask, pol Polarity, cfg Config) (*Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !pol.Valid() {
		return nil, segerr.NewConfigOutOfRange("polarity", int(pol), "{text_is_high, text_is_low}")
	}
	return newDocument(m, pol, cfg)
}

func newDocument(m *Mask, pol Polarity, cfg Config) (*Document, error) {
	d := &Document{mask: m, polarity: pol, cfg: cfg}

	lineMask := m
	var err error
	if cfg.BridgeWidthLine > 0 {
		if lineMask, err = Bridge(lineMask, pol, Horizontal, cfg.BridgeWidthLine); err != nil {
			return nil, err
		}
	}
	if cfg.BridgeHeightLine > 0 {
		if lineMask, err = Bridge(lineMask, pol, Vertical, cfg.BridgeHeightLine); err != nil {
			return nil, err
		}
	}
	if lineMask != m {
		d.lineMask = lineMask
	}

	if cfg.BridgeWidthWord > 0 {
		if d.wordMask, err = Bridge(m, pol, Horizontal, cfg.BridgeWidthWord); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Polarity returns the polarity every pass of this document uses.
func (d *Document) Polarity() Polarity { return d.polarity }

// Config returns the document's configuration.
func (d *Document) Config() Config { return d.cfg }

// Mask returns the unbridged source mask.
func (d *Document) Mask() *Mask { return d.mask }

// LineMask returns the mask the line pass scans: the line-bridged mask when
// one was computed, otherwise the source mask.
func (d *Document) LineMask() *Mask {
	if d.lineMask != nil {
		return d.lineMask
	}
	return d.mask
}

// ChildMask returns the mask the column pass scans at g. Character passes
// always use the source mask.
func (d *Document) ChildMask(g Granularity) *Mask {
	if g == Words && d.wordMask != nil {
		return d.wordMask
	}
	return d.mask
}

// Lines returns the document's lines, running the line pass on first use.
func (d *Document) Lines() []*Line {
	d.linesOnce.Do(func() {
		d.lines = BuildLines(d.LineMask(), d.polarity, d.cfg)
	})
	return d.lines
}

// Segment runs the column pass for one line of this document.
func (d *Document) Segment(line *Line, g Granularity) []BoundingBox {
	return BuildWordsOrChars(line, d.ChildMask(g), d.polarity, d.cfg, g)
}

// Views returns snapshots of every line.
func (d *Document) Views() []LineView {
	lines := d.Lines()
	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, l.View())
	}
	return views
}
