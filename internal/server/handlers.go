package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/textseg/internal/detection"
	"github.com/ironsheep/textseg/internal/imaging"
	"github.com/ironsheep/textseg/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "page_segment", "page_crop_region").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "page_load":
		return s.handlePageLoad(args)
	case "page_polarity":
		return s.handlePagePolarity(args)
	case "page_lines":
		return s.handlePageLines(args)
	case "page_segment":
		return s.handlePageSegment(ctx, args)
	case "page_profile":
		return s.handlePageProfile(args)
	case "page_annotate":
		return s.handlePageAnnotate(ctx, args)
	case "page_crop_region":
		return s.handlePageCropRegion(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pageArgs struct {
	Path string `json:"path"`
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) prepare(path string) (*detection.Document, error) {
	img, err := s.pipeline.Cache().Load(path)
	if err != nil {
		return nil, err
	}
	doc, _, err := s.pipeline.Prepare(img)
	return doc, err
}

// === Page Information Handlers ===

func (s *Server) handlePageLoad(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.pipeline.Cache(), a.Path)
}

type polarityResult struct {
	Polarity  string                    `json:"polarity"`
	Perimeter detection.PerimeterSample `json:"perimeter"`
	Samples   int                       `json:"samples"`
}

func (s *Server) handlePagePolarity(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.pipeline.Cache().Load(a.Path)
	if err != nil {
		return nil, err
	}
	_, mask, err := s.pipeline.Binarize(img)
	if err != nil {
		return nil, err
	}
	pol, err := detection.DetectPolarity(mask)
	if err != nil {
		return nil, err
	}
	sample := detection.SamplePerimeter(mask)
	return &polarityResult{
		Polarity:  pol.String(),
		Perimeter: sample,
		Samples:   sample.Total(),
	}, nil
}

// === Segmentation Handlers ===

type linesResult struct {
	Polarity string                  `json:"polarity"`
	Count    int                     `json:"count"`
	Lines    []detection.BoundingBox `json:"lines"`
}

func (s *Server) handlePageLines(args json.RawMessage) (interface{}, error) {
	var a pageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}
	lines := doc.Lines()
	boxes := make([]detection.BoundingBox, 0, len(lines))
	for _, l := range lines {
		boxes = append(boxes, l.Box)
	}
	return &linesResult{
		Polarity: doc.Polarity().String(),
		Count:    len(boxes),
		Lines:    boxes,
	}, nil
}

type pageSegmentArgs struct {
	Path         string `json:"path"`
	Granularity  string `json:"granularity"`
	SaveVariants bool   `json:"save_variants"`
}

func (s *Server) handlePageSegment(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageSegmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	g, err := detection.ParseGranularity(a.Granularity)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.ProcessFile(ctx, a.Path, pipeline.Options{
		Granularity:  g,
		SaveVariants: a.SaveVariants,
	})
	if err != nil {
		return nil, err
	}
	return res.Report(), nil
}

type pageProfileArgs struct {
	Path string `json:"path"`
	Axis string `json:"axis"`
	// Mask selects which mask is profiled: "raw" (default), "line" or "word",
	// the latter two being the bridged masks the passes actually scan.
	Mask string `json:"mask"`
	// Band limits the profile; the whole page when omitted.
	Band *detection.BoundingBox `json:"band,omitempty"`
}

type profileResult struct {
	Axis   string                `json:"axis"`
	Band   detection.BoundingBox `json:"band"`
	Offset int                   `json:"offset"`
	Values []float64             `json:"values"`
	Runs   []detection.Interval  `json:"runs"`
}

func (s *Server) handlePageProfile(args json.RawMessage) (interface{}, error) {
	var a pageProfileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Axis == "" {
		a.Axis = "rows"
	}
	axis, err := detection.ParseAxis(a.Axis)
	if err != nil {
		return nil, err
	}
	doc, err := s.prepare(a.Path)
	if err != nil {
		return nil, err
	}

	var m *detection.Mask
	switch a.Mask {
	case "", "raw":
		m = doc.Mask()
	case "line":
		m = doc.LineMask()
	case "word":
		m = doc.ChildMask(detection.Words)
	default:
		return nil, fmt.Errorf("unknown mask: %s (want raw, line or word)", a.Mask)
	}

	band, err := m.Bounds()
	if err != nil {
		return nil, err
	}
	if a.Band != nil {
		b, err := detection.NewBoundingBox(a.Band.RowStart, a.Band.ColStart, a.Band.RowEnd, a.Band.ColEnd)
		if err != nil {
			return nil, err
		}
		if !band.Contains(b) {
			return nil, fmt.Errorf("band rows %d..%d cols %d..%d outside page", b.RowStart, b.RowEnd, b.ColStart, b.ColEnd)
		}
		band = b
	}

	params := doc.Config().LineParams()
	offset := band.RowStart
	if axis == detection.Columns {
		params = doc.Config().ChildParams(detection.Words)
		offset = band.ColStart
	}

	values := detection.Profile(m, band, axis, doc.Polarity())
	return &profileResult{
		Axis:   axis.String(),
		Band:   band,
		Offset: offset,
		Values: values,
		Runs:   detection.Runs(values, offset, params),
	}, nil
}

// === Rendering Handlers ===

type pageAnnotateArgs struct {
	Path        string  `json:"path"`
	Granularity string  `json:"granularity"`
	Scale       float64 `json:"scale"`
}

func (s *Server) handlePageAnnotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageAnnotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	g, err := detection.ParseGranularity(a.Granularity)
	if err != nil {
		return nil, err
	}
	img, err := s.pipeline.Cache().Load(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.Analyze(ctx, img, pipeline.Options{Granularity: g, Annotate: true})
	if err != nil {
		return nil, err
	}
	full, err := res.Mask.Bounds()
	if err != nil {
		return nil, err
	}
	return imaging.Crop(res.Annotated, full, a.Scale)
}

type pageCropRegionArgs struct {
	Path string `json:"path"`
	// Line is the index of a detected line. When Child is also set, the
	// crop is that word or character of the line instead.
	Line        *int   `json:"line,omitempty"`
	Child       *int   `json:"child,omitempty"`
	Granularity string `json:"granularity"`
	// Region names a fixed page area ("top-half", "center", ...) and is
	// used when Line is not set.
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handlePageCropRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pageCropRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.pipeline.Cache().Load(a.Path)
	if err != nil {
		return nil, err
	}

	if a.Line == nil {
		if a.Region == "" {
			return nil, fmt.Errorf("either line or region is required")
		}
		b := img.Bounds()
		box, err := imaging.RegionBox(b.Dy(), b.Dx(), a.Region)
		if err != nil {
			return nil, err
		}
		return imaging.Crop(img, box, a.Scale)
	}

	g, err := detection.ParseGranularity(a.Granularity)
	if err != nil {
		return nil, err
	}
	doc, _, err := s.pipeline.Prepare(img)
	if err != nil {
		return nil, err
	}
	lines := doc.Lines()
	if *a.Line < 0 || *a.Line >= len(lines) {
		return nil, fmt.Errorf("line %d out of range: page has %d lines", *a.Line, len(lines))
	}
	line := lines[*a.Line]
	if a.Child == nil {
		return imaging.Crop(img, line.Box, a.Scale)
	}

	if err := pipeline.SegmentLines(ctx, doc, []*detection.Line{line}, g, 1); err != nil {
		return nil, err
	}
	children := line.Children()
	if *a.Child < 0 || *a.Child >= len(children) {
		return nil, fmt.Errorf("%s %d out of range: line %d has %d", g, *a.Child, *a.Line, len(children))
	}
	return imaging.Crop(img, children[*a.Child], a.Scale)
}
