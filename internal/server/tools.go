package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the page image",
	}
}

func granularityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"words", "chars"},
		"description": "Column pass inside each line. Default words",
		"default":     "words",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
		"default":     1.0,
	}
}

func boxSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Inclusive row/column bounds",
		"properties": map[string]interface{}{
			"row_start": map[string]interface{}{"type": "integer"},
			"col_start": map[string]interface{}{"type": "integer"},
			"row_end":   map[string]interface{}{"type": "integer"},
			"col_end":   map[string]interface{}{"type": "integer"},
		},
		"required": []string{"row_start", "col_start", "row_end", "col_end"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Page Information
		{
			Name:        "page_load",
			Description: "Load a page image and return its dimensions, format and channel count. Fails for pixel formats the segmenter cannot read.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_polarity",
			Description: "Binarize a page and report whether text is the low or high mask value, with the perimeter counts the decision was based on.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "page_lines",
			Description: "Detect text lines. Each line is a full-width band of rows, listed top to bottom.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_segment",
			Description: "Detect lines and the words or characters inside each line. Optionally writes the _rgb, _gray and _bin variants next to the page.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"granularity": granularityProperty(),
					"save_variants": map[string]interface{}{
						"type":        "boolean",
						"description": "Write annotated, grayscale and binarized copies next to the page. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_profile",
			Description: "Return the projection profile (text density per row or column) of a band of the page, with the runs the segmenter finds in it. Use this to tune density thresholds and bridge sizes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"axis": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rows", "columns"},
						"description": "Index the profile by row (line pass) or column (word pass). Default rows",
						"default":     "rows",
					},
					"mask": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"raw", "line", "word"},
						"description": "Profile the raw mask or the bridged mask of the line or word pass. Default raw",
						"default":     "raw",
					},
					"band": boxSchema(),
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "page_annotate",
			Description: "Segment a page and return it as base64 PNG with line boxes and word or character boxes drawn in the configured colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"granularity": granularityProperty(),
					"scale":       scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "page_crop_region",
			Description: "Crop a detected line, a word or character of a line, or a named page region, and return it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"line": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the line to crop (0-based, top to bottom)",
					},
					"child": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the word or character within the line (0-based, left to right)",
					},
					"granularity": granularityProperty(),
					"region": map[string]interface{}{
						"type": "string",
						"enum": []string{
							"full", "top-left", "top-right", "bottom-left", "bottom-right",
							"top-half", "bottom-half", "left-half", "right-half", "center",
						},
						"description": "Named page region, used when line is not given",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
