// Package server implements the MCP (Model Context Protocol) server for page
// segmentation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the segmentation
// pipeline through the MCP protocol, so an MCP client can ask where the lines
// and words of a scanned page are before looking at them.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - page_load: Decode a page and report dimensions, format and channels
//   - page_polarity: Perimeter sample and detected text polarity
//   - page_lines: Line boxes only
//   - page_segment: Full line/word or line/char hierarchy
//   - page_profile: Projection profile of a band, for tuning thresholds
//   - page_annotate: Page with boxes drawn, as base64 PNG
//   - page_crop_region: One line, word, character or named region as base64 PNG
//
// # Image Caching
//
// The server maintains an in-memory cache of decoded pages keyed by path.
// Binarization and segmentation are recomputed on each call because their
// result depends on the configuration; decoding is not.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, which starts with the segerr code when there is one
//
// # Usage
//
//	p, _ := pipeline.New(cfg, imaging.NewImageCache())
//	srv := server.New(p)
//	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
