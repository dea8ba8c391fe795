// Package server implements the MCP (Model Context Protocol) server for
// rendering and inspecting the Mandelbrot set.
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
// Rendering:
//   - fractal_render: Render a viewport, optionally saving it and returning it inline
//   - fractal_viewport: Compute the plane rectangle of a viewport
//   - fractal_escape: Escape index and smooth value of a single point
//   - fractal_presets: Named resolutions, landmarks, schemes and defaults
//
// Inspection:
//   - fractal_sample_color: Colors (and plane coordinates) at pixels
//   - fractal_dominant_colors: Most common colors of a render
//   - fractal_crop: Extract and rescale a region
//   - fractal_grid_overlay: Draw a pixel or plane coordinate grid
//
// # Render Cache
//
// Every successful render is kept in a bounded in-memory cache and can be
// referenced by the render_id it returned or by its output path. The
// oldest render is dropped once the cache is full. Inspection tools also
// accept the path of any image file.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses:
//   - -32602: malformed arguments, unknown tool, or an invalid render configuration
//   - -32000: any other tool failure (numeric degeneracy, sink failure, missing file)
//   - -32601: unknown method
//
// The error data carries the Go error string.
//
// # Usage
//
//	srv := server.New()
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
