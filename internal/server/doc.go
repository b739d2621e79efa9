// Package server implements the MCP (Model Context Protocol) server for the
// detection overlay.
//
// The server exposes one pipeline.Session over JSON-RPC 2.0 so an MCP client
// can submit images for object detection and inspect the rendered overlay.
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
//   - detect_objects: Run an image through detection and render the overlay
//   - overlay_state: Busy flag, generation, summary and last error
//   - overlay_save: Write the current overlay as PNG
//   - overlay_sample_color: Get the color at an overlay pixel
//   - overlay_crop: Zoom into a detection or region of the overlay
//
// # Concurrency
//
// tools/call requests are handled concurrently. A detect_objects call that is
// still waiting on the detection service when a newer one starts fails with
// pipeline.ErrSuperseded once its response arrives; only the newest call
// renders. Each response is written as a single line, in completion order, so
// clients match responses by id.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(session, version, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal(err)
//	}
package server
