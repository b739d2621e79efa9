package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/detect-overlay/internal/detection"
	"github.com/ironsheep/detect-overlay/internal/imaging"
	"github.com/ironsheep/detect-overlay/internal/overlay"
	"github.com/ironsheep/detect-overlay/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detect_objects").
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
		s.logger.Debugw("tool failed", "tool", params.Name, "kind", errorKind(err), "error", err)
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
	case "detect_objects":
		return s.handleDetectObjects(ctx, args)
	case "overlay_state":
		return s.handleOverlayState(args)
	case "overlay_save":
		return s.handleOverlaySave(args)
	case "overlay_sample_color":
		return s.handleOverlaySampleColor(args)
	case "overlay_crop":
		return s.handleOverlayCrop(args)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// errorKind names the failure category for logs.
func errorKind(err error) string {
	var netErr *detection.NetworkError
	var svcErr *detection.ServiceError
	switch {
	case errors.Is(err, pipeline.ErrSuperseded):
		return "superseded"
	case errors.Is(err, imaging.ErrInvalidImage):
		return "invalid_image"
	case errors.As(err, &netErr):
		return "network"
	case errors.As(err, &svcErr):
		return "service"
	default:
		return "other"
	}
}

// === Detection Handlers ===

type detectObjectsArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

// DetectObjectsResult is the detect_objects tool response.
type DetectObjectsResult struct {
	Generation uint64                `json:"generation"`
	Summary    string                `json:"summary"`
	Count      int                   `json:"count"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Detections []detection.Detection `json:"detections"`
	Overlay    *overlay.EncodedImage `json:"overlay"`
}

func (s *Server) handleDetectObjects(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a detectObjectsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	res, err := s.session.Submit(ctx, data)
	if err != nil {
		return nil, err
	}

	encoded, err := overlay.EncodePNG(res.Overlay, a.Scale)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &DetectObjectsResult{
		Generation: res.Generation,
		Summary:    res.Summary,
		Count:      len(res.Detections),
		Width:      res.Width,
		Height:     res.Height,
		Detections: res.Detections,
		Overlay:    encoded,
	}, nil
}

// === Overlay Handlers ===

func (s *Server) handleOverlayState(args json.RawMessage) (interface{}, error) {
	return s.session.Snapshot(), nil
}

type overlaySaveArgs struct {
	OutputPath string `json:"output_path"`
}

// OverlaySaveResult is the overlay_save tool response.
type OverlaySaveResult struct {
	OutputPath string `json:"output_path"`
	Generation uint64 `json:"generation"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func (s *Server) handleOverlaySave(args json.RawMessage) (interface{}, error) {
	var a overlaySaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}

	if err := s.session.SaveOverlay(a.OutputPath); err != nil {
		return nil, err
	}

	st := s.session.Snapshot()
	return &OverlaySaveResult{
		OutputPath: a.OutputPath,
		Generation: st.Generation,
		Width:      st.Width,
		Height:     st.Height,
	}, nil
}

type overlaySampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleOverlaySampleColor(args json.RawMessage) (interface{}, error) {
	var a overlaySampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img := s.session.Overlay()
	if img == nil {
		return nil, fmt.Errorf("no overlay has been rendered")
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type overlayCropArgs struct {
	Detection *int    `json:"detection,omitempty"`
	Margin    *int    `json:"margin,omitempty"`
	X1        int     `json:"x1"`
	Y1        int     `json:"y1"`
	X2        int     `json:"x2"`
	Y2        int     `json:"y2"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleOverlayCrop(args json.RawMessage) (interface{}, error) {
	var a overlayCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	st, img := s.session.Current()
	if img == nil {
		return nil, fmt.Errorf("no overlay has been rendered")
	}

	// A literal keeps inverted corners empty; image.Rect would swap them
	region := image.Rectangle{Min: image.Pt(a.X1, a.Y1), Max: image.Pt(a.X2, a.Y2)}
	if a.Detection != nil {
		i := *a.Detection
		if i < 0 || i >= len(st.Detections) {
			return nil, fmt.Errorf("detection index %d out of range (0-%d)", i, len(st.Detections)-1)
		}
		margin := overlay.DefaultCropMargin
		if a.Margin != nil {
			margin = max(*a.Margin, 0)
		}
		var err error
		if region, err = overlay.DetectionRegion(st.Detections[i], margin, img.Bounds()); err != nil {
			return nil, err
		}
	}

	return overlay.Crop(img, region, a.Scale)
}
