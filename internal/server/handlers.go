package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
	"github.com/ironsheep/fractal-mcp/internal/inspect"
	"github.com/ironsheep/fractal-mcp/internal/palette"
	"github.com/ironsheep/fractal-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "fractal_render").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errInvalidParams marks argument errors that are the caller's fault.
var errInvalidParams = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments and invalid render configurations return -32602.
// Any other tool failure returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		if errors.Is(err, errInvalidParams) || errors.Is(err, fractal.ErrInvalidConfiguration) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool finished", "tool", params.Name, "duration", time.Since(start))

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
	// Rendering
	case "fractal_render":
		return s.handleFractalRender(ctx, args)
	case "fractal_viewport":
		return s.handleFractalViewport(args)
	case "fractal_escape":
		return s.handleFractalEscape(args)
	case "fractal_presets":
		return s.handleFractalPresets(args)

	// Inspection
	case "fractal_sample_color":
		return s.handleFractalSampleColor(args)
	case "fractal_dominant_colors":
		return s.handleFractalDominantColors(args)
	case "fractal_crop":
		return s.handleFractalCrop(args)
	case "fractal_grid_overlay":
		return s.handleFractalGridOverlay(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidParams, name)
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
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// === Rendering Handlers ===

type fractalRenderArgs struct {
	render.Request

	// Inline adds the PNG-encoded image to the result.
	Inline bool `json:"inline"`
}

type timingsResult struct {
	SampleSeconds     float64 `json:"sample_seconds"`
	MapSeconds        float64 `json:"map_seconds"`
	DownsampleSeconds float64 `json:"downsample_seconds"`
	SaveSeconds       float64 `json:"save_seconds"`
	TotalSeconds      float64 `json:"total_seconds"`
}

func newTimingsResult(t render.Timings) timingsResult {
	return timingsResult{
		SampleSeconds:     t.Sample.Seconds(),
		MapSeconds:        t.Map.Seconds(),
		DownsampleSeconds: t.Downsample.Seconds(),
		SaveSeconds:       t.Save.Seconds(),
		TotalSeconds:      t.Total().Seconds(),
	}
}

type fractalRenderResult struct {
	RenderID      string         `json:"render_id"`
	Output        string         `json:"output,omitempty"`
	Width         int            `json:"width"`
	Height        int            `json:"height"`
	CenterReal    float64        `json:"center_real"`
	CenterImag    float64        `json:"center_imag"`
	Zoom          float64        `json:"zoom"`
	Bounds        fractal.Bounds `json:"bounds"`
	MaxIterations int            `json:"max_iterations"`
	Continuous    bool           `json:"continuous"`
	ColorScheme   palette.Scheme `json:"color_scheme"`
	MSAA          int            `json:"msaa"`
	Timings       timingsResult  `json:"timings"`
	ImageBase64   string         `json:"image_base64,omitempty"`
	MimeType      string         `json:"mime_type,omitempty"`
}

func (s *Server) handleFractalRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a fractalRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	res, err := s.renderer.Render(ctx, a.Request)
	if err != nil {
		return nil, err
	}

	bounds := res.Bounds
	entry := s.cache.Store(res.Image, &bounds, res.Output)

	v := res.Plan.Viewport
	out := &fractalRenderResult{
		RenderID:      entry.ID,
		Output:        res.Output,
		Width:         v.Width,
		Height:        v.Height,
		CenterReal:    real(v.Center),
		CenterImag:    imag(v.Center),
		Zoom:          v.Zoom,
		Bounds:        res.Bounds,
		MaxIterations: res.Plan.Params.MaxIterations,
		Continuous:    res.Plan.Params.Continuous,
		ColorScheme:   res.Plan.Colors.Scheme,
		MSAA:          res.Plan.MSAA,
		Timings:       newTimingsResult(res.Timings),
	}
	if a.Inline {
		encoded, err := inspect.EncodePNG(res.Image)
		if err != nil {
			return nil, err
		}
		out.ImageBase64 = encoded
		out.MimeType = inspect.PNGMimeType
	}
	return out, nil
}

type fractalViewportArgs struct {
	CenterReal float64 `json:"center_real"`
	CenterImag float64 `json:"center_imag"`
	Zoom       float64 `json:"zoom"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Resolution string  `json:"resolution"`
	Landmark   string  `json:"landmark"`
	MSAA       int     `json:"msaa"`
}

type fractalViewportResult struct {
	CenterReal   float64        `json:"center_real"`
	CenterImag   float64        `json:"center_imag"`
	Zoom         float64        `json:"zoom"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	ScaledZoom   float64        `json:"scaled_zoom"`
	Bounds       fractal.Bounds `json:"bounds"`
	PlaneWidth   float64        `json:"plane_width"`
	PlaneHeight  float64        `json:"plane_height"`
	PixelSize    float64        `json:"pixel_size"`
	SampleWidth  int            `json:"sample_width"`
	SampleHeight int            `json:"sample_height"`
}

func (s *Server) handleFractalViewport(args json.RawMessage) (interface{}, error) {
	var a fractalViewportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	plan, err := render.Request{
		CenterReal: a.CenterReal,
		CenterImag: a.CenterImag,
		Zoom:       a.Zoom,
		Width:      a.Width,
		Height:     a.Height,
		Resolution: a.Resolution,
		Landmark:   a.Landmark,
		MSAA:       a.MSAA,
	}.Resolve()
	if err != nil {
		return nil, err
	}
	v := plan.Viewport
	b, err := v.Bounds()
	if err != nil {
		return nil, err
	}
	k, err := render.SupersampleFactor(plan.MSAA)
	if err != nil {
		return nil, err
	}

	return &fractalViewportResult{
		CenterReal:   real(v.Center),
		CenterImag:   imag(v.Center),
		Zoom:         v.Zoom,
		Width:        v.Width,
		Height:       v.Height,
		ScaledZoom:   v.ScaledZoom(),
		Bounds:       b,
		PlaneWidth:   b.Width(),
		PlaneHeight:  b.Height(),
		PixelSize:    b.Width() / float64(v.Width),
		SampleWidth:  v.Width * k,
		SampleHeight: v.Height * k,
	}, nil
}

type fractalEscapeArgs struct {
	Real          float64 `json:"real"`
	Imag          float64 `json:"imag"`
	MaxIterations int     `json:"max_iterations"`
	EscapeRadius  float64 `json:"escape_radius"`
	Sentinel      string  `json:"sentinel"`
}

type fractalEscapeResult struct {
	Real          float64 `json:"real"`
	Imag          float64 `json:"imag"`
	MaxIterations int     `json:"max_iterations"`
	InSet         bool    `json:"in_set"`

	// Index is the discrete grid value: the escape index, or the sentinel
	// for points that never escape.
	Index int `json:"index"`

	// Smooth is the continuous grid value, 0 for points that never escape.
	Smooth float64 `json:"smooth"`
}

func (s *Server) handleFractalEscape(args json.RawMessage) (interface{}, error) {
	var a fractalEscapeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxIterations == 0 {
		a.MaxIterations = render.DefaultMaxIterations
	}

	sentinel, err := fractal.ParseSentinel(a.Sentinel)
	if err != nil {
		return nil, err
	}
	p := fractal.Params{
		MaxIterations: a.MaxIterations,
		EscapeRadius:  a.EscapeRadius,
		Sentinel:      sentinel,
	}.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	discrete := p.Evaluate(a.Real, a.Imag)
	p.Continuous = true
	_, escaped := fractal.Escape(a.Real, a.Imag, p.MaxIterations)

	return &fractalEscapeResult{
		Real:          a.Real,
		Imag:          a.Imag,
		MaxIterations: p.MaxIterations,
		InSet:         !escaped,
		Index:         int(discrete),
		Smooth:        p.Evaluate(a.Real, a.Imag),
	}, nil
}

type fractalPresetsResult struct {
	Resolutions  []fractal.Resolution `json:"resolutions"`
	Landmarks    []fractal.Landmark   `json:"landmarks"`
	ColorSchemes []palette.Scheme     `json:"color_schemes"`
	Sentinels    []string             `json:"sentinels"`
	MSAALevels   []int                `json:"msaa_levels"`
	Defaults     render.Request       `json:"defaults"`
}

func (s *Server) handleFractalPresets(args json.RawMessage) (interface{}, error) {
	var a struct{}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return &fractalPresetsResult{
		Resolutions:  fractal.Resolutions,
		Landmarks:    fractal.Landmarks(),
		ColorSchemes: palette.Schemes,
		Sentinels: []string{
			fractal.SentinelMaxIterations.String(),
			fractal.SentinelMaxIterationsMinusOne.String(),
		},
		MSAALevels: []int{1, 4, 9, 16, 25},
		Defaults:   render.Request{}.WithDefaults(),
	}, nil
}

// === Inspection Handlers ===

// renderRef names a cached render by ID or output path, or any image file.
type renderRef struct {
	Render string `json:"render"`
}

func (s *Server) loadRef(r renderRef) (*inspect.Entry, error) {
	if r.Render == "" {
		return nil, fmt.Errorf("%w: render is required", errInvalidParams)
	}
	return s.cache.Load(r.Render)
}

type fractalSampleColorArgs struct {
	renderRef
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Points []inspect.Point `json:"points"`
}

type fractalSampleColorResult struct {
	RenderID string           `json:"render_id"`
	Samples  []inspect.Sample `json:"samples"`
}

func (s *Server) handleFractalSampleColor(args json.RawMessage) (interface{}, error) {
	var a fractalSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	e, err := s.loadRef(a.renderRef)
	if err != nil {
		return nil, err
	}
	points := a.Points
	if len(points) == 0 {
		points = []inspect.Point{{X: a.X, Y: a.Y}}
	}
	samples, err := inspect.SampleEntry(e, points)
	if err != nil {
		return nil, err
	}
	return &fractalSampleColorResult{RenderID: e.ID, Samples: samples}, nil
}

type fractalDominantColorsArgs struct {
	renderRef
	Count int `json:"count"`
}

type fractalDominantColorsResult struct {
	RenderID string                   `json:"render_id"`
	Colors   []inspect.ColorFrequency `json:"colors"`
}

func (s *Server) handleFractalDominantColors(args json.RawMessage) (interface{}, error) {
	var a fractalDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.Count < 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", errInvalidParams, a.Count)
	}
	e, err := s.loadRef(a.renderRef)
	if err != nil {
		return nil, err
	}
	return &fractalDominantColorsResult{RenderID: e.ID, Colors: inspect.DominantColors(e.Image, a.Count)}, nil
}

type fractalCropArgs struct {
	renderRef
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleFractalCrop(args json.RawMessage) (interface{}, error) {
	var a fractalCropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	e, err := s.loadRef(a.renderRef)
	if err != nil {
		return nil, err
	}
	return inspect.Crop(e, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

type fractalGridOverlayArgs struct {
	renderRef
	GridSpacing int    `json:"grid_spacing"`
	Labels      string `json:"labels"`
	GridColor   string `json:"grid_color"`
}

func (s *Server) handleFractalGridOverlay(args json.RawMessage) (interface{}, error) {
	var a fractalGridOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.GridSpacing == 0 {
		a.GridSpacing = 50
	}
	if a.Labels == "" {
		a.Labels = inspect.LabelPixel
	}
	e, err := s.loadRef(a.renderRef)
	if err != nil {
		return nil, err
	}
	return inspect.GridOverlay(e, a.GridSpacing, a.Labels, a.GridColor)
}
