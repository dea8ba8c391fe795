package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
	"github.com/ironsheep/fractal-mcp/internal/palette"
)

// Defaults applied by Request.WithDefaults.
const (
	DefaultMaxIterations = 500
	DefaultZoom          = 1.0
	DefaultMSAA          = 1
	DefaultResolution    = "HD"
)

// Request describes one render. Zero values select defaults; see
// WithDefaults.
type Request struct {
	CenterReal float64 `json:"center_real"`
	CenterImag float64 `json:"center_imag"`
	Zoom       float64 `json:"zoom"`

	// Width and Height are the target resolution. Resolution names a
	// preset instead and wins when set.
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Resolution string `json:"resolution,omitempty"`

	// Landmark names a preset region. It supplies the center, and the
	// zoom unless Zoom is set.
	Landmark string `json:"landmark,omitempty"`

	MaxIterations int     `json:"max_iterations"`
	ColorScheme   string  `json:"color_scheme"`
	Continuous    bool    `json:"continuous"`
	EscapeRadius  float64 `json:"escape_radius"`
	HueExponent   float64 `json:"hue_exponent"`
	MSAA          int     `json:"msaa"`

	InSetColor string `json:"in_set_color,omitempty"`
	Sentinel   string `json:"sentinel,omitempty"`

	// Chroma and Luminance are nil when not given; zero is a valid value.
	Chroma    *float64 `json:"chroma,omitempty"`
	Luminance *float64 `json:"luminance,omitempty"`

	// Output is the file the sink writes. Empty skips the sink.
	Output string `json:"output,omitempty"`
}

// WithDefaults returns a copy of r with zero-valued fields filled.
// Landmark and Resolution are not resolved here; see Resolve.
func (r Request) WithDefaults() Request {
	if r.MaxIterations == 0 {
		r.MaxIterations = DefaultMaxIterations
	}
	if r.MSAA == 0 {
		r.MSAA = DefaultMSAA
	}
	if r.EscapeRadius == 0 {
		r.EscapeRadius = fractal.DefaultEscapeRadius
	}
	if r.HueExponent == 0 {
		r.HueExponent = palette.DefaultHueExponent
	}
	if r.Width == 0 && r.Height == 0 && r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
	if r.Zoom == 0 && r.Landmark == "" {
		r.Zoom = DefaultZoom
	}
	return r
}

// Plan is a validated, fully resolved request.
type Plan struct {
	Viewport fractal.Viewport
	Params   fractal.Params
	Colors   palette.Config
	MSAA     int
	Output   string
}

// Resolve applies defaults, resolves presets and validates everything
// before any computation. All problems are reported together; each wraps
// fractal.ErrInvalidConfiguration or fractal.ErrNumericDegenerate.
func (r Request) Resolve() (*Plan, error) {
	r = r.WithDefaults()
	var errs []error

	p := &Plan{
		Viewport: fractal.Viewport{
			Center: complex(r.CenterReal, r.CenterImag),
			Zoom:   r.Zoom,
			Width:  r.Width,
			Height: r.Height,
		},
		MSAA:   r.MSAA,
		Output: r.Output,
	}

	if r.Landmark != "" {
		l, err := fractal.LookupLandmark(r.Landmark)
		if err != nil {
			errs = append(errs, err)
		} else {
			p.Viewport.Center = complex(l.CenterReal, l.CenterImag)
			if r.Zoom == 0 {
				p.Viewport.Zoom = l.Zoom
			}
		}
	}
	if r.Resolution != "" {
		res, err := fractal.LookupResolution(r.Resolution)
		if err != nil {
			errs = append(errs, err)
		} else {
			p.Viewport.Width, p.Viewport.Height = res.Width, res.Height
		}
	}
	_, boundsErr := p.Viewport.Bounds()
	if boundsErr != nil {
		errs = append(errs, boundsErr)
	}

	sentinel, err := fractal.ParseSentinel(r.Sentinel)
	if err != nil {
		errs = append(errs, err)
	}
	p.Params = fractal.Params{
		MaxIterations: r.MaxIterations,
		Continuous:    r.Continuous,
		EscapeRadius:  r.EscapeRadius,
		Sentinel:      sentinel,
	}
	if err := p.Params.Validate(); err != nil {
		errs = append(errs, err)
	}

	scheme, err := palette.ParseScheme(r.ColorScheme)
	if err != nil {
		errs = append(errs, err)
	}
	p.Colors = palette.Config{
		Scheme:      scheme,
		HueExponent: r.HueExponent,
		InSetColor:  r.InSetColor,
		Chroma:      r.Chroma,
		Luminance:   r.Luminance,
	}.WithDefaults()
	if err := p.Colors.Validate(); err != nil {
		errs = append(errs, err)
	}

	if k, err := SupersampleFactor(r.MSAA); err != nil {
		errs = append(errs, err)
	} else if boundsErr == nil {
		if err := p.Viewport.CheckSupersampledSize(k); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// Result is a completed render.
type Result struct {
	Image   *image.NRGBA
	Bounds  fractal.Bounds
	Plan    *Plan
	Timings Timings
	// Output is the path the sink wrote, empty if none.
	Output string
}

// Renderer runs requests end to end and hands results to a sink.
type Renderer struct {
	sink Sink
}

// NewRenderer returns a Renderer that persists to sink. A nil sink means
// FileSink.
func NewRenderer(sink Sink) *Renderer {
	if sink == nil {
		sink = FileSink{}
	}
	return &Renderer{sink: sink}
}

// Render validates req, composes the image and, if req.Output is set,
// saves it. A render either fully succeeds or returns an error and no
// result.
func (r *Renderer) Render(ctx context.Context, req Request) (*Result, error) {
	plan, err := req.Resolve()
	if err != nil {
		return nil, err
	}
	bounds, err := plan.Viewport.Bounds()
	if err != nil {
		return nil, err
	}

	mapper, err := palette.New(plan.Colors)
	if err != nil {
		return nil, err
	}
	comp, err := NewCompositor(plan.Params, mapper, plan.MSAA)
	if err != nil {
		return nil, err
	}

	log := Logger()
	log.Info("rendering mandelbrot set",
		"center", plan.Viewport.Center,
		"zoom", plan.Viewport.Zoom,
		"width", plan.Viewport.Width,
		"height", plan.Viewport.Height,
		"msaa", plan.MSAA)
	log.Info("viewport", "bounds", bounds.String())

	img, timings, err := comp.Compose(ctx, plan.Viewport)
	if err != nil {
		return nil, err
	}

	res := &Result{Image: img, Bounds: bounds, Plan: plan, Timings: timings}
	if plan.Output != "" {
		start := time.Now()
		if err := r.sink.Save(ctx, img, plan.Output); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSinkFailure, err)
		}
		res.Timings.Save = time.Since(start)
		res.Output = plan.Output
		log.Info("saved image", "path", plan.Output, "duration", res.Timings.Save)
	}
	log.Debug("render complete", "total", res.Timings.Total())
	return res, nil
}
