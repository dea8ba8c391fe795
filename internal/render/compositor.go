package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
	"github.com/ironsheep/fractal-mcp/internal/palette"
)

// Timings records how long each stage of a render took.
type Timings struct {
	Sample     time.Duration
	Map        time.Duration
	Downsample time.Duration
	Save       time.Duration
}

// Total is the sum of all stages.
func (t Timings) Total() time.Duration {
	return t.Sample + t.Map + t.Downsample + t.Save
}

// SupersampleFactor returns √msaa, the per-axis supersampling factor, or
// an ErrInvalidConfiguration error if msaa is not a positive perfect
// square.
func SupersampleFactor(msaa int) (int, error) {
	if msaa < 1 {
		return 0, fmt.Errorf("%w: msaa must be a positive perfect square, got %d", fractal.ErrInvalidConfiguration, msaa)
	}
	k := int(math.Round(math.Sqrt(float64(msaa))))
	if k*k != msaa {
		return 0, fmt.Errorf("%w: msaa must be a perfect square (1, 4, 9, 16, ...), got %d", fractal.ErrInvalidConfiguration, msaa)
	}
	return k, nil
}

// Compositor runs the grid → colour → downsample stages for one
// configuration.
type Compositor struct {
	params fractal.Params
	mapper *palette.Mapper
	factor int
}

// NewCompositor validates params and msaa. mapper must come from
// palette.New.
func NewCompositor(params fractal.Params, mapper *palette.Mapper, msaa int) (*Compositor, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if mapper == nil {
		return nil, fmt.Errorf("%w: nil color mapper", fractal.ErrInvalidConfiguration)
	}
	k, err := SupersampleFactor(msaa)
	if err != nil {
		return nil, err
	}
	return &Compositor{params: params, mapper: mapper, factor: k}, nil
}

// Factor returns the per-axis supersampling factor.
func (c *Compositor) Factor() int {
	return c.factor
}

// Compose renders v. The grid is evaluated at Factor() times v's
// resolution over the same plane rectangle, coloured, then box-filtered
// back to v.Width×v.Height. Each stage completes before the next starts;
// the context is checked between stages.
func (c *Compositor) Compose(ctx context.Context, v fractal.Viewport) (*image.NRGBA, Timings, error) {
	var t Timings
	log := Logger()

	b, err := v.Bounds()
	if err != nil {
		return nil, t, err
	}
	if err := v.CheckSupersampledSize(c.factor); err != nil {
		return nil, t, err
	}
	hi := v.Scale(c.factor)

	start := time.Now()
	grid, err := fractal.Sample(ctx, b, hi.Width, hi.Height, c.params)
	if err != nil {
		return nil, t, fmt.Errorf("failed to generate iteration grid: %w", err)
	}
	t.Sample = time.Since(start)
	log.Info("generated iteration grid", "width", hi.Width, "height", hi.Height, "duration", t.Sample)

	if err := ctx.Err(); err != nil {
		return nil, t, err
	}

	start = time.Now()
	img, err := c.mapper.Map(ctx, grid)
	if err != nil {
		return nil, t, fmt.Errorf("failed to map colors: %w", err)
	}
	t.Map = time.Since(start)
	log.Info("mapped iterations to colors", "scheme", c.mapper.Config().Scheme, "duration", t.Map)

	if c.factor == 1 {
		return img, t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, t, err
	}

	start = time.Now()
	img = imaging.Resize(img, v.Width, v.Height, imaging.Box)
	t.Downsample = time.Since(start)
	log.Info("downsampled", "factor", c.factor, "width", v.Width, "height", v.Height, "duration", t.Downsample)

	return img, t, nil
}
