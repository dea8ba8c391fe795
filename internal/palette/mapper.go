package palette

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
)

var (
	black = color.NRGBA{A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// shadeFunc colours one escaping cell. value is clamped to >= 0.
type shadeFunc func(value, maxIterations float64) (r, g, b uint8)

// Mapper turns an iteration grid into pixels. Build one with New.
type Mapper struct {
	cfg   Config
	shade shadeFunc
	inSet *color.NRGBA

	chroma, luminance float64
}

// New validates cfg and resolves its scheme to a shading function.
func New(cfg Config) (*Mapper, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Mapper{cfg: cfg, chroma: *cfg.Chroma, luminance: *cfg.Luminance}
	switch cfg.Scheme {
	case Grayscale:
		m.shade = shadeGray
	case HSV:
		m.shade = m.shadeHSV
	case HCL:
		m.shade = m.shadeHCL
	}

	if cfg.InSetColor != "" {
		c, err := parseHexColor(cfg.InSetColor)
		if err != nil {
			return nil, err
		}
		m.inSet = &c
	}
	return m, nil
}

// Config returns the effective configuration, defaults applied.
func (m *Mapper) Config() Config {
	return m.cfg
}

// InSetColor returns the colour used for non-escaping cells of a grid in
// the given mode.
func (m *Mapper) InSetColor(continuous bool) color.NRGBA {
	if m.inSet != nil {
		return *m.inSet
	}
	if m.cfg.Scheme == Grayscale && continuous {
		return white
	}
	return black
}

// Map colours every cell of g. The result has g's shape and is fully
// opaque. Rows are shaded in parallel; a cancelled context aborts with
// ctx.Err().
func (m *Mapper) Map(ctx context.Context, g *fractal.Grid) (*image.NRGBA, error) {
	if g == nil || g.Width <= 0 || g.Height <= 0 || len(g.Values) != g.Width*g.Height {
		return nil, fmt.Errorf("%w: malformed iteration grid", fractal.ErrInvalidConfiguration)
	}
	if g.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: grid max iterations must be positive, got %d", fractal.ErrInvalidConfiguration, g.MaxIterations)
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	inSet := m.InSetColor(g.Continuous)
	maxIter := float64(g.MaxIterations)

	parallel.Line(g.Height, func(start, end int) {
		for y := start; y < end; y++ {
			if ctx.Err() != nil {
				return
			}
			row := g.Row(y)
			pix := img.Pix[y*img.Stride : y*img.Stride+g.Width*4]
			for x, v := range row {
				o := x * 4
				if v == g.Sentinel {
					pix[o+0] = inSet.R
					pix[o+1] = inSet.G
					pix[o+2] = inSet.B
				} else {
					r, gr, b := m.shade(math.Max(v, 0), maxIter)
					pix[o+0] = r
					pix[o+1] = gr
					pix[o+2] = b
				}
				pix[o+3] = 255
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return img, nil
}

func shadeGray(v, maxIter float64) (uint8, uint8, uint8) {
	c := to255(float64(int(255 * v / maxIter)))
	return c, c, c
}

// hue returns the hue angle in degrees, [0,360).
func (m *Mapper) hue(v, maxIter float64) float64 {
	return math.Mod(math.Pow(v/maxIter*360, m.cfg.HueExponent), 360)
}

func (m *Mapper) shadeHSV(v, maxIter float64) (uint8, uint8, uint8) {
	r, g, b := HSVToRGB(m.hue(v, maxIter)/360, 1, 1)
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

func (m *Mapper) shadeHCL(v, maxIter float64) (uint8, uint8, uint8) {
	return HCLToRGB(m.hue(v, maxIter), m.chroma, m.luminance)
}
