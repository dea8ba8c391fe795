package fractal

import (
	"context"
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// MaxGridPixels bounds the number of cells a single grid may hold,
// supersampling included. At 8 bytes a cell that is 2 GiB.
const MaxGridPixels = 1 << 28

// CheckGridSize rejects non-positive sizes and grids larger than
// MaxGridPixels without overflowing.
func CheckGridSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: grid size must be positive, got %dx%d", ErrInvalidConfiguration, width, height)
	}
	if width > MaxGridPixels/height {
		return fmt.Errorf("%w: grid %dx%d exceeds the limit of %d pixels", ErrInvalidConfiguration, width, height, MaxGridPixels)
	}
	return nil
}

// Grid holds one escape value per pixel. Values are stored row-major.
type Grid struct {
	Width         int
	Height        int
	MaxIterations int
	Continuous    bool
	Sentinel      float64
	Values        []float64
}

// Shape returns (width, height).
func (g *Grid) Shape() (int, int) {
	return g.Width, g.Height
}

// At returns the value of pixel (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// InSet reports whether pixel (x, y) never escaped.
func (g *Grid) InSet(x, y int) bool {
	return g.At(x, y) == g.Sentinel
}

// Row returns the values of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []float64 {
	return g.Values[y*g.Width : (y+1)*g.Width]
}

// Sample evaluates every pixel of a width×height grid over the plane
// rectangle b.
//
// Rows are split across GOMAXPROCS workers; each worker owns a disjoint
// range of rows, so the result does not depend on scheduling. The context
// is checked once per row. On cancellation Sample returns ctx.Err() and no
// grid.
func Sample(ctx context.Context, b Bounds, width, height int, p Params) (*Grid, error) {
	if err := CheckGridSize(width, height); err != nil {
		return nil, err
	}
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	xStep := (b.X2 - b.X1) / float64(width)
	yStep := (b.Y2 - b.Y1) / float64(height)
	if !(xStep > 0) || !(yStep > 0) || math.IsInf(xStep, 0) || math.IsInf(yStep, 0) {
		return nil, fmt.Errorf("%w: pixel step (%g, %g) over %s", ErrNumericDegenerate, xStep, yStep, b)
	}

	g := &Grid{
		Width:         width,
		Height:        height,
		MaxIterations: p.MaxIterations,
		Continuous:    p.Continuous,
		Sentinel:      p.SentinelValue(),
		Values:        make([]float64, width*height),
	}

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			if ctx.Err() != nil {
				return
			}
			im := b.Y1 + float64(y)*yStep
			row := g.Row(y)
			for x := range row {
				row[x] = p.Evaluate(b.X1+float64(x)*xStep, im)
			}
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, v := range g.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: pixel (%d,%d) evaluated to %g", ErrNumericDegenerate, i%width, i/width, v)
		}
	}
	return g, nil
}
