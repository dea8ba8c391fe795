package fractal

import (
	"errors"
	"fmt"
	"math"
)

// Viewport describes what part of the plane a render covers and at which
// pixel resolution.
type Viewport struct {
	Center complex128
	Zoom   float64
	Width  int
	Height int
}

// Bounds is the plane rectangle covered by a viewport. (X1, Y1) maps to the
// top-left pixel.
type Bounds struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Width returns the plane width x2-x1.
func (b Bounds) Width() float64 { return b.X2 - b.X1 }

// Height returns the plane height y2-y1.
func (b Bounds) Height() float64 { return b.Y2 - b.Y1 }

// String formats the bounds the way progress messages print them.
func (b Bounds) String() string {
	return fmt.Sprintf("x1 = %g, x2 = %g, y1 = %g, y2 = %g", b.X1, b.X2, b.Y1, b.Y2)
}

// PixelToPlane maps pixel (x, y) of a width×height raster over b to the
// plane. Row 0 is Y1.
func (b Bounds) PixelToPlane(x, y, width, height int) complex128 {
	return complex(
		b.X1+float64(x)*(b.Width()/float64(width)),
		b.Y1+float64(y)*(b.Height()/float64(height)),
	)
}

// Validate reports every problem with the viewport at once.
func (v Viewport) Validate() error {
	var errs []error
	if !(v.Zoom > 0) {
		errs = append(errs, fmt.Errorf("%w: zoom must be positive, got %g", ErrInvalidConfiguration, v.Zoom))
	}
	if v.Width <= 0 || v.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: resolution must be positive, got %dx%d", ErrInvalidConfiguration, v.Width, v.Height))
	} else if err := CheckGridSize(v.Width, v.Height); err != nil {
		errs = append(errs, err)
	}
	if !isFinite(real(v.Center)) || !isFinite(imag(v.Center)) {
		errs = append(errs, fmt.Errorf("%w: center %v is not finite", ErrNumericDegenerate, v.Center))
	}
	return errors.Join(errs...)
}

// ScaledZoom is the zoom multiplied by the mean pixel dimension, i.e. the
// number of pixels per unit of plane distance.
func (v Viewport) ScaledZoom() float64 {
	return v.Zoom * float64(v.Width+v.Height) / 2
}

// Bounds returns the plane rectangle centered on v.Center.
//
// It fails with ErrNumericDegenerate when the rectangle collapses to zero
// width or height or is not finite, which happens for extreme zoom values
// beyond float64 precision.
func (v Viewport) Bounds() (Bounds, error) {
	if err := v.Validate(); err != nil {
		return Bounds{}, err
	}
	scaled := v.ScaledZoom()
	w := float64(v.Width) / scaled
	h := float64(v.Height) / scaled
	cx, cy := real(v.Center), imag(v.Center)
	b := Bounds{
		X1: cx - w/2,
		X2: cx + w/2,
		Y1: cy - h/2,
		Y2: cy + h/2,
	}
	for _, f := range []float64{b.X1, b.X2, b.Y1, b.Y2} {
		if !isFinite(f) {
			return Bounds{}, fmt.Errorf("%w: viewport bounds (%s) are not finite", ErrNumericDegenerate, b)
		}
	}
	if !(b.X2 > b.X1) || !(b.Y2 > b.Y1) {
		return Bounds{}, fmt.Errorf("%w: viewport collapses to an empty rectangle (%s)", ErrNumericDegenerate, b)
	}
	return b, nil
}

// Scale returns a viewport over the same plane rectangle at factor times
// the pixel resolution.
//
// Callers must check the scaled size with CheckSupersampledSize first.
func (v Viewport) Scale(factor int) Viewport {
	v.Width *= factor
	v.Height *= factor
	return v
}

// CheckSupersampledSize checks that v scaled by factor per axis stays
// within MaxGridPixels.
func (v Viewport) CheckSupersampledSize(factor int) error {
	if factor <= 0 {
		return fmt.Errorf("%w: supersampling factor must be positive, got %d", ErrInvalidConfiguration, factor)
	}
	if err := CheckGridSize(v.Width, v.Height); err != nil {
		return err
	}
	if v.Width > MaxGridPixels/factor || v.Height > MaxGridPixels/factor {
		return fmt.Errorf("%w: %dx%d at %dx supersampling exceeds the limit of %d pixels", ErrInvalidConfiguration, v.Width, v.Height, factor, MaxGridPixels)
	}
	return CheckGridSize(v.Width*factor, v.Height*factor)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
