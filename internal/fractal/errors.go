package fractal

import "errors"

var (
	// ErrInvalidConfiguration is wrapped by every validation failure:
	// non-positive zoom, resolution, iteration count or escape radius,
	// non-square MSAA, unknown colour scheme, non-positive hue exponent,
	// grids larger than MaxGridPixels.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNumericDegenerate is wrapped when a viewport or an iteration
	// produces NaN or infinite values.
	ErrNumericDegenerate = errors.New("numerically degenerate input")
)
