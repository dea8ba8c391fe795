package fractal

import (
	"fmt"
	"math"
	"strings"
)

// DefaultEscapeRadius is the bailout radius used by the continuous mode.
// The smoothing formula bands visibly with small radii.
const DefaultEscapeRadius = 2000.0

// bailout is the discrete-mode escape radius for the quadratic map.
const bailout = 2.0

// Sentinel selects the value a discrete-mode evaluation returns for a
// point that never escaped.
type Sentinel int

const (
	// SentinelMaxIterations returns MaxIterations. It never collides with
	// a genuine escape index.
	SentinelMaxIterations Sentinel = iota

	// SentinelMaxIterationsMinusOne returns MaxIterations-1, the value a
	// zero-based loop counter holds after running to completion.
	SentinelMaxIterationsMinusOne
)

// String returns the name used in requests ("max" or "max-1").
func (s Sentinel) String() string {
	switch s {
	case SentinelMaxIterations:
		return "max"
	case SentinelMaxIterationsMinusOne:
		return "max-1"
	default:
		return fmt.Sprintf("Sentinel(%d)", int(s))
	}
}

// ParseSentinel parses "max" or "max-1". An empty string selects the
// default, SentinelMaxIterations.
func ParseSentinel(name string) (Sentinel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "max":
		return SentinelMaxIterations, nil
	case "max-1", "max_minus_one":
		return SentinelMaxIterationsMinusOne, nil
	default:
		return 0, fmt.Errorf("%w: unknown sentinel policy %q", ErrInvalidConfiguration, name)
	}
}

// Params controls how a single point is evaluated.
type Params struct {
	// MaxIterations bounds the number of z ← z² + c steps. Must be > 0.
	MaxIterations int `json:"max_iterations"`

	// Continuous selects the smooth escape value instead of the integer
	// escape index.
	Continuous bool `json:"continuous"`

	// EscapeRadius is the continuous-mode bailout. Must be > 0; zero is
	// replaced by DefaultEscapeRadius in WithDefaults.
	EscapeRadius float64 `json:"escape_radius"`

	// Sentinel is the discrete-mode "never escaped" policy.
	Sentinel Sentinel `json:"-"`
}

// WithDefaults returns a copy of p with zero-valued optional fields filled.
func (p Params) WithDefaults() Params {
	if p.EscapeRadius == 0 {
		p.EscapeRadius = DefaultEscapeRadius
	}
	return p
}

// Validate reports why p cannot be evaluated, or nil.
func (p Params) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidConfiguration, p.MaxIterations)
	}
	if !(p.EscapeRadius > 0) || math.IsInf(p.EscapeRadius, 0) {
		return fmt.Errorf("%w: escape radius must be positive and finite, got %g", ErrInvalidConfiguration, p.EscapeRadius)
	}
	if p.Sentinel != SentinelMaxIterations && p.Sentinel != SentinelMaxIterationsMinusOne {
		return fmt.Errorf("%w: unknown sentinel policy %d", ErrInvalidConfiguration, int(p.Sentinel))
	}
	return nil
}

// SentinelValue is the grid value that marks a point as never escaping.
func (p Params) SentinelValue() float64 {
	if p.Continuous {
		return 0
	}
	if p.Sentinel == SentinelMaxIterationsMinusOne {
		return float64(p.MaxIterations - 1)
	}
	return float64(p.MaxIterations)
}

// Evaluate returns the grid value for the plane point (re, im): the smooth
// escape value in continuous mode, the escape index otherwise.
func (p Params) Evaluate(re, im float64) float64 {
	if p.Continuous {
		return Smooth(re, im, p.MaxIterations, p.EscapeRadius)
	}
	i, escaped := Escape(re, im, p.MaxIterations)
	if !escaped {
		return p.SentinelValue()
	}
	return float64(i)
}

// Escape returns the first index i in [0, maxIterations) at which |z| > 2,
// and whether that happened at all.
func Escape(re, im float64, maxIterations int) (int, bool) {
	var zr, zi float64
	const limit = bailout * bailout
	for i := 0; i < maxIterations; i++ {
		zr, zi = zr*zr-zi*zi+re, 2*zr*zi+im
		if zr*zr+zi*zi > limit {
			return i, true
		}
	}
	return maxIterations, false
}

// Smooth returns the continuous escape value μ = i − ln(ln|z|)/ln 2 for the
// first index i at which |z| exceeds radius, or 0 if the point never
// escapes within maxIterations.
//
// μ tracks the discrete escape index to within one iteration. Points far
// outside the set can yield small negative values.
func Smooth(re, im float64, maxIterations int, radius float64) float64 {
	var zr, zi float64
	limit := radius * radius
	for i := 0; i < maxIterations; i++ {
		zr, zi = zr*zr-zi*zi+re, 2*zr*zi+im
		if m2 := zr*zr + zi*zi; m2 > limit {
			modulus := math.Sqrt(m2)
			return float64(i) - math.Log(math.Log(modulus))/math.Ln2
		}
	}
	return 0
}
