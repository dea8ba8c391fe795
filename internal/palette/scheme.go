package palette

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
)

// Scheme is one of the supported colour mappings.
type Scheme int

const (
	Grayscale Scheme = iota
	HSV
	HCL
)

// Schemes lists every scheme in declaration order.
var Schemes = []Scheme{Grayscale, HSV, HCL}

func (s Scheme) String() string {
	switch s {
	case Grayscale:
		return "grayscale"
	case HSV:
		return "hsv"
	case HCL:
		return "hcl"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// MarshalJSON encodes the scheme by name.
func (s Scheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a scheme name accepted by ParseScheme.
func (s *Scheme) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseScheme(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScheme resolves a scheme name. "greyscale" and "gray" are accepted
// as aliases; an empty name selects Grayscale.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "grayscale", "greyscale", "gray", "grey":
		return Grayscale, nil
	case "hsv":
		return HSV, nil
	case "hcl", "lch":
		return HCL, nil
	default:
		return 0, fmt.Errorf("%w: unknown color scheme %q", fractal.ErrInvalidConfiguration, name)
	}
}

const (
	// DefaultHueExponent bends the iteration-to-hue ramp so that low
	// iteration counts sweep through fewer hues.
	DefaultHueExponent = 1.25
	DefaultChroma      = 60.0
	DefaultLuminance   = 65.0
)

// Config selects and parameterises a mapping.
type Config struct {
	Scheme Scheme

	// HueExponent is applied to the hue angle in the hsv and hcl schemes.
	// Must be > 0.
	HueExponent float64

	// InSetColor is a hex colour ("#RRGGBB") for points that never
	// escaped. Empty selects white for continuous grayscale and black
	// everywhere else.
	InSetColor string

	// Chroma and Luminance fix the HCL cylinder slice the hcl scheme walks
	// around. Nil selects DefaultChroma and DefaultLuminance; zero is a
	// valid choice for both.
	Chroma    *float64
	Luminance *float64
}

// WithDefaults fills zero-valued optional fields.
func (c Config) WithDefaults() Config {
	if c.HueExponent == 0 {
		c.HueExponent = DefaultHueExponent
	}
	if c.Chroma == nil {
		v := DefaultChroma
		c.Chroma = &v
	}
	if c.Luminance == nil {
		v := DefaultLuminance
		c.Luminance = &v
	}
	return c
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if c.Scheme < Grayscale || c.Scheme > HCL {
		errs = append(errs, fmt.Errorf("%w: unknown color scheme %d", fractal.ErrInvalidConfiguration, int(c.Scheme)))
	}
	if !(c.HueExponent > 0) || math.IsInf(c.HueExponent, 0) {
		errs = append(errs, fmt.Errorf("%w: hue exponent must be positive, got %g", fractal.ErrInvalidConfiguration, c.HueExponent))
	}
	if c.Scheme == HCL {
		if c.Chroma != nil && (!(*c.Chroma >= 0) || math.IsInf(*c.Chroma, 0)) {
			errs = append(errs, fmt.Errorf("%w: chroma must be non-negative, got %g", fractal.ErrInvalidConfiguration, *c.Chroma))
		}
		if c.Luminance != nil && !(*c.Luminance >= 0 && *c.Luminance <= 100) {
			errs = append(errs, fmt.Errorf("%w: luminance must be within [0,100], got %g", fractal.ErrInvalidConfiguration, *c.Luminance))
		}
	}
	if c.InSetColor != "" {
		if _, err := parseHexColor(c.InSetColor); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// parseHexColor accepts "#RRGGBB" with or without the leading '#'.
func parseHexColor(hex string) (color.NRGBA, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: in-set color %q: %v", fractal.ErrInvalidConfiguration, hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
