package inspect

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an 8-bit RGB triple.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult is one pixel's color in several representations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor returns the color of pixel (x, y).
//
// Coordinates are 0-based with the origin at the top-left. Rendered images
// are opaque, so alpha is not reported.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %v", x, y, img.Bounds())
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return newColorResult(uint8(r>>8), uint8(g>>8), uint8(b>>8)), nil
}

func newColorResult(r, g, b uint8) *ColorResult {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	return &ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// Point is a pixel coordinate with an optional label.
type Point struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// Sample is a color read at a point. Plane is set when the image's plane
// bounds are known.
type Sample struct {
	Point
	Color ColorResult `json:"color"`
	Plane *PlanePoint `json:"plane,omitempty"`
}

// PlanePoint is a point of the complex plane.
type PlanePoint struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// SampleEntry samples every point of a cached entry, in input order. Any
// out-of-range point fails the whole call.
func SampleEntry(e *Entry, points []Point) ([]Sample, error) {
	samples := make([]Sample, 0, len(points))
	for _, p := range points {
		c, err := SampleColor(e.Image, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		s := Sample{Point: p, Color: *c}
		if z, ok := e.PlaneAt(p.X, p.Y); ok {
			s.Plane = &PlanePoint{Real: real(z), Imag: imag(z)}
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// ColorFrequency is a quantized color and the share of pixels it covers.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	RGB        RGBColor `json:"rgb"`
	Percentage float64  `json:"percentage"`
}

// DominantColors returns up to count of the most common colors in img,
// most frequent first.
//
// Each channel is quantized to a multiple of 16 first, so neighbouring
// shades of a smooth gradient are counted together. Ties are broken by hex
// value so the result is stable.
func DominantColors(img image.Image, count int) []ColorFrequency {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 || count <= 0 {
		return nil
	}

	counts := make(map[RGBColor]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[RGBColor{
				R: uint8(r>>8) &^ 0x0F,
				G: uint8(g>>8) &^ 0x0F,
				B: uint8(b>>8) &^ 0x0F,
			}]++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B),
			RGB:        rgb,
			Percentage: float64(n) * 100 / float64(total),
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors
}
