package inspect

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Label modes for GridOverlay.
const (
	LabelNone  = "none"
	LabelPixel = "pixel"
	LabelPlane = "plane"
)

// DefaultGridColor is semi-transparent red.
const DefaultGridColor = "#FF000080"

// GridOverlayResult is an image with a coordinate grid drawn over it.
type GridOverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	GridSpacing int    `json:"grid_spacing"`
}

// GridOverlay draws grid lines every spacing pixels over a copy of e's
// image. Intersections are labelled with pixel coordinates, plane
// coordinates (cached renders only) or not at all.
func GridOverlay(e *Entry, spacing int, labels, gridColor string) (*GridOverlayResult, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}
	if labels == "" {
		labels = LabelNone
	}
	switch labels {
	case LabelNone, LabelPixel:
	case LabelPlane:
		if e.Bounds == nil {
			return nil, fmt.Errorf("plane labels need a cached render, %q has no plane bounds", e.ID)
		}
	default:
		return nil, fmt.Errorf("unknown label mode %q", labels)
	}
	if gridColor == "" {
		gridColor = DefaultGridColor
	}
	lineColor, err := parseRGBAHex(gridColor)
	if err != nil {
		return nil, err
	}

	bounds := e.Image.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), e.Image, bounds.Min, draw.Src)

	line := image.NewUniform(lineColor)
	for x := spacing; x < width; x += spacing {
		draw.Draw(result, image.Rect(x, 0, x+1, height), line, image.Point{}, draw.Over)
	}
	for y := spacing; y < height; y += spacing {
		draw.Draw(result, image.Rect(0, y, width, y+1), line, image.Point{}, draw.Over)
	}

	if labels != LabelNone {
		fg := color.NRGBA{255, 255, 255, 255}
		bg := color.NRGBA{0, 0, 0, 180}
		for y := spacing; y < height; y += spacing {
			for x := spacing; x < width; x += spacing {
				var label string
				if labels == LabelPixel {
					label = fmt.Sprintf("%d,%d", x, y)
				} else {
					z, _ := e.PlaneAt(x+bounds.Min.X, y+bounds.Min.Y)
					label = formatCoord(real(z)) + "," + formatCoord(imag(z))
				}
				drawLabel(result, x+2, y+2, label, fg, bg)
			}
		}
	}

	encoded, err := EncodePNG(result)
	if err != nil {
		return nil, err
	}
	return &GridOverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: encoded,
		MimeType:    PNGMimeType,
		GridSpacing: spacing,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// parseRGBAHex accepts "#RRGGBB" or "#RRGGBBAA".
func parseRGBAHex(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	alpha := uint8(255)
	if len(s) == 8 {
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid grid color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:6]
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid grid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// glyphs is a 3x5 pixel font covering what coordinate labels need.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'.': {"000", "000", "000", "000", "010"},
	'-': {"000", "000", "111", "000", "000"},
	'+': {"000", "010", "111", "010", "000"},
	'e': {"000", "111", "111", "100", "111"},
}

func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const charWidth, labelHeight = 4, 7
	labelWidth := len(text) * charWidth

	bgRect := image.Rect(x-1, y-1, x+labelWidth, y+labelHeight).Intersect(img.Bounds())
	draw.Draw(img, bgRect, image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					if p := (image.Point{X: cx + col, Y: y + row}); p.In(img.Bounds()) {
						img.SetNRGBA(p.X, p.Y, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}
