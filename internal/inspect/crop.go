package inspect

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
)

// CropResult is a cropped region encoded for inline transport.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// Bounds is the plane rectangle the crop covers, when known. Rendering
	// it again at a higher zoom gives a sharper view of the same region.
	Bounds *fractal.Bounds `json:"bounds,omitempty"`
}

// Crop cuts the pixel rectangle (x1,y1)-(x2,y2) out of e, the far corner
// exclusive, and optionally rescales it. A scale of 0 or 1 keeps the size.
func Crop(e *Entry, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := e.Image.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds %v", x1, y1, x2, y2, bounds)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	if scale < 0 {
		return nil, fmt.Errorf("scale must not be negative, got %g", scale)
	}

	cropped := imaging.Crop(e.Image, image.Rect(x1, y1, x2, y2))
	if scale != 0 && scale != 1 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g shrinks the crop to nothing", scale)
		}
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	encoded, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}
	res := &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    PNGMimeType,
	}
	if e.Bounds != nil {
		w, h := bounds.Dx(), bounds.Dy()
		lo := e.Bounds.PixelToPlane(x1-bounds.Min.X, y1-bounds.Min.Y, w, h)
		hi := e.Bounds.PixelToPlane(x2-bounds.Min.X, y2-bounds.Min.Y, w, h)
		res.Bounds = &fractal.Bounds{X1: real(lo), Y1: imag(lo), X2: real(hi), Y2: imag(hi)}
	}
	return res, nil
}
