package inspect

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PNGMimeType is the MIME type of EncodePNG output.
const PNGMimeType = "image/png"

// EncodePNG encodes img as PNG and returns it base64-encoded, ready to be
// sent inline as MCP image content.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
