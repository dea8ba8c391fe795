package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrSinkFailure is wrapped around any error returned while persisting a
// rendered image.
var ErrSinkFailure = errors.New("image sink failure")

// Sink persists a rendered image. Format and encoding are the sink's
// concern; the renderer never retries a failed Save.
type Sink interface {
	Save(ctx context.Context, img image.Image, path string) error
}

// FileSink writes images to the local filesystem. The format follows the
// file extension (.png, .jpg/.jpeg, .gif, .tif/.tiff, .bmp). Missing parent
// directories are created.
type FileSink struct{}

// Save encodes img to path.
func (FileSink) Save(ctx context.Context, img image.Image, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return errors.New("empty output path")
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported output format for %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
