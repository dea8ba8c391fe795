package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
	"github.com/ironsheep/fractal-mcp/internal/palette"
)

func ptrTo(v float64) *float64 {
	return &v
}

// recordingSink remembers what it was asked to save and optionally fails.
type recordingSink struct {
	path  string
	img   image.Image
	calls int
	err   error
}

func (s *recordingSink) Save(_ context.Context, img image.Image, path string) error {
	s.calls++
	s.path = path
	s.img = img
	return s.err
}

func TestRequest_WithDefaults(t *testing.T) {
	r := Request{}.WithDefaults()

	if r.MaxIterations != DefaultMaxIterations {
		t.Errorf("MaxIterations: got %d, want %d", r.MaxIterations, DefaultMaxIterations)
	}
	if r.MSAA != 1 {
		t.Errorf("MSAA: got %d, want 1", r.MSAA)
	}
	if r.EscapeRadius != fractal.DefaultEscapeRadius {
		t.Errorf("EscapeRadius: got %g, want %g", r.EscapeRadius, fractal.DefaultEscapeRadius)
	}
	if r.HueExponent != palette.DefaultHueExponent {
		t.Errorf("HueExponent: got %g, want %g", r.HueExponent, palette.DefaultHueExponent)
	}
	if r.Resolution != "HD" {
		t.Errorf("Resolution: got %q, want HD", r.Resolution)
	}
	if r.Zoom != 1 {
		t.Errorf("Zoom: got %g, want 1", r.Zoom)
	}
}

func TestRequest_Resolve_Presets(t *testing.T) {
	plan, err := Request{Landmark: "seahorse-valley", Resolution: "fhd"}.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Viewport.Width != 1920 || plan.Viewport.Height != 1080 {
		t.Errorf("resolution: got %dx%d, want 1920x1080", plan.Viewport.Width, plan.Viewport.Height)
	}
	if c := plan.Viewport.Center; math.Abs(real(c)+0.75) > 1e-12 || math.Abs(imag(c)-0.1) > 1e-12 {
		t.Errorf("center: got %v, want -0.75+0.1i", plan.Viewport.Center)
	}
	if plan.Viewport.Zoom < 9.99 || plan.Viewport.Zoom > 10.01 {
		t.Errorf("zoom: got %g, want 10", plan.Viewport.Zoom)
	}

	// An explicit zoom overrides the landmark's.
	plan, err = Request{Landmark: "seahorse-valley", Zoom: 42, Width: 10, Height: 10}.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if plan.Viewport.Zoom != 42 {
		t.Errorf("zoom: got %g, want 42", plan.Viewport.Zoom)
	}
}

func TestRequest_Resolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"negative zoom", Request{Zoom: -1, Width: 10, Height: 10}, fractal.ErrInvalidConfiguration},
		{"negative width", Request{Width: -10, Height: 10}, fractal.ErrInvalidConfiguration},
		{"one dimension missing", Request{Width: 10}, fractal.ErrInvalidConfiguration},
		{"negative iterations", Request{Width: 10, Height: 10, MaxIterations: -5}, fractal.ErrInvalidConfiguration},
		{"negative escape radius", Request{Width: 10, Height: 10, Continuous: true, EscapeRadius: -2}, fractal.ErrInvalidConfiguration},
		{"non-square msaa", Request{Width: 10, Height: 10, MSAA: 2}, fractal.ErrInvalidConfiguration},
		{"unknown scheme", Request{Width: 10, Height: 10, ColorScheme: "plasma"}, fractal.ErrInvalidConfiguration},
		{"negative hue exponent", Request{Width: 10, Height: 10, HueExponent: -1.25}, fractal.ErrInvalidConfiguration},
		{"unknown resolution", Request{Resolution: "VGA"}, fractal.ErrInvalidConfiguration},
		{"unknown landmark", Request{Landmark: "nowhere", Width: 10, Height: 10}, fractal.ErrInvalidConfiguration},
		{"unknown sentinel", Request{Width: 10, Height: 10, Sentinel: "min"}, fractal.ErrInvalidConfiguration},
		{"zoom beyond precision", Request{CenterReal: 1e10, Zoom: 1e30, Width: 10, Height: 10}, fractal.ErrNumericDegenerate},
		{"output over pixel limit", Request{Width: 20000, Height: 20000}, fractal.ErrInvalidConfiguration},
		{"supersampled over pixel limit", Request{Resolution: "UW_FUHD", MSAA: 9}, fractal.ErrInvalidConfiguration},
		{"supersampled size overflows", Request{Width: 65536, Height: 65536, MSAA: 1 << 32, MaxIterations: 1}, fractal.ErrInvalidConfiguration},
		{"negative chroma", Request{Width: 10, Height: 10, ColorScheme: "hcl", Chroma: ptrTo(-1)}, fractal.ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Resolve()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRequest_Resolve_ZeroChromaAndLuminance(t *testing.T) {
	plan, err := Request{Width: 10, Height: 10, ColorScheme: "hcl", Chroma: ptrTo(0), Luminance: ptrTo(0)}.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if *plan.Colors.Chroma != 0 || *plan.Colors.Luminance != 0 {
		t.Errorf("Chroma/Luminance: got %g/%g, want 0/0", *plan.Colors.Chroma, *plan.Colors.Luminance)
	}

	plan, err = Request{Width: 10, Height: 10, ColorScheme: "hcl"}.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if *plan.Colors.Chroma != palette.DefaultChroma || *plan.Colors.Luminance != palette.DefaultLuminance {
		t.Errorf("Chroma/Luminance: got %g/%g, want defaults", *plan.Colors.Chroma, *plan.Colors.Luminance)
	}
}

func TestRequest_Resolve_ReportsAllProblems(t *testing.T) {
	_, err := Request{Zoom: -1, Width: 10, Height: 10, MSAA: 3, ColorScheme: "plasma"}.Resolve()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"zoom", "msaa", "plasma"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestRenderer_Render(t *testing.T) {
	sink := &recordingSink{}
	r := NewRenderer(sink)

	res, err := r.Render(context.Background(), Request{
		CenterReal:    -0.5,
		Zoom:          1,
		Width:         100,
		Height:        100,
		MaxIterations: 50,
		ColorScheme:   "grayscale",
		Output:        "out/mandelbrot.png",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if sink.calls != 1 || sink.path != "out/mandelbrot.png" {
		t.Errorf("sink: got %d calls with path %q", sink.calls, sink.path)
	}
	if sink.img != image.Image(res.Image) {
		t.Error("sink did not receive the rendered image")
	}
	if res.Output != "out/mandelbrot.png" {
		t.Errorf("Output: got %q", res.Output)
	}
	if res.Bounds != (fractal.Bounds{X1: -1, Y1: -0.5, X2: 0, Y2: 0.5}) {
		t.Errorf("Bounds: got %s", res.Bounds)
	}
	if got := res.Image.NRGBAAt(50, 50); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("pixel (50,50): got %v, want black", got)
	}
}

func TestRenderer_Render_NoOutputSkipsSink(t *testing.T) {
	sink := &recordingSink{}
	res, err := NewRenderer(sink).Render(context.Background(), Request{Width: 20, Height: 10, MaxIterations: 20})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times, want 0", sink.calls)
	}
	if res.Output != "" {
		t.Errorf("Output: got %q, want empty", res.Output)
	}
}

func TestRenderer_Render_SinkFailure(t *testing.T) {
	cause := errors.New("disk full")
	sink := &recordingSink{err: cause}

	res, err := NewRenderer(sink).Render(context.Background(), Request{Width: 8, Height: 8, MaxIterations: 10, Output: "x.png"})
	if !errors.Is(err, ErrSinkFailure) {
		t.Errorf("got %v, want ErrSinkFailure", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("got %v, want wrapped cause", err)
	}
	if res != nil {
		t.Error("failed render should not return a result")
	}
}

func TestRenderer_Render_InvalidNeverReachesSink(t *testing.T) {
	sink := &recordingSink{}
	_, err := NewRenderer(sink).Render(context.Background(), Request{Width: 8, Height: 8, MSAA: 5, Output: "x.png"})
	if !errors.Is(err, fractal.ErrInvalidConfiguration) {
		t.Errorf("got %v, want ErrInvalidConfiguration", err)
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times, want 0", sink.calls)
	}
}

func TestRenderer_Render_OversizedNeverComputes(t *testing.T) {
	sink := &recordingSink{}
	req := Request{Width: 65536, Height: 65536, MSAA: 1 << 32, MaxIterations: 1, Output: "x.png"}
	res, err := NewRenderer(sink).Render(context.Background(), req)
	if !errors.Is(err, fractal.ErrInvalidConfiguration) {
		t.Errorf("got %v, want ErrInvalidConfiguration", err)
	}
	if res != nil {
		t.Error("oversized render should not return a result")
	}
	if sink.calls != 0 {
		t.Errorf("sink called %d times, want 0", sink.calls)
	}
}

func TestRenderer_Render_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.png")

	res, err := NewRenderer(nil).Render(context.Background(), Request{
		Width:         32,
		Height:        24,
		MaxIterations: 30,
		ColorScheme:   "hsv",
		MSAA:          4,
		Output:        path,
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %s, want png", format)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("dimensions: got %v, want 32x24", img.Bounds())
	}
	if res.Timings.Total() < res.Timings.Sample {
		t.Errorf("Total %v less than Sample %v", res.Timings.Total(), res.Timings.Sample)
	}
}

func TestFileSink_UnsupportedExtension(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	path := filepath.Join(t.TempDir(), "render.webp")

	if err := (FileSink{}).Save(context.Background(), img, path); err == nil {
		t.Error("Save should fail for an unsupported extension")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no file should be written, stat: %v", err)
	}
}

func TestFileSink_EmptyPath(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	err := (FileSink{}).Save(context.Background(), img, "")
	if err == nil || err.Error() != "empty output path" {
		t.Errorf("got %v, want empty output path", err)
	}
}

func TestRenderer_LogsProgress(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	if _, err := NewRenderer(nil).Render(context.Background(), Request{Width: 8, Height: 8, MaxIterations: 10}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"rendering mandelbrot set", "x1 =", "generated iteration grid", "mapped iterations to colors", "render complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
