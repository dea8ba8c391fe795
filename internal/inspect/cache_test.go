package inspect

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
)

// createInMemoryImage creates a uniformly colored test image.
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderCache_StoreAndGet(t *testing.T) {
	cache := NewRenderCache(0)
	img := createInMemoryImage(4, 4, color.Black)

	first := cache.Store(img, nil, "")
	second := cache.Store(img, nil, "out/render.png")

	if first.ID != "render-1" || second.ID != "render-2" {
		t.Errorf("IDs: got %q, %q, want render-1, render-2", first.ID, second.ID)
	}
	if e, ok := cache.Get("render-1"); !ok || e != first {
		t.Error("Get by ID did not return the stored entry")
	}
	if e, ok := cache.Get("out/render.png"); !ok || e != second {
		t.Error("Get by output path did not return the stored entry")
	}
	if _, ok := cache.Get("render-3"); ok {
		t.Error("Get returned an entry that was never stored")
	}
	if cache.Len() != 2 {
		t.Errorf("Len: got %d, want 2", cache.Len())
	}
}

func TestRenderCache_EvictsOldest(t *testing.T) {
	cache := NewRenderCache(2)
	img := createInMemoryImage(1, 1, color.White)

	cache.Store(img, nil, "a.png")
	cache.Store(img, nil, "")
	cache.Store(img, nil, "")

	if cache.Len() != 2 {
		t.Errorf("Len: got %d, want 2", cache.Len())
	}
	if _, ok := cache.Get("render-1"); ok {
		t.Error("oldest render should have been evicted")
	}
	if _, ok := cache.Get("a.png"); ok {
		t.Error("oldest render's output key should have been evicted")
	}
	if _, ok := cache.Get("render-3"); !ok {
		t.Error("newest render should be cached")
	}
}

func TestRenderCache_Evict(t *testing.T) {
	cache := NewRenderCache(0)
	e := cache.Store(createInMemoryImage(1, 1, color.White), nil, "keep.png")

	cache.Evict("keep.png")

	if _, ok := cache.Get(e.ID); ok {
		t.Error("Evict by output path should also drop the ID key")
	}
	if cache.Len() != 0 {
		t.Errorf("Len: got %d, want 0", cache.Len())
	}

	// Evicting something absent is a no-op.
	cache.Evict("missing")
}

func TestRenderCache_OutputReusedByNewerRender(t *testing.T) {
	cache := NewRenderCache(0)
	img := createInMemoryImage(1, 1, color.White)

	old := cache.Store(img, nil, "same.png")
	newer := cache.Store(img, nil, "same.png")

	if e, _ := cache.Get("same.png"); e != newer {
		t.Error("output path should resolve to the newest render")
	}
	cache.Evict(old.ID)
	if e, ok := cache.Get("same.png"); !ok || e != newer {
		t.Error("evicting the older render must not drop the newer one's path")
	}
}

func TestRenderCache_Clear(t *testing.T) {
	cache := NewRenderCache(0)
	cache.Store(createInMemoryImage(1, 1, color.White), nil, "x.png")
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("Len: got %d, want 0", cache.Len())
	}
	if _, ok := cache.Get("x.png"); ok {
		t.Error("Clear left an entry behind")
	}
}

func TestRenderCache_LoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.png")
	if err := imaging.Save(createInMemoryImage(6, 3, color.NRGBA{10, 20, 30, 255}), path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}

	cache := NewRenderCache(0)
	e, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if e.Image.Bounds().Dx() != 6 || e.Image.Bounds().Dy() != 3 {
		t.Errorf("dimensions: got %v, want 6x3", e.Image.Bounds())
	}
	if e.Bounds != nil {
		t.Error("an image loaded from disk has no plane bounds")
	}
	if cache.Len() != 0 {
		t.Error("Load should not cache files read from disk")
	}
}

func TestRenderCache_LoadMissing(t *testing.T) {
	cache := NewRenderCache(0)
	if _, err := cache.Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for a missing render")
	}
}

func TestRenderCache_Concurrent(t *testing.T) {
	cache := NewRenderCache(8)
	img := createInMemoryImage(2, 2, color.White)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := cache.Store(img, nil, fmt.Sprintf("out-%d.png", i))
			cache.Get(e.ID)
			cache.Get(e.Output)
			if i%4 == 0 {
				cache.Evict(e.ID)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n > 8 {
		t.Errorf("Len: got %d, want at most 8", n)
	}
}

func TestEntry_PlaneAt(t *testing.T) {
	b := fractal.Bounds{X1: -2, Y1: -1, X2: 2, Y2: 1}
	e := &Entry{Image: createInMemoryImage(4, 2, color.Black), Bounds: &b}

	z, ok := e.PlaneAt(2, 1)
	if !ok {
		t.Fatal("PlaneAt should succeed when bounds are known")
	}
	if z != 0 {
		t.Errorf("PlaneAt(2,1): got %v, want 0", z)
	}

	e.Bounds = nil
	if _, ok := e.PlaneAt(0, 0); ok {
		t.Error("PlaneAt should fail without bounds")
	}
}
