package inspect

import (
	"fmt"
	"image"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-mcp/internal/fractal"
)

// DefaultCacheSize is the number of renders a cache keeps when NewRenderCache
// is given a non-positive limit.
const DefaultCacheSize = 16

// Entry is one cached image.
type Entry struct {
	// ID is the handle returned to clients, e.g. "render-3".
	ID string

	Image image.Image

	// Bounds is the plane rectangle the image covers. It is nil for images
	// loaded from disk, whose origin is unknown.
	Bounds *fractal.Bounds

	// Output is the file the render was saved to, if any.
	Output string
}

// PlaneAt maps pixel (x, y) to the plane point it was sampled at. ok is
// false when the entry has no bounds.
func (e *Entry) PlaneAt(x, y int) (c complex128, ok bool) {
	if e.Bounds == nil {
		return 0, false
	}
	r := e.Image.Bounds()
	return e.Bounds.PixelToPlane(x-r.Min.X, y-r.Min.Y, r.Dx(), r.Dy()), true
}

// RenderCache keeps recent renders in memory so follow-up calls can inspect
// them without touching disk.
//
// Entries are reachable by ID and, when the render was saved, by output
// path. Once the cache holds its limit, storing a new render evicts the
// oldest. RenderCache is safe for concurrent use.
type RenderCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []*Entry
	limit   int
	seq     int
}

// NewRenderCache returns an empty cache holding at most limit renders.
func NewRenderCache(limit int) *RenderCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &RenderCache{
		entries: make(map[string]*Entry),
		limit:   limit,
	}
}

// Store adds img and returns its entry with a fresh ID.
func (c *RenderCache) Store(img image.Image, bounds *fractal.Bounds, output string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	e := &Entry{
		ID:     "render-" + strconv.Itoa(c.seq),
		Image:  img,
		Bounds: bounds,
		Output: output,
	}
	for len(c.order) >= c.limit {
		c.removeLocked(c.order[0])
	}
	c.order = append(c.order, e)
	c.entries[e.ID] = e
	if output != "" {
		c.entries[output] = e
	}
	return e
}

// Get looks up an entry by ID or output path.
func (c *RenderCache) Get(ref string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ref]
	return e, ok
}

// Load returns the cached entry for ref or, failing that, decodes ref as
// an image file. Files loaded this way are not cached.
func (c *RenderCache) Load(ref string) (*Entry, error) {
	if e, ok := c.Get(ref); ok {
		return e, nil
	}
	img, err := imaging.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("no cached render %q and failed to open it as a file: %w", ref, err)
	}
	return &Entry{ID: ref, Image: img, Output: ref}, nil
}

// Evict removes the entry referenced by ref, under both of its keys.
func (c *RenderCache) Evict(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ref]; ok {
		c.removeLocked(e)
	}
}

// Clear drops every entry.
func (c *RenderCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.order = nil
	c.mu.Unlock()
}

// Len returns the number of cached renders.
func (c *RenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *RenderCache) removeLocked(e *Entry) {
	delete(c.entries, e.ID)
	if e.Output != "" && c.entries[e.Output] == e {
		delete(c.entries, e.Output)
	}
	for i, o := range c.order {
		if o == e {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
