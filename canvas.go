package ink

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/transform"
)

// Canvas is a fixed-dimension composite surface. Its width and height are
// set at creation and never change; Resize produces a new Canvas.
//
// The canvas owns its LayerManager and, with it, all pixel state. Access
// follows a single-writer/multiple-reader discipline around one
// reader/writer lock shared with the layer manager (and the engine, when
// the canvas is engine-owned): composite reads may run concurrently with
// each other, never with a writer.
type Canvas struct {
	mu     *sync.RWMutex
	width  int
	height int
	layers *LayerManager

	// tileBudget caps the number of allocated tiles across all layers;
	// 0 means unlimited. allocated is the current count.
	tileBudget int
	allocated  int

	// erased holds the coordinates of tiles deleted since the last
	// ClearDirty. The per-tile dirty flag dies with the tile, so regions
	// that became transparent report through this set instead.
	erased map[TileCoord]bool
}

// NewCanvas creates an empty canvas with the given dimensions and no
// tile budget. Width and height must be positive.
func NewCanvas(width, height int) (*Canvas, error) {
	return newCanvas(&sync.RWMutex{}, width, height, 0)
}

func newCanvas(mu *sync.RWMutex, width, height, tileBudget int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	c := &Canvas{
		mu:         mu,
		width:      width,
		height:     height,
		tileBudget: tileBudget,
		erased:     make(map[TileCoord]bool),
	}
	c.layers = newLayerManager(mu, c)
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// bounds returns the canvas pixel rectangle.
func (c *Canvas) bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Layers returns the canvas's layer manager. The handle shares the
// canvas lock.
func (c *Canvas) Layers() *LayerManager { return c.layers }

// AllocatedTiles returns the total number of tiles currently allocated
// across all layers.
func (c *Canvas) AllocatedTiles() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allocated
}

// GetPixel returns the composited color at (x, y): all visible layers
// flattened bottom-to-top through their blend modes. Regions with no ink
// are fully transparent. Coordinates outside the canvas return
// ErrOutOfBounds.
func (c *Canvas) GetPixel(x, y int) (RGBA, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getPixelLocked(x, y)
}

func (c *Canvas) getPixelLocked(x, y int) (RGBA, error) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Transparent, fmt.Errorf("%w: (%d, %d) on %dx%d canvas", ErrOutOfBounds, x, y, c.width, c.height)
	}
	acc := Transparent
	coord := tileCoordOf(x, y)
	lx, ly := x&TileMask, y&TileMask
	for _, l := range c.layers.layers {
		if !l.visible {
			continue
		}
		t, ok := l.tiles[coord]
		if !ok {
			continue // absent tile composites as identity
		}
		acc = BlendColors(l.mode, acc, t.pixel(lx, ly), l.opacity)
	}
	return acc, nil
}

// Composite flattens all visible layers into a new Pixmap covering the
// whole canvas.
func (c *Canvas) Composite() *Pixmap {
	return c.CompositeRegion(image.Rect(0, 0, c.width, c.height))
}

// CompositeRegion flattens only the given pixel rectangle, clipped to the
// canvas bounds. The returned pixmap has the clipped rectangle's size;
// an empty intersection yields an empty pixmap.
//
// Only tiles allocated within the region are visited, so the cost is
// bounded by the touched tile set, not the canvas size.
func (c *Canvas) CompositeRegion(region image.Rectangle) *Pixmap {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.compositeLocked(region)
}

func (c *Canvas) compositeLocked(region image.Rectangle) *Pixmap {
	region = region.Intersect(image.Rect(0, 0, c.width, c.height))
	w, h := region.Dx(), region.Dy()
	pm := NewPixmap(w, h)
	if w == 0 || h == 0 {
		return pm
	}

	// Accumulate in float64 and quantize once at the end, so stacking
	// many layers does not compound 8-bit rounding.
	acc := make([]RGBA, w*h)

	for _, l := range c.layers.layers {
		if !l.visible {
			continue
		}
		for coord, t := range l.tiles {
			overlap := coord.Rect().Intersect(region)
			if overlap.Empty() {
				continue
			}
			for py := overlap.Min.Y; py < overlap.Max.Y; py++ {
				ly := py & TileMask
				row := (py - region.Min.Y) * w
				for px := overlap.Min.X; px < overlap.Max.X; px++ {
					i := row + (px - region.Min.X)
					acc[i] = BlendColors(l.mode, acc[i], t.pixel(px&TileMask, ly), l.opacity)
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pm.SetPixel(x, y, acc[y*w+x])
		}
	}
	return pm
}

// DirtyRects returns the pixel rectangles of all regions changed since
// the last ClearDirty, for incremental redraw. This covers tiles whose
// pixels were written as well as tiles that were deleted, so areas that
// became transparent (undo, clear, layer removal) still report.
func (c *Canvas) DirtyRects() []image.Rectangle {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[TileCoord]bool)
	var rects []image.Rectangle
	add := func(coord TileCoord) {
		if seen[coord] {
			return
		}
		seen[coord] = true
		r := coord.Rect().Intersect(image.Rect(0, 0, c.width, c.height))
		if !r.Empty() {
			rects = append(rects, r)
		}
	}
	for _, l := range c.layers.layers {
		for coord, t := range l.tiles {
			if t.dirty {
				add(coord)
			}
		}
	}
	for coord := range c.erased {
		add(coord)
	}
	return rects
}

// ClearDirty resets all dirty tracking, typically after the host has
// redrawn the dirty regions.
func (c *Canvas) ClearDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.layers.layers {
		for _, t := range l.tiles {
			t.dirty = false
		}
	}
	clear(c.erased)
}

// markErased records a deleted tile's region as dirty. Callers hold the
// write lock.
func (c *Canvas) markErased(coord TileCoord) {
	c.erased[coord] = true
}

// Resize produces a new canvas with every layer resampled to the new
// dimensions using Lanczos filtering. The receiver is left untouched.
// Layer ids, names, blend modes, opacities and visibility carry over;
// tile sparsity is re-derived, so fully transparent regions of the
// resampled layers allocate nothing.
func (c *Canvas) Resize(width, height int) (*Canvas, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resizeLocked(&sync.RWMutex{}, width, height)
}

func (c *Canvas) resizeLocked(mu *sync.RWMutex, width, height int) (*Canvas, error) {
	nc, err := newCanvas(mu, width, height, c.tileBudget)
	if err != nil {
		return nil, err
	}
	for _, l := range c.layers.layers {
		img := c.layerImage(l)
		scaled := transform.Resize(img, width, height, transform.Lanczos)

		// bild returns alpha-premultiplied RGBA; tiles store
		// non-premultiplied bytes, so convert before re-tiling.
		flat := image.NewNRGBA(scaled.Bounds())
		draw.Draw(flat, flat.Bounds(), scaled, image.Point{}, draw.Src)

		nl := &Layer{
			id:      l.id,
			name:    l.name,
			mode:    l.mode,
			opacity: l.opacity,
			visible: l.visible,
			tiles:   make(map[TileCoord]*Tile),
		}
		if err := nc.ingestLayerImage(nl, flat); err != nil {
			return nil, err
		}
		nc.layers.layers = append(nc.layers.layers, nl)
	}
	return nc, nil
}

// layerImage renders a single layer, unblended, into a full-size NRGBA
// image. Callers hold the lock.
func (c *Canvas) layerImage(l *Layer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	bounds := image.Rect(0, 0, c.width, c.height)
	for coord, t := range l.tiles {
		overlap := coord.Rect().Intersect(bounds)
		for py := overlap.Min.Y; py < overlap.Max.Y; py++ {
			ly := py & TileMask
			for px := overlap.Min.X; px < overlap.Max.X; px++ {
				si := (ly*TileSize + (px & TileMask)) * 4
				di := img.PixOffset(px, py)
				copy(img.Pix[di:di+4], t.pix[si:si+4])
			}
		}
	}
	return img
}

// ingestLayerImage re-tiles an NRGBA image into the layer, skipping fully
// transparent tiles to preserve the sparsity invariant.
func (c *Canvas) ingestLayerImage(l *Layer, img *image.NRGBA) error {
	b := img.Bounds()
	tilesX := (b.Dx() + TileMask) >> TileShift
	tilesY := (b.Dy() + TileMask) >> TileShift
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			coord := TileCoord{X: tx, Y: ty}
			overlap := coord.Rect().Intersect(b)
			t := newTile()
			hasInk := false
			for py := overlap.Min.Y; py < overlap.Max.Y; py++ {
				for px := overlap.Min.X; px < overlap.Max.X; px++ {
					si := img.PixOffset(px, py)
					if img.Pix[si+3] == 0 {
						continue
					}
					hasInk = true
					di := ((py&TileMask)*TileSize + (px & TileMask)) * 4
					copy(t.pix[di:di+4], img.Pix[si:si+4])
				}
			}
			if !hasInk {
				continue
			}
			if !c.canAllocate(1) {
				return fmt.Errorf("%w: resize needs more tiles than the budget allows", ErrResourceExhausted)
			}
			l.tiles[coord] = t
			c.allocated++
		}
	}
	return nil
}

// canAllocate reports whether n more tiles fit in the budget. Callers
// hold the lock.
func (c *Canvas) canAllocate(n int) bool {
	return c.tileBudget <= 0 || c.allocated+n <= c.tileBudget
}

// ensureTile returns the layer's tile at coord, allocating it lazily.
// Allocation beyond the tile budget fails with ErrResourceExhausted.
// Callers hold the write lock.
func (c *Canvas) ensureTile(l *Layer, coord TileCoord) (*Tile, error) {
	if t, ok := l.tiles[coord]; ok {
		return t, nil
	}
	if !c.canAllocate(1) {
		return nil, fmt.Errorf("%w: %d tiles allocated", ErrResourceExhausted, c.allocated)
	}
	t := newTile()
	l.tiles[coord] = t
	c.allocated++
	return t, nil
}

// writeStamp blends a stamp into the layer's tiles at the given center,
// clipped to the canvas bounds. Paint stamps composite source-over at the
// stamp's per-pixel alpha; erase stamps remove coverage instead. The
// recorder, when non-nil, captures each touched tile's prior contents for
// history.
//
// On a tile-budget failure the already written pixels remain: the caller
// commits the partial operation as a valid reversible history entry.
// Callers hold the write lock.
func (c *Canvas) writeStamp(l *Layer, st *Stamp, center Point, color RGBA, erase bool, rec *tileRecorder) error {
	x0 := int(math.Floor(center.X+0.5)) - st.Size/2
	y0 := int(math.Floor(center.Y+0.5)) - st.Size/2

	for sy := 0; sy < st.Size; sy++ {
		py := y0 + sy
		if py < 0 || py >= c.height {
			continue
		}
		for sx := 0; sx < st.Size; sx++ {
			px := x0 + sx
			if px < 0 || px >= c.width {
				continue
			}
			a := st.Alpha[sy*st.Size+sx]
			if a == 0 {
				continue
			}

			coord := tileCoordOf(px, py)
			if rec != nil {
				rec.note(l, coord)
			}
			t, err := c.ensureTile(l, coord)
			if err != nil {
				return err
			}

			lx, ly := px&TileMask, py&TileMask
			dst := t.pixel(lx, ly)
			var out RGBA
			if erase {
				out = eraseColor(dst, a)
			} else {
				out = BlendColors(BlendNormal, dst, color.WithAlpha(color.A*a), 1)
			}
			t.setPixel(lx, ly, out)
		}
	}
	return nil
}
