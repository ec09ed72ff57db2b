package ink

import "image"

// TileSize is the width and height of a tile in pixels.
// Tiles are the atomic unit of sparse layer storage and dirty tracking.
const TileSize = 64

// TileShift is log2(TileSize) for efficient division.
const TileShift = 6

// TileMask is TileSize - 1 for efficient modulo.
const TileMask = TileSize - 1

// TileCoord addresses a tile within a layer. Pixel coordinates are
// (X * TileSize, Y * TileSize).
type TileCoord struct {
	X, Y int
}

// tileCoordOf returns the coordinate of the tile covering pixel (x, y).
func tileCoordOf(x, y int) TileCoord {
	return TileCoord{X: x >> TileShift, Y: y >> TileShift}
}

// Rect returns the pixel rectangle covered by the tile.
func (tc TileCoord) Rect() image.Rectangle {
	return image.Rect(
		tc.X<<TileShift,
		tc.Y<<TileShift,
		(tc.X+1)<<TileShift,
		(tc.Y+1)<<TileShift,
	)
}

// Tile is a fixed-size pixel buffer owned by exactly one layer.
//
// Pixels are stored as non-premultiplied RGBA, 4 bytes per pixel, row
// major. Layers allocate tiles lazily: the absence of a tile means the
// region is fully transparent.
type Tile struct {
	pix   []uint8 // TileSize*TileSize*4 bytes
	dirty bool
}

// newTile allocates a fully transparent tile.
func newTile() *Tile {
	return &Tile{pix: make([]uint8, TileSize*TileSize*4)}
}

// Dirty reports whether the tile has changed since the dirty flag was
// last cleared.
func (t *Tile) Dirty() bool {
	return t.dirty
}

// pixel returns the color at tile-local coordinates. No bounds check;
// callers stay within [0, TileSize).
func (t *Tile) pixel(x, y int) RGBA {
	i := (y*TileSize + x) * 4
	return RGBA{
		R: float64(t.pix[i+0]) / 255,
		G: float64(t.pix[i+1]) / 255,
		B: float64(t.pix[i+2]) / 255,
		A: float64(t.pix[i+3]) / 255,
	}
}

// setPixel stores the color at tile-local coordinates and marks the tile
// dirty. Channels are clamped on quantization.
func (t *Tile) setPixel(x, y int, c RGBA) {
	i := (y*TileSize + x) * 4
	t.pix[i+0] = uint8(clamp255(c.R * 255))
	t.pix[i+1] = uint8(clamp255(c.G * 255))
	t.pix[i+2] = uint8(clamp255(c.B * 255))
	t.pix[i+3] = uint8(clamp255(c.A * 255))
	t.dirty = true
}

// snapshot returns a copy of the tile's pixel bytes. History entries hold
// snapshots, never references into live tiles.
func (t *Tile) snapshot() []uint8 {
	out := make([]uint8, len(t.pix))
	copy(out, t.pix)
	return out
}

// restore overwrites the tile's pixels from a snapshot and marks it dirty.
func (t *Tile) restore(pix []uint8) {
	copy(t.pix, pix)
	t.dirty = true
}

// empty reports whether every pixel in the tile is fully transparent.
func (t *Tile) empty() bool {
	for i := 3; i < len(t.pix); i += 4 {
		if t.pix[i] != 0 {
			return false
		}
	}
	return true
}
