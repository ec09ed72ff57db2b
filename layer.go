package ink

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// LayerID uniquely identifies a layer within a canvas.
type LayerID = string

// Layer is one paint surface in the stack: a sparse set of tiles plus
// blend mode, opacity and visibility. Layers are owned by a LayerManager
// and addressed by id; mutate them through the manager, never directly.
type Layer struct {
	id      LayerID
	name    string
	mode    BlendMode
	opacity float64
	visible bool
	tiles   map[TileCoord]*Tile
}

func newLayer(name string) *Layer {
	return &Layer{
		id:      uuid.NewString(),
		name:    name,
		mode:    BlendNormal,
		opacity: 1.0,
		visible: true,
		tiles:   make(map[TileCoord]*Tile),
	}
}

// LayerInfo is a read-only snapshot of a layer's properties.
type LayerInfo struct {
	ID        LayerID
	Name      string
	BlendMode BlendMode
	Opacity   float64
	Visible   bool
	TileCount int
}

func (l *Layer) info() LayerInfo {
	return LayerInfo{
		ID:        l.id,
		Name:      l.name,
		BlendMode: l.mode,
		Opacity:   l.opacity,
		Visible:   l.visible,
		TileCount: len(l.tiles),
	}
}

// LayerManager owns the layer stack in strict back-to-front order:
// index 0 is the bottom layer, the last index is the top.
//
// A LayerManager is a locked handle: it shares the engine's
// reader/writer lock, so its operations serialize correctly against
// stroke processing, history and composite reads.
type LayerManager struct {
	mu     *sync.RWMutex
	canvas *Canvas
	layers []*Layer
}

func newLayerManager(mu *sync.RWMutex, c *Canvas) *LayerManager {
	return &LayerManager{mu: mu, canvas: c}
}

// Add appends a new transparent layer to the top of the stack and
// returns its id.
func (lm *LayerManager) Add(name string) LayerID {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.addLocked(name)
}

func (lm *LayerManager) addLocked(name string) LayerID {
	l := newLayer(name)
	lm.layers = append(lm.layers, l)
	Logger().Debug("ink: layer added", "id", l.id, "name", name, "stack", len(lm.layers))
	return l.id
}

// Remove deletes the layer with the given id. The layer's tiles are
// released; history snapshots referencing it are unaffected (they hold
// copies).
func (lm *LayerManager) Remove(id LayerID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	idx, l := lm.find(id)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	for coord := range l.tiles {
		lm.canvas.markErased(coord)
	}
	lm.canvas.allocated -= len(l.tiles)
	lm.layers = append(lm.layers[:idx], lm.layers[idx+1:]...)
	return nil
}

// Move places the layer at the given stack index. The index is clamped
// to the valid range; only an unknown id is an error.
func (lm *LayerManager) Move(id LayerID, index int) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	idx, l := lm.find(id)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if index < 0 {
		index = 0
	}
	if index > len(lm.layers)-1 {
		index = len(lm.layers) - 1
	}
	if index == idx {
		return nil
	}
	lm.layers = append(lm.layers[:idx], lm.layers[idx+1:]...)
	rest := append([]*Layer{l}, lm.layers[index:]...)
	lm.layers = append(lm.layers[:index:index], rest...)
	return nil
}

// MergeDown flattens the layer into the one beneath it using its own
// blend mode and opacity, then removes it. Merging the bottom layer
// returns ErrNoLayerBelow.
func (lm *LayerManager) MergeDown(id LayerID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	idx, upper := lm.find(id)
	if upper == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if idx == 0 {
		return ErrNoLayerBelow
	}
	lower := lm.layers[idx-1]

	// Check the tile budget up front so the merge is all-or-nothing.
	missing := 0
	for coord := range upper.tiles {
		if _, ok := lower.tiles[coord]; !ok {
			missing++
		}
	}
	if !lm.canvas.canAllocate(missing) {
		return fmt.Errorf("%w: merge needs %d new tiles", ErrResourceExhausted, missing)
	}

	for coord, src := range upper.tiles {
		dst, ok := lower.tiles[coord]
		if !ok {
			dst = newTile()
			lower.tiles[coord] = dst
			lm.canvas.allocated++
		}
		for y := 0; y < TileSize; y++ {
			for x := 0; x < TileSize; x++ {
				out := BlendColors(upper.mode, dst.pixel(x, y), src.pixel(x, y), upper.opacity)
				dst.setPixel(x, y, out)
			}
		}
		if dst.empty() {
			delete(lower.tiles, coord)
			lm.canvas.allocated--
			lm.canvas.markErased(coord)
		}
	}

	lm.canvas.allocated -= len(upper.tiles)
	lm.layers = append(lm.layers[:idx], lm.layers[idx+1:]...)
	Logger().Debug("ink: layer merged down", "id", id, "into", lower.id)
	return nil
}

// SetVisible toggles whether the layer contributes to compositing.
func (lm *LayerManager) SetVisible(id LayerID, visible bool) error {
	return lm.update(id, func(l *Layer) { l.visible = visible })
}

// SetOpacity sets the layer opacity, clamped to [0, 1].
func (lm *LayerManager) SetOpacity(id LayerID, opacity float64) error {
	return lm.update(id, func(l *Layer) { l.opacity = clamp01(opacity) })
}

// SetBlendMode sets how the layer composites onto the stack below it.
func (lm *LayerManager) SetBlendMode(id LayerID, mode BlendMode) error {
	if !mode.Valid() {
		return ErrUnknownBlendMode
	}
	return lm.update(id, func(l *Layer) { l.mode = mode })
}

// Rename sets the layer's display name.
func (lm *LayerManager) Rename(id LayerID, name string) error {
	return lm.update(id, func(l *Layer) { l.name = name })
}

func (lm *LayerManager) update(id LayerID, fn func(*Layer)) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	_, l := lm.find(id)
	if l == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	fn(l)
	return nil
}

// Count returns the number of layers.
func (lm *LayerManager) Count() int {
	lm.mu.RLock()
	defer lm.mu.RUnlock()
	return len(lm.layers)
}

// IDs returns the layer ids in back-to-front order.
func (lm *LayerManager) IDs() []LayerID {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	ids := make([]LayerID, len(lm.layers))
	for i, l := range lm.layers {
		ids[i] = l.id
	}
	return ids
}

// Info returns a snapshot of the layer's properties.
func (lm *LayerManager) Info(id LayerID) (LayerInfo, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	_, l := lm.find(id)
	if l == nil {
		return LayerInfo{}, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	return l.info(), nil
}

// HasTile reports whether the layer has an allocated tile at the given
// coordinate. Absence means the region is fully transparent.
func (lm *LayerManager) HasTile(id LayerID, coord TileCoord) (bool, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	_, l := lm.find(id)
	if l == nil {
		return false, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	_, ok := l.tiles[coord]
	return ok, nil
}

// TileCoords returns the coordinates of the layer's allocated tiles, in
// unspecified order.
func (lm *LayerManager) TileCoords(id LayerID) ([]TileCoord, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	_, l := lm.find(id)
	if l == nil {
		return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	coords := make([]TileCoord, 0, len(l.tiles))
	for coord := range l.tiles {
		coords = append(coords, coord)
	}
	return coords, nil
}

// find returns the index and layer for an id, or (-1, nil). Callers hold
// the lock.
func (lm *LayerManager) find(id LayerID) (int, *Layer) {
	for i, l := range lm.layers {
		if l.id == id {
			return i, l
		}
	}
	return -1, nil
}
