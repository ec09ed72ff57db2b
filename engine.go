package ink

import (
	"fmt"
	"sync"
)

// Engine is the drawing core's façade and the only entry point host
// shells use. It composes the canvas, layer stack, brush registry and
// history behind one reader/writer lock.
//
// An Engine is either idle (the zero value, before New) or active.
// Every operation on an idle engine fails with ErrNotInitialized.
//
// Writers (ProcessStroke, Undo, Redo, ClearLayer, Resize, layer
// mutation) take the write lock; Composite and GetPixel take the read
// lock and may run concurrently with each other. A renderer reading
// during an in-progress stroke never observes a partially applied stamp
// sequence: the stroke holds the write lock until it commits.
type Engine struct {
	mu      *sync.RWMutex
	canvas  *Canvas
	history *History
	brushes map[string]Brush
	active  LayerID
}

// New creates an active engine with an empty canvas of the given
// dimensions. Zero or negative dimensions fail with
// ErrInvalidDimensions. The built-in brushes (see DefaultBrushes) are
// registered; the layer stack starts empty.
func New(width, height int, opts ...Option) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mu := &sync.RWMutex{}
	canvas, err := newCanvas(mu, width, height, o.tileBudget)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		mu:      mu,
		canvas:  canvas,
		history: newHistory(o.historyDepth),
		brushes: make(map[string]Brush, len(o.brushes)),
	}
	for _, b := range o.brushes {
		e.brushes[b.Name] = b
	}

	Logger().Info("ink: engine created",
		"width", width, "height", height,
		"historyDepth", e.history.Depth(), "tileBudget", o.tileBudget)
	return e, nil
}

// initialized reports whether the engine has a canvas.
func (e *Engine) initialized() bool {
	return e != nil && e.canvas != nil
}

// Canvas returns the engine's canvas as a locked handle sharing the
// engine lock, or nil on an idle engine. After Resize the handle is
// stale; fetch it again.
func (e *Engine) Canvas() *Canvas {
	if !e.initialized() {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canvas
}

// Layers returns the layer manager as a locked handle sharing the engine
// lock, or nil on an idle engine. After Resize the handle is stale;
// fetch it again.
func (e *Engine) Layers() *LayerManager {
	if !e.initialized() {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canvas.layers
}

// RegisterBrush adds a brush to the registry, replacing any brush with
// the same name.
func (e *Engine) RegisterBrush(b Brush) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	if b.Name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownBrush)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brushes[b.Name] = b
	return nil
}

// Brush returns the registered brush with the given name.
func (e *Engine) Brush(name string) (Brush, bool) {
	if !e.initialized() {
		return Brush{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.brushes[name]
	return b, ok
}

// AddLayer appends a new layer to the top of the stack and returns its
// id. The first layer added becomes the active layer.
func (e *Engine) AddLayer(name string) (LayerID, error) {
	if !e.initialized() {
		return "", ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.canvas.layers.addLocked(name)
	if e.active == "" {
		e.active = id
	}
	return id, nil
}

// SetActiveLayer selects the layer that receives strokes.
func (e *Engine) SetActiveLayer(id LayerID) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, l := e.canvas.layers.find(id); l == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	e.active = id
	return nil
}

// ActiveLayer returns the id of the layer receiving strokes, or "" when
// none is selected.
func (e *Engine) ActiveLayer() LayerID {
	if !e.initialized() {
		return ""
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// ProcessStroke rasterizes one user gesture onto the active layer: the
// samples are smoothed and resampled, each resulting stamp is blended
// into the layer's tiles, and the whole stroke is committed as a single
// history entry so one undo reverses one gesture atomically.
//
// The stroke becomes immutable. A stroke whose stamps produce no visible
// ink (all pressures 0) mutates nothing and commits no history entry.
//
// Fails with ErrNotInitialized on an idle engine, ErrUnknownBrush when
// the stroke's brush name is not registered, and ErrLayerNotFound when
// no valid active layer is selected. If the tile budget runs out
// mid-stroke, stamping stops, the partial stroke commits as a valid
// reversible entry, and ErrResourceExhausted is returned.
func (e *Engine) ProcessStroke(s *Stroke) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	brush, ok := e.brushes[s.Brush()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBrush, s.Brush())
	}
	_, layer := e.canvas.layers.find(e.active)
	if layer == nil {
		return fmt.Errorf("%w: no active layer", ErrLayerNotFound)
	}

	s.committed = true
	placements := s.placements(brush)
	rec := newTileRecorder("stroke", layer)

	var writeErr error
	stamped := 0
	for _, pl := range placements {
		st := brush.Stamp(pl.pressure)
		if st == nil {
			continue // no-op mark at this pressure
		}
		if err := e.canvas.writeStamp(layer, st, pl.pos, s.Color(), brush.Erase, rec); err != nil {
			writeErr = err
			break
		}
		stamped++
	}

	if !rec.empty() {
		e.history.commit(rec.entry())
	}
	Logger().Debug("ink: stroke processed",
		"brush", brush.Name, "samples", s.Len(), "stamps", stamped,
		"tiles", len(rec.touched), "err", writeErr)
	return writeErr
}

// ClearLayer erases all ink on a layer as a single history-recorded
// operation.
func (e *Engine) ClearLayer(id LayerID) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	_, layer := e.canvas.layers.find(id)
	if layer == nil {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if len(layer.tiles) == 0 {
		return nil
	}

	rec := newTileRecorder("clear", layer)
	for coord := range layer.tiles {
		rec.note(layer, coord)
		e.canvas.markErased(coord)
	}
	e.canvas.allocated -= len(layer.tiles)
	layer.tiles = make(map[TileCoord]*Tile)
	e.history.commit(rec.entry())
	return nil
}

// Undo reverses the most recent committed operation, restoring the exact
// prior pixels and tile sparsity. It returns false (and no error) when
// the history is empty.
func (e *Engine) Undo() (bool, error) {
	if !e.initialized() {
		return false, ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.history.popUndo()
	if entry == nil {
		return false, nil
	}
	entry.revert(e.canvas)
	Logger().Debug("ink: undo", "label", entry.Label(), "tiles", entry.Tiles())
	return true, nil
}

// Redo reapplies the most recently undone operation. It returns false
// (and no error) when there is nothing to redo.
func (e *Engine) Redo() (bool, error) {
	if !e.initialized() {
		return false, ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.history.popRedo()
	if entry == nil {
		return false, nil
	}
	entry.replay(e.canvas)
	Logger().Debug("ink: redo", "label", entry.Label(), "tiles", entry.Tiles())
	return true, nil
}

// CanUndo reports whether an undo is available.
func (e *Engine) CanUndo() bool {
	if !e.initialized() {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo reports whether a redo is available.
func (e *Engine) CanRedo() bool {
	if !e.initialized() {
		return false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// GetPixel returns the composited color at (x, y), or ErrOutOfBounds
// outside the canvas extent.
func (e *Engine) GetPixel(x, y int) (RGBA, error) {
	if !e.initialized() {
		return Transparent, ErrNotInitialized
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canvas.getPixelLocked(x, y)
}

// Composite flattens all visible layers into an RGBA pixmap for display.
func (e *Engine) Composite() (*Pixmap, error) {
	if !e.initialized() {
		return nil, ErrNotInitialized
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canvas.compositeLocked(e.canvas.bounds()), nil
}

// Resize replaces the canvas with a resampled copy at the new
// dimensions. Canvases are immutable in size, so this swaps in a new
// Canvas; previously returned Canvas and LayerManager handles are stale
// afterwards. History is cleared: its tile deltas are in old-canvas
// coordinates.
func (e *Engine) Resize(width, height int) error {
	if !e.initialized() {
		return ErrNotInitialized
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	nc, err := e.canvas.resizeLocked(e.mu, width, height)
	if err != nil {
		return err
	}
	e.canvas = nc
	e.history.clear()
	Logger().Info("ink: canvas resized", "width", width, "height", height)
	return nil
}
