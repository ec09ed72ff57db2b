package ink

// DefaultHistoryDepth is the undo depth used when WithHistoryDepth is
// not given.
const DefaultHistoryDepth = 64

// tileDelta is the before/after image of one tile in one layer. A nil
// image means the tile was absent (fully transparent) on that side, so
// undo/redo restores not just pixels but tile sparsity.
type tileDelta struct {
	layer  LayerID
	coord  TileCoord
	before []uint8
	after  []uint8
}

// HistoryEntry is one reversible record of a committed operation,
// typically a whole stroke: an operation label plus the minimal set of
// tile deltas needed to reverse or replay it.
//
// Entries hold pixel copies, never references into live tiles, so they
// survive later mutation or deletion of the originating layer.
type HistoryEntry struct {
	label  string
	deltas []tileDelta
}

// Label returns the operation label ("stroke", "clear", ...).
func (e *HistoryEntry) Label() string { return e.label }

// Tiles returns the number of tile deltas in the entry.
func (e *HistoryEntry) Tiles() int { return len(e.deltas) }

// History is a bounded-depth undo/redo stack. Committing a new entry
// discards the redo tail; exceeding the depth evicts the oldest entry,
// which becomes irreversible — the deliberate memory/fidelity trade-off.
//
// History does not lock; it is owned by the engine, whose write lock
// covers every call.
type History struct {
	depth int
	undo  []*HistoryEntry
	redo  []*HistoryEntry
}

func newHistory(depth int) *History {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &History{depth: depth}
}

// Depth returns the configured maximum undo depth.
func (h *History) Depth() int { return h.depth }

// Len returns the number of undoable entries.
func (h *History) Len() int { return len(h.undo) }

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// commit pushes a new entry and clears the redo tail.
func (h *History) commit(e *HistoryEntry) {
	h.undo = append(h.undo, e)
	h.redo = h.redo[:0]
	if len(h.undo) > h.depth {
		evicted := len(h.undo) - h.depth
		h.undo = append(h.undo[:0:0], h.undo[evicted:]...)
		Logger().Debug("ink: history evicted oldest entries", "count", evicted)
	}
}

// popUndo moves the newest entry to the redo tail and returns it, or nil
// when the stack is empty (undo is then a no-op).
func (h *History) popUndo() *HistoryEntry {
	if len(h.undo) == 0 {
		return nil
	}
	e := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e
}

// popRedo is the symmetric counterpart of popUndo.
func (h *History) popRedo() *HistoryEntry {
	if len(h.redo) == 0 {
		return nil
	}
	e := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return e
}

// clear drops all entries, e.g. after a canvas resize invalidates the
// recorded coordinates.
func (h *History) clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// revert applies the entry's before-images to the canvas, recreating or
// deleting tiles to match the prior sparsity. Deltas for layers that no
// longer exist are skipped. Callers hold the write lock.
func (e *HistoryEntry) revert(c *Canvas) {
	for i := range e.deltas {
		applyDelta(c, &e.deltas[i], e.deltas[i].before)
	}
}

// replay applies the entry's after-images, the symmetric counterpart of
// revert. Callers hold the write lock.
func (e *HistoryEntry) replay(c *Canvas) {
	for i := range e.deltas {
		applyDelta(c, &e.deltas[i], e.deltas[i].after)
	}
}

func applyDelta(c *Canvas, d *tileDelta, pix []uint8) {
	_, l := c.layers.find(d.layer)
	if l == nil {
		Logger().Warn("ink: history delta for deleted layer skipped", "layer", d.layer)
		return
	}
	t, ok := l.tiles[d.coord]
	if pix == nil {
		if ok {
			delete(l.tiles, d.coord)
			c.allocated--
			c.markErased(d.coord)
		}
		return
	}
	if !ok {
		// Restoring previously existing state bypasses the tile budget:
		// it can only re-create tiles the budget already admitted.
		t = newTile()
		l.tiles[d.coord] = t
		c.allocated++
	}
	t.restore(pix)
}

// tileRecorder accumulates the before-images of every tile an operation
// touches, then snapshots the after-images into a single HistoryEntry so
// one undo reverses one user gesture atomically.
type tileRecorder struct {
	label   string
	layer   *Layer
	order   []TileCoord
	touched map[TileCoord][]uint8 // before-image; nil = tile was absent
}

func newTileRecorder(label string, l *Layer) *tileRecorder {
	return &tileRecorder{
		label:   label,
		layer:   l,
		touched: make(map[TileCoord][]uint8),
	}
}

// note records the tile's current contents the first time it is touched.
// Must be called before the tile is mutated or allocated.
func (r *tileRecorder) note(l *Layer, coord TileCoord) {
	if l != r.layer {
		return
	}
	if _, seen := r.touched[coord]; seen {
		return
	}
	r.order = append(r.order, coord)
	if t, ok := l.tiles[coord]; ok {
		r.touched[coord] = t.snapshot()
	} else {
		r.touched[coord] = nil
	}
}

// empty reports whether the operation touched no tiles.
func (r *tileRecorder) empty() bool { return len(r.touched) == 0 }

// entry snapshots the after-images and builds the history entry.
func (r *tileRecorder) entry() *HistoryEntry {
	e := &HistoryEntry{label: r.label}
	for _, coord := range r.order {
		d := tileDelta{layer: r.layer.id, coord: coord, before: r.touched[coord]}
		if t, ok := r.layer.tiles[coord]; ok {
			d.after = t.snapshot()
		}
		e.deltas = append(e.deltas, d)
	}
	return e
}
