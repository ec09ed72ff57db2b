package ink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_CommitAndDepth(t *testing.T) {
	h := newHistory(2)
	require.Equal(t, 2, h.Depth())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	h.commit(&HistoryEntry{label: "a"})
	h.commit(&HistoryEntry{label: "b"})
	h.commit(&HistoryEntry{label: "c"})

	// Oldest entry evicted at depth.
	require.Equal(t, 2, h.Len())
	assert.Equal(t, "c", h.popUndo().Label())
	assert.Equal(t, "b", h.popUndo().Label())
	assert.Nil(t, h.popUndo(), "entry \"a\" is gone")
}

func TestHistory_DefaultDepth(t *testing.T) {
	assert.Equal(t, DefaultHistoryDepth, newHistory(0).Depth())
	assert.Equal(t, DefaultHistoryDepth, newHistory(-3).Depth())
}

func TestHistory_CommitClearsRedo(t *testing.T) {
	h := newHistory(8)
	h.commit(&HistoryEntry{label: "a"})
	h.commit(&HistoryEntry{label: "b"})

	require.NotNil(t, h.popUndo())
	require.True(t, h.CanRedo())

	h.commit(&HistoryEntry{label: "c"})
	assert.False(t, h.CanRedo(), "new commit discards the redo tail")

	assert.Equal(t, "c", h.popUndo().Label())
	assert.Equal(t, "a", h.popUndo().Label())
}

func TestHistory_PopRedoRoundTrip(t *testing.T) {
	h := newHistory(8)
	h.commit(&HistoryEntry{label: "a"})

	e := h.popUndo()
	require.Equal(t, "a", e.Label())
	assert.False(t, h.CanUndo())

	assert.Same(t, e, h.popRedo())
	assert.True(t, h.CanUndo())
	assert.Nil(t, h.popRedo())
}

func TestHistory_Clear(t *testing.T) {
	h := newHistory(8)
	h.commit(&HistoryEntry{label: "a"})
	h.popUndo()
	h.commit(&HistoryEntry{label: "b"})
	h.popUndo()

	h.clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestTileRecorder_FirstTouchSnapshot(t *testing.T) {
	c := testCanvas(t)
	id := c.Layers().Add("a")
	_, l := c.layers.find(id)

	paintPixel(t, c, id, 5, 5, Red)
	rec := newTileRecorder("stroke", l)
	require.True(t, rec.empty())

	coord := TileCoord{0, 0}
	rec.note(l, coord)
	require.False(t, rec.empty())

	// The snapshot captures the pre-mutation pixels even after the tile
	// changes and a second note must not overwrite it.
	l.tiles[coord].setPixel(5, 5, Blue)
	rec.note(l, coord)

	e := rec.entry()
	require.Equal(t, 1, e.Tiles())
	assert.Equal(t, "stroke", e.Label())

	d := e.deltas[0]
	assert.Equal(t, uint8(255), d.before[(5*TileSize+5)*4], "before image is red")
	assert.Equal(t, uint8(0), d.after[(5*TileSize+5)*4], "after image is blue")
	assert.Equal(t, uint8(255), d.after[(5*TileSize+5)*4+2])
}

func TestTileRecorder_AbsentTileRecordsNil(t *testing.T) {
	c := testCanvas(t)
	id := c.Layers().Add("a")
	_, l := c.layers.find(id)

	rec := newTileRecorder("stroke", l)
	coord := TileCoord{1, 1}
	rec.note(l, coord)
	paintPixel(t, c, id, 70, 70, Red) // allocates (1,1)

	e := rec.entry()
	require.Equal(t, 1, e.Tiles())
	assert.Nil(t, e.deltas[0].before, "tile was absent before the stroke")
	assert.NotNil(t, e.deltas[0].after)
}

func TestHistoryEntry_RevertRestoresSparsity(t *testing.T) {
	c := testCanvas(t)
	id := c.Layers().Add("a")
	_, l := c.layers.find(id)

	rec := newTileRecorder("stroke", l)
	rec.note(l, TileCoord{0, 0})
	paintPixel(t, c, id, 5, 5, Red)
	e := rec.entry()

	e.revert(c)
	ok, _ := c.Layers().HasTile(id, TileCoord{0, 0})
	assert.False(t, ok, "revert deletes tiles the stroke created")
	assert.Zero(t, c.AllocatedTiles())

	e.replay(c)
	ok, _ = c.Layers().HasTile(id, TileCoord{0, 0})
	assert.True(t, ok, "replay recreates them")
	got, err := c.GetPixel(5, 5)
	require.NoError(t, err)
	assert.InDelta(t, 1, got.R, 0.01)
}

func TestHistoryEntry_DeletedLayerSkipped(t *testing.T) {
	c := testCanvas(t)
	id := c.Layers().Add("a")
	_, l := c.layers.find(id)

	rec := newTileRecorder("stroke", l)
	rec.note(l, TileCoord{0, 0})
	paintPixel(t, c, id, 5, 5, Red)
	e := rec.entry()

	require.NoError(t, c.Layers().Remove(id))

	// Applying deltas against a deleted layer must not panic or corrupt
	// the allocation count.
	e.revert(c)
	e.replay(c)
	assert.Zero(t, c.AllocatedTiles())
}

func TestTileRecorder_IgnoresOtherLayers(t *testing.T) {
	c := testCanvas(t)
	lm := c.Layers()
	a := lm.Add("a")
	b := lm.Add("b")
	_, la := c.layers.find(a)
	_, lb := c.layers.find(b)

	rec := newTileRecorder("stroke", la)
	rec.note(lb, TileCoord{0, 0})
	assert.True(t, rec.empty(), "notes for other layers are dropped")
}
