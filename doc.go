// Package ink provides a tile-backed raster drawing engine.
//
// # Overview
//
// ink is a Pure Go painting core: a fixed-size canvas holding an ordered
// stack of layers, composited through configurable blend modes, mutated by
// brush strokes, with a transactional undo/redo history. It contains no UI,
// no file I/O and no networking; host shells feed it normalized stroke
// samples and read back flattened RGBA pixels.
//
// # Quick Start
//
//	import "github.com/gopaint/ink"
//
//	eng, err := ink.New(512, 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	layer, _ := eng.AddLayer("sketch")
//	_ = layer
//
//	stroke := ink.NewStroke("pen", ink.Black)
//	stroke.Append(ink.StrokePoint{X: 100, Y: 100, Pressure: 1.0})
//	stroke.Append(ink.StrokePoint{X: 200, Y: 180, Pressure: 0.7})
//	if err := eng.ProcessStroke(stroke); err != nil {
//	    log.Fatal(err)
//	}
//
//	eng.Undo() // one undo reverses one whole stroke
//
//	pm, _ := eng.Composite()
//	img := pm.ToImage() // *image.NRGBA for any host renderer
//
// # Architecture
//
// The engine is organized into:
//   - Public API: Engine, Canvas, LayerManager, Brush, Stroke, Pixmap
//   - Storage: 64×64 sparse tiles per layer; untouched regions allocate
//     nothing
//   - Compositing: internal/blend (W3C separable blend modes)
//   - History: bounded stack of per-tile before/after deltas
//
// # Concurrency
//
// The engine follows a single-writer/multiple-reader discipline. Stroke
// processing, history operations and layer mutation take the write lock;
// Composite and GetPixel take the read lock and may run concurrently with
// each other. A concurrent reader never observes a partially applied
// stroke.
package ink
