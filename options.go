package ink

// Option configures an Engine during creation.
//
// Example:
//
//	// Default configuration
//	eng, err := ink.New(1024, 768)
//
//	// Bounded memory: at most 512 tiles, 32 undo steps
//	eng, err := ink.New(1024, 768,
//	    ink.WithTileBudget(512),
//	    ink.WithHistoryDepth(32),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	historyDepth int
	tileBudget   int
	brushes      []Brush
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		historyDepth: DefaultHistoryDepth,
		brushes:      DefaultBrushes(),
	}
}

// WithHistoryDepth bounds the undo stack to n entries. Committing past
// the bound evicts the oldest entry. Non-positive values keep the
// default.
func WithHistoryDepth(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.historyDepth = n
		}
	}
}

// WithTileBudget caps the total number of tiles the canvas may allocate
// across all layers. Operations that would exceed the budget fail with
// ErrResourceExhausted. Zero (the default) means unlimited.
func WithTileBudget(n int) Option {
	return func(o *engineOptions) {
		if n > 0 {
			o.tileBudget = n
		}
	}
}

// WithBrushes registers additional brushes at construction, on top of
// the built-in set. A brush with a built-in name replaces it.
func WithBrushes(brushes ...Brush) Option {
	return func(o *engineOptions) {
		o.brushes = append(o.brushes, brushes...)
	}
}
