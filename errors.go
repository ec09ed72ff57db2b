package ink

import "errors"

// Package errors for the drawing engine.
var (
	// ErrInvalidDimensions is returned when a canvas width or height is
	// zero or negative.
	ErrInvalidDimensions = errors.New("ink: invalid canvas dimensions")

	// ErrNotInitialized is returned when an operation is called on an
	// engine that has no canvas (a zero-value Engine).
	ErrNotInitialized = errors.New("ink: engine not initialized")

	// ErrUnknownBrush is returned when a stroke references a brush name
	// that is not registered with the engine.
	ErrUnknownBrush = errors.New("ink: unknown brush")

	// ErrOutOfBounds is returned for pixel access outside the canvas
	// extent. The coordinates are reported, not clamped.
	ErrOutOfBounds = errors.New("ink: coordinates out of canvas bounds")

	// ErrResourceExhausted is returned when tile allocation would exceed
	// the configured tile budget. It is terminal for the triggering
	// operation only; the engine remains usable.
	ErrResourceExhausted = errors.New("ink: tile budget exhausted")

	// ErrLayerNotFound is returned when a layer id is absent on
	// remove, reorder, merge or property updates.
	ErrLayerNotFound = errors.New("ink: layer not found")

	// ErrNoLayerBelow is returned by merge-down on the bottom layer.
	ErrNoLayerBelow = errors.New("ink: no layer below to merge into")

	// ErrUnknownCurve is returned when a brush preset names a response
	// curve that is not in the catalog.
	ErrUnknownCurve = errors.New("ink: unknown response curve")

	// ErrUnknownBlendMode is returned when a brush or layer preset names
	// a blend mode that does not exist.
	ErrUnknownBlendMode = errors.New("ink: unknown blend mode")
)
