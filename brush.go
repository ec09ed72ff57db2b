package ink

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Brush is an immutable stamp-generator configuration: it maps a pen
// pressure to a rasterized ink footprint. Many strokes may reference the
// same brush by its registry name.
//
// The zero value is not useful; construct brushes with explicit fields or
// load them from presets (see ParseBrushPresets and DefaultBrushes).
//
// Example:
//
//	soft := ink.Brush{
//	    Name:     "airbrush",
//	    Size:     40,
//	    Hardness: 0.1,
//	    Opacity:  0.6,
//	    Spacing:  0.15,
//	    FlowCurve: ease.OutQuad,
//	}
type Brush struct {
	// Name identifies the brush in the engine's registry.
	Name string

	// Size is the stamp diameter in pixels at full pressure.
	Size float64

	// Hardness in [0, 1] shapes the radial falloff: 1 is a hard disc,
	// lower values taper smoothly toward the rim.
	Hardness float64

	// Opacity is the per-stamp ink opacity at full pressure, in [0, 1].
	Opacity float64

	// Spacing is the minimum distance between consecutive stamp centers,
	// as a fraction of the effective stamp size. Zero or negative uses
	// DefaultSpacing.
	Spacing float64

	// SizeCurve maps pressure to a size factor. Nil means linear.
	SizeCurve ease.TweenFunc

	// FlowCurve maps pressure to an opacity factor. Nil means linear.
	FlowCurve ease.TweenFunc

	// Erase makes the brush remove ink (destination-out) instead of
	// painting it.
	Erase bool
}

// DefaultSpacing is used when a brush does not set its own spacing.
const DefaultSpacing = 0.25

// minStampSize is the smallest effective diameter that still produces
// ink; below this a stamp is a no-op mark.
const minStampSize = 0.5

// minStampOpacity is the smallest opacity that survives 8-bit
// quantization when blended.
const minStampOpacity = 1.0 / 255

// Stamp is a single rasterized ink footprint: a square alpha mask to be
// blended at one path position. Color is supplied by the stroke at write
// time.
type Stamp struct {
	// Size is the side length of the mask in pixels.
	Size int

	// Alpha holds Size*Size coverage values in [0, 1], row major,
	// already scaled by the brush opacity.
	Alpha []float64
}

// Stamp rasterizes the brush footprint for the given pressure. Pressure
// is clamped to [0, 1]. A pressure low enough to produce no visible ink
// returns nil (a no-op mark), not an error.
func (b Brush) Stamp(pressure float64) *Stamp {
	pressure = clamp01(pressure)
	size := b.Size * evalCurve(b.SizeCurve, pressure)
	opacity := clamp01(b.Opacity) * evalCurve(b.FlowCurve, pressure)
	if size < minStampSize || opacity < minStampOpacity {
		return nil
	}

	side := int(math.Ceil(size))
	radius := size / 2
	center := float64(side) / 2
	hardness := clamp01(b.Hardness)

	st := &Stamp{
		Size:  side,
		Alpha: make([]float64, side*side),
	}
	for y := 0; y < side; y++ {
		dy := float64(y) + 0.5 - center
		for x := 0; x < side; x++ {
			dx := float64(x) + 0.5 - center
			d := math.Sqrt(dx*dx + dy*dy)
			st.Alpha[y*side+x] = falloff(d, radius, hardness) * opacity
		}
	}
	return st
}

// spacing returns the brush spacing with the default applied.
func (b Brush) spacing() float64 {
	if b.Spacing <= 0 {
		return DefaultSpacing
	}
	return b.Spacing
}

// effectiveSize returns the stamp diameter at the given pressure.
func (b Brush) effectiveSize(pressure float64) float64 {
	return b.Size * evalCurve(b.SizeCurve, clamp01(pressure))
}

// falloff is the radial hardness kernel. d is the distance from the stamp
// center, radius the stamp radius.
//
// At hardness 1 the kernel is a hard disc with half-pixel antialiasing at
// the rim; at lower hardness the coverage holds at 1 inside
// radius*hardness and smoothsteps to 0 at the rim.
func falloff(d, radius, hardness float64) float64 {
	inner := radius * hardness
	width := radius - inner
	if width < 0.5 {
		return clamp01(radius - d + 0.5)
	}
	if d <= inner {
		return 1
	}
	if d >= radius {
		return 0
	}
	t := (d - inner) / width
	return 1 - t*t*(3-2*t)
}

// evalCurve evaluates a pressure response curve at t in [0, 1]. A nil
// curve is linear. Curves come from the gween ease catalog, which maps
// (time, begin, change, duration) to a value; response curves use the
// normalized form fn(t, 0, 1, 1).
func evalCurve(fn ease.TweenFunc, t float64) float64 {
	if fn == nil {
		return t
	}
	return clamp01(float64(fn(float32(t), 0, 1, 1)))
}
