// Package blend implements the engine's compositing math: Porter-Duff
// source-over plus the W3C separable blend modes.
//
// The mode set is closed. Each mode is a pure per-channel function
// dispatched through a fixed table, so compositing never goes through an
// interface call.
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "math"

// RGBA is a non-premultiplied color with float64 channels in [0, 1].
// It mirrors the root package color type; the two convert by field copy.
type RGBA struct {
	R, G, B, A float64
}

// Mode identifies a blend mode.
type Mode int

const (
	// Normal is plain source-over alpha compositing.
	Normal Mode = iota
	// Multiply darkens: B(s, d) = s * d.
	Multiply
	// Screen lightens: B(s, d) = 1 - (1-s)(1-d).
	Screen
	// Overlay is HardLight with source and backdrop swapped.
	Overlay
	// Darken keeps the darker channel: min(s, d).
	Darken
	// Lighten keeps the lighter channel: max(s, d).
	Lighten
	// ColorDodge brightens the backdrop toward the source.
	ColorDodge
	// ColorBurn darkens the backdrop toward the source.
	ColorBurn
	// HardLight multiplies or screens depending on the source channel.
	HardLight
	// SoftLight is a softened HardLight.
	SoftLight
	// Difference is |s - d|.
	Difference
	// Exclusion is s + d - 2sd.
	Exclusion

	numModes
)

var modeNames = [...]string{
	Normal:     "normal",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	Darken:     "darken",
	Lighten:    "lighten",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	HardLight:  "hard-light",
	SoftLight:  "soft-light",
	Difference: "difference",
	Exclusion:  "exclusion",
}

// String returns the canonical lower-case name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < numModes
}

// ModeByName resolves a canonical mode name. ok is false for unknown names.
func ModeByName(name string) (Mode, bool) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), true
		}
	}
	return 0, false
}

// channelFunc is a per-channel blend function B(s, d) on unmultiplied
// values in [0, 1]. Normal has no entry; it bypasses the table.
type channelFunc func(s, d float64) float64

var channelFuncs = [numModes]channelFunc{
	Multiply:   func(s, d float64) float64 { return s * d },
	Screen:     screen,
	Overlay:    func(s, d float64) float64 { return hardLight(d, s) },
	Darken:     math.Min,
	Lighten:    math.Max,
	ColorDodge: colorDodge,
	ColorBurn:  colorBurn,
	HardLight:  hardLight,
	SoftLight:  softLight,
	Difference: func(s, d float64) float64 { return math.Abs(s - d) },
	Exclusion:  func(s, d float64) float64 { return s + d - 2*s*d },
}

// Blend composites src over dst using the given mode, with the source
// alpha additionally scaled by opacity in [0, 1].
//
// Invariants: Blend(m, dst, src, 0) == dst for every mode, and opacity 1
// applies the named formula fully.
func Blend(mode Mode, dst, src RGBA, opacity float64) RGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	src.A *= opacity
	if src.A == 0 {
		return dst
	}
	if mode == Normal || !mode.Valid() {
		return SourceOver(dst, src)
	}

	// W3C general formula: the source color is first mixed with the
	// backdrop through the channel function, weighted by the backdrop
	// alpha, then composited source-over.
	f := channelFuncs[mode]
	mixed := RGBA{
		R: (1-dst.A)*src.R + dst.A*f(src.R, dst.R),
		G: (1-dst.A)*src.G + dst.A*f(src.G, dst.G),
		B: (1-dst.A)*src.B + dst.A*f(src.B, dst.B),
		A: src.A,
	}
	return SourceOver(dst, mixed)
}

// SourceOver composites src over dst with plain alpha compositing on
// non-premultiplied channels.
func SourceOver(dst, src RGBA) RGBA {
	srcA := src.A
	dstA := dst.A
	invSrcA := 1.0 - srcA

	outA := srcA + dstA*invSrcA
	if outA == 0 {
		return RGBA{}
	}
	return RGBA{
		R: (src.R*srcA + dst.R*dstA*invSrcA) / outA,
		G: (src.G*srcA + dst.G*dstA*invSrcA) / outA,
		B: (src.B*srcA + dst.B*dstA*invSrcA) / outA,
		A: outA,
	}
}

// DestinationOut removes src coverage from dst. This is the erase
// operation: the destination keeps its color but loses alpha where the
// source has coverage.
func DestinationOut(dst RGBA, srcAlpha float64) RGBA {
	dst.A *= 1 - srcAlpha
	if dst.A == 0 {
		return RGBA{}
	}
	return dst
}

func screen(s, d float64) float64 {
	return s + d - s*d
}

func hardLight(s, d float64) float64 {
	if s <= 0.5 {
		return 2 * s * d
	}
	return screen(2*s-1, d)
}

func colorDodge(s, d float64) float64 {
	if d == 0 {
		return 0
	}
	if s == 1 {
		return 1
	}
	return math.Min(1, d/(1-s))
}

func colorBurn(s, d float64) float64 {
	if d == 1 {
		return 1
	}
	if s == 0 {
		return 0
	}
	return 1 - math.Min(1, (1-d)/s)
}

func softLight(s, d float64) float64 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float64
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = math.Sqrt(d)
	}
	return d + (2*s-1)*(dd-d)
}
