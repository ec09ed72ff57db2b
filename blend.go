package ink

import "github.com/gopaint/ink/internal/blend"

// BlendMode defines how a layer (or stamp) is composited onto the pixels
// beneath it. The mode set is closed; see internal/blend for the math.
type BlendMode = blend.Mode

// Re-exported blend modes. BlendNormal is plain source-over compositing
// and is the zero value.
const (
	BlendNormal     = blend.Normal
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendOverlay    = blend.Overlay
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendHardLight  = blend.HardLight
	BlendSoftLight  = blend.SoftLight
	BlendDifference = blend.Difference
	BlendExclusion  = blend.Exclusion
)

// BlendModeByName resolves a canonical blend mode name ("multiply",
// "screen", ...) as used by layer and brush presets.
func BlendModeByName(name string) (BlendMode, error) {
	m, ok := blend.ModeByName(name)
	if !ok {
		return 0, ErrUnknownBlendMode
	}
	return m, nil
}

// BlendColors composites src over dst using the given mode, with the
// source alpha scaled by opacity. Both colors are non-premultiplied.
//
// For every mode, opacity 0 returns dst unchanged.
func BlendColors(mode BlendMode, dst, src RGBA, opacity float64) RGBA {
	out := blend.Blend(mode, blend.RGBA(dst), blend.RGBA(src), opacity)
	return RGBA(out)
}

// eraseColor removes stamp coverage from a pixel (destination-out).
func eraseColor(dst RGBA, coverage float64) RGBA {
	return RGBA(blend.DestinationOut(blend.RGBA(dst), coverage))
}
