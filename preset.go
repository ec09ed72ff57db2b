package ink

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tanema/gween/ease"
)

// BrushPreset is the serialized form of a Brush. Presets are TOML
// documents; host shells load the bytes (the engine itself does no file
// I/O) and hand them to ParseBrushPresets.
//
// Example document:
//
//	[[brush]]
//	name = "marker"
//	size = 24
//	hardness = 0.4
//	opacity = 0.3
//	spacing = 0.2
//	size_curve = "linear"
//	flow_curve = "out-quad"
//
//	[[brush]]
//	name = "eraser"
//	size = 30
//	hardness = 0.9
//	opacity = 1.0
//	erase = true
type BrushPreset struct {
	Name      string  `toml:"name"`
	Size      float64 `toml:"size"`
	Hardness  float64 `toml:"hardness"`
	Opacity   float64 `toml:"opacity"`
	Spacing   float64 `toml:"spacing"`
	SizeCurve string  `toml:"size_curve"`
	FlowCurve string  `toml:"flow_curve"`
	Erase     bool    `toml:"erase"`
}

// presetFile is the top-level TOML document shape.
type presetFile struct {
	Brush []BrushPreset `toml:"brush"`
}

// ParseBrushPresets decodes a TOML preset document into brushes.
func ParseBrushPresets(data []byte) ([]Brush, error) {
	var file presetFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ink: decoding brush presets: %w", err)
	}
	brushes := make([]Brush, 0, len(file.Brush))
	for _, p := range file.Brush {
		b, err := p.Brush()
		if err != nil {
			return nil, err
		}
		brushes = append(brushes, b)
	}
	return brushes, nil
}

// Brush resolves the preset into a Brush, mapping curve names through the
// gween ease catalog.
func (p BrushPreset) Brush() (Brush, error) {
	sizeCurve, err := CurveByName(p.SizeCurve)
	if err != nil {
		return Brush{}, fmt.Errorf("%w: size_curve %q (brush %q)", ErrUnknownCurve, p.SizeCurve, p.Name)
	}
	flowCurve, err := CurveByName(p.FlowCurve)
	if err != nil {
		return Brush{}, fmt.Errorf("%w: flow_curve %q (brush %q)", ErrUnknownCurve, p.FlowCurve, p.Name)
	}
	return Brush{
		Name:      p.Name,
		Size:      p.Size,
		Hardness:  clamp01(p.Hardness),
		Opacity:   clamp01(p.Opacity),
		Spacing:   p.Spacing,
		SizeCurve: sizeCurve,
		FlowCurve: flowCurve,
		Erase:     p.Erase,
	}, nil
}

// curveCatalog maps preset names to gween easing functions. The exact
// pressure response shape is a configuration choice, not a hard-coded
// mapping; the catalog covers the shapes drawing tools commonly expose.
var curveCatalog = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"in-expo":      ease.InExpo,
	"out-expo":     ease.OutExpo,
	"in-circ":      ease.InCirc,
	"out-circ":     ease.OutCirc,
}

// CurveByName resolves a response curve name from the catalog. The empty
// string resolves to nil (linear).
func CurveByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := curveCatalog[name]
	if !ok {
		return nil, ErrUnknownCurve
	}
	return fn, nil
}

// DefaultBrushes returns the built-in brush set. Every engine starts with
// these registered; RegisterBrush can replace or extend them.
//
// Opacities follow common drawing-tool conventions: pencils leave
// slightly translucent graphite, markers are heavily translucent so
// overlapping passes darken.
func DefaultBrushes() []Brush {
	return []Brush{
		{Name: "pen", Size: 8, Hardness: 1.0, Opacity: 1.0, Spacing: 0.15},
		{Name: "pencil", Size: 5, Hardness: 0.8, Opacity: 0.9, Spacing: 0.2, FlowCurve: ease.InSine},
		{Name: "marker", Size: 24, Hardness: 0.4, Opacity: 0.3, Spacing: 0.2},
		{Name: "airbrush", Size: 40, Hardness: 0.1, Opacity: 0.6, Spacing: 0.1, FlowCurve: ease.OutQuad},
		{Name: "eraser", Size: 30, Hardness: 0.9, Opacity: 1.0, Spacing: 0.15, Erase: true},
	}
}
