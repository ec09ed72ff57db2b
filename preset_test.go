package ink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBrushPresets(t *testing.T) {
	doc := []byte(`
[[brush]]
name = "marker"
size = 24
hardness = 0.4
opacity = 0.3
spacing = 0.2
flow_curve = "out-quad"

[[brush]]
name = "eraser"
size = 30
hardness = 0.9
opacity = 1.0
erase = true
`)
	brushes, err := ParseBrushPresets(doc)
	require.NoError(t, err)
	require.Len(t, brushes, 2)

	marker := brushes[0]
	assert.Equal(t, "marker", marker.Name)
	assert.Equal(t, 24.0, marker.Size)
	assert.Equal(t, 0.4, marker.Hardness)
	assert.Equal(t, 0.3, marker.Opacity)
	assert.NotNil(t, marker.FlowCurve)
	assert.Nil(t, marker.SizeCurve, "unset curve stays linear")
	assert.False(t, marker.Erase)

	eraser := brushes[1]
	assert.Equal(t, "eraser", eraser.Name)
	assert.True(t, eraser.Erase)
}

func TestParseBrushPresets_UnknownCurve(t *testing.T) {
	doc := []byte(`
[[brush]]
name = "odd"
size = 10
opacity = 1
size_curve = "zigzag"
`)
	_, err := ParseBrushPresets(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCurve), "got %v", err)
	assert.Contains(t, err.Error(), "zigzag")
}

func TestParseBrushPresets_BadTOML(t *testing.T) {
	_, err := ParseBrushPresets([]byte("[[brush]\nname ="))
	require.Error(t, err)
}

func TestBrushPreset_ClampsRanges(t *testing.T) {
	b, err := BrushPreset{Name: "x", Size: 10, Hardness: 4, Opacity: -2}.Brush()
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.Hardness)
	assert.Equal(t, 0.0, b.Opacity)
}

func TestCurveByName(t *testing.T) {
	fn, err := CurveByName("")
	require.NoError(t, err)
	assert.Nil(t, fn, "empty name is linear")

	fn, err = CurveByName("in-out-sine")
	require.NoError(t, err)
	assert.NotNil(t, fn)

	_, err = CurveByName("wobble")
	assert.ErrorIs(t, err, ErrUnknownCurve)
}

func TestDefaultBrushes(t *testing.T) {
	names := map[string]bool{}
	for _, b := range DefaultBrushes() {
		require.NotEmpty(t, b.Name)
		require.False(t, names[b.Name], "duplicate brush %q", b.Name)
		names[b.Name] = true
		assert.Greater(t, b.Size, 0.0, "brush %q", b.Name)
		assert.GreaterOrEqual(t, b.Opacity, 0.0)
		assert.LessOrEqual(t, b.Opacity, 1.0)
	}
	for _, want := range []string{"pen", "pencil", "marker", "airbrush", "eraser"} {
		assert.True(t, names[want], "missing built-in %q", want)
	}
}
