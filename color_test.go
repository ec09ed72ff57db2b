package ink

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const colorEps = 1e-9

func absDiff(a, b float64) float64 {
	return math.Abs(a - b)
}

func colorsClose(a, b RGBA, eps float64) bool {
	return absDiff(a.R, b.R) <= eps &&
		absDiff(a.G, b.G) <= eps &&
		absDiff(a.B, b.B) <= eps &&
		absDiff(a.A, b.A) <= eps
}

func TestRGBA_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   RGBA
		want RGBA
	}{
		{"in range", RGBA{0.2, 0.4, 0.6, 0.8}, RGBA{0.2, 0.4, 0.6, 0.8}},
		{"above", RGBA{1.5, 2, 1.01, 3}, RGBA{1, 1, 1, 1}},
		{"below", RGBA{-0.5, -1, -0.01, -2}, RGBA{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBA_Lerp(t *testing.T) {
	a := RGBA{0, 0, 0, 0}
	b := RGBA{1, 1, 1, 1}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	mid := a.Lerp(b, 0.5)
	want := RGBA{0.5, 0.5, 0.5, 0.5}
	if !colorsClose(mid, want, colorEps) {
		t.Errorf("Lerp(0.5) = %v, want %v", mid, want)
	}
	// t is clamped, not extrapolated
	if got := a.Lerp(b, 2); got != b {
		t.Errorf("Lerp(2) = %v, want %v", got, b)
	}
}

// Round trips must hold for a grid of channel values in [0, 1].
func TestHSB_RoundTrip(t *testing.T) {
	const eps = 1e-9
	for r := 0.0; r <= 1.0; r += 0.1 {
		for g := 0.0; g <= 1.0; g += 0.1 {
			for b := 0.0; b <= 1.0; b += 0.1 {
				in := RGB(r, g, b)
				h, s, v := in.HSB()
				out := HSB(h, s, v)
				if !colorsClose(in, out, eps) {
					t.Fatalf("HSB round trip: %v -> (%v, %v, %v) -> %v", in, h, s, v, out)
				}
			}
		}
	}
}

func TestHSL_RoundTrip(t *testing.T) {
	const eps = 1e-9
	for r := 0.0; r <= 1.0; r += 0.1 {
		for g := 0.0; g <= 1.0; g += 0.1 {
			for b := 0.0; b <= 1.0; b += 0.1 {
				in := RGB(r, g, b)
				h, s, l := in.HSL()
				out := HSL(h, s, l)
				if !colorsClose(in, out, eps) {
					t.Fatalf("HSL round trip: %v -> (%v, %v, %v) -> %v", in, h, s, l, out)
				}
			}
		}
	}
}

// Cross-check the conversions against go-colorful as an independent
// oracle.
func TestHSB_MatchesColorful(t *testing.T) {
	const eps = 1e-6
	cases := []RGBA{
		Red, Green, Blue, Yellow, Cyan, Magenta, White,
		RGB(0.3, 0.7, 0.2), RGB(0.9, 0.1, 0.5), RGB(0.25, 0.25, 0.75),
	}
	for _, c := range cases {
		h, s, v := c.HSB()
		oh, os, ov := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
		if absDiff(h, oh) > eps || absDiff(s, os) > eps || absDiff(v, ov) > eps {
			t.Errorf("HSB(%v) = (%v, %v, %v), colorful says (%v, %v, %v)",
				c, h, s, v, oh, os, ov)
		}
	}
}

func TestHSL_MatchesColorful(t *testing.T) {
	const eps = 1e-6
	cases := []RGBA{
		Red, Green, Blue, Yellow, Cyan, Magenta, White,
		RGB(0.3, 0.7, 0.2), RGB(0.9, 0.1, 0.5), RGB(0.25, 0.25, 0.75),
	}
	for _, c := range cases {
		h, s, l := c.HSL()
		oh, os, ol := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
		if absDiff(h, oh) > eps || absDiff(s, os) > eps || absDiff(l, ol) > eps {
			t.Errorf("HSL(%v) = (%v, %v, %v), colorful says (%v, %v, %v)",
				c, h, s, l, oh, os, ol)
		}
	}
}

func TestHSB_Grays(t *testing.T) {
	// Achromatic colors have zero saturation and arbitrary-free hue 0.
	for _, v := range []float64{0, 0.25, 0.5, 1} {
		c := RGB(v, v, v)
		h, s, got := c.HSB()
		if h != 0 || s != 0 || absDiff(got, v) > colorEps {
			t.Errorf("HSB(gray %v) = (%v, %v, %v)", v, h, s, got)
		}
	}
}

func TestHueWrapping(t *testing.T) {
	if HSB(360+120, 1, 1) != HSB(120, 1, 1) {
		t.Error("hue 480 should equal hue 120")
	}
	if HSL(-120, 1, 0.5) != HSL(240, 1, 0.5) {
		t.Error("hue -120 should equal hue 240")
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	c := RGBA{0.8, 0.4, 0.2, 0.5}
	back := c.Premultiply().Unpremultiply()
	if !colorsClose(c, back, 1e-12) {
		t.Errorf("premultiply round trip: %v -> %v", c, back)
	}
	if got := (RGBA{0.5, 0.5, 0.5, 0}).Unpremultiply(); got != Transparent {
		t.Errorf("Unpremultiply of zero alpha = %v, want transparent", got)
	}
}
