package ink

import (
	"math"
	"time"
)

// StrokePoint is one normalized input sample: a position, a pen pressure
// in [0, 1] and an optional timestamp (zero value when the input device
// provides none).
type StrokePoint struct {
	X, Y     float64
	Pressure float64
	Time     time.Time
}

// Stroke accumulates input samples for one user gesture. It is append-only
// during capture and becomes immutable once the engine commits it to
// history; Append calls after that point are dropped.
//
// A stroke references its brush by registry name and carries its own ink
// color, so many strokes can share one brush configuration.
type Stroke struct {
	brush     string
	color     RGBA
	points    []StrokePoint
	committed bool
}

// NewStroke creates an empty stroke for the named brush and ink color.
func NewStroke(brush string, color RGBA) *Stroke {
	return &Stroke{brush: brush, color: color.Clamp()}
}

// Append adds a sample in arrival order. Samples arriving after the
// stroke has been committed are dropped.
func (s *Stroke) Append(p StrokePoint) {
	if s.committed {
		Logger().Warn("ink: sample appended to committed stroke dropped")
		return
	}
	p.Pressure = clamp01(p.Pressure)
	s.points = append(s.points, p)
}

// Brush returns the registry name of the stroke's brush.
func (s *Stroke) Brush() string { return s.brush }

// Color returns the stroke's ink color.
func (s *Stroke) Color() RGBA { return s.color }

// Len returns the number of captured samples.
func (s *Stroke) Len() int { return len(s.points) }

// Points returns a copy of the captured samples.
func (s *Stroke) Points() []StrokePoint {
	out := make([]StrokePoint, len(s.points))
	copy(out, s.points)
	return out
}

// stampPlacement is one resolved stamp center along the smoothed path.
type stampPlacement struct {
	pos      Point
	pressure float64
}

// smoothStep is the subdivision step for the smoothing spline, in pixels.
// Segments are flattened at this granularity before resampling.
const smoothStep = 2.0

// minSpacingPx is an absolute floor on stamp spacing. It bounds the stamp
// count for tiny brushes independent of the input sampling rate.
const minSpacingPx = 0.5

// placements converts the raw samples into an ordered sequence of stamp
// centers for the given brush.
//
// The jagged raw path is replaced by a Catmull-Rom spline through the
// samples, flattened at smoothStep granularity, then resampled so that
// consecutive centers are at least spacing*effectiveSize apart. A stroke
// with fewer than two samples produces a single dab at the lone point.
func (s *Stroke) placements(b Brush) []stampPlacement {
	switch len(s.points) {
	case 0:
		return nil
	case 1:
		p := s.points[0]
		return []stampPlacement{{pos: Pt(p.X, p.Y), pressure: p.Pressure}}
	}

	path := s.smoothed()
	return resample(path, b)
}

// smoothed flattens a Catmull-Rom spline through the raw samples into a
// dense polyline, interpolating pressure linearly along each segment.
func (s *Stroke) smoothed() []stampPlacement {
	pts := s.points
	out := make([]stampPlacement, 0, len(pts)*4)
	out = append(out, stampPlacement{pos: Pt(pts[0].X, pts[0].Y), pressure: pts[0].Pressure})

	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[clampIndex(i-1, len(pts))]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[clampIndex(i+2, len(pts))]

		segLen := Pt(p1.X, p1.Y).Distance(Pt(p2.X, p2.Y))
		steps := int(math.Ceil(segLen / smoothStep))
		if steps < 1 {
			steps = 1
		}
		for step := 1; step <= steps; step++ {
			t := float64(step) / float64(steps)
			pos := catmullRom(
				Pt(p0.X, p0.Y), Pt(p1.X, p1.Y),
				Pt(p2.X, p2.Y), Pt(p3.X, p3.Y), t,
			)
			pressure := p1.Pressure + (p2.Pressure-p1.Pressure)*t
			out = append(out, stampPlacement{pos: pos, pressure: pressure})
		}
	}
	return out
}

// resample walks the smoothed polyline and emits stamp centers separated
// by at least the brush spacing at the local pressure.
func resample(path []stampPlacement, b Brush) []stampPlacement {
	if len(path) == 0 {
		return nil
	}
	out := []stampPlacement{path[0]}
	spacing := spacingAt(b, path[0].pressure)
	traveled := 0.0

	for i := 1; i < len(path); i++ {
		prev := path[i-1]
		cur := path[i]
		segLen := prev.pos.Distance(cur.pos)
		if segLen == 0 {
			continue
		}
		for traveled+segLen >= spacing {
			t := (spacing - traveled) / segLen
			pos := prev.pos.Lerp(cur.pos, t)
			pressure := prev.pressure + (cur.pressure-prev.pressure)*t
			out = append(out, stampPlacement{pos: pos, pressure: pressure})

			// Restart the walk from the emitted point.
			prev = stampPlacement{pos: pos, pressure: pressure}
			segLen = prev.pos.Distance(cur.pos)
			traveled = 0
			spacing = spacingAt(b, pressure)
			if segLen == 0 {
				break
			}
		}
		traveled += segLen
	}

	// Close the gesture with a final stamp if the pen lifted well past
	// the last emitted center.
	last := path[len(path)-1]
	if traveled > spacing/2 {
		out = append(out, last)
	}
	return out
}

// spacingAt returns the stamp-to-stamp distance for the brush at a given
// pressure, with the absolute floor applied.
func spacingAt(b Brush, pressure float64) float64 {
	d := b.spacing() * b.effectiveSize(pressure)
	if d < minSpacingPx {
		return minSpacingPx
	}
	return d
}

// clampIndex clamps i into [0, n).
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
