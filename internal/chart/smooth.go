package chart

import "math"

// Point is a position in plot space.
type Point struct {
	X, Y float64
}

// Smooth returns a polyline through pts made of cubic Bezier segments whose
// control points follow a cardinal spline with the given tension. Each segment
// contributes steps samples. Control point Y values are clamped to [lo, hi] so
// the curve never leaves the plotted range. The input points are always on the
// output.
func Smooth(pts []Point, tension float64, steps int, lo, hi float64) []Point {
	if len(pts) < 3 || tension == 0 {
		out := make([]Point, len(pts))
		copy(out, pts)
		return out
	}
	if steps < 1 {
		steps = 1
	}

	n := len(pts)
	before := make([]Point, n)
	after := make([]Point, n)
	for i := range pts {
		prev := pts[max(0, i-1)]
		cur := pts[i]
		next := pts[min(n-1, i+1)]

		d01 := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
		d12 := math.Hypot(next.X-cur.X, next.Y-cur.Y)
		var s01, s12 float64
		if total := d01 + d12; total > 0 {
			s01 = d01 / total
			s12 = d12 / total
		}
		fa := tension * s01
		fb := tension * s12

		before[i] = Point{
			X: cur.X - fa*(next.X-prev.X),
			Y: clamp(cur.Y-fa*(next.Y-prev.Y), lo, hi),
		}
		after[i] = Point{
			X: cur.X + fb*(next.X-prev.X),
			Y: clamp(cur.Y+fb*(next.Y-prev.Y), lo, hi),
		}
	}

	out := make([]Point, 0, (n-1)*steps+1)
	out = append(out, pts[0])
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := pts[i], after[i], before[i+1], pts[i+1]
		for s := 1; s <= steps; s++ {
			if s == steps {
				out = append(out, p3)
				break
			}
			out = append(out, bezier(p0, p1, p2, p3, float64(s)/float64(steps)))
		}
	}
	return out
}

// SmoothSeries smooths an evenly spaced series. aspect is the plot's
// height/width ratio so that curvature matches what is drawn. It returns x in
// index units and y in value units.
func SmoothSeries(values []float64, tension float64, steps int, aspect float64) ([]float64, []float64) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	if n == 1 {
		return []float64{0}, []float64{values[0]}
	}
	if aspect <= 0 {
		aspect = 1
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Min(lo, 0)
	scale := math.Max(math.Abs(lo), math.Abs(hi))
	if scale == 0 {
		scale = 1
	}

	span := float64(n - 1)
	pts := make([]Point, n)
	for i, v := range values {
		pts[i] = Point{X: float64(i) / span, Y: v / scale * aspect}
	}

	smoothed := Smooth(pts, tension, steps, lo/scale*aspect, hi/scale*aspect)
	xs := make([]float64, len(smoothed))
	ys := make([]float64, len(smoothed))
	for i, p := range smoothed {
		xs[i] = p.X * span
		ys[i] = p.Y / aspect * scale
	}
	return xs, ys
}

// SampleAt evaluates the smoothed series at x (index units) by linear
// interpolation between neighbouring samples.
func SampleAt(xs, ys []float64, x float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			dx := xs[i] - xs[i-1]
			if dx == 0 {
				return ys[i]
			}
			f := (x - xs[i-1]) / dx
			return ys[i-1] + f*(ys[i]-ys[i-1])
		}
	}
	return ys[len(ys)-1]
}

func bezier(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}
