package anim

import "math"

// At samples the property at the given frame. Before the first keyframe the
// first value holds; after the last one the last value holds.
func (p Property[T]) At(frame float64, lerp func(a, b T, t float64) T) T {
	kfs := p.Keyframes
	if len(kfs) == 0 {
		return p.First
	}
	if frame <= kfs[0].Time {
		return kfs[0].Value
	}
	last := kfs[len(kfs)-1]
	if frame >= last.Time {
		return last.Value
	}

	i := 1
	for i < len(kfs)-1 && frame >= kfs[i].Time {
		i++
	}
	prev, next := kfs[i-1], kfs[i]

	span := next.Time - prev.Time
	if span <= 0 {
		return next.Value
	}
	t := (frame - prev.Time) / span

	switch next.Easing.Kind {
	case Discrete:
		return prev.Value
	case Spline:
		t = cubicBezier(next.Easing, t)
	}
	return lerp(prev.Value, next.Value, t)
}

// LerpFloat interpolates scalars.
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpPoint interpolates positions.
func LerpPoint(a, b Point, t float64) Point {
	return Point{LerpFloat(a[0], b[0], t), LerpFloat(a[1], b[1], t)}
}

// LerpColor interpolates colours per component.
func LerpColor(a, b Color, t float64) Color {
	c := func(x, y uint8) uint8 {
		return uint8(math.Round(LerpFloat(float64(x), float64(y), t)))
	}
	return Color{R: c(a.R, b.R), G: c(a.G, b.G), B: c(a.B, b.B), A: c(a.A, b.A)}
}

// FloatAtZero is the value a scalar channel holds at frame 0.
func FloatAtZero(p Property[float64]) float64 {
	return p.At(0, LerpFloat)
}

// PointAtZero is the value a position channel holds at frame 0.
func PointAtZero(p Property[Point]) Point {
	return p.At(0, LerpPoint)
}

// cubicBezier maps linear progress x onto the easing curve through
// (0,0), (X1,Y1), (X2,Y2), (1,1).
func cubicBezier(e Easing, x float64) float64 {
	bez := func(a, b, s float64) float64 {
		u := 1 - s
		return 3*u*u*s*a + 3*u*s*s*b + s*s*s
	}
	deriv := func(a, b, s float64) float64 {
		u := 1 - s
		return 3*u*u*a + 6*u*s*(b-a) + 3*s*s*(1-b)
	}

	s := x
	for i := 0; i < 8; i++ {
		d := deriv(e.X1, e.X2, s)
		if math.Abs(d) < 1e-6 {
			break
		}
		s -= (bez(e.X1, e.X2, s) - x) / d
	}

	// Newton can leave [0,1] for steep curves; bisection settles it.
	if s < 0 || s > 1 || math.Abs(bez(e.X1, e.X2, s)-x) > 1e-5 {
		lo, hi := 0.0, 1.0
		for i := 0; i < 40; i++ {
			s = (lo + hi) / 2
			if bez(e.X1, e.X2, s) < x {
				lo = s
			} else {
				hi = s
			}
		}
	}
	return bez(e.Y1, e.Y2, s)
}
