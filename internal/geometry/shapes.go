package geometry

import (
	"math"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
)

// DirectionReversed is the shape direction that flips the arc sweep.
const DirectionReversed = 2

// outline builds procedural figures from relative moves.
type outline struct {
	f   *Figure
	cur Point
}

func newOutline(start Point) *outline {
	return &outline{f: &Figure{Start: anim.Constant(start), Closed: true, relative: true}, cur: start}
}

func (o *outline) move(s Segment, d Point) {
	o.cur = add(o.cur, d)
	s.delta = d
	s.Points = []anim.Property[Point]{anim.Constant(o.cur)}
	o.f.Segments = append(o.f.Segments, s)
}

func (o *outline) h(dx float64) { o.move(Segment{Kind: Line, cmd: 'h'}, Point{dx, 0}) }
func (o *outline) v(dy float64) { o.move(Segment{Kind: Line, cmd: 'v'}, Point{0, dy}) }

func (o *outline) arc(r Point, sweep bool, dx, dy float64) {
	o.move(Segment{Kind: Arc, cmd: 'a', Radius: r, Sweep: sweep}, Point{dx, dy})
}

// Rect outlines a rectangle centred on position. Animated parameters are not
// supported; their values at frame 0 are used.
func Rect(size, position anim.Property[Point], roundness anim.Property[float64], direction int, rep *diag.Reporter) *Figure {
	if size.Animated() || position.Animated() || roundness.Animated() {
		rep.Warnf(diag.Unsupported, "Animated Rectangles not supported")
	}
	s := anim.PointAtZero(size)
	p := anim.PointAtZero(position)
	w, h := s[0], s[1]
	x, y := p[0], p[1]
	r := math.Min(anim.FloatAtZero(roundness), math.Min(w*0.5, h*0.5))
	rev := direction == DirectionReversed

	if r <= 0 {
		o := newOutline(Point{x + w*0.5, y - h*0.5})
		if rev {
			o.v(h)
			o.h(-w)
			o.v(-h)
		} else {
			o.h(-w)
			o.v(h)
			o.h(w)
		}
		return o.f
	}

	o := newOutline(Point{x + w*0.5, y - h*0.5 + r})
	rr := Point{r, r}
	edgeW, edgeH := w-2*r, h-2*r
	if rev {
		if edgeH > 0 {
			o.v(edgeH)
		}
		o.arc(rr, true, -r, r)
		if edgeW > 0 {
			o.h(-edgeW)
		}
		o.arc(rr, true, -r, -r)
		if edgeH > 0 {
			o.v(-edgeH)
		}
		o.arc(rr, true, r, -r)
		if edgeW > 0 {
			o.h(edgeW)
		}
		o.arc(rr, true, r, r)
	} else {
		o.arc(rr, false, -r, -r)
		if edgeW > 0 {
			o.h(-edgeW)
		}
		o.arc(rr, false, -r, r)
		if edgeH > 0 {
			o.v(edgeH)
		}
		o.arc(rr, false, r, r)
		if edgeW > 0 {
			o.h(edgeW)
		}
		o.arc(rr, false, r, -r)
		if edgeH > 0 {
			o.v(-edgeH)
		}
	}
	return o.f
}

// Ellipse outlines an ellipse with two half-turn arcs starting at its top.
func Ellipse(size, position anim.Property[Point], direction int, rep *diag.Reporter) *Figure {
	if size.Animated() || position.Animated() {
		rep.Warnf(diag.Unsupported, "Animated Ellipses not supported")
	}
	s := anim.PointAtZero(size)
	p := anim.PointAtZero(position)
	radius := Point{s[0] * 0.5, s[1] * 0.5}
	sweep := direction == DirectionReversed

	o := newOutline(Point{p[0], p[1] - radius[1]})
	o.arc(radius, sweep, 0, 2*radius[1])
	o.arc(radius, sweep, 0, -2*radius[1])
	return o.f
}
