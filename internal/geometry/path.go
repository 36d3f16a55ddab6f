// Package geometry turns Lottie shape descriptions into path figures: vertex
// lists with tangents become cubic Bézier chains, rectangles and ellipses
// become line and arc outlines.
package geometry

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
)

type Point = anim.Point

// Vertices is one keyframe of a free-form path. In and Out are tangent
// offsets relative to the vertex they belong to.
type Vertices struct {
	Closed bool
	V      []Point
	In     []Point
	Out    []Point
}

// Synthesize flattens v into the channel layout used for path animation:
// the start point followed by (control1, control2, end) for every segment.
// A closed path has one segment per vertex, an open one a segment less.
func Synthesize(v Vertices) []Point {
	n := len(v.V)
	segments := n - 1
	if v.Closed {
		segments = n
	}
	if segments <= 0 {
		return []Point{{0, 0}}
	}

	out := make([]Point, 0, 1+3*segments)
	out = append(out, v.V[0])
	cp3 := v.V[0]
	for i := 0; i < segments; i++ {
		cp0 := cp3
		cp1 := add(cp0, v.Out[i])
		cp3 = v.V[(i+1)%n]
		cp2 := add(cp3, v.In[(i+1)%len(v.In)])
		out = append(out, cp1, cp2, cp3)
	}
	return out
}

// DecodePath reads an animatable path property ("ks" of a path shape).
func DecodePath(raw json.RawMessage, rep *diag.Reporter) (*Figure, error) {
	var (
		closed bool
		seen   bool
	)
	split := func(raw json.RawMessage) ([]Point, error) {
		items, err := jsonrec.Elements(raw)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, diag.Errorf(diag.InvalidValue, "empty path geometry")
		}
		v, err := readVertices(items[0], rep)
		if err != nil {
			return nil, err
		}
		if !seen {
			closed, seen = v.Closed, true
		}
		return Synthesize(v), nil
	}

	channels, err := anim.Decode(raw, split, rep)
	if err != nil {
		return nil, err
	}
	return FromChannels(channels, closed), nil
}

func readVertices(raw json.RawMessage, rep *diag.Reporter) (Vertices, error) {
	rec := jsonrec.Open("geometry", raw, rep)
	var (
		v            Vertices
		vs, ins, out [][]float64
	)
	rec.MustRaw("c")
	v.Closed = rec.Bool("c", false)
	rec.MustDecode("i", &ins)
	rec.MustDecode("o", &out)
	rec.MustDecode("v", &vs)
	if err := rec.Close(); err != nil {
		return v, err
	}
	if len(ins) != len(vs) || len(out) != len(vs) {
		return v, diag.Errorf(diag.InvalidValue, "path has %d vertices but %d/%d tangents", len(vs), len(ins), len(out))
	}

	var err error
	if v.V, err = points(vs); err != nil {
		return v, err
	}
	if v.In, err = points(ins); err != nil {
		return v, err
	}
	v.Out, err = points(out)
	return v, err
}

func points(list [][]float64) ([]Point, error) {
	out := make([]Point, len(list))
	for i, p := range list {
		if len(p) < 2 {
			return nil, diag.Errorf(diag.InvalidValue, "point %d has %d coordinates", i, len(p))
		}
		out[i] = Point{p[0], p[1]}
	}
	return out, nil
}

func add(a, b Point) Point {
	return Point{a[0] + b[0], a[1] + b[1]}
}
