// Package anim models values that may change over time: a first value plus an
// optional chain of keyframes, one Property per scalar channel.
package anim

import (
	"image/color"

	"golang.org/x/image/math/f64"
)

// Point is a 2-D position.
type Point = f64.Vec2

// Color is a quantised colour value. Quantising before comparison makes
// channels whose keyframes only differ below 1/255 collapse to constants.
type Color = color.NRGBA

// EasingKind selects how a keyframe is reached from the previous one.
type EasingKind int

const (
	Discrete EasingKind = iota
	Linear
	Spline
)

func (k EasingKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Spline:
		return "spline"
	}
	return "discrete"
}

// Easing describes the interpolation into a keyframe. Spline control points
// are passed through to the output key spline unchanged.
type Easing struct {
	Kind           EasingKind
	X1, Y1, X2, Y2 float64
}

// Tangents are the spatial tangents exported for motion paths.
type Tangents struct {
	Out []float64
	In  []float64
}

// Keyframe holds the value a channel takes from Time on. Easing describes the
// segment arriving at this keyframe, so the first keyframe is always Discrete.
type Keyframe[T comparable] struct {
	Time     float64
	Value    T
	Easing   Easing
	Tangents *Tangents
}

// Property is one animated channel. Keyframes is nil for constants.
type Property[T comparable] struct {
	First     T
	Keyframes []Keyframe[T]
}

// Constant returns a property that never changes.
func Constant[T comparable](v T) Property[T] {
	return Property[T]{First: v}
}

// Animated reports whether the property carries keyframes.
func (p Property[T]) Animated() bool {
	return len(p.Keyframes) > 0
}

// canonical drops keyframe chains whose values never change.
func (p Property[T]) canonical() Property[T] {
	if len(p.Keyframes) == 0 {
		return Property[T]{First: p.First}
	}
	v := p.Keyframes[0].Value
	for _, k := range p.Keyframes[1:] {
		if k.Value != v {
			return p
		}
	}
	return Property[T]{First: p.First}
}

// Map converts the values of a property, keeping times and easings. The
// result is canonicalised again, as a projection can make a channel constant.
func Map[T, U comparable](p Property[T], f func(T) U) Property[U] {
	out := Property[U]{First: f(p.First)}
	if len(p.Keyframes) > 0 {
		out.Keyframes = make([]Keyframe[U], len(p.Keyframes))
		for i, k := range p.Keyframes {
			out.Keyframes[i] = Keyframe[U]{Time: k.Time, Value: f(k.Value), Easing: k.Easing, Tangents: k.Tangents}
		}
	}
	return out.canonical()
}

// AnyAnimated reports whether at least one of the properties is animated.
func AnyAnimated[T comparable](props ...Property[T]) bool {
	for _, p := range props {
		if p.Animated() {
			return true
		}
	}
	return false
}
