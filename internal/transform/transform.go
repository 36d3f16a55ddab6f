// Package transform decodes layer and group transforms and composes them
// into the smallest set of render transforms that reproduces their motion.
package transform

import (
	"encoding/json"
	"fmt"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// Transform is a decoded "ks" or "tr" record. Scale and Opacity are percent,
// Rotation degrees.
type Transform struct {
	Anchor   [2]anim.Property[float64]
	Position [2]anim.Property[float64]
	Scale    [2]anim.Property[float64]
	Rotation anim.Property[float64]
	Opacity  anim.Property[float64]
}

// Identity returns the transform that changes nothing.
func Identity() *Transform {
	return &Transform{
		Scale:   [2]anim.Property[float64]{anim.Constant(100.0), anim.Constant(100.0)},
		Opacity: anim.Constant(100.0),
	}
}

// Decode reads a transform record. Absent properties take their identity
// value. Skew is read but only reported.
func Decode(raw json.RawMessage, rep *diag.Reporter) (*Transform, error) {
	rec := jsonrec.Open("transform", raw, rep)
	if err := rec.Err(); err != nil {
		return nil, err
	}
	rec.Skip("nm", "ty", "mn")

	t := Identity()
	pair := func(key string, dst *[2]anim.Property[float64], def float64) error {
		props, err := anim.FloatsOr(rec.Raw(key), rep, def, def)
		if err != nil {
			return err
		}
		dst[0], dst[1] = props[0], props[1]
		return nil
	}

	var err error
	if err = pair("a", &t.Anchor, 0); err != nil {
		return nil, err
	}
	if err = pair("p", &t.Position, 0); err != nil {
		return nil, err
	}
	if err = pair("s", &t.Scale, 100); err != nil {
		return nil, err
	}
	if t.Rotation, err = anim.Float(rotation(rec), 0, rep); err != nil {
		return nil, err
	}
	if t.Opacity, err = anim.Float(rec.Raw("o"), 100, rep); err != nil {
		return nil, err
	}

	for _, skew := range []struct{ key, name string }{{"sk", "Skew"}, {"sa", "Skew Axis"}} {
		p, err := anim.Float(rec.Raw(skew.key), 0, rep)
		if err != nil {
			return nil, err
		}
		if p.First != 0 || p.Animated() {
			rep.Warnf(diag.Unsupported, "%s not supported", skew.name)
		}
	}
	return t, rec.Close()
}

// rotation returns "r", or "rz" for layers exported with 3-D rotations.
func rotation(rec *jsonrec.Record) json.RawMessage {
	if r := rec.Raw("r"); r != nil {
		return r
	}
	rec.Skip("rx", "ry", "or")
	return rec.Raw("rz")
}

// Animated reports whether the geometric part (not the opacity) is animated.
func (t *Transform) Animated() bool {
	return anim.AnyAnimated(t.Anchor[0], t.Anchor[1], t.Position[0], t.Position[1],
		t.Scale[0], t.Scale[1], t.Rotation)
}

// HasElements reports whether the transform changes geometry at all.
func (t *Transform) HasElements() bool {
	return len(t.Plan().Active) > 0
}

// Primitive is one of the render transforms a Transform can need.
type Primitive int

const (
	Scale Primitive = iota
	Rotate
	Translate
)

// Plan lists the primitives a transform needs, in application order.
type Plan struct {
	Active []Primitive
}

// Plan decides which primitives are needed. Scale and rotation are active
// when animated or not identity; translation when the position is animated
// or differs from the anchor.
func (t *Transform) Plan() Plan {
	var p Plan
	if anim.AnyAnimated(t.Scale[0], t.Scale[1]) || t.Scale[0].First != 100 || t.Scale[1].First != 100 {
		p.Active = append(p.Active, Scale)
	}
	if t.Rotation.Animated() || t.Rotation.First != 0 {
		p.Active = append(p.Active, Rotate)
	}
	if anim.AnyAnimated(t.Position[0], t.Position[1]) ||
		t.Position[0].First-t.Anchor[0].First != 0 || t.Position[1].First-t.Anchor[1].First != 0 {
		p.Active = append(p.Active, Translate)
	}
	return p
}

// Grouped reports whether more than one primitive is needed, which requires
// a TransformGroup and indexed animation targets.
func (p Plan) Grouped() bool {
	return len(p.Active) > 1
}

// Target returns the animation target path of a primitive property.
func (p Plan) Target(prim Primitive, prop string) string {
	if !p.Grouped() {
		return "RenderTransform." + prop
	}
	for i, a := range p.Active {
		if a == prim {
			return fmt.Sprintf("RenderTransform.Children[%d].%s", i, prop)
		}
	}
	return ""
}

// Compose builds the "<owner>.RenderTransform" property element and adds
// tracks for animated channels under target. It returns nil when the
// transform is identity. Anchor animation is not supported; the anchor is
// taken at frame 0.
func (t *Transform) Compose(owner, target string, tl *scene.Timeline, rep *diag.Reporter) *scene.Element {
	plan := t.Plan()
	if len(plan.Active) == 0 {
		return nil
	}
	if anim.AnyAnimated(t.Anchor[0], t.Anchor[1]) {
		rep.Warnf(diag.Unsupported, "Animated anchor points not supported")
	}
	ax, ay := anim.FloatAtZero(t.Anchor[0]), anim.FloatAtZero(t.Anchor[1])

	center := func(e *scene.Element) {
		if ax != 0 {
			e.SetFloat("CenterX", ax)
		}
		if ay != 0 {
			e.SetFloat("CenterY", ay)
		}
	}

	var prims []*scene.Element
	for _, prim := range plan.Active {
		switch prim {
		case Scale:
			e := scene.New("ScaleTransform")
			if v := t.Scale[0].First; v != 100 {
				e.SetFloat("ScaleX", v/100)
			}
			if v := t.Scale[1].First; v != 100 {
				e.SetFloat("ScaleY", v/100)
			}
			center(e)
			tl.Float(t.Scale[0], target, plan.Target(Scale, "ScaleX"), 0.01, 0)
			tl.Float(t.Scale[1], target, plan.Target(Scale, "ScaleY"), 0.01, 0)
			prims = append(prims, e)

		case Rotate:
			e := scene.New("RotateTransform")
			if v := t.Rotation.First; v != 0 {
				e.SetFloat("Angle", v)
			}
			center(e)
			tl.Float(t.Rotation, target, plan.Target(Rotate, "Angle"), 1, 0)
			prims = append(prims, e)

		case Translate:
			e := scene.New("TranslateTransform")
			if x := t.Position[0].First - ax; x != 0 {
				e.SetFloat("X", x)
			}
			if y := t.Position[1].First - ay; y != 0 {
				e.SetFloat("Y", y)
			}
			tl.Float(t.Position[0], target, plan.Target(Translate, "X"), 1, -ax)
			tl.Float(t.Position[1], target, plan.Target(Translate, "Y"), 1, -ay)
			prims = append(prims, e)
		}
	}

	slot := scene.New(owner + ".RenderTransform")
	if plan.Grouped() {
		return slot.Append(scene.New("TransformGroup").Append(prims...))
	}
	return slot.Append(prims...)
}
