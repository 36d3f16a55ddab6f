// Package compiler turns a shape list into path elements. The list is walked
// in reverse, so that every paint meets the geometry it applies to, and group
// transforms become wrapping canvases.
package compiler

import (
	"fmt"

	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// PaintScope selects which geometry a paint applies to.
type PaintScope int

const (
	// Adjacent applies a paint to the run of geometry right before it.
	// Paints stacked directly on each other share that run.
	Adjacent PaintScope = iota
	// Cumulative applies a paint to every geometry before it in its list.
	Cumulative
)

// ParsePaintScope converts a configuration value.
func ParsePaintScope(s string) (PaintScope, error) {
	switch s {
	case "", "adjacent":
		return Adjacent, nil
	case "cumulative":
		return Cumulative, nil
	}
	return Adjacent, fmt.Errorf("unknown paint scope %q", s)
}

func (s PaintScope) String() string {
	if s == Cumulative {
		return "cumulative"
	}
	return "adjacent"
}

// Context is the state shared by one conversion.
type Context struct {
	Rep      *diag.Reporter
	Names    *scene.Namer
	Timeline *scene.Timeline
	Scope    PaintScope

	// Extensions is set once an element needs the noesis: namespace.
	Extensions bool
}

// NewContext creates a context with fresh name sequences and timeline.
func NewContext(rep *diag.Reporter, scope PaintScope) *Context {
	return &Context{Rep: rep, Names: &scene.Namer{}, Timeline: &scene.Timeline{}, Scope: scope}
}

// Shapes compiles a shape list into elements in output order.
func (c *Context) Shapes(shapes []lottie.Shape) []*scene.Element {
	var out []*scene.Element
	c.walk(shapes, nil, &out)
	return out
}

// walk compiles shapes in reverse. trims are the trim operators inherited
// from enclosing groups. Elements are appended to *out until a group
// transform opens a wrapper, which then receives the rest of the list.
func (c *Context) walk(shapes []lottie.Shape, trims []*lottie.TrimShape, out *[]*scene.Element) {
	scope := append([]*lottie.TrimShape(nil), trims...)
	target := out

	for i := len(shapes) - 1; i >= 0; i-- {
		switch s := shapes[i].(type) {
		case *lottie.TransformShape:
			if w := c.wrapper(s); w != nil {
				*target = append(*target, w)
				target = &w.Children
			}

		case *lottie.PaintShape:
			geoms, local := c.collect(shapes, i)
			if len(geoms) > 0 {
				ops := append(append([]*lottie.TrimShape(nil), scope...), local...)
				if e := c.path(geoms, s, ops); e != nil {
					*target = append(*target, e)
				}
			}

		case *lottie.TrimShape:
			scope = append(scope, s)

		case lottie.Geometry:
			// Drawn by the paints that follow it.

		case *lottie.GroupShape:
			c.walk(s.Items, scope, target)

		default:
			c.Rep.Warnf(diag.Unsupported, "Unsupported shape attribute '%s'", s.Type())
		}
	}
}

// collect gathers the geometry and trims the paint at index i applies to,
// nearest first.
func (c *Context) collect(shapes []lottie.Shape, i int) ([]lottie.Geometry, []*lottie.TrimShape) {
	var (
		geoms []lottie.Geometry
		trims []*lottie.TrimShape
	)
	for j := i - 1; j >= 0; j-- {
		switch s := shapes[j].(type) {
		case lottie.Geometry:
			geoms = append(geoms, s)
		case *lottie.TrimShape:
			trims = append(trims, s)
		case *lottie.PaintShape:
			if c.Scope == Adjacent && len(geoms) > 0 {
				return geoms, trims
			}
		}
	}
	return geoms, trims
}

// wrapper opens a canvas for a group transform, or returns nil when the
// transform changes nothing.
func (c *Context) wrapper(s *lottie.TransformShape) *scene.Element {
	t := s.Transform
	if !t.HasElements() && t.Opacity.First == 100 && !t.Opacity.Animated() {
		return nil
	}

	e := scene.New("Canvas")
	var name string
	if t.Animated() || t.Opacity.Animated() {
		name = c.Names.Next("Group")
		e.Set("x:Name", name)
	}
	if t.Opacity.First != 100 {
		e.SetFloat("Opacity", t.Opacity.First/100)
	}
	c.Timeline.Float(t.Opacity, name, "Opacity", 0.01, 0)
	e.Append(t.Compose("Canvas", name, c.Timeline, c.Rep))
	return e
}
