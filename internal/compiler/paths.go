package compiler

import (
	"strings"

	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/geometry"
	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/paint"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// path builds one Path element drawing geoms with the paint of s. Only the
// first trim applies.
func (c *Context) path(geoms []lottie.Geometry, s *lottie.PaintShape, trims []*lottie.TrimShape) *scene.Element {
	figs := make([]*geometry.Figure, 0, len(geoms))
	animated := false
	for _, g := range geoms {
		f := g.Outline()
		if f == nil {
			continue
		}
		figs = append(figs, f)
		animated = animated || f.Animated()
	}
	if len(figs) == 0 {
		return nil
	}
	geomAnimated := animated

	var trim *lottie.TrimShape
	if len(trims) > 0 {
		trim = trims[0]
		if len(trims) > 1 {
			c.Rep.Warnf(diag.Unsupported, "More than one path operators not implemented")
		}
		if trim.Mode == lottie.TrimSimultaneously && len(figs) > 1 {
			c.Rep.Warnf(diag.Unsupported, "Trim Path 'Simultaneously' mode not implemented")
		}
		animated = animated || trim.Animated()
	}
	animated = animated || s.Paint.Animated()

	e := scene.New("Path")
	var name string
	if animated {
		name = c.Names.Next("Path")
		e.Set("x:Name", name)
	}

	s.Paint.Apply(e, name, c.Timeline, c.Rep)
	if trim != nil {
		c.trim(e, name, trim)
	}

	if geomAnimated {
		pg := scene.New("PathGeometry")
		if s.Paint.Rule() == paint.NonZero {
			pg.Set("FillRule", "Nonzero")
		}
		for i, f := range figs {
			pg.Append(f.Element(i, name, c.Timeline))
		}
		data := scene.New("Path.Data").Append(pg)
		e.Children = append([]*scene.Element{data}, e.Children...)
		return e
	}

	var b strings.Builder
	if s.Paint.Rule() == paint.NonZero {
		b.WriteString("F1")
	}
	for _, f := range figs {
		b.WriteString(f.Data())
	}
	e.Set("Data", b.String())
	return e
}

// trim writes the noesis trim attributes. Start and end are fractions of the
// path length, offset a fraction of a full turn.
func (c *Context) trim(e *scene.Element, target string, t *lottie.TrimShape) {
	attr := func(name string, v, skip float64) {
		if v != skip {
			e.SetFloat(name, v)
			c.Extensions = true
		}
	}
	attr("noesis:Path.TrimStart", t.Start.First/100, 0)
	attr("noesis:Path.TrimEnd", t.End.First/100, 1)
	attr("noesis:Path.TrimOffset", t.Offset.First/360, 0)

	if c.Timeline.Float(t.Start, target, "(noesis:Path.TrimStart)", 0.01, 0) {
		c.Extensions = true
	}
	if c.Timeline.Float(t.End, target, "(noesis:Path.TrimEnd)", 0.01, 0) {
		c.Extensions = true
	}
	if c.Timeline.Float(t.Offset, target, "(noesis:Path.TrimOffset)", 1.0/360, 0) {
		c.Extensions = true
	}
}
