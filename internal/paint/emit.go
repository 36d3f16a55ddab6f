package paint

import (
	"fmt"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// kind returns the brush and the property ("Fill" or "Stroke") it is bound to.
func (p *Paint) kind() (*Brush, string) {
	switch {
	case p.Fill != nil:
		return &p.Fill.Brush, "Fill"
	case p.Stroke != nil:
		return &p.Stroke.Brush, "Stroke"
	}
	return nil, ""
}

// Rule returns the fill rule, EvenOdd for strokes.
func (p *Paint) Rule() FillRule {
	if p.Fill != nil {
		return p.Fill.Rule
	}
	return EvenOdd
}

// Animated reports whether applying the paint produces tracks.
func (p *Paint) Animated() bool {
	b, _ := p.kind()
	if b == nil {
		return false
	}
	if b.Opacity.Animated() {
		return true
	}
	if b.Color != nil && b.Color.Animated() {
		return true
	}
	if g := b.Gradient; g != nil {
		if g.Kind == Linear && anim.AnyAnimated(g.Start, g.End) {
			return true
		}
		for _, s := range g.Stops {
			if s.Offset.Animated() || s.Color.Animated() {
				return true
			}
		}
	}
	if s := p.Stroke; s != nil {
		return s.Width.Animated() || s.MiterLimit.Animated()
	}
	return false
}

// Apply writes the paint onto the path element e: inline attributes, brush
// property elements and, under target, tracks for animated channels.
func (p *Paint) Apply(e *scene.Element, target string, tl *scene.Timeline, rep *diag.Reporter) {
	b, kind := p.kind()
	if b == nil {
		return
	}

	if b.Color != nil && b.Opacity.First == 100 {
		e.Set(kind, scene.FormatRGB(b.Color.First))
	}
	if s := p.Stroke; s != nil {
		s.attributes(e)
	}

	switch {
	case b.Color != nil:
		if b.Opacity.First != 100 {
			e.Append(scene.New(e.Tag+"."+kind).Append(scene.New("SolidColorBrush",
				"Color", scene.FormatRGB(b.Color.First),
				"Opacity", scene.FormatFloat(b.Opacity.First/100))))
		}
	case b.Gradient != nil:
		e.Append(scene.New(e.Tag + "." + kind).Append(b.gradientBrush()))
	}

	if g := b.Gradient; g != nil && g.Kind == Radial {
		g.warnRadial(rep)
	}
	if target == "" {
		return
	}
	tl.Float(b.Opacity, target, kind+".Opacity", 0.01, 0)
	if b.Color != nil {
		tl.Color(*b.Color, target, kind+".Color", false)
	}
	if g := b.Gradient; g != nil {
		g.tracks(target, kind, tl)
	}
	if s := p.Stroke; s != nil {
		tl.Float(s.Width, target, "StrokeThickness", 1, 0)
		tl.Float(s.MiterLimit, target, "StrokeMiterLimit", 1, 0)
	}
}

func (s *Stroke) attributes(e *scene.Element) {
	if s.Width.First != 1 {
		e.SetFloat("StrokeThickness", s.Width.First)
	}

	capName := map[LineCap]string{CapRound: "Round", CapSquare: "Square"}[s.Cap]
	if capName != "" {
		e.Set("StrokeStartLineCap", capName)
		e.Set("StrokeEndLineCap", capName)
	}

	switch s.Join {
	case JoinMiter:
		if s.MiterLimit.First != DefaultMiterLimit {
			e.SetFloat("StrokeMiterLimit", s.MiterLimit.First)
		}
	case JoinRound:
		e.Set("StrokeLineJoin", "Round")
	case JoinBevel:
		e.Set("StrokeLineJoin", "Bevel")
	}

	if len(s.DashArray) > 0 {
		dashes := make([]string, len(s.DashArray))
		for i, d := range s.DashArray {
			dashes[i] = scene.FormatFloat(d)
		}
		e.Set("StrokeDashArray", strings.Join(dashes, ","))
		if s.DashOffset != 0 {
			e.SetFloat("StrokeDashOffset", s.DashOffset)
		}
		if capName != "" {
			e.Set("StrokeDashCap", capName)
		}
	}
}

func (b *Brush) gradientBrush() *scene.Element {
	g := b.Gradient
	start, end := g.Start.First, g.End.First

	var brush *scene.Element
	if g.Kind == Radial {
		brush = scene.New("RadialGradientBrush", "MappingMode", "Absolute")
		center, radius, origin := RadialGeometry(start, end, g.Length.First, g.Angle.First)
		if center != (anim.Point{}) {
			brush.Set("Center", scene.FormatPoint(center))
		}
		if radius != 0 {
			brush.SetFloat("RadiusX", radius)
			brush.SetFloat("RadiusY", radius)
		}
		if origin != (anim.Point{}) {
			brush.Set("GradientOrigin", scene.FormatPoint(origin))
		}
	} else {
		brush = scene.New("LinearGradientBrush",
			"MappingMode", "Absolute",
			"StartPoint", scene.FormatPoint(start),
			"EndPoint", scene.FormatPoint(end))
	}
	if b.Opacity.First != 100 {
		brush.SetFloat("Opacity", b.Opacity.First/100)
	}
	for _, s := range g.Stops {
		brush.Append(scene.New("GradientStop",
			"Offset", scene.FormatFloat(s.Offset.First),
			"Color", scene.FormatARGB(s.Color.First)))
	}
	return brush
}

func (g *Gradient) tracks(target, kind string, tl *scene.Timeline) {
	if g.Kind == Linear {
		tl.Point(g.Start, target, kind+".StartPoint")
		tl.Point(g.End, target, kind+".EndPoint")
	}
	for i, s := range g.Stops {
		tl.Float(s.Offset, target, fmt.Sprintf("%s.GradientStops[%d].Offset", kind, i), 1, 0)
		tl.Color(s.Color, target, fmt.Sprintf("%s.GradientStops[%d].Color", kind, i), true)
	}
}

// warnRadial reports animated radial parameters; the radial conversion is
// not linear in its inputs, so their frame 0 values are used.
func (g *Gradient) warnRadial(rep *diag.Reporter) {
	if g.Start.Animated() {
		rep.Warnf(diag.Unsupported, "Radial animated Start Point not supported")
	}
	if g.End.Animated() {
		rep.Warnf(diag.Unsupported, "Radial animated End Point not supported")
	}
	if g.Length.Animated() {
		rep.Warnf(diag.Unsupported, "Radial animated Highlight Length not supported")
	}
	if g.Angle.Animated() {
		rep.Warnf(diag.Unsupported, "Radial animated Highlight Angle not supported")
	}
}
