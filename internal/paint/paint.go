// Package paint resolves fill and stroke shapes into brushes: solid colours,
// linear and radial gradients with unified RGBA stops, stroke geometry and
// dash patterns relative to the stroke width.
package paint

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
)

// FillRule of a fill ("r").
type FillRule int

const (
	NonZero FillRule = 1
	EvenOdd FillRule = 2
)

// LineCap of a stroke ("lc"). Zero means unspecified and renders flat.
type LineCap int

const (
	CapFlat   LineCap = 1
	CapRound  LineCap = 2
	CapSquare LineCap = 3
)

// LineJoin of a stroke ("lj"). Zero means unspecified.
type LineJoin int

const (
	JoinMiter LineJoin = 1
	JoinRound LineJoin = 2
	JoinBevel LineJoin = 3
)

// DefaultMiterLimit is the miter limit of the target renderer.
const DefaultMiterLimit = 10

// Brush is the colour source shared by fills and strokes. Exactly one of
// Color and Gradient is set.
type Brush struct {
	Opacity  anim.Property[float64] // percent
	Color    *anim.Property[anim.Color]
	Gradient *Gradient
}

// Fill paints the interior of the paths it applies to.
type Fill struct {
	Brush
	Rule FillRule
}

// Stroke paints the outline of the paths it applies to. DashArray and
// DashOffset are relative to the stroke width.
type Stroke struct {
	Brush
	Width      anim.Property[float64]
	Cap        LineCap
	Join       LineJoin
	MiterLimit anim.Property[float64]
	DashArray  []float64
	DashOffset float64
}

// Paint is either a fill or a stroke.
type Paint struct {
	Fill   *Fill
	Stroke *Stroke
}

// Decode reads a paint shape (ty fl, gf, st or gs).
func Decode(raw json.RawMessage, rep *diag.Reporter) (*Paint, error) {
	rec := jsonrec.Open("paint", raw, rep)
	rec.Skip("nm", "mn", "hd", "fillEnabled", "ix", "cix")
	ty := rec.MustString("ty")

	if bm := rec.Int("bm", 0); bm != 0 {
		rep.Warnf(diag.Unsupported, "Unsupported FillMode '%d'", bm)
	}

	rule := FillRule(rec.Int("r", int(EvenOdd)))
	if rule != NonZero && rule != EvenOdd {
		rep.Warnf(diag.Unsupported, "Unsupported FillRule '%d'", rule)
		rule = EvenOdd
	}

	var (
		brush Brush
		err   error
	)
	if brush.Opacity, err = anim.Float(rec.MustRaw("o"), 100, rep); err != nil {
		return nil, err
	}
	if c := rec.Raw("c"); c != nil {
		color, err := anim.ColorProperty(c, rep)
		if err != nil {
			return nil, err
		}
		brush.Color = &color
	}

	if ty == "gf" || ty == "gs" {
		if brush.Gradient, err = decodeGradient(rec, rep); err != nil {
			return nil, err
		}
	} else {
		rec.Skip("t", "g", "s", "e", "h", "a")
	}

	var stroke *Stroke
	if ty == "st" || ty == "gs" {
		if stroke, err = decodeStroke(rec, rep); err != nil {
			return nil, err
		}
		stroke.Brush = brush
	}

	if err := rec.Close(); err != nil {
		return nil, err
	}

	switch ty {
	case "fl", "gf":
		return &Paint{Fill: &Fill{Brush: brush, Rule: rule}}, nil
	case "st", "gs":
		return &Paint{Stroke: stroke}, nil
	}
	rep.Warnf(diag.Unsupported, "Unsupported paint type '%s'", ty)
	return &Paint{}, nil
}

func decodeGradient(rec *jsonrec.Record, rep *diag.Reporter) (*Gradient, error) {
	g := &Gradient{Kind: GradientKind(rec.Int("t", int(Linear)))}
	if g.Kind != Linear && g.Kind != Radial {
		rep.Warnf(diag.Unsupported, "Unsupported Gradient Type '%d'", g.Kind)
		g.Kind = Linear
	}

	var err error
	if g.Stops, err = decodeStops(rec.MustRaw("g"), rep); err != nil {
		return nil, err
	}
	if g.Start, err = anim.PointProperty(rec.MustRaw("s"), rep); err != nil {
		return nil, err
	}
	if g.End, err = anim.PointProperty(rec.MustRaw("e"), rep); err != nil {
		return nil, err
	}
	if g.Length, err = anim.Float(rec.Raw("h"), 0, rep); err != nil {
		return nil, err
	}
	if g.Angle, err = anim.Float(rec.Raw("a"), 0, rep); err != nil {
		return nil, err
	}
	return g, rec.Err()
}

func decodeStroke(rec *jsonrec.Record, rep *diag.Reporter) (*Stroke, error) {
	s := &Stroke{
		Cap:  LineCap(rec.Int("lc", 0)),
		Join: LineJoin(rec.Int("lj", 0)),
	}

	var err error
	if s.Width, err = anim.Float(rec.MustRaw("w"), 1, rep); err != nil {
		return nil, err
	}

	// "ml" is the static limit, "ml2" its animatable form.
	limit := rec.Float("ml", DefaultMiterLimit)
	if s.MiterLimit, err = anim.Float(rec.Raw("ml2"), limit, rep); err != nil {
		return nil, err
	}

	if d := rec.Raw("d"); d != nil {
		if err := s.decodeDashes(d, rep); err != nil {
			return nil, err
		}
	}
	return s, rec.Err()
}

// decodeDashes converts the absolute dash pattern into stroke-relative
// values. Dashes are dropped when they or the width are animated.
func (s *Stroke) decodeDashes(raw json.RawMessage, rep *diag.Reporter) error {
	if s.Width.Animated() {
		rep.Warnf(diag.Unsupported, "Dash not supported with animated Width")
		return nil
	}
	items, err := jsonrec.Elements(raw)
	if err != nil {
		return err
	}

	width := s.Width.First
	for _, item := range items {
		rec := jsonrec.Open("dash", item, rep)
		rec.Skip("nm", "mn")
		n := rec.String("n", "d")
		v, err := anim.Float(rec.MustRaw("v"), 0, rep)
		if err != nil {
			return err
		}
		if err := rec.Close(); err != nil {
			return err
		}

		if v.Animated() {
			rep.Warnf(diag.Unsupported, "Animated Dashes not supported")
			s.DashArray, s.DashOffset = nil, 0
			return nil
		}
		if width == 0 {
			continue
		}
		if n == "o" {
			s.DashOffset = v.First / width
		} else {
			s.DashArray = append(s.DashArray, v.First/width)
		}
	}
	return nil
}
