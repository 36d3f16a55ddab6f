package lottie

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/geometry"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
	"github.com/ivlev/lottie2xaml/internal/paint"
	"github.com/ivlev/lottie2xaml/internal/transform"
)

// Shape is one entry of a shape list. The order of a list matters: it is
// both the drawing order and the scope in which paints apply.
type Shape interface {
	Type() string
	Label() string
}

// Geometry is a shape contributing a figure to the paints that follow it.
type Geometry interface {
	Shape
	Outline() *geometry.Figure
}

// PathShape is a free-form path ("sh").
type PathShape struct {
	Name   string
	Figure *geometry.Figure
}

// RectShape is a rectangle ("rc").
type RectShape struct {
	Name   string
	Figure *geometry.Figure
}

// EllipseShape is an ellipse ("el").
type EllipseShape struct {
	Name   string
	Figure *geometry.Figure
}

// GroupShape is a nested shape list ("gr"). Its transform, if any, is the
// "tr" entry of Items.
type GroupShape struct {
	Name  string
	Items []Shape
}

// PaintShape is a fill or stroke ("fl", "gf", "st", "gs").
type PaintShape struct {
	Name  string
	Kind  string
	Paint *paint.Paint
}

// TrimMode tells how a trim applies to several paths.
type TrimMode int

const (
	TrimIndividually   TrimMode = 0
	TrimSimultaneously TrimMode = 1
)

// TrimShape reveals part of the paths in its scope ("tm"). Start and End
// are percent, Offset degrees.
type TrimShape struct {
	Name   string
	Start  anim.Property[float64]
	End    anim.Property[float64]
	Offset anim.Property[float64]
	Mode   TrimMode
}

// Animated reports whether any trim parameter changes over time.
func (t *TrimShape) Animated() bool {
	return anim.AnyAnimated(t.Start, t.End, t.Offset)
}

// TransformShape is the transform of a group ("tr").
type TransformShape struct {
	Transform *transform.Transform
}

// UnknownShape keeps shapes the converter cannot draw so they can be reported.
type UnknownShape struct {
	Kind string
	Name string
}

func (s *PathShape) Type() string      { return "sh" }
func (s *RectShape) Type() string      { return "rc" }
func (s *EllipseShape) Type() string   { return "el" }
func (s *GroupShape) Type() string     { return "gr" }
func (s *PaintShape) Type() string     { return s.Kind }
func (s *TrimShape) Type() string      { return "tm" }
func (s *TransformShape) Type() string { return "tr" }
func (s *UnknownShape) Type() string   { return s.Kind }

func (s *PathShape) Label() string      { return s.Name }
func (s *RectShape) Label() string      { return s.Name }
func (s *EllipseShape) Label() string   { return s.Name }
func (s *GroupShape) Label() string     { return s.Name }
func (s *PaintShape) Label() string     { return s.Name }
func (s *TrimShape) Label() string      { return s.Name }
func (s *TransformShape) Label() string { return "Transform" }
func (s *UnknownShape) Label() string   { return s.Name }

func (s *PathShape) Outline() *geometry.Figure    { return s.Figure }
func (s *RectShape) Outline() *geometry.Figure    { return s.Figure }
func (s *EllipseShape) Outline() *geometry.Figure { return s.Figure }

// decodeShapes reads a shape list. Hidden shapes are dropped.
func decodeShapes(raw json.RawMessage, rep *diag.Reporter) ([]Shape, error) {
	if raw == nil {
		return nil, nil
	}
	items, err := jsonrec.Elements(raw)
	if err != nil {
		return nil, err
	}
	shapes := make([]Shape, 0, len(items))
	for _, item := range items {
		s, err := decodeShape(item, rep)
		if err != nil {
			return nil, err
		}
		if s != nil {
			shapes = append(shapes, s)
		}
	}
	return shapes, nil
}

func decodeShape(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	var head struct {
		Ty string          `json:"ty"`
		Nm string          `json:"nm"`
		Hd json.RawMessage `json:"hd"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, diag.Errorf(diag.InvalidValue, "invalid shape: %v", err)
	}
	if head.Ty == "" {
		return nil, diag.Errorf(diag.MissingField, "Field not found 'shape.ty'")
	}
	if string(head.Hd) == "true" {
		return nil, nil
	}

	switch head.Ty {
	case "sh":
		return decodePath(raw, rep)
	case "rc":
		return decodeRect(raw, rep)
	case "el":
		return decodeEllipse(raw, rep)
	case "gr":
		return decodeGroup(raw, rep)
	case "fl", "gf", "st", "gs":
		p, err := paint.Decode(raw, rep)
		if err != nil {
			return nil, err
		}
		return &PaintShape{Name: head.Nm, Kind: head.Ty, Paint: p}, nil
	case "tm":
		return decodeTrim(raw, rep)
	case "tr":
		t, err := transform.Decode(raw, rep)
		if err != nil {
			return nil, err
		}
		return &TransformShape{Transform: t}, nil
	}
	return &UnknownShape{Kind: head.Ty, Name: head.Nm}, nil
}

func openShape(name string, raw json.RawMessage, rep *diag.Reporter) *jsonrec.Record {
	rec := jsonrec.Open(name, raw, rep)
	rec.Skip("ty", "nm", "mn", "hd", "ix", "ind", "cix", "np")
	if bm := rec.Int("bm", 0); bm != 0 {
		rep.Warnf(diag.Unsupported, "Unsupported BlendMode '%d' on %s", bm, name)
	}
	return rec
}

func decodePath(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	rec := openShape("shape", raw, rep)
	rec.Skip("d")
	s := &PathShape{Name: rec.String("nm", "")}
	ks := rec.MustRaw("ks")
	if err := rec.Err(); err != nil {
		return nil, err
	}
	var err error
	if s.Figure, err = geometry.DecodePath(ks, rep); err != nil {
		return nil, err
	}
	return s, rec.Close()
}

func decodeRect(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	rec := openShape("rectangle", raw, rep)
	name := rec.String("nm", "")
	direction := rec.Int("d", 1)
	rawSize, rawPos, rawRound := rec.MustRaw("s"), rec.MustRaw("p"), rec.Raw("r")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	size, err := anim.PointProperty(rawSize, rep)
	if err != nil {
		return nil, err
	}
	pos, err := anim.PointProperty(rawPos, rep)
	if err != nil {
		return nil, err
	}
	round, err := anim.Float(rawRound, 0, rep)
	if err != nil {
		return nil, err
	}
	return &RectShape{Name: name, Figure: geometry.Rect(size, pos, round, direction, rep)}, nil
}

func decodeEllipse(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	rec := openShape("ellipse", raw, rep)
	name := rec.String("nm", "")
	direction := rec.Int("d", 1)
	rawSize, rawPos := rec.MustRaw("s"), rec.MustRaw("p")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	size, err := anim.PointProperty(rawSize, rep)
	if err != nil {
		return nil, err
	}
	pos, err := anim.PointProperty(rawPos, rep)
	if err != nil {
		return nil, err
	}
	return &EllipseShape{Name: name, Figure: geometry.Ellipse(size, pos, direction, rep)}, nil
}

func decodeGroup(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	rec := openShape("group", raw, rep)
	g := &GroupShape{Name: rec.String("nm", "")}
	it := rec.Raw("it")
	if err := rec.Close(); err != nil {
		return nil, err
	}
	var err error
	g.Items, err = decodeShapes(it, rep)
	return g, err
}

func decodeTrim(raw json.RawMessage, rep *diag.Reporter) (Shape, error) {
	rec := openShape("trim_path", raw, rep)
	t := &TrimShape{Name: rec.String("nm", ""), Mode: TrimMode(rec.Int("m", int(TrimIndividually)))}
	rawStart, rawEnd, rawOffset := rec.MustRaw("s"), rec.MustRaw("e"), rec.MustRaw("o")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	var err error
	if t.Start, err = anim.Float(rawStart, 0, rep); err != nil {
		return nil, err
	}
	if t.End, err = anim.Float(rawEnd, 100, rep); err != nil {
		return nil, err
	}
	t.Offset, err = anim.Float(rawOffset, 0, rep)
	return t, err
}
