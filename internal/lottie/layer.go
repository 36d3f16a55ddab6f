package lottie

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
	"github.com/ivlev/lottie2xaml/internal/transform"
)

// LayerKind is the layer type tag ("ty").
type LayerKind int

const (
	Precomp LayerKind = iota
	Solid
	Image
	Null
	ShapeLayer
	TextLayer
)

var kindNames = []string{"Precomp", "Solid", "Image", "Null", "Shape", "Text"}

func (k LayerKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Layer is one decoded layer. Layers are values: expanding the same
// precomposition twice never shares mutable state.
type Layer struct {
	Index     int
	Name      string
	Parent    *int
	Kind      LayerKind
	Transform *transform.Transform

	// In and Out are the raw layer window; StartTime shifts precomp content.
	In, Out   float64
	StartTime float64
	Hidden    bool

	RefID string

	SolidWidth, SolidHeight float64
	SolidColor              string

	Shapes []Shape
	Text   *Text
}

// unsupportedLayerFields are layer features reported and ignored.
var unsupportedLayerFields = []struct{ key, name string }{
	{"masksProperties", "Masks"},
	{"tt", "Track mattes"},
	{"td", "Track matte sources"},
	{"ef", "Effects"},
	{"sy", "Layer styles"},
	{"tm", "Time remapping"},
}

func decodeLayer(raw json.RawMessage, rep *diag.Reporter) (Layer, error) {
	var l Layer
	rec := jsonrec.Open("layer", raw, rep)
	if err := rec.Err(); err != nil {
		return l, err
	}
	rec.Skip("cl", "ln", "ao", "mn", "hasMask", "ct", "w", "h", "sid")

	l.Name = rec.MustString("nm")
	l.Index = rec.MustInt("ind")
	l.Kind = LayerKind(rec.MustInt("ty"))
	l.Hidden = rec.Bool("hd", false)
	l.StartTime = rec.Float("st", 0)
	l.RefID = rec.String("refId", "")

	if rec.Has("parent") {
		p := rec.Int("parent", 0)
		l.Parent = &p
	}

	l.In = rec.MustFloat("ip")
	l.Out = rec.MustFloat("op")

	if rec.Bool("ddd", false) {
		rep.Warnf(diag.Unsupported, "3D layers not supported")
	}
	if bm := rec.Int("bm", 0); bm != 0 {
		rep.Warnf(diag.Unsupported, "Unsupported BlendMode '%d'", bm)
	}
	if sr := rec.Float("sr", 1); sr != 1 {
		rep.Warnf(diag.Unsupported, "Time Stretch not supported")
	}
	for _, f := range unsupportedLayerFields {
		if rec.Has(f.key) {
			rep.Warnf(diag.Unsupported, "%s not supported", f.name)
		}
		rec.Skip(f.key)
	}
	if l.Kind < Precomp || l.Kind > TextLayer {
		rep.Warnf(diag.Unsupported, "Unsupported layer type '%d'", int(l.Kind))
	}

	ks := rec.MustRaw("ks")
	shapes := rec.Raw("shapes")
	text := rec.Raw("t")

	if l.Kind == Solid {
		l.SolidWidth = rec.MustFloat("sw")
		l.SolidHeight = rec.MustFloat("sh")
		l.SolidColor = strings.ToUpper(rec.MustString("sc"))
	} else {
		rec.Skip("sw", "sh", "sc")
	}
	if (l.Kind == Precomp || l.Kind == Image) && l.RefID == "" {
		rec.MustRaw("refId")
	}
	if l.Kind == TextLayer && text == nil {
		rec.MustRaw("t")
	}

	if err := rec.Close(); err != nil {
		return l, err
	}

	var err error
	if l.Transform, err = transform.Decode(ks, rep); err != nil {
		return l, err
	}
	if l.Shapes, err = decodeShapes(shapes, rep); err != nil {
		return l, err
	}
	if l.Kind == TextLayer {
		if l.Text, err = decodeText(text, rep); err != nil {
			return l, err
		}
	}
	return l, nil
}

// decodeLayers reads a layer list and sorts it by descending index, which is
// the rendering order: lower indices are drawn last, on top.
func decodeLayers(raw json.RawMessage, rep *diag.Reporter) ([]Layer, error) {
	items, err := jsonrec.Elements(raw)
	if err != nil {
		return nil, err
	}
	layers := make([]Layer, 0, len(items))
	for _, item := range items {
		l, err := decodeLayer(item, rep)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Index > layers[j].Index })
	return layers, nil
}

// Opacity returns the layer opacity, or nil for layers that have none.
func (l *Layer) Opacity() *anim.Property[float64] {
	if l.Kind == Null {
		return nil
	}
	return &l.Transform.Opacity
}
