package anim

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
)

// Splitter converts one exported value, always presented as a JSON array,
// into per-channel values.
type Splitter[T comparable] func(raw json.RawMessage) ([]T, error)

// chainEntry is one reconstructed keyframe with all channels still together.
type chainEntry[T comparable] struct {
	time     float64
	value    []T
	easing   Easing
	tangents *Tangents
}

// Decode reads an animatable property record ({"k": ...}) into one Property
// per channel produced by split.
//
// Two keyframe encodings exist. The current one stores only a start value
// and a start frame per keyframe; a segment ends at the next keyframe's start
// value. Older exporters also stored the end value ("e") of each segment and
// left the final keyframe with a frame only. Both are normalised into a chain
// of (time, value, easing) where value is held from time on and easing is the
// interpolation that arrives at it.
func Decode[T comparable](raw json.RawMessage, split Splitter[T], rep *diag.Reporter) ([]Property[T], error) {
	rec := jsonrec.Open("animation", raw, rep)
	if err := rec.Err(); err != nil {
		return nil, err
	}
	props, err := decodeRecord(rec, split, rep)
	if err != nil {
		return nil, err
	}
	return props, rec.Close()
}

func decodeRecord[T comparable](rec *jsonrec.Record, split Splitter[T], rep *diag.Reporter) ([]Property[T], error) {
	rec.Skip("a", "ix", "l", "sid")
	k := rec.MustRaw("k")
	if rec.Has("x") {
		rec.Skip("x")
		rep.Warnf(diag.Unsupported, "Property expressions not supported")
	}
	if err := rec.Err(); err != nil {
		return nil, err
	}

	if !isKeyframeList(k) {
		values, err := split(jsonrec.AsList(k))
		if err != nil {
			return nil, err
		}
		props := make([]Property[T], len(values))
		for i, v := range values {
			props[i] = Constant(v)
		}
		return props, nil
	}

	chain, err := reconstruct(k, split, rep)
	if err != nil {
		return nil, err
	}

	arity := len(chain[0].value)
	for i, e := range chain {
		if len(e.value) != arity {
			return nil, diag.Errorf(diag.InvalidValue, "keyframe %d has %d channels, expected %d", i, len(e.value), arity)
		}
	}

	props := make([]Property[T], arity)
	for c := range props {
		kfs := make([]Keyframe[T], len(chain))
		for i, e := range chain {
			kfs[i] = Keyframe[T]{Time: e.time, Value: e.value[c], Easing: e.easing, Tangents: e.tangents}
		}
		props[c] = Property[T]{First: chain[0].value[c], Keyframes: kfs}.canonical()
	}
	return props, nil
}

func reconstruct[T comparable](k json.RawMessage, split Splitter[T], rep *diag.Reporter) ([]chainEntry[T], error) {
	items, err := jsonrec.Elements(k)
	if err != nil {
		return nil, err
	}

	var (
		chain    []chainEntry[T]
		easing   = Easing{Kind: Discrete}
		endValue []T
		tangents *Tangents
	)

	for i, item := range items {
		kr := jsonrec.Open("keyframe", item, rep)
		kr.Skip("n")
		time := kr.MustFloat("t")

		var start []T
		if s := kr.Raw("s"); s != nil {
			if start, err = split(jsonrec.AsList(s)); err != nil {
				return nil, err
			}
		}
		hold := kr.Bool("h", false)
		last := i == len(items)-1

		value := start
		if last && value == nil {
			// Legacy encoding: the final keyframe only closes the previous segment.
			value = endValue
		}
		if value == nil && kr.Err() == nil {
			return nil, diag.Errorf(diag.InvalidValue, "keyframe %d at frame %s has no value", i, formatFrame(time))
		}
		chain = append(chain, chainEntry[T]{time: time, value: value, easing: easing, tangents: tangents})

		if !last {
			tangents = readTangents(kr)
			if hold {
				kr.Skip("o", "i", "e")
				easing = Easing{Kind: Discrete}
				endValue = start
			} else {
				endValue = nil
				if e := kr.Raw("e"); e != nil {
					if endValue, err = split(jsonrec.AsList(e)); err != nil {
						return nil, err
					}
				}
				if easing, err = readEasing(kr); err != nil {
					return nil, err
				}
			}
		}

		if err := kr.Close(); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func readTangents(kr *jsonrec.Record) *Tangents {
	var t Tangents
	kr.Decode("to", &t.Out)
	kr.Decode("ti", &t.In)
	if t.Out == nil && t.In == nil {
		return nil
	}
	return &t
}

// readEasing turns the bezier handles of a segment into an easing. Handles
// whose x and y agree describe a straight line and degenerate to Linear.
func readEasing(kr *jsonrec.Record) (Easing, error) {
	out, in := kr.Raw("o"), kr.Raw("i")
	if out == nil || in == nil {
		return Easing{Kind: Linear}, nil
	}
	x1, y1, err := handle(out)
	if err != nil {
		return Easing{}, err
	}
	x2, y2, err := handle(in)
	if err != nil {
		return Easing{}, err
	}
	if x1 != y1 || x2 != y2 {
		return Easing{Kind: Spline, X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
	}
	return Easing{Kind: Linear}, nil
}

func handle(raw json.RawMessage) (x, y float64, err error) {
	var h struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
	}
	if err = json.Unmarshal(raw, &h); err != nil {
		return 0, 0, diag.Errorf(diag.InvalidValue, "invalid easing handle: %v", err)
	}
	if x, err = jsonrec.Number(h.X); err != nil {
		return 0, 0, err
	}
	y, err = jsonrec.Number(h.Y)
	return x, y, err
}

// isKeyframeList reports whether k is a list of keyframe records rather than
// a static value (number, vector or geometry object).
func isKeyframeList(k json.RawMessage) bool {
	if !jsonrec.IsArray(k) {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(k, &items); err != nil || len(items) == 0 {
		return false
	}
	return jsonrec.IsObject(items[0])
}

// Floats decodes a numeric property into n scalar channels. Positions can be
// exported as separate x and y properties instead of one vector.
func Floats(raw json.RawMessage, n int, rep *diag.Reporter) ([]Property[float64], error) {
	rec := jsonrec.Open("animation", raw, rep)
	if err := rec.Err(); err != nil {
		return nil, err
	}
	if !rec.Has("k") && rec.Has("x") && n == 2 {
		rec.Skip("s", "a", "ix", "l")
		x, err := Floats(rec.MustRaw("x"), 1, rep)
		if err != nil {
			return nil, err
		}
		y, err := Floats(rec.MustRaw("y"), 1, rep)
		if err != nil {
			return nil, err
		}
		return append(x, y...), rec.Close()
	}
	props, err := decodeRecord(rec, FloatSplitter(n), rep)
	if err != nil {
		return nil, err
	}
	return props, rec.Close()
}

// FloatsOr is Floats with constant defaults used when raw is absent.
func FloatsOr(raw json.RawMessage, rep *diag.Reporter, defs ...float64) ([]Property[float64], error) {
	if jsonrec.IsNull(raw) {
		props := make([]Property[float64], len(defs))
		for i, d := range defs {
			props[i] = Constant(d)
		}
		return props, nil
	}
	return Floats(raw, len(defs), rep)
}

// Float decodes a scalar property, using def when raw is absent.
func Float(raw json.RawMessage, def float64, rep *diag.Reporter) (Property[float64], error) {
	props, err := FloatsOr(raw, rep, def)
	if err != nil {
		return Property[float64]{}, err
	}
	return props[0], nil
}

// PointProperty decodes a 2-D vector property as a single channel.
func PointProperty(raw json.RawMessage, rep *diag.Reporter) (Property[Point], error) {
	return single(raw, PointSplitter, rep)
}

// ColorProperty decodes an RGB(A) colour property as a single channel.
func ColorProperty(raw json.RawMessage, rep *diag.Reporter) (Property[Color], error) {
	return single(raw, ColorSplitter, rep)
}

func single[T comparable](raw json.RawMessage, split Splitter[T], rep *diag.Reporter) (Property[T], error) {
	props, err := Decode(raw, split, rep)
	if err != nil {
		return Property[T]{}, err
	}
	if len(props) != 1 {
		return Property[T]{}, diag.Errorf(diag.InvalidValue, "expected a single channel, got %d", len(props))
	}
	return props[0], nil
}

// FloatSplitter keeps the first n components of a numeric vector.
func FloatSplitter(n int) Splitter[float64] {
	return func(raw json.RawMessage) ([]float64, error) {
		v, err := numbers(raw, n)
		if err != nil {
			return nil, err
		}
		return v[:n], nil
	}
}

// PointSplitter reads [x, y, ...] as one position channel.
func PointSplitter(raw json.RawMessage) ([]Point, error) {
	v, err := numbers(raw, 2)
	if err != nil {
		return nil, err
	}
	return []Point{{v[0], v[1]}}, nil
}

// ColorSplitter reads [r, g, b, ...] in 0..1 as one opaque colour channel.
func ColorSplitter(raw json.RawMessage) ([]Color, error) {
	v, err := numbers(raw, 3)
	if err != nil {
		return nil, err
	}
	return []Color{RGB(v[0], v[1], v[2])}, nil
}

// RGB quantises 0..1 components into an opaque colour.
func RGB(r, g, b float64) Color {
	return Color{R: Quantize(r), G: Quantize(g), B: Quantize(b), A: 255}
}

// Quantize converts a 0..1 component to 0..255, truncating like the exporter's consumers do.
func Quantize(v float64) uint8 {
	i := int(v * 255)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return uint8(i)
}

func numbers(raw json.RawMessage, min int) ([]float64, error) {
	var v []float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, diag.Errorf(diag.InvalidValue, "expected numbers, got %s", string(raw))
	}
	if len(v) < min {
		return nil, diag.Errorf(diag.InvalidValue, "expected at least %d numbers, got %d", min, len(v))
	}
	return v, nil
}

func formatFrame(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
