package anim

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ivlev/lottie2xaml/internal/diag"
)

func decodeFloats(t *testing.T, src string, n int) ([]Property[float64], *diag.Collector) {
	t.Helper()
	c := &diag.Collector{}
	props, err := Floats(json.RawMessage(src), n, diag.NewReporter(c))
	if err != nil {
		t.Fatalf("Floats(%s): %v", src, err)
	}
	return props, c
}

func TestDecodeStatic(t *testing.T) {
	props, _ := decodeFloats(t, `{"a":0,"k":[10,20,0],"ix":2}`, 2)
	if len(props) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(props))
	}
	if props[0].First != 10 || props[1].First != 20 {
		t.Errorf("unexpected values %v %v", props[0].First, props[1].First)
	}
	if AnyAnimated(props...) {
		t.Error("static property reported as animated")
	}
}

func TestDecodeScalarNumber(t *testing.T) {
	props, _ := decodeFloats(t, `{"a":0,"k":45}`, 1)
	if props[0].First != 45 {
		t.Errorf("expected 45, got %v", props[0].First)
	}
}

func TestDecodeCollapsesEqualKeyframes(t *testing.T) {
	src := `{"a":1,"k":[
		{"t":0,"s":[50,5],"o":{"x":[0.3],"y":[0]},"i":{"x":[0.7],"y":[1]}},
		{"t":10,"s":[50,6],"o":{"x":[0.3],"y":[0]},"i":{"x":[0.7],"y":[1]}},
		{"t":20,"s":[50,7]}]}`
	props, _ := decodeFloats(t, src, 2)

	if props[0].Animated() {
		t.Error("channel with equal keyframes must collapse to a constant")
	}
	if props[0].First != 50 {
		t.Errorf("collapsed channel should keep its value, got %v", props[0].First)
	}
	if !props[1].Animated() || len(props[1].Keyframes) != 3 {
		t.Fatalf("second channel should keep 3 keyframes, got %+v", props[1])
	}
}

func TestDecodeLegacyMatchesCurrent(t *testing.T) {
	current := `{"a":1,"k":[
		{"t":0,"s":[0],"o":{"x":[0.5],"y":[0.5]},"i":{"x":[0.5],"y":[0.5]}},
		{"t":10,"s":[100],"o":{"x":[0.5],"y":[0.5]},"i":{"x":[0.5],"y":[0.5]}},
		{"t":20,"s":[30]}]}`
	legacy := `{"a":1,"k":[
		{"t":0,"s":[0],"e":[100],"o":{"x":[0.5],"y":[0.5]},"i":{"x":[0.5],"y":[0.5]}},
		{"t":10,"s":[100],"e":[30],"o":{"x":[0.5],"y":[0.5]},"i":{"x":[0.5],"y":[0.5]}},
		{"t":20}]}`

	a, _ := decodeFloats(t, current, 1)
	b, _ := decodeFloats(t, legacy, 1)

	if diff := cmp.Diff(a[0], b[0]); diff != "" {
		t.Errorf("legacy chain differs (-current +legacy):\n%s", diff)
	}

	want := []EasingKind{Discrete, Linear, Linear}
	for i, k := range a[0].Keyframes {
		if k.Easing.Kind != want[i] {
			t.Errorf("keyframe %d: easing %v, want %v", i, k.Easing.Kind, want[i])
		}
	}
}

func TestDecodeHold(t *testing.T) {
	src := `{"a":1,"k":[{"t":0,"s":[0],"h":1},{"t":10,"s":[100]}]}`
	props, c := decodeFloats(t, src, 1)

	kfs := props[0].Keyframes
	if len(kfs) != 2 {
		t.Fatalf("expected 2 keyframes, got %d", len(kfs))
	}
	if kfs[1].Easing.Kind != Discrete {
		t.Errorf("hold segment should arrive discretely, got %v", kfs[1].Easing.Kind)
	}
	if len(c.Items) != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Items)
	}
}

func TestDecodeSplineEasing(t *testing.T) {
	src := `{"a":1,"k":[
		{"t":0,"s":[0],"o":{"x":[0.333],"y":[0]},"i":{"x":[0.667],"y":[1]}},
		{"t":30,"s":[360]}]}`
	props, _ := decodeFloats(t, src, 1)

	want := Easing{Kind: Spline, X1: 0.333, Y1: 0, X2: 0.667, Y2: 1}
	if diff := cmp.Diff(want, props[0].Keyframes[1].Easing); diff != "" {
		t.Errorf("easing mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSeparateDimensions(t *testing.T) {
	src := `{"s":true,"x":{"a":0,"k":12},"y":{"a":1,"k":[{"t":0,"s":[0]},{"t":5,"s":[8]}]}}`
	props, c := decodeFloats(t, src, 2)

	if props[0].First != 12 || props[0].Animated() {
		t.Errorf("x channel: %+v", props[0])
	}
	if !props[1].Animated() {
		t.Error("y channel should be animated")
	}
	if len(c.Items) != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Items)
	}
}

func TestDecodeExpressionWarns(t *testing.T) {
	_, c := decodeFloats(t, `{"a":0,"k":1,"x":"wiggle(1,2)"}`, 1)
	if c.Count(diag.Unsupported) != 1 {
		t.Errorf("expected one unsupported warning, got %v", c.Items)
	}
}

func TestDecodeUnknownFieldWarns(t *testing.T) {
	_, c := decodeFloats(t, `{"a":0,"k":1,"zz":3}`, 1)
	if c.Count(diag.UnknownField) != 1 {
		t.Errorf("expected one unknown-field warning, got %v", c.Items)
	}
}

func TestDecodeMissingValueIsFatal(t *testing.T) {
	_, err := Floats(json.RawMessage(`{"a":0}`), 1, diag.NewReporter(nil))
	if !diag.IsKind(err, diag.MissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestDecodeArityMismatchIsFatal(t *testing.T) {
	src := `{"a":1,"k":[{"t":0,"s":[0,1]},{"t":5,"s":[1]}]}`
	_, err := Decode(json.RawMessage(src), func(raw json.RawMessage) ([]float64, error) {
		var v []float64
		err := json.Unmarshal(raw, &v)
		return v, err
	}, diag.NewReporter(nil))
	if !diag.IsKind(err, diag.InvalidValue) {
		t.Fatalf("expected invalid value error, got %v", err)
	}
}

func TestColorQuantised(t *testing.T) {
	p, err := ColorProperty(json.RawMessage(`{"a":0,"k":[1,0.5,-0.2,1]}`), diag.NewReporter(nil))
	if err != nil {
		t.Fatal(err)
	}
	want := Color{R: 255, G: 127, B: 0, A: 255}
	if p.First != want {
		t.Errorf("got %+v, want %+v", p.First, want)
	}
}

func TestAt(t *testing.T) {
	p := Property[float64]{
		First: 0,
		Keyframes: []Keyframe[float64]{
			{Time: 0, Value: 0, Easing: Easing{Kind: Discrete}},
			{Time: 10, Value: 100, Easing: Easing{Kind: Linear}},
			{Time: 20, Value: 50, Easing: Easing{Kind: Discrete}},
		},
	}

	tests := []struct {
		frame float64
		want  float64
	}{
		{-5, 0},
		{5, 50},
		{10, 100},
		{15, 100}, // hold until the discrete key
		{25, 50},
	}
	for _, tt := range tests {
		if got := p.At(tt.frame, LerpFloat); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestCubicBezierEndpoints(t *testing.T) {
	e := Easing{Kind: Spline, X1: 0.42, Y1: 0, X2: 0.58, Y2: 1}
	if v := cubicBezier(e, 0); math.Abs(v) > 1e-6 {
		t.Errorf("f(0) = %v", v)
	}
	if v := cubicBezier(e, 1); math.Abs(v-1) > 1e-6 {
		t.Errorf("f(1) = %v", v)
	}
	if v := cubicBezier(e, 0.5); math.Abs(v-0.5) > 1e-3 {
		t.Errorf("symmetric curve f(0.5) = %v", v)
	}
}
