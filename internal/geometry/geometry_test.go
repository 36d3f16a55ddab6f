package geometry

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

func TestSynthesizeSegmentCount(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	zero := make([]Point, 4)

	tests := []struct {
		name   string
		closed bool
		want   int
	}{
		{"closed", true, 1 + 3*4},
		{"open", false, 1 + 3*3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(Vertices{Closed: tt.closed, V: square, In: zero, Out: zero})
			if len(got) != tt.want {
				t.Errorf("expected %d channels, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSynthesizeTangents(t *testing.T) {
	v := Vertices{
		V:   []Point{{0, 0}, {10, 0}},
		In:  []Point{{0, 0}, {-2, 1}},
		Out: []Point{{3, 0}, {0, 0}},
	}
	got := Synthesize(v)
	want := []Point{{0, 0}, {3, 0}, {8, 1}, {10, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}
}

func TestClosedSquareIsStraight(t *testing.T) {
	src := `{"a":0,"k":{"c":true,"i":[[0,0],[0,0],[0,0],[0,0]],"o":[[0,0],[0,0],[0,0],[0,0]],"v":[[0,0],[10,0],[10,10],[0,10]]}}`
	f, err := DecodePath(json.RawMessage(src), diag.NewReporter(nil))
	if err != nil {
		t.Fatal(err)
	}
	if n := f.Count(Line); n != 4 {
		t.Errorf("expected 4 lines, got %d", n)
	}
	if n := f.Count(Bezier); n != 0 {
		t.Errorf("expected no curves, got %d", n)
	}
	if got, want := f.Data(), "M0,0L10,0 10,10 0,10 0,0Z"; got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}
}

func TestAnimatedSegmentsStayCurves(t *testing.T) {
	src := `{"a":1,"k":[
		{"t":0,"s":[{"c":false,"i":[[0,0],[0,0]],"o":[[0,0],[0,0]],"v":[[0,0],[10,0]]}]},
		{"t":10,"s":[{"c":false,"i":[[0,0],[0,0]],"o":[[0,0],[0,0]],"v":[[0,0],[20,0]]}]}]}`
	f, err := DecodePath(json.RawMessage(src), diag.NewReporter(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !f.Animated() {
		t.Fatal("figure should be animated")
	}
	if f.Count(Bezier) != 1 {
		t.Errorf("animated segment must stay a curve, got %+v", f.Segments)
	}

	tl := &scene.Timeline{}
	e := f.Element(0, "Path0", tl)
	if e.Children[0].Tag != "BezierSegment" {
		t.Errorf("segment element = %s", e.Children[0].Tag)
	}
	var props []string
	for _, tr := range tl.Tracks {
		props = append(props, tr.Property)
	}
	want := []string{"Data.Figures[0].Segments[0].Point2", "Data.Figures[0].Segments[0].Point3"}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("tracks mismatch (-want +got):\n%s", diff)
	}
}

func TestRect(t *testing.T) {
	size := anim.Constant(Point{100, 50})
	pos := anim.Constant(Point{0, 0})

	tests := []struct {
		name      string
		roundness float64
		direction int
		arcs      int
		data      string
	}{
		{"square corners", 0, 1, 0, "M50,-25h-100v50h100Z"},
		{"square corners reversed", 0, 2, 0, "M50,-25v50h-100v-50Z"},
		{"rounded", 25, 1, 4, "M50,0a25,25,0,0,0,-25,-25h-50a25,25,0,0,0,-25,25a25,25,0,0,0,25,25h50a25,25,0,0,0,25,-25Z"},
		{"rounded reversed", 25, 2, 4, "M50,0a25,25,0,0,1,-25,25h-50a25,25,0,0,1,-25,-25a25,25,0,0,1,25,-25h50a25,25,0,0,1,25,25Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Rect(size, pos, anim.Constant(tt.roundness), tt.direction, diag.NewReporter(nil))
			if n := f.Count(Arc); n != tt.arcs {
				t.Errorf("expected %d arcs, got %d", tt.arcs, n)
			}
			if !f.Closed {
				t.Error("rectangle must be closed")
			}
			if got := f.Data(); got != tt.data {
				t.Errorf("Data() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestRectAnimatedWarns(t *testing.T) {
	c := &diag.Collector{}
	size := anim.Property[Point]{First: Point{10, 10}, Keyframes: []anim.Keyframe[Point]{
		{Time: 0, Value: Point{10, 10}},
		{Time: 10, Value: Point{20, 20}, Easing: anim.Easing{Kind: anim.Linear}},
	}}
	f := Rect(size, anim.Constant(Point{}), anim.Constant(0.0), 1, diag.NewReporter(c))
	if c.Count(diag.Unsupported) != 1 {
		t.Errorf("expected a warning, got %v", c.Items)
	}
	if strings.Contains(f.Data(), "20") {
		t.Errorf("rectangle should use the frame 0 size: %s", f.Data())
	}
}

func TestEllipse(t *testing.T) {
	f := Ellipse(anim.Constant(Point{40, 20}), anim.Constant(Point{5, 5}), 1, diag.NewReporter(nil))
	if got, want := f.Data(), "M5,-5a20,10,0,0,0,0,20a20,10,0,0,0,0,-20Z"; got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}

	e := f.Element(1, "Path3", &scene.Timeline{})
	if len(e.Children) != 2 || e.Children[0].Tag != "ArcSegment" {
		t.Fatalf("unexpected figure element %+v", e)
	}
	if v, _ := e.Children[0].Get("Point"); v != "5,15" {
		t.Errorf("arc end = %s", v)
	}
}
