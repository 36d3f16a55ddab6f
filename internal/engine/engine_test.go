package engine

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

func convert(t *testing.T, src string, opt Options) (*scene.Document, *diag.Collector, error) {
	t.Helper()
	sink := &diag.Collector{}
	rep := diag.NewReporter(sink)
	comp, err := lottie.Decode([]byte(src), rep)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	doc, err := Convert(comp, opt, rep)
	return doc, sink, err
}

func mustConvert(t *testing.T, src string) *scene.Document {
	t.Helper()
	doc, _, err := convert(t, src, Options{})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return doc
}

func findNamed(list []*scene.Element, name string) *scene.Element {
	for _, e := range list {
		if v, ok := e.Get("x:Name"); ok && v == name {
			return e
		}
		if f := findNamed(e.Children, name); f != nil {
			return f
		}
	}
	return nil
}

func render(t *testing.T, doc *scene.Document, opt scene.Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := scene.Write(&buf, doc, opt); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

const solidDoc = `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,"layers":[
	{"ind":1,"ty":1,"nm":"bg","ks":{"o":{"a":0,"k":50}},"ip":0,"op":60,"st":0,"sw":100,"sh":100,"sc":"#336699"}
]}`

func TestConvertStaticSolid(t *testing.T) {
	doc := mustConvert(t, solidDoc)

	if len(doc.Body) != 1 {
		t.Fatalf("expected 1 element, got %d", len(doc.Body))
	}
	want := []scene.Attr{
		{Name: "x:Name", Value: "Layer1"},
		{Name: "Width", Value: "100"},
		{Name: "Height", Value: "100"},
		{Name: "Background", Value: "#336699"},
		{Name: "Opacity", Value: "0.5"},
	}
	if diff := cmp.Diff(want, doc.Body[0].Attrs); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if !doc.Timeline.Empty() {
		t.Errorf("expected no tracks, got %d", len(doc.Timeline.Tracks))
	}

	out := render(t, doc, scene.Options{})
	if strings.Contains(out, "Storyboard") {
		t.Error("static document should not carry a storyboard")
	}
}

func TestConvertAnimatedDuration(t *testing.T) {
	src := strings.Replace(solidDoc, `"o":{"a":0,"k":50}`, `"o":{"a":1,"k":[{"t":0,"s":[0]},{"t":30,"s":[100]}]}`, 1)
	doc := mustConvert(t, src)

	if len(doc.Timeline.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(doc.Timeline.Tracks))
	}
	out := render(t, doc, scene.Options{})
	if !strings.Contains(out, `Duration="0:0:2"`) {
		t.Errorf("expected a two second storyboard:\n%s", out)
	}
}

func TestParentWrappers(t *testing.T) {
	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,"layers":[
		{"ind":1,"ty":3,"nm":"root","ks":{"p":{"a":0,"k":[10,20]}},"ip":0,"op":60,"st":0},
		{"ind":2,"ty":3,"nm":"arm","parent":1,"ks":{},"ip":0,"op":60,"st":0},
		{"ind":3,"ty":1,"nm":"hand","parent":2,"ks":{},"ip":0,"op":60,"st":0,"sw":5,"sh":5,"sc":"#000000"}
	]}`
	doc := mustConvert(t, src)

	outer := doc.Body[0]
	if v, _ := outer.Get("RenderTransform"); v != "{Binding RenderTransform, ElementName=Layer1}" {
		t.Fatalf("outer wrapper binds %q", v)
	}
	inner := outer.Children[0]
	if v, _ := inner.Get("RenderTransform"); v != "{Binding RenderTransform, ElementName=Layer2}" {
		t.Fatalf("inner wrapper binds %q", v)
	}
	if name, _ := inner.Children[0].Get("x:Name"); name != "Layer3" {
		t.Errorf("expected Layer3 innermost, got %q", name)
	}
	if _, ok := findNamed(doc.Body, "Layer1").Get("Opacity"); ok {
		t.Error("null layers carry no opacity")
	}
}

func TestParentCycleIsFatal(t *testing.T) {
	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,"layers":[
		{"ind":1,"ty":3,"nm":"a","parent":2,"ks":{},"ip":0,"op":60,"st":0},
		{"ind":2,"ty":3,"nm":"b","parent":1,"ks":{},"ip":0,"op":60,"st":0}
	]}`
	_, sink, err := convert(t, src, Options{})
	if !diag.IsKind(err, diag.ParentCycle) {
		t.Fatalf("expected a parent cycle error, got %v", err)
	}
	if n := sink.Count(diag.ParentCycle); n != 1 {
		t.Errorf("expected the cycle to be reported once, got %d", n)
	}
}

func TestMissingFontIsFatal(t *testing.T) {
	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,"layers":[
		{"ind":1,"ty":5,"nm":"t","ks":{},"ip":0,"op":60,"st":0,
		 "t":{"d":{"k":[{"t":0,"s":{"f":"Nope","t":"x","s":10}}]},"a":[]}}
	]}`
	_, _, err := convert(t, src, Options{})
	if !diag.IsKind(err, diag.UnresolvedReference) {
		t.Fatalf("expected an unresolved reference, got %v", err)
	}
}

func TestPrecompExpansion(t *testing.T) {
	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,
	"assets":[{"id":"comp_0","layers":[
		{"ind":1,"ty":1,"nm":"s","ks":{"o":{"a":1,"k":[{"t":0,"s":[0]},{"t":10,"s":[100]}]}},"ip":0,"op":60,"st":0,"sw":5,"sh":5,"sc":"#ffffff"}
	]}],
	"layers":[
		{"ind":5,"ty":0,"nm":"late","refId":"comp_0","ks":{},"ip":0,"op":60,"st":10,"w":100,"h":100},
		{"ind":6,"ty":0,"nm":"early","refId":"comp_0","ks":{},"ip":0,"op":60,"st":0,"w":100,"h":100}
	]}`
	doc := mustConvert(t, src)

	for _, name := range []string{"Layer5", "Layer5_1", "Layer6", "Layer6_1"} {
		if findNamed(doc.Body, name) == nil {
			t.Errorf("missing %s", name)
		}
	}

	type key struct{ target, property string }
	first := make(map[key]float64)
	for _, tr := range doc.Timeline.Tracks {
		first[key{tr.Target, tr.Property}] = tr.Keys[0].Time
	}
	want := map[key]float64{
		{"Layer6_1", "Opacity"}:    0,
		{"Layer5_1", "Opacity"}:    10,
		{"Layer5_1", "Visibility"}: 10,
	}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("track times mismatch (-want +got):\n%s", diff)
	}
	if v, _ := findNamed(doc.Body, "Layer5_1").Get("Visibility"); v != "Hidden" {
		t.Errorf("late content should start hidden, got %q", v)
	}
}

func TestTextKeyframes(t *testing.T) {
	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,
	"fonts":{"list":[{"fName":"Roboto-Bold","fFamily":"Roboto","fStyle":"Bold"}]},
	"layers":[
		{"ind":1,"ty":5,"nm":"title","ks":{},"ip":0,"op":60,"st":0,"t":{"d":{"k":[
			{"t":0,"s":{"f":"Roboto-Bold","t":"Hi","s":24,"fc":[1,0,0]}},
			{"t":30,"s":{"f":"Roboto-Bold","t":"Bye","s":24,"fc":[1,0,0]}}
		]},"a":[]}}
	]}`
	doc := mustConvert(t, src)

	t0, t1 := findNamed(doc.Body, "Text0"), findNamed(doc.Body, "Text1")
	if t0 == nil || t1 == nil {
		t.Fatal("expected two named text blocks")
	}
	for _, tt := range []struct {
		attr, want string
	}{
		{"Text", "Hi"},
		{"FontFamily", "Roboto"},
		{"FontSize", "24"},
		{"FontWeight", "Bold"},
		{"Foreground", "#FF0000"},
	} {
		if v, _ := t0.Get(tt.attr); v != tt.want {
			t.Errorf("%s = %q, want %q", tt.attr, v, tt.want)
		}
	}
	if _, ok := t0.Get("Visibility"); ok {
		t.Error("first text block is visible from the start")
	}
	if v, _ := t1.Get("Visibility"); v != "Hidden" {
		t.Errorf("second text block should start hidden, got %q", v)
	}
	if y, _ := t0.Find("TranslateTransform").Get("Y"); y != "-24" {
		t.Errorf("expected baseline offset -24, got %q", y)
	}

	var keys []string
	for _, tr := range doc.Timeline.Tracks {
		for _, k := range tr.Keys {
			keys = append(keys, tr.Target+"@"+scene.FormatFloat(k.Time)+"="+k.Value)
		}
	}
	want := []string{"Text0@30=" + scene.Hidden, "Text1@30=" + scene.Visible}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("visibility keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFontWeight(t *testing.T) {
	tests := []struct {
		style, want string
	}{
		{"Regular", ""},
		{"Black", "Black"},
		{"ExtraBold Italic", "ExtraBold"},
		{"Light", "Light"},
	}
	for _, tt := range tests {
		if got := fontWeight(tt.style); got != tt.want {
			t.Errorf("fontWeight(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}
}

func TestImageSizeFromFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "img.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	src := `{"v":"5.7.0","fr":30,"ip":0,"op":60,"w":100,"h":100,
	"assets":[{"id":"image_0","u":"","p":"img.png","e":0}],
	"layers":[{"ind":1,"ty":2,"nm":"pic","refId":"image_0","ks":{},"ip":0,"op":60,"st":0}]}`
	doc, _, err := convert(t, src, Options{AssetDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	e := doc.Body[0]
	if e.Tag != "Image" {
		t.Errorf("expected an Image element, got %s", e.Tag)
	}
	for attr, want := range map[string]string{"Source": "img.png", "Width": "3", "Height": "2"} {
		if v, _ := e.Get(attr); v != want {
			t.Errorf("%s = %q, want %q", attr, v, want)
		}
	}
}
