package lottie

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ivlev/lottie2xaml/internal/diag"
)

const document = `{
	"v":"5.5.2","fr":30,"ip":0,"op":60,"w":200,"h":100,"nm":"demo","ddd":0,
	"assets":[{"id":"image_0","w":64,"h":32,"u":"images/","p":"img_0.png","e":0}],
	"fonts":{"list":[{"fName":"Roboto-Bold","fFamily":"Roboto","fStyle":"Bold","ascent":75}]},
	"layers":[
		{"ddd":0,"ind":1,"ty":4,"nm":"shape","ks":{},"ip":0,"op":60,"st":0,"bm":0,
		 "shapes":[
			{"ty":"gr","nm":"group","it":[
				{"ty":"rc","nm":"rect","d":1,"s":{"a":0,"k":[10,10]},"p":{"a":0,"k":[0,0]},"r":{"a":0,"k":0}},
				{"ty":"el","nm":"hidden","hd":true,"d":1,"s":{"a":0,"k":[10,10]},"p":{"a":0,"k":[0,0]}},
				{"ty":"fl","nm":"fill","o":{"a":0,"k":100},"c":{"a":0,"k":[1,0,0,1]},"r":1},
				{"ty":"tr","p":{"a":0,"k":[0,0]},"a":{"a":0,"k":[0,0]},"s":{"a":0,"k":[100,100]},"r":{"a":0,"k":0},"o":{"a":0,"k":100}}
			]},
			{"ty":"rp","nm":"repeater"}
		 ]},
		{"ddd":0,"ind":3,"ty":2,"nm":"image","refId":"image_0","ks":{},"ip":0,"op":60,"st":0,"parent":1},
		{"ddd":0,"ind":2,"ty":1,"nm":"solid","ks":{},"ip":10,"op":50,"st":0,"sw":20,"sh":10,"sc":"#ff00aa","tt":1}
	]
}`

func TestDecodeComposition(t *testing.T) {
	c := &diag.Collector{}
	comp, err := Decode([]byte(document), diag.NewReporter(c))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var order []int
	for _, l := range comp.Layers {
		order = append(order, l.Index)
	}
	if diff := cmp.Diff([]int{3, 2, 1}, order); diff != "" {
		t.Errorf("layer order mismatch (-want +got):\n%s", diff)
	}

	image := comp.Layers[0]
	if image.Parent == nil || *image.Parent != 1 {
		t.Errorf("image parent = %v", image.Parent)
	}
	asset, err := comp.Asset(image.RefID)
	if err != nil {
		t.Fatal(err)
	}
	if asset.Source != "images/img_0.png" {
		t.Errorf("asset source = %q", asset.Source)
	}

	solid := comp.Layers[1]
	if solid.SolidColor != "#FF00AA" || solid.SolidWidth != 20 {
		t.Errorf("unexpected solid %+v", solid)
	}

	shapes := comp.Layers[2].Shapes
	if len(shapes) != 2 {
		t.Fatalf("expected 2 shapes, got %d", len(shapes))
	}
	group, ok := shapes[0].(*GroupShape)
	if !ok {
		t.Fatalf("first shape is %T", shapes[0])
	}
	var types []string
	for _, s := range group.Items {
		types = append(types, s.Type())
	}
	if diff := cmp.Diff([]string{"rc", "fl", "tr"}, types); diff != "" {
		t.Errorf("group items mismatch (-want +got):\n%s", diff)
	}
	if _, ok := shapes[1].(*UnknownShape); !ok {
		t.Errorf("repeater should decode as unknown, got %T", shapes[1])
	}

	if n := c.Count(diag.Unsupported); n != 1 {
		t.Errorf("expected the track matte warning only, got %v", c.Items)
	}
	if n := c.Count(diag.UnknownField); n != 0 {
		t.Errorf("unexpected unknown fields: %v", c.Items)
	}

	if _, err := comp.Font("Roboto-Bold"); err != nil {
		t.Errorf("font lookup: %v", err)
	}
	if _, err := comp.Font("Missing"); !diag.IsKind(err, diag.UnresolvedReference) {
		t.Errorf("expected unresolved reference, got %v", err)
	}
}

func TestDecodeMissingField(t *testing.T) {
	_, err := Decode([]byte(`{"v":"5.0","fr":30,"ip":0,"op":60,"w":10,"layers":[]}`), diag.NewReporter(nil))
	if !diag.IsKind(err, diag.MissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if err.Error() != "Field not found 'composition.h'" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestDecodeUnknownField(t *testing.T) {
	c := &diag.Collector{}
	_, err := Decode([]byte(`{"v":"5.0","fr":30,"ip":0,"op":60,"w":10,"h":10,"layers":[],"future":1}`), diag.NewReporter(c))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 || c.Items[0].Message != "Ignored field 'composition.future'" {
		t.Errorf("unexpected diagnostics %v", c.Items)
	}
}

func TestDecodeText(t *testing.T) {
	src := `{
		"d":{"k":[
			{"s":{"s":24,"f":"Roboto-Bold","t":"Hello","j":0,"tr":10,"lh":28,"ls":2,"fc":[0,0,0]},"t":0},
			{"s":{"s":24,"f":"Roboto-Bold","t":"World","j":0,"tr":0,"lh":28,"ls":0,"fc":[1,1,1]},"t":30}]},
		"p":{},"m":{"g":1,"a":{"a":0,"k":[0,0]}},
		"a":[{"nm":"Animator 1","s":{"t":0,"s":{"a":0,"k":0},"e":{"a":0,"k":50},"o":{"a":0,"k":0}},
			"a":{"fc":{"a":1,"k":[{"t":0,"s":[1,0,0,1]},{"t":10,"s":[0,1,0,1]}]}}}]
	}`
	c := &diag.Collector{}
	text, err := decodeText([]byte(src), diag.NewReporter(c))
	if err != nil {
		t.Fatal(err)
	}
	if len(text.Keyframes) != 2 || text.Keyframes[1].Time != 30 || text.Keyframes[0].Tracking != 10 {
		t.Errorf("unexpected keyframes %+v", text.Keyframes)
	}
	if text.FillColor == nil || !text.FillColor.Animated() {
		t.Error("fill colour animator missing")
	}
	if c.Count(diag.Unsupported) != 1 {
		t.Errorf("expected a partial range warning, got %v", c.Items)
	}
}

func TestDecodeTextUsesFirstAnimator(t *testing.T) {
	src := `{
		"d":{"k":[{"s":{"s":24,"f":"Roboto-Bold","t":"Hi","fc":[0,0,0]},"t":0}]},
		"a":[
			{"nm":"Animator 1","s":{"s":{"a":0,"k":0},"e":{"a":0,"k":100},"o":{"a":0,"k":0}},
			 "a":{"fc":{"a":0,"k":[1,0,0,1]}}},
			{"nm":"Animator 2","s":{"s":{"a":0,"k":0},"e":{"a":0,"k":100},"o":{"a":0,"k":0}},
			 "a":{"fo":{"a":1,"k":[{"t":0,"s":[0]},{"t":10,"s":[100]}]}}}]
	}`
	c := &diag.Collector{}
	text, err := decodeText([]byte(src), diag.NewReporter(c))
	if err != nil {
		t.Fatal(err)
	}
	if text.FillColor == nil {
		t.Error("fill colour from the first animator missing")
	}
	if text.FillOpacity != nil {
		t.Errorf("fill opacity taken from the second animator: %+v", *text.FillOpacity)
	}

	var got []string
	for _, d := range c.Items {
		got = append(got, d.Message)
	}
	want := []string{"Additional text animator 2 not supported"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTextMalformedSelector(t *testing.T) {
	src := `{
		"d":{"k":[{"s":{"s":24,"f":"Roboto-Bold","t":"Hi"},"t":0}]},
		"a":[{"nm":"Animator 1","s":[1,2],"a":{}}]
	}`
	c := &diag.Collector{}
	_, err := decodeText([]byte(src), diag.NewReporter(c))
	if !diag.IsKind(err, diag.InvalidValue) {
		t.Fatalf("decodeText = %v, want an invalid value error", err)
	}
	if n := c.Count(diag.Unsupported); n != 0 {
		t.Errorf("malformed selector reported as unsupported: %v", c.Items)
	}
}

func TestShapeBlendModeWarns(t *testing.T) {
	src := `[
		{"ty":"gr","nm":"group","bm":3,"it":[
			{"ty":"rc","nm":"rect","bm":0,"d":1,"s":{"a":0,"k":[10,10]},"p":{"a":0,"k":[0,0]},"r":{"a":0,"k":0}}]},
		{"ty":"el","nm":"dot","bm":1,"d":1,"s":{"a":0,"k":[4,4]},"p":{"a":0,"k":[0,0]}}
	]`
	c := &diag.Collector{}
	shapes, err := decodeShapes([]byte(src), diag.NewReporter(c))
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}

	var got []string
	for _, d := range c.Items {
		got = append(got, d.Message)
	}
	want := []string{"Unsupported BlendMode '3' on group", "Unsupported BlendMode '1' on ellipse"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
