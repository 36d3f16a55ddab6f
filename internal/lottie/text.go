package lottie

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
)

// Text is the payload of a text layer: a sequence of text documents, each
// shown from its time until the next one, plus colour animators.
type Text struct {
	Keyframes []TextKeyframe

	// Animated colour and opacity (percent) from the first animator, applied
	// over the whole text.
	FillColor     *anim.Property[anim.Color]
	FillOpacity   *anim.Property[float64]
	StrokeColor   *anim.Property[anim.Color]
	StrokeOpacity *anim.Property[float64]
}

// TextKeyframe is one text document.
type TextKeyframe struct {
	Time          float64
	Font          string
	Text          string
	Size          float64
	Tracking      float64
	LineHeight    float64
	BaselineShift float64
	StrokeWidth   float64
	FillColor     *anim.Color
	StrokeColor   *anim.Color
}

func decodeText(raw json.RawMessage, rep *diag.Reporter) (*Text, error) {
	rec := jsonrec.Open("text_data", raw, rep)
	rec.Skip("m", "p")
	animators := rec.Raw("a")
	document := rec.MustRaw("d")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	doc := jsonrec.Open("text_document", document, rep)
	doc.Skip("x", "sid")
	keyframes := doc.MustRaw("k")
	if err := doc.Close(); err != nil {
		return nil, err
	}

	t := &Text{}
	if animators != nil {
		if err := t.decodeAnimators(animators, rep); err != nil {
			return nil, err
		}
	}

	items, err := jsonrec.Elements(keyframes)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		k, err := decodeTextKeyframe(item, rep)
		if err != nil {
			return nil, err
		}
		t.Keyframes = append(t.Keyframes, k)
	}
	return t, nil
}

// decodeAnimators binds the first animator. Later animators are reported
// and skipped.
func (t *Text) decodeAnimators(raw json.RawMessage, rep *diag.Reporter) error {
	items, err := jsonrec.Elements(raw)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := 1; i < len(items); i++ {
		rep.Warnf(diag.Unsupported, "Additional text animator %d not supported", i+1)
	}

	rec := jsonrec.Open("animator", items[0], rep)
	rec.Skip("nm")
	props := rec.Raw("a")
	selector := rec.Raw("s")
	if err := rec.Close(); err != nil {
		return err
	}
	if selector != nil {
		partial, err := partialRange(selector, rep)
		if err != nil {
			return err
		}
		if partial {
			rep.Warnf(diag.Unsupported, "Text animator ranges not supported")
		}
	}
	if props == nil {
		return nil
	}

	a := jsonrec.Open("animation", props, rep)
	colour := func(key string, dst **anim.Property[anim.Color]) error {
		v := a.Raw(key)
		if v == nil {
			return nil
		}
		p, err := anim.ColorProperty(v, rep)
		*dst = &p
		return err
	}
	float := func(key string, dst **anim.Property[float64]) error {
		v := a.Raw(key)
		if v == nil {
			return nil
		}
		p, err := anim.Float(v, 100, rep)
		*dst = &p
		return err
	}
	for _, err := range []error{
		colour("fc", &t.FillColor),
		float("fo", &t.FillOpacity),
		colour("sc", &t.StrokeColor),
		float("so", &t.StrokeOpacity),
	} {
		if err != nil {
			return err
		}
	}
	return a.Close()
}

// partialRange reports whether a range selector limits its animator to part
// of the text. A malformed selector is an error.
func partialRange(raw json.RawMessage, rep *diag.Reporter) (bool, error) {
	var sel map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sel); err != nil {
		return false, diag.Errorf(diag.InvalidValue, "Invalid text selector: %v", err)
	}
	start, err := anim.Float(sel["s"], 0, rep)
	if err != nil {
		return false, err
	}
	end, err := anim.Float(sel["e"], 100, rep)
	if err != nil {
		return false, err
	}
	offset, err := anim.Float(sel["o"], 0, rep)
	if err != nil {
		return false, err
	}
	return anim.AnyAnimated(start, end, offset) || start.First != 0 || end.First != 100 || offset.First != 0, nil
}

func decodeTextKeyframe(raw json.RawMessage, rep *diag.Reporter) (TextKeyframe, error) {
	var k TextKeyframe
	rec := jsonrec.Open("text_keyframe", raw, rep)
	k.Time = rec.Float("t", 0)
	props := rec.MustRaw("s")
	if err := rec.Close(); err != nil {
		return k, err
	}

	p := jsonrec.Open("text_properties", props, rep)
	p.Skip("j", "ca", "of", "ps", "sz")
	k.Font = p.MustString("f")
	k.Text = p.String("t", "")
	k.Size = p.Float("s", 0)
	k.Tracking = p.Float("tr", 0)
	k.LineHeight = p.Float("lh", 0)
	k.BaselineShift = p.Float("ls", 0)
	k.StrokeWidth = p.Float("sw", 0)
	k.FillColor = optionalColor(p, "fc")
	k.StrokeColor = optionalColor(p, "sc")
	return k, p.Close()
}

func optionalColor(rec *jsonrec.Record, key string) *anim.Color {
	var v []float64
	if !rec.Decode(key, &v) || len(v) < 3 {
		return nil
	}
	c := anim.RGB(v[0], v[1], v[2])
	return &c
}
