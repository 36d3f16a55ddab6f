package engine

import (
	"strconv"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// fontWeights are matched against the font style in order; the last match wins.
var fontWeights = []string{
	"Thin", "ExtraLight", "UltraLight", "Light", "SemiLight", "Medium", "DemiBold",
	"SemiBold", "Bold", "ExtraBold", "UltraBold", "Black", "Heavy", "ExtraBlack", "UltraBlack",
}

func fontWeight(style string) string {
	weight := ""
	for _, w := range fontWeights {
		if strings.Contains(style, w) {
			weight = w
		}
	}
	return weight
}

// text emits one text block per text document. Each block shows from its
// document time until the next one.
func (c *converter) text(l *lottie.Layer, sc *scope, start float64) ([]*scene.Element, error) {
	t := l.Text
	tl := c.ctx.Timeline
	animated := animatedText(t)
	many := len(t.Keyframes) > 1

	var out []*scene.Element
	for i, k := range t.Keyframes {
		font, err := c.comp.Font(k.Font)
		if err != nil {
			return nil, err
		}

		e := scene.New("TextBlock")
		var name string
		if many || animated {
			name = c.ctx.Names.Next("Text")
			e.Set("x:Name", name)
		}

		family := font.Family
		if font.Path != "" {
			family = font.Path + "#" + font.Family
		}
		e.Set("FontFamily", family)
		e.Set("FontSize", strconv.Itoa(int(k.Size)))
		e.Set("Text", strings.ReplaceAll(k.Text, "\r", "\n"))
		if w := fontWeight(font.Style); w != "" {
			e.Set("FontWeight", w)
		}
		if strings.Contains(font.Style, "Italic") {
			e.Set("FontStyle", "Italic")
		}

		switch {
		case t.FillColor != nil:
			e.Set("Foreground", scene.FormatRGB(t.FillColor.First))
		case k.FillColor != nil:
			e.Set("Foreground", scene.FormatRGB(*k.FillColor))
		default:
			e.Set("Foreground", "Transparent")
		}

		if k.StrokeWidth > 0.01 {
			e.SetFloat("noesis:Text.StrokeThickness", k.StrokeWidth)
			switch {
			case t.StrokeColor != nil:
				e.Set("noesis:Text.Stroke", scene.FormatRGB(t.StrokeColor.First))
			case k.StrokeColor != nil:
				e.Set("noesis:Text.Stroke", scene.FormatRGB(*k.StrokeColor))
			}
			c.ctx.Extensions = true
		}
		if k.Tracking > 0 {
			e.SetFloat("noesis:Text.CharacterSpacing", k.Tracking)
			c.ctx.Extensions = true
		}

		if many {
			from := k.Time
			if i == 0 && from < start {
				from = start
			}
			to := sc.compEnd
			if i+1 < len(t.Keyframes) {
				to = t.Keyframes[i+1].Time
			}
			if from > start {
				e.Set("Visibility", "Hidden")
			}
			tl.Visibility(name, from, to, start, sc.compEnd)
		}

		if name != "" {
			c.textTracks(t, name)
		}

		e.Append(scene.New("TextBlock.RenderTransform").Append(
			scene.New("TranslateTransform").SetFloat("Y", -(k.Size + k.BaselineShift))))
		out = append(out, e)
	}
	return out, nil
}

func (c *converter) textTracks(t *lottie.Text, name string) {
	tl := c.ctx.Timeline
	if t.FillColor != nil {
		tl.Color(*t.FillColor, name, "Foreground.Color", false)
	}
	if t.FillOpacity != nil {
		tl.Float(*t.FillOpacity, name, "Foreground.Opacity", 0.01, 0)
	}
	if t.StrokeColor != nil && tl.Color(*t.StrokeColor, name, "(noesis:Text.Stroke).Color", false) {
		c.ctx.Extensions = true
	}
	if t.StrokeOpacity != nil && tl.Float(*t.StrokeOpacity, name, "(noesis:Text.Stroke).Opacity", 0.01, 0) {
		c.ctx.Extensions = true
	}
}

func animatedText(t *lottie.Text) bool {
	return (t.FillColor != nil && t.FillColor.Animated()) ||
		(t.FillOpacity != nil && t.FillOpacity.Animated()) ||
		(t.StrokeColor != nil && t.StrokeColor.Animated()) ||
		(t.StrokeOpacity != nil && t.StrokeOpacity.Animated())
}
