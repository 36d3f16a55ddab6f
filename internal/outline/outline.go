// Package outline describes the structure of a composition: its layers,
// their windows and shape trees. It backs the -outline file and the debug log.
package outline

import (
	"fmt"
	"os"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/lottie"
	"gopkg.in/yaml.v3"
)

// Outline is the structure of one composition.
type Outline struct {
	Name      string  `yaml:"name,omitempty"`
	Version   string  `yaml:"version"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	FrameRate float64 `yaml:"fps"`
	Start     float64 `yaml:"start"`
	End       float64 `yaml:"end"`
	Layers    []Layer `yaml:"layers"`
}

// Layer is one layer in z-order.
type Layer struct {
	Index  int      `yaml:"index"`
	Name   string   `yaml:"name,omitempty"`
	Kind   string   `yaml:"kind"`
	Parent *int     `yaml:"parent,omitempty"`
	In     float64  `yaml:"in"`
	Out    float64  `yaml:"out"`
	Hidden bool     `yaml:"hidden,omitempty"`
	Ref    string   `yaml:"ref,omitempty"`
	Text   []string `yaml:"text,omitempty"`
	Shapes []Shape  `yaml:"shapes,omitempty"`
	Layers []Layer  `yaml:"layers,omitempty"` // precomp content
}

// Shape is one node of a shape tree.
type Shape struct {
	Type     string  `yaml:"type"`
	Name     string  `yaml:"name,omitempty"`
	Animated bool    `yaml:"animated,omitempty"`
	Items    []Shape `yaml:"items,omitempty"`
}

// Build describes c. Precompositions are expanded once per path through the
// asset graph; a precomp nested in itself is listed without content.
func Build(c *lottie.Composition) *Outline {
	o := &Outline{
		Name:      c.Name,
		Version:   c.Version,
		Width:     int(c.Width),
		Height:    int(c.Height),
		FrameRate: c.FrameRate,
		Start:     c.Start,
		End:       c.End,
	}
	o.Layers = layers(c, c.Layers, map[string]bool{})
	return o
}

func layers(c *lottie.Composition, list []lottie.Layer, open map[string]bool) []Layer {
	out := make([]Layer, 0, len(list))
	for _, l := range list {
		info := Layer{
			Index:  l.Index,
			Name:   l.Name,
			Kind:   l.Kind.String(),
			Parent: l.Parent,
			In:     l.In,
			Out:    l.Out,
			Hidden: l.Hidden,
			Ref:    l.RefID,
			Shapes: Shapes(l.Shapes),
		}
		if l.Text != nil {
			for _, k := range l.Text.Keyframes {
				info.Text = append(info.Text, k.Text)
			}
		}
		if l.Kind == lottie.Precomp && !open[l.RefID] {
			for _, a := range c.Assets {
				if a.ID == l.RefID {
					open[l.RefID] = true
					info.Layers = layers(c, a.Layers, open)
					delete(open, l.RefID)
					break
				}
			}
		}
		out = append(out, info)
	}
	return out
}

// Shapes describes a shape list.
func Shapes(list []lottie.Shape) []Shape {
	var out []Shape
	for _, s := range list {
		info := Shape{Type: s.Type(), Name: s.Label()}
		switch s := s.(type) {
		case lottie.Geometry:
			info.Animated = s.Outline() != nil && s.Outline().Animated()
		case *lottie.PaintShape:
			info.Animated = s.Paint.Animated()
		case *lottie.TrimShape:
			info.Animated = s.Animated()
		case *lottie.TransformShape:
			info.Animated = s.Transform.Animated() || s.Transform.Opacity.Animated()
		case *lottie.GroupShape:
			info.Items = Shapes(s.Items)
		}
		out = append(out, info)
	}
	return out
}

// Tree renders a shape list as an indented listing, one shape per line.
func Tree(list []lottie.Shape) string {
	var b strings.Builder
	writeTree(&b, Shapes(list), 0)
	return b.String()
}

func writeTree(b *strings.Builder, shapes []Shape, depth int) {
	for _, s := range shapes {
		fmt.Fprintf(b, "%s- %s %q", strings.Repeat("  ", depth), s.Type, s.Name)
		if s.Animated {
			b.WriteString(" *")
		}
		b.WriteByte('\n')
		writeTree(b, s.Items, depth+1)
	}
}

// Write writes an outline to a YAML file.
func Write(o *Outline, path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read reads an outline from a YAML file.
func Read(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var o Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, err
	}

	return &o, nil
}
