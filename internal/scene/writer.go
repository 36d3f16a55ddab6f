package scene

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	nsPresentation = "http://schemas.microsoft.com/winfx/2006/xaml/presentation"
	nsXaml         = "http://schemas.microsoft.com/winfx/2006/xaml"
	nsExtensions   = "clr-namespace:NoesisGUIExtensions;assembly=Noesis.GUI.Extensions"
)

// Document is a converted composition ready to be written.
type Document struct {
	Width, Height int
	FrameRate     float64
	Start, End    float64
	Body          []*Element
	Timeline      *Timeline

	// Extensions is set when any element uses the noesis: attached properties.
	Extensions bool
}

// Options select the output mode.
type Options struct {
	// Template, when set, wraps the canvas in a ControlTemplate resource with this key.
	Template string
	// Repeat is the RepeatBehavior of the storyboard ("Forever", "3x", ...).
	Repeat string
}

// Root builds the complete element tree of the document.
func (d *Document) Root(opt Options) *Element {
	ns := func(e *Element) *Element {
		e.Set("xmlns", nsPresentation)
		if d.Extensions {
			e.Set("xmlns:noesis", nsExtensions)
		}
		e.Set("xmlns:x", nsXaml)
		return e
	}

	canvas := New("Canvas")
	owner := "Canvas"
	var root *Element
	if opt.Template != "" {
		root = ns(New("ResourceDictionary"))
		owner = "ControlTemplate"
		tmpl := New("ControlTemplate", "x:Key", opt.Template, "TargetType", "Control")
		root.Append(tmpl)
		tmpl.Append(d.animations(owner, opt)...)
		tmpl.Append(canvas)
	} else {
		root = ns(canvas)
		canvas.Append(d.animations(owner, opt)...)
	}
	canvas.Set("Width", fmt.Sprint(d.Width))
	canvas.Set("Height", fmt.Sprint(d.Height))
	canvas.Append(d.Body...)
	return root
}

func (d *Document) animations(owner string, opt Options) []*Element {
	if d.Timeline == nil || d.Timeline.Empty() {
		return nil
	}
	sb := New("Storyboard", "x:Key", "Anims", "Duration", FormatTime(d.End-d.Start, d.FrameRate))
	if opt.Repeat != "" {
		sb.Set("RepeatBehavior", opt.Repeat)
	}
	for _, t := range d.Timeline.Tracks {
		sb.Append(t.Element(d.FrameRate))
	}
	resources := New(owner + ".Resources").Append(sb)
	triggers := New(owner+".Triggers").Append(
		New("EventTrigger", "RoutedEvent", "FrameworkElement.Loaded").Append(
			New("BeginStoryboard", "Storyboard", "{StaticResource Anims}")))
	return []*Element{resources, triggers}
}

// Write serialises the document.
func Write(w io.Writer, d *Document, opt Options) error {
	bw := bufio.NewWriter(w)
	writeElement(bw, d.Root(opt), 0, true)
	return bw.Flush()
}

func writeElement(w *bufio.Writer, e *Element, depth int, root bool) {
	indent := strings.Repeat("  ", depth)
	w.WriteString(indent)
	w.WriteString("<")
	w.WriteString(e.Tag)
	for _, a := range e.Attrs {
		if root {
			// Root attributes go one per line, namespaces first.
			w.WriteString("\n  ")
		} else {
			w.WriteString(" ")
		}
		w.WriteString(a.Name)
		w.WriteString(`="`)
		xml.EscapeText(w, []byte(a.Value))
		w.WriteString(`"`)
	}
	if len(e.Children) == 0 {
		w.WriteString("/>\n")
		return
	}
	w.WriteString(">\n")
	for i, c := range e.Children {
		if root && i > 0 {
			w.WriteString("\n")
		}
		writeElement(w, c, depth+1, false)
	}
	w.WriteString(indent)
	w.WriteString("</")
	w.WriteString(e.Tag)
	w.WriteString(">\n")
}
