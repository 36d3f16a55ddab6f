package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/ivlev/lottie2xaml/internal/compiler"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/outline"
	"github.com/ivlev/lottie2xaml/internal/scene"
	"github.com/ivlev/lottie2xaml/internal/source"
)

// Options tune one conversion.
type Options struct {
	PaintScope compiler.PaintScope
	// AssetDir is where relative image assets are looked up for their size.
	AssetDir string
	// Logger receives the per-layer debug listing. Nil discards it.
	Logger *slog.Logger
}

// converter assembles the layers of one composition.
type converter struct {
	comp *lottie.Composition
	opt  Options
	ctx  *compiler.Context
	log  *slog.Logger
}

// scope is one layer list being emitted: the root composition or the
// content of a precomp layer. Times are local to the list.
type scope struct {
	layers  []lottie.Layer
	byIndex map[int]*lottie.Layer
	prefix  string

	// start and end clamp the layer windows; compStart and compEnd are the
	// composition bounds, which need no visibility key.
	start, end         float64
	compStart, compEnd float64
}

func newScope(layers []lottie.Layer, prefix string) *scope {
	sc := &scope{layers: layers, prefix: prefix, byIndex: make(map[int]*lottie.Layer, len(layers))}
	for i := range layers {
		sc.byIndex[layers[i].Index] = &layers[i]
	}
	return sc
}

// Convert builds the output document of a composition.
func Convert(comp *lottie.Composition, opt Options, rep *diag.Reporter) (*scene.Document, error) {
	c := &converter{
		comp: comp,
		opt:  opt,
		ctx:  compiler.NewContext(rep, opt.PaintScope),
		log:  opt.Logger,
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.log.Debug(fmt.Sprintf("= %s - %d x %d @%s - %s secs - BodyMovin v%s",
		comp.Name, int(comp.Width), int(comp.Height), scene.FormatFloat(comp.FrameRate),
		scene.FormatFloat((comp.End-comp.Start)/comp.FrameRate), comp.Version))

	sc := newScope(comp.Layers, "")
	sc.start, sc.end = comp.Start, comp.End
	sc.compStart, sc.compEnd = comp.Start, comp.End

	body, err := c.layers(sc, map[string]bool{})
	if err != nil {
		return nil, rep.Fail(err)
	}

	return &scene.Document{
		Width:      int(comp.Width),
		Height:     int(comp.Height),
		FrameRate:  comp.FrameRate,
		Start:      comp.Start,
		End:        comp.End,
		Body:       body,
		Timeline:   c.ctx.Timeline,
		Extensions: c.ctx.Extensions,
	}, nil
}

// layers emits a layer list in z-order. open holds the precomps being
// expanded, to stop an asset that contains itself.
func (c *converter) layers(sc *scope, open map[string]bool) ([]*scene.Element, error) {
	parents := make(map[int]bool)
	for _, l := range sc.layers {
		if l.Parent != nil {
			parents[*l.Parent] = true
		}
	}

	var out []*scene.Element
	for i := range sc.layers {
		l := &sc.layers[i]
		if l.Hidden && !parents[l.Index] {
			continue
		}
		e, err := c.layer(l, sc, open)
		if err != nil {
			return nil, err
		}
		if e, err = c.wrapParents(e, l, sc); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *converter) layerName(sc *scope, index int) string {
	return "Layer" + sc.prefix + strconv.Itoa(index)
}

// wrapParents nests e in one canvas per ancestor, innermost first, each bound
// to the transform of that ancestor's element.
func (c *converter) wrapParents(e *scene.Element, l *lottie.Layer, sc *scope) (*scene.Element, error) {
	visited := map[int]bool{l.Index: true}
	for p := l.Parent; p != nil; {
		parent, ok := sc.byIndex[*p]
		if !ok {
			return nil, diag.Errorf(diag.UnresolvedReference, "Parent layer not found '%d'", *p)
		}
		if visited[parent.Index] {
			return nil, diag.Errorf(diag.ParentCycle, "Parent cycle at layer '%d'", l.Index)
		}
		visited[parent.Index] = true

		binding := fmt.Sprintf("{Binding RenderTransform, ElementName=%s}", c.layerName(sc, parent.Index))
		e = scene.New("Canvas", "RenderTransform", binding).Append(e)
		p = parent.Parent
	}
	return e, nil
}

func (c *converter) layer(l *lottie.Layer, sc *scope, open map[string]bool) (*scene.Element, error) {
	start, end := math.Max(sc.start, l.In), math.Min(sc.end, l.Out)
	c.log.Debug(fmt.Sprintf(" = #%d - %s - (%s - %s)", l.Index, l.Kind,
		scene.FormatFloat(start), scene.FormatFloat(end)))
	if len(l.Shapes) > 0 {
		c.log.Debug("shapes\n" + outline.Tree(l.Shapes))
	}

	tag := "Canvas"
	if l.Kind == lottie.Image {
		tag = "Image"
	}
	name := c.layerName(sc, l.Index)
	e := scene.New(tag, "x:Name", name)
	tl := c.ctx.Timeline

	switch l.Kind {
	case lottie.Solid:
		e.Set("Width", strconv.Itoa(int(l.SolidWidth)))
		e.Set("Height", strconv.Itoa(int(l.SolidHeight)))
		e.Set("Background", l.SolidColor)
	case lottie.Image:
		if err := c.image(e, l); err != nil {
			return nil, err
		}
	}

	if op := l.Opacity(); op != nil {
		if op.First != 100 {
			e.SetFloat("Opacity", op.First/100)
		}
		tl.Float(*op, name, "Opacity", 0.01, 0)
	}

	if l.Hidden {
		// Kept only so children can bind to its transform.
		e.Set("Visibility", "Collapsed")
		e.Append(l.Transform.Compose(tag, name, tl, c.ctx.Rep))
		return e, nil
	}

	if start > sc.compStart {
		e.Set("Visibility", "Hidden")
	}
	tl.Visibility(name, start, end, sc.compStart, sc.compEnd)
	e.Append(l.Transform.Compose(tag, name, tl, c.ctx.Rep))

	switch l.Kind {
	case lottie.Precomp:
		children, err := c.precomp(l, sc, start, end, open)
		if err != nil {
			return nil, err
		}
		e.Append(children...)
	case lottie.ShapeLayer:
		e.Append(c.ctx.Shapes(l.Shapes)...)
	case lottie.TextLayer:
		children, err := c.text(l, sc, start)
		if err != nil {
			return nil, err
		}
		e.Append(children...)
	}
	return e, nil
}

// image sets the source and size of an image layer. The size comes from the
// asset record, or from the image itself when the record has none.
func (c *converter) image(e *scene.Element, l *lottie.Layer) error {
	asset, err := c.comp.Asset(l.RefID)
	if err != nil {
		return err
	}
	e.Set("Source", asset.Source)

	w, h := int(asset.Width), int(asset.Height)
	if w <= 0 || h <= 0 {
		if w, h, err = source.ImageSize(c.opt.AssetDir, asset.Source); err != nil {
			c.ctx.Rep.Warnf(diag.Unsupported, "Image size unknown for asset '%s': %v", asset.ID, err)
			return nil
		}
	}
	e.Set("Width", strconv.Itoa(w))
	e.Set("Height", strconv.Itoa(h))
	return nil
}

// precomp expands the referenced asset in place. Its content runs on a clock
// shifted by the layer start time and is clipped to the layer window.
func (c *converter) precomp(l *lottie.Layer, sc *scope, start, end float64, open map[string]bool) ([]*scene.Element, error) {
	asset, err := c.comp.Asset(l.RefID)
	if err != nil {
		return nil, err
	}
	if open[asset.ID] {
		return nil, diag.Errorf(diag.InvalidValue, "Precomposition '%s' contains itself", asset.ID)
	}
	open[asset.ID] = true
	defer delete(open, asset.ID)

	st := l.StartTime
	restore := c.ctx.Timeline.Shift(st)
	defer restore()

	child := newScope(asset.Layers, fmt.Sprintf("%s%d_", sc.prefix, l.Index))
	child.start, child.end = start-st, end-st
	child.compStart, child.compEnd = sc.compStart-st, sc.compEnd-st
	return c.layers(child, open)
}
