// Package lottie decodes Bodymovin/Lottie JSON documents into typed values.
// Every record is read field by field; fields the converter does not know
// are reported as warnings and ignored.
package lottie

import (
	"encoding/json"

	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
)

// Composition is a decoded document.
type Composition struct {
	Name      string
	Version   string
	Width     float64
	Height    float64
	Start     float64
	End       float64
	FrameRate float64
	Layers    []Layer // descending index
	Assets    []*Asset
	Fonts     []Font
}

// Asset is an image or a precomposition.
type Asset struct {
	ID            string
	Source        string // path + file name of images
	Width, Height float64
	Embedded      bool
	Layers        []Layer // descending index, precomps only
}

// Font is an entry of the font list.
type Font struct {
	Name   string
	Family string
	Style  string
	Path   string
}

// Decode parses a document.
func Decode(data []byte, rep *diag.Reporter) (*Composition, error) {
	rec := jsonrec.Open("composition", json.RawMessage(data), rep)
	if err := rec.Err(); err != nil {
		return nil, err
	}
	rec.Skip("ddd", "markers", "chars", "meta", "props", "metadata", "slots", "mn")

	c := &Composition{
		Name:      rec.String("nm", ""),
		Width:     rec.MustFloat("w"),
		Height:    rec.MustFloat("h"),
		Start:     rec.MustFloat("ip"),
		End:       rec.MustFloat("op"),
		FrameRate: rec.MustFloat("fr"),
	}
	rec.MustDecode("v", &c.Version)
	layers := rec.MustRaw("layers")
	assets := rec.Raw("assets")
	fonts := rec.Raw("fonts")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	if c.FrameRate <= 0 {
		return nil, diag.Errorf(diag.InvalidValue, "invalid frame rate %v", c.FrameRate)
	}
	if c.End <= c.Start {
		return nil, diag.Errorf(diag.InvalidValue, "composition ends (%v) before it starts (%v)", c.End, c.Start)
	}
	if c.Start != 0 {
		rep.Warnf(diag.Unsupported, "Composition start is not at zero")
	}

	var err error
	if assets != nil {
		if c.Assets, err = decodeAssets(assets, rep); err != nil {
			return nil, err
		}
	}
	if fonts != nil {
		if c.Fonts, err = decodeFonts(fonts, rep); err != nil {
			return nil, err
		}
	}
	if c.Layers, err = decodeLayers(layers, rep); err != nil {
		return nil, err
	}
	return c, nil
}

// Asset looks up an asset by id.
func (c *Composition) Asset(id string) (*Asset, error) {
	for _, a := range c.Assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, diag.Errorf(diag.UnresolvedReference, "Asset not found '%s'", id)
}

// Font looks up a font by name.
func (c *Composition) Font(name string) (*Font, error) {
	for i := range c.Fonts {
		if c.Fonts[i].Name == name {
			return &c.Fonts[i], nil
		}
	}
	return nil, diag.Errorf(diag.UnresolvedReference, "Font not found '%s'", name)
}

func decodeAssets(raw json.RawMessage, rep *diag.Reporter) ([]*Asset, error) {
	items, err := jsonrec.Elements(raw)
	if err != nil {
		return nil, err
	}
	out := make([]*Asset, 0, len(items))
	for _, item := range items {
		rec := jsonrec.Open("asset", item, rep)
		rec.Skip("nm", "fr", "t", "sid", "mn")
		a := &Asset{
			ID:       rec.MustString("id"),
			Embedded: rec.Bool("e", false),
			Width:    rec.Float("w", 0),
			Height:   rec.Float("h", 0),
		}
		a.Source = rec.String("u", "") + rec.String("p", "")
		layers := rec.Raw("layers")
		if err := rec.Close(); err != nil {
			return nil, err
		}
		if layers != nil {
			if a.Layers, err = decodeLayers(layers, rep); err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeFonts(raw json.RawMessage, rep *diag.Reporter) ([]Font, error) {
	rec := jsonrec.Open("fonts", raw, rep)
	list := rec.MustRaw("list")
	if err := rec.Close(); err != nil {
		return nil, err
	}
	items, err := jsonrec.Elements(list)
	if err != nil {
		return nil, err
	}

	fonts := make([]Font, 0, len(items))
	for _, item := range items {
		f := jsonrec.Open("font", item, rep)
		f.Skip("origin", "fClass", "fWeight", "ascent")
		fonts = append(fonts, Font{
			Name:   f.MustString("fName"),
			Family: f.String("fFamily", ""),
			Style:  f.String("fStyle", ""),
			Path:   f.String("fPath", ""),
		})
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return fonts, nil
}
