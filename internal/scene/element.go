// Package scene is the output model: an element tree for the visual part of
// the document and a timeline of key-frame tracks for the animated part.
package scene

import "strconv"

// Attr is one element attribute. Attribute order is preserved on output.
type Attr struct {
	Name  string
	Value string
}

// Element is a markup element with ordered attributes and children.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// New creates an element with the given attributes as name/value pairs.
func New(tag string, kv ...string) *Element {
	e := &Element{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Set(kv[i], kv[i+1])
	}
	return e
}

// Set adds or replaces an attribute.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetFloat is Set with a formatted number.
func (e *Element) SetFloat(name string, v float64) *Element {
	return e.Set(name, FormatFloat(v))
}

// Get returns an attribute value.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children, skipping nil ones.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

// Find returns the first descendant (or e itself) with the given tag.
func (e *Element) Find(tag string) *Element {
	if e.Tag == tag {
		return e
	}
	for _, c := range e.Children {
		if f := c.Find(tag); f != nil {
			return f
		}
	}
	return nil
}

// Namer hands out element names (Path0, Path1, Group0...). One Namer is
// used per conversion so that output is reproducible.
type Namer struct {
	counts map[string]int
}

// Next returns the next free name for prefix.
func (n *Namer) Next(prefix string) string {
	if n.counts == nil {
		n.counts = make(map[string]int)
	}
	i := n.counts[prefix]
	n.counts[prefix] = i + 1
	return prefix + strconv.Itoa(i)
}
