package paint

import (
	"encoding/json"
	"math"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/jsonrec"
	"golang.org/x/image/math/f64"
)

// GradientKind is the gradient type tag ("t").
type GradientKind int

const (
	Linear GradientKind = 1
	Radial GradientKind = 2
)

// Gradient is a linear or radial gradient in absolute coordinates. Length
// (percent) and Angle (degrees) place the highlight of radial gradients.
type Gradient struct {
	Kind       GradientKind
	Start, End anim.Property[anim.Point]
	Length     anim.Property[float64]
	Angle      anim.Property[float64]
	Stops      []Stop
}

// Stop is one unified gradient stop.
type Stop struct {
	Offset anim.Property[float64]
	Color  anim.Property[anim.Color]
}

// StopValue is a gradient stop at one keyframe.
type StopValue struct {
	Offset float64
	Color  anim.Color
}

// decodeStops reads the "g" record: {"p": number of colour stops, "k": flat values}.
func decodeStops(raw json.RawMessage, rep *diag.Reporter) ([]Stop, error) {
	rec := jsonrec.Open("gradient", raw, rep)
	n := rec.MustInt("p")
	k := rec.MustRaw("k")
	if err := rec.Close(); err != nil {
		return nil, err
	}

	split := func(raw json.RawMessage) ([]StopValue, error) {
		var flat []float64
		if err := json.Unmarshal(raw, &flat); err != nil {
			return nil, diag.Errorf(diag.InvalidValue, "invalid gradient stops: %v", err)
		}
		return MergeStops(n, flat)
	}
	channels, err := anim.Decode(k, split, rep)
	if err != nil {
		return nil, err
	}

	stops := make([]Stop, len(channels))
	for i, ch := range channels {
		stops[i] = Stop{
			Offset: anim.Map(ch, func(v StopValue) float64 { return v.Offset }),
			Color:  anim.Map(ch, func(v StopValue) anim.Color { return v.Color }),
		}
	}
	return stops, nil
}

type channelStop struct {
	offset float64
	value  []float64
}

// MergeStops unifies the exported stop layout, numStops colour stops
// (offset, r, g, b) followed by any number of alpha stops (offset, a), into
// RGBA stops. Colour stops get the alpha interpolated at their offset and
// alpha stops the colour interpolated at theirs. An alpha stop sitting on a
// colour stop offset adds nothing and is dropped.
func MergeStops(numStops int, flat []float64) ([]StopValue, error) {
	if numStops < 0 || len(flat) < numStops*4 || (len(flat)-numStops*4)%2 != 0 {
		return nil, diag.Errorf(diag.InvalidValue, "gradient with %d stops has %d values", numStops, len(flat))
	}

	var rgb, alpha []channelStop
	for i := 0; i < numStops*4; i += 4 {
		rgb = append(rgb, channelStop{flat[i], flat[i+1 : i+4]})
	}
	for i := numStops * 4; i+1 < len(flat); i += 2 {
		alpha = append(alpha, channelStop{flat[i], flat[i+1 : i+2]})
	}

	var out []StopValue
	onColour := make(map[float64]bool)
	for _, s := range rgb {
		a := 1.0
		if len(alpha) > 0 {
			a = interpolate(s.offset, alpha)[0]
		}
		out = append(out, StopValue{Offset: s.offset, Color: rgba(s.value[0], s.value[1], s.value[2], a)})
		onColour[s.offset] = true
	}
	if len(rgb) == 0 {
		return out, nil
	}
	for _, s := range alpha {
		if onColour[s.offset] {
			continue
		}
		c := interpolate(s.offset, rgb)
		out = append(out, StopValue{Offset: s.offset, Color: rgba(c[0], c[1], c[2], s.value[0])})
	}
	return out, nil
}

// interpolate samples a stop channel at offset. The channel is extended to
// offsets 0 and 1 with its nearest values.
func interpolate(offset float64, stops []channelStop) []float64 {
	if stops[0].offset != 0 {
		stops = append([]channelStop{{0, stops[0].value}}, stops...)
	}
	if last := stops[len(stops)-1]; last.offset != 1 {
		stops = append(stops, channelStop{1, last.value})
	}

	for i := 0; i+1 < len(stops); i++ {
		t0, t1 := stops[i].offset, stops[i+1].offset
		if offset < t0 || offset > t1 {
			continue
		}
		t := 0.0
		if t1 > t0 {
			t = (offset - t0) / (t1 - t0)
		}
		v0, v1 := stops[i].value, stops[i+1].value
		out := make([]float64, len(v0))
		for j := range v0 {
			out[j] = (1-t)*v0[j] + t*v1[j]
		}
		return out
	}

	// Offsets outside [0,1] hold the closest end.
	if offset < stops[0].offset {
		return stops[0].value
	}
	return stops[len(stops)-1].value
}

func rgba(r, g, b, a float64) anim.Color {
	c := anim.RGB(r, g, b)
	c.A = anim.Quantize(a)
	return c
}

// RadialGeometry converts start/end points and the highlight length/angle
// into the centre, radius and gradient origin of a radial brush.
func RadialGeometry(start, end anim.Point, length, angle float64) (center anim.Point, radius float64, origin anim.Point) {
	d := anim.Point{end[0] - start[0], end[1] - start[1]}
	radius = math.Hypot(d[0], d[1])
	highlight := anim.Point{start[0] + d[0]*length/100, start[1] + d[1]*length/100}
	return start, radius, apply(rotation(start, angle), highlight)
}

// rotation returns the affine transform rotating by deg degrees around c.
func rotation(c anim.Point, deg float64) f64.Aff3 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return f64.Aff3{
		cos, -sin, c[0] - cos*c[0] + sin*c[1],
		sin, cos, c[1] - sin*c[0] - cos*c[1],
	}
}

func apply(m f64.Aff3, p anim.Point) anim.Point {
	return anim.Point{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}
