package geometry

import (
	"fmt"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/anim"
	"github.com/ivlev/lottie2xaml/internal/scene"
)

// SegmentKind is the drawing command of a segment.
type SegmentKind int

const (
	Line SegmentKind = iota
	Bezier
	Arc
)

func (k SegmentKind) String() string {
	switch k {
	case Bezier:
		return "bezier"
	case Arc:
		return "arc"
	}
	return "line"
}

// Segment is one drawing command of a figure. Points holds the end point for
// lines and arcs, and both control points followed by the end point for
// Bézier curves.
type Segment struct {
	Kind   SegmentKind
	Points []anim.Property[Point]

	// Arc parameters.
	Radius Point
	Sweep  bool

	cmd   byte // relative command of procedural outlines: 'h', 'v' or 'a'
	delta Point
}

// End returns the end point of the segment.
func (s Segment) End() anim.Property[Point] {
	return s.Points[len(s.Points)-1]
}

// Figure is one sub-path: a start point and a chain of segments.
type Figure struct {
	Start    anim.Property[Point]
	Segments []Segment
	Closed   bool

	relative bool
}

// FromChannels rebuilds a figure from the synthesized channel layout. A
// segment whose control points sit on its end points is drawn as a line,
// unless one of its points is animated: every frame must keep the same
// segment kinds, so animated segments stay curves.
func FromChannels(ch []anim.Property[Point], closed bool) *Figure {
	f := &Figure{Start: ch[0], Closed: closed}
	c0 := ch[0].First
	for i := 1; i+2 < len(ch); i += 3 {
		cp1, cp2, cp3 := ch[i], ch[i+1], ch[i+2]
		if c0 == cp1.First && cp2.First == cp3.First && !anim.AnyAnimated(cp1, cp2, cp3) {
			f.Segments = append(f.Segments, Segment{Kind: Line, Points: []anim.Property[Point]{cp3}})
		} else {
			f.Segments = append(f.Segments, Segment{Kind: Bezier, Points: []anim.Property[Point]{cp1, cp2, cp3}})
		}
		c0 = cp3.First
	}
	return f
}

// Animated reports whether any point of the figure is animated.
func (f *Figure) Animated() bool {
	if f.Start.Animated() {
		return true
	}
	for _, s := range f.Segments {
		if anim.AnyAnimated(s.Points...) {
			return true
		}
	}
	return false
}

// Count returns how many segments of each kind the figure has.
func (f *Figure) Count(kind SegmentKind) int {
	n := 0
	for _, s := range f.Segments {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// Data encodes the figure as path markup. Repeated commands are not repeated.
func (f *Figure) Data() string {
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(scene.FormatPoint(f.Start.First))

	var last byte
	for _, s := range f.Segments {
		if f.relative {
			writeRelative(&b, s)
			continue
		}
		var cmd byte
		switch s.Kind {
		case Line:
			cmd = 'L'
		case Bezier:
			cmd = 'C'
		case Arc:
			cmd = 'A'
		}
		if cmd == last {
			b.WriteByte(' ')
		} else {
			b.WriteByte(cmd)
		}
		last = cmd

		switch s.Kind {
		case Arc:
			fmt.Fprintf(&b, "%s,0,0,%d,%s", scene.FormatPoint(s.Radius), sweepFlag(s.Sweep), scene.FormatPoint(s.End().First))
		default:
			for i, p := range s.Points {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(scene.FormatPoint(p.First))
			}
		}
	}
	if f.Closed {
		b.WriteString("Z")
	}
	return b.String()
}

func writeRelative(b *strings.Builder, s Segment) {
	switch s.cmd {
	case 'h':
		b.WriteString("h" + scene.FormatFloat(s.delta[0]))
	case 'v':
		b.WriteString("v" + scene.FormatFloat(s.delta[1]))
	default:
		fmt.Fprintf(b, "a%s,0,0,%d,%s", scene.FormatPoint(s.Radius), sweepFlag(s.Sweep), scene.FormatPoint(s.delta))
	}
}

func sweepFlag(sweep bool) int {
	if sweep {
		return 1
	}
	return 0
}

// Element builds the PathFigure element of figure number index and adds
// tracks for its animated points, targeting the path named target.
func (f *Figure) Element(index int, target string, tl *scene.Timeline) *scene.Element {
	e := scene.New("PathFigure", "StartPoint", scene.FormatPoint(f.Start.First))
	if f.Closed {
		e.Set("IsClosed", "True")
	}
	prefix := fmt.Sprintf("Data.Figures[%d]", index)
	tl.Point(f.Start, target, prefix+".StartPoint")

	for i, s := range f.Segments {
		seg := fmt.Sprintf("%s.Segments[%d]", prefix, i)
		switch s.Kind {
		case Line:
			e.Append(scene.New("LineSegment", "Point", scene.FormatPoint(s.End().First)))
		case Arc:
			arc := scene.New("ArcSegment",
				"Point", scene.FormatPoint(s.End().First),
				"Size", scene.FormatPoint(s.Radius))
			if s.Sweep {
				arc.Set("SweepDirection", "Clockwise")
			}
			e.Append(arc)
		case Bezier:
			e.Append(scene.New("BezierSegment",
				"Point1", scene.FormatPoint(s.Points[0].First),
				"Point2", scene.FormatPoint(s.Points[1].First),
				"Point3", scene.FormatPoint(s.Points[2].First)))
			for j, p := range s.Points {
				tl.Point(p, target, fmt.Sprintf("%s.Point%d", seg, j+1))
			}
		}
	}
	return e
}
