package scene

import "github.com/ivlev/lottie2xaml/internal/anim"

// TrackKind selects the key-frame animation type of a track.
type TrackKind int

const (
	DoubleTrack TrackKind = iota
	PointTrack
	ColorTrack
	ObjectTrack
)

func (k TrackKind) prefix() string {
	switch k {
	case PointTrack:
		return "Point"
	case ColorTrack:
		return "Color"
	case ObjectTrack:
		return "Object"
	}
	return "Double"
}

// Key is one key frame of a track. Time is in frames.
type Key struct {
	Time   float64
	Easing anim.Easing
	Value  string
}

// Track animates one property of one named element.
type Track struct {
	Kind     TrackKind
	Target   string
	Property string
	Keys     []Key
}

// Timeline collects tracks in emission order. Offset is added to every key
// time and is used to place nested precompositions on the parent timeline.
type Timeline struct {
	Offset float64
	Tracks []Track
}

// Add appends t, shifted by the current offset. Empty tracks are dropped.
func (tl *Timeline) Add(t Track) {
	if len(t.Keys) == 0 {
		return
	}
	if tl.Offset != 0 {
		keys := make([]Key, len(t.Keys))
		for i, k := range t.Keys {
			k.Time += tl.Offset
			keys[i] = k
		}
		t.Keys = keys
	}
	tl.Tracks = append(tl.Tracks, t)
}

// Shift moves the offset by d until the returned func is called.
func (tl *Timeline) Shift(d float64) (restore func()) {
	prev := tl.Offset
	tl.Offset += d
	return func() { tl.Offset = prev }
}

// Empty reports whether nothing is animated.
func (tl *Timeline) Empty() bool {
	return len(tl.Tracks) == 0
}

// Float adds a double track for p, mapping every value v to v*scale+offset.
// It reports whether a track was added.
func (tl *Timeline) Float(p anim.Property[float64], target, property string, scale, offset float64) bool {
	if !p.Animated() {
		return false
	}
	keys := make([]Key, len(p.Keyframes))
	for i, k := range p.Keyframes {
		keys[i] = Key{Time: k.Time, Easing: k.Easing, Value: FormatFloat(k.Value*scale + offset)}
	}
	tl.Add(Track{Kind: DoubleTrack, Target: target, Property: property, Keys: keys})
	return true
}

// Point adds a point track for p.
func (tl *Timeline) Point(p anim.Property[anim.Point], target, property string) bool {
	if !p.Animated() {
		return false
	}
	keys := make([]Key, len(p.Keyframes))
	for i, k := range p.Keyframes {
		keys[i] = Key{Time: k.Time, Easing: k.Easing, Value: FormatPoint(k.Value)}
	}
	tl.Add(Track{Kind: PointTrack, Target: target, Property: property, Keys: keys})
	return true
}

// Color adds a colour track for p. Colours carrying alpha are written as #AARRGGBB.
func (tl *Timeline) Color(p anim.Property[anim.Color], target, property string, alpha bool) bool {
	if !p.Animated() {
		return false
	}
	format := FormatRGB
	if alpha {
		format = FormatARGB
	}
	keys := make([]Key, len(p.Keyframes))
	for i, k := range p.Keyframes {
		keys[i] = Key{Time: k.Time, Easing: k.Easing, Value: format(k.Value)}
	}
	tl.Add(Track{Kind: ColorTrack, Target: target, Property: property, Keys: keys})
	return true
}

const (
	Visible = "{x:Static Visibility.Visible}"
	Hidden  = "{x:Static Visibility.Hidden}"
)

// Visibility shows target at start and hides it at end. Bounds equal to the
// composition window [compStart, compEnd] need no key.
func (tl *Timeline) Visibility(target string, start, end, compStart, compEnd float64) bool {
	var keys []Key
	if start != compStart {
		keys = append(keys, Key{Time: start, Value: Visible})
	}
	if end != compEnd {
		keys = append(keys, Key{Time: end, Value: Hidden})
	}
	if len(keys) == 0 {
		return false
	}
	tl.Add(Track{Kind: ObjectTrack, Target: target, Property: "Visibility", Keys: keys})
	return true
}

// Element renders the track as a *AnimationUsingKeyFrames element.
func (t Track) Element(fps float64) *Element {
	kind := t.Kind.prefix()
	e := New(kind+"AnimationUsingKeyFrames",
		"Storyboard.TargetProperty", t.Property,
		"Storyboard.TargetName", t.Target)
	for _, k := range t.Keys {
		var key *Element
		switch {
		case t.Kind == ObjectTrack || k.Easing.Kind == anim.Discrete:
			key = New("Discrete" + kind + "KeyFrame")
		case k.Easing.Kind == anim.Linear:
			key = New("Linear" + kind + "KeyFrame")
		default:
			key = New("Spline"+kind+"KeyFrame", "KeySpline", FormatSpline(k.Easing))
		}
		key.Set("KeyTime", FormatTime(k.Time, fps))
		key.Set("Value", k.Value)
		e.Append(key)
	}
	return e
}
