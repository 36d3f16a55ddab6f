package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/lottie2xaml/internal/anim"
)

// FormatFloat prints v with at most two decimals and no trailing zeros.
func FormatFloat(v float64) string {
	s := strings.TrimRight(strconv.FormatFloat(v, 'f', 2, 64), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatPoint prints a point as "x,y".
func FormatPoint(p anim.Point) string {
	return FormatFloat(p[0]) + "," + FormatFloat(p[1])
}

// FormatTime converts a frame number into an h:m:s key time at fps frames per second.
func FormatTime(frame, fps float64) string {
	secs := frame / fps
	m := math.Floor(secs / 60)
	s := secs - m*60
	h := math.Floor(m / 60)
	m -= h * 60
	return FormatFloat(h) + ":" + FormatFloat(m) + ":" + FormatFloat(s)
}

// FormatRGB prints an opaque colour as #RRGGBB.
func FormatRGB(c anim.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FormatARGB prints a colour with alpha as #AARRGGBB.
func FormatARGB(c anim.Color) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// FormatSpline prints the control points of a key spline unrounded.
func FormatSpline(e anim.Easing) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return f(e.X1) + "," + f(e.Y1) + " " + f(e.X2) + "," + f(e.Y2)
}
