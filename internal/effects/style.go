package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/tween"
)

// Channel names shared by the handlers. Rendering maps them onto the
// element's inline styles; the fixed transform order keeps output stable
// regardless of which handler wrote the values.
const (
	chOpacity = "opacity"
	chX       = "x" // translateX, px
	chY       = "y" // translateY, px
	chScale   = "scale"
	chRotate  = "rotate"  // deg
	chRotateX = "rotateX" // deg
	chRotateY = "rotateY" // deg
	chBlur    = "blur"    // px
	chClip    = "clip"    // inset from bottom, %
	chDraw    = "draw"    // stroke-dashoffset, %
)

// render writes channel values into el's inline styles.
func render(el *dom.Element, v tween.Values) {
	if o, ok := v[chOpacity]; ok {
		el.SetStyle("opacity", num(clamp01(o)))
	}
	if t := transformOf(v); t != "" {
		el.SetStyle("transform", t)
	}
	if b, ok := v[chBlur]; ok {
		if b <= 0.01 {
			el.SetStyle("filter", "")
		} else {
			el.SetStyle("filter", fmt.Sprintf("blur(%spx)", num(b)))
		}
	}
	if c, ok := v[chClip]; ok {
		if c <= 0.01 {
			el.SetStyle("clip-path", "")
		} else {
			el.SetStyle("clip-path", fmt.Sprintf("inset(0 0 %s%% 0)", num(c)))
		}
	}
	if d, ok := v[chDraw]; ok {
		el.SetStyle("stroke-dashoffset", num(d))
	}
}

// transformOf composes a transform string from the present channels.
// Identity values are dropped; an empty result means no transform channels
// were present at all (callers then leave the style untouched).
func transformOf(v tween.Values) string {
	var parts []string
	x, hasX := v[chX]
	y, hasY := v[chY]
	if hasX || hasY {
		if near(x, 0) && near(y, 0) {
			// keep identity explicit so reversing a scrub lands clean
			parts = append(parts, "translate(0px, 0px)")
		} else {
			parts = append(parts, fmt.Sprintf("translate(%spx, %spx)", num(x), num(y)))
		}
	}
	if s, ok := v[chScale]; ok {
		parts = append(parts, fmt.Sprintf("scale(%s)", num(s)))
	}
	if r, ok := v[chRotate]; ok {
		parts = append(parts, fmt.Sprintf("rotate(%sdeg)", num(r)))
	}
	if r, ok := v[chRotateX]; ok {
		parts = append(parts, fmt.Sprintf("rotateX(%sdeg)", num(r)))
	}
	if r, ok := v[chRotateY]; ok {
		parts = append(parts, fmt.Sprintf("rotateY(%sdeg)", num(r)))
	}
	return strings.Join(parts, " ")
}

// num formats a channel value compactly and deterministically:
// 3 decimal places, trailing zeros trimmed.
func num(f float64) string {
	s := strconv.FormatFloat(round3(f), 'f', -1, 64)
	return s
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 0.0005
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
