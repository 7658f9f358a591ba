package tween

import (
	"math"
	"strings"
)

// Ease maps normalized time [0,1] to normalized progress.
// All functions are pure so scrubbed progress stays reversible.
type Ease func(t float64) float64

// Easing catalog. Names follow the authored vocabulary of generated pages
// ("power2.out", "back.out", ...), so directives translate directly.
var eases = map[string]Ease{
	"linear":       func(t float64) float64 { return t },
	"power1.in":    powIn(2),
	"power1.out":   powOut(2),
	"power1.inout": powInOut(2),
	"power2.in":    powIn(3),
	"power2.out":   powOut(3),
	"power2.inout": powInOut(3),
	"power3.in":    powIn(4),
	"power3.out":   powOut(4),
	"power3.inout": powInOut(4),
	"sine.in":      func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	"sine.out":     func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	"sine.inout":   func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },
	"expo.out": func(t float64) float64 {
		if t >= 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*t)
	},
	"back.out": func(t float64) float64 {
		const c1 = 1.70158
		const c3 = c1 + 1
		u := t - 1
		return 1 + c3*u*u*u + c1*u*u
	},
	"elastic.out": func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		const c4 = (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	},
}

// DefaultEase is used when a directive names no easing or names an
// unknown one. Matches the original runtime's house default.
const DefaultEase = "power2.out"

// ByName resolves an easing by its authored name. Unknown names resolve
// to the default - a malformed data-ease must never break a directive.
func ByName(name string) Ease {
	if e, ok := eases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e
	}
	return eases[DefaultEase]
}

// EaseNames returns the known easing names, for validation tooling.
func EaseNames() []string {
	out := make([]string, 0, len(eases))
	for n := range eases {
		out = append(out, n)
	}
	return out
}

func powIn(p float64) Ease {
	return func(t float64) float64 { return math.Pow(t, p) }
}

func powOut(p float64) Ease {
	return func(t float64) float64 { return 1 - math.Pow(1-t, p) }
}

func powInOut(p float64) Ease {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2*t, p) / 2
		}
		return 1 - math.Pow(-2*t+2, p)/2
	}
}
