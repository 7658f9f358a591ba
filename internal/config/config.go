// Package config resolves per-element animation parameters.
//
// Every parameter has a hard-coded default owned by its effect handler.
// Authored data-* attributes override defaults; theme manifest overrides
// sit between the two. A single page-wide speed multiplier scales every
// duration and delay uniformly so a generated site's pace can be tuned
// without touching each directive.
//
// Parse failures never surface: a malformed number or enum silently falls
// back to the default. Generated and third-party content cannot be trusted
// to be well-formed, and a broken attribute must never break the page.
package config

import (
	"strconv"
	"strings"

	"github.com/pageforge/flourish/internal/dom"
)

// SpeedAttr is the root-element attribute carrying the page-wide speed
// multiplier. The inline style custom property --anim-speed is honored as
// a fallback for themes that set it via CSS.
const SpeedAttr = "data-anim-speed"

const (
	minSpeed = 0.1
	maxSpeed = 10
)

// Resolver turns marked elements into typed Configs.
type Resolver struct {
	speed float64
	// overrides maps effect id -> param -> value, from the theme manifest.
	overrides map[string]map[string]string
}

// NewResolver reads the page speed multiplier from the document root and
// captures theme overrides. overrides may be nil.
func NewResolver(doc *dom.Document, overrides map[string]map[string]string) *Resolver {
	speed := 1.0
	if doc != nil && doc.Root != nil {
		raw, ok := doc.Root.Attr(SpeedAttr)
		if !ok {
			raw = doc.Root.Style("--anim-speed")
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && v > 0 {
			speed = clamp(v, minSpeed, maxSpeed)
		}
	}
	return &Resolver{speed: speed, overrides: overrides}
}

// Speed returns the resolved page-wide multiplier.
func (r *Resolver) Speed() float64 { return r.speed }

// OverrideSpeed replaces the page multiplier, clamped to the same range as
// authored values. The theme manifest wins over the root attribute.
func (r *Resolver) OverrideSpeed(v float64) {
	if v > 0 {
		r.speed = clamp(v, minSpeed, maxSpeed)
	}
}

// Resolve binds an element and its effect id into a Config.
// Never fails - missing or malformed parameters resolve to defaults.
func (r *Resolver) Resolve(el *dom.Element, effectID string) Config {
	return Config{el: el, effect: effectID, speed: r.speed, overrides: r.overrides}
}

// Config is a typed, lazy view over one directive's parameters.
// Getters take the short parameter name ("duration", not "data-duration").
type Config struct {
	el        *dom.Element
	effect    string
	speed     float64
	overrides map[string]map[string]string
}

// lookup returns the raw parameter value: element attribute first, then
// theme override, then absent.
func (c Config) lookup(name string) (string, bool) {
	if c.el != nil {
		if v, ok := c.el.Attr("data-" + name); ok {
			return v, true
		}
	}
	if o, ok := c.overrides[c.effect]; ok {
		if v, ok := o[name]; ok {
			return v, true
		}
	}
	return "", false
}

// String returns the raw string parameter, or def if absent or empty.
func (c Config) String(name, def string) string {
	if v, ok := c.lookup(name); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// Float returns a float parameter, or def on absence or parse failure.
func (c Config) Float(name string, def float64) float64 {
	v, ok := c.lookup(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Int returns an integer parameter, or def on absence or parse failure.
func (c Config) Int(name string, def int) int {
	v, ok := c.lookup(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Bool returns a boolean parameter. Accepts true/false/1/0/yes/no;
// anything else resolves to def. A bare attribute ("data-loop") is true.
func (c Config) Bool(name string, def bool) bool {
	v, ok := c.lookup(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

// Duration returns a duration parameter in seconds, scaled by the
// page-wide speed multiplier. Negative or malformed values resolve to
// the (scaled) default.
func (c Config) Duration(name string, def float64) float64 {
	v := c.Float(name, def)
	if v < 0 {
		v = def
	}
	return v * c.speed
}

// Delay is Duration with delay semantics; separate only for call-site
// readability.
func (c Config) Delay(name string, def float64) float64 {
	return c.Duration(name, def)
}

// Enum returns the parameter if it is one of allowed (case-insensitive),
// else def.
func (c Config) Enum(name, def string, allowed ...string) string {
	v, ok := c.lookup(name)
	if !ok {
		return def
	}
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

// Color returns a color parameter as an opaque string. No validation
// beyond non-emptiness - the engine only writes colors into styles.
func (c Config) Color(name, def string) string {
	return c.String(name, def)
}

// Element returns the owning element.
func (c Config) Element() *dom.Element { return c.el }

// EffectID returns the effect this config was resolved for.
func (c Config) EffectID() string { return c.effect }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
