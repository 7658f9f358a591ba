package effects

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// Ambient handlers start immediately and loop for the page's lifetime.
// They are assumed cheap enough to run unconditionally - the particle
// field is the one exception and gates itself on viewport visibility.

// floatHandler drifts the element up and down forever.
func floatHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	amp := cfg.Float("amplitude", 10)
	ctx.Record(trace.KindTween, Float, el, "loop")
	ctx.Tween.To(tween.Spec{
		From:     tween.Values{chY: -amp},
		To:       tween.Values{chY: amp},
		Duration: cfg.Duration("duration", 3),
		Ease:     tween.ByName("sine.inout"),
		Loop:     true,
		Yoyo:     true,
		OnUpdate: func(v tween.Values) { render(el, v) },
	})
}

// gradientFlowHandler cycles the background position through one full
// period per loop.
func gradientFlowHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("background-size", "200% 200%")
	ctx.Record(trace.KindTween, GradientFlow, el, "loop")
	ctx.Tween.To(tween.Spec{
		From:     tween.Values{"pos": 0},
		To:       tween.Values{"pos": 100},
		Duration: cfg.Duration("duration", 6),
		Ease:     tween.ByName("linear"),
		Loop:     true,
		Yoyo:     true,
		OnUpdate: func(v tween.Values) {
			el.SetStyle("background-position", fmt.Sprintf("%s%% 50%%", num(v["pos"])))
		},
	})
}

// marqueeReadyClass guards against duplicating children more than once.
const marqueeReadyClass = "fx-marquee-ready"

// marqueeHandler duplicates the container's children exactly once (2N
// items) and translates the strip continuously; the offset wraps at half
// the strip width, so the loop boundary is invisible.
func marqueeHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("overflow", "hidden")

	if !el.HasClass(marqueeReadyClass) {
		el.AddClass(marqueeReadyClass)
		for _, child := range el.Children() {
			el.AppendChild(cloneSubtree(child))
		}
	}

	half := cfg.Float("content-width", 0)
	if half <= 0 {
		half = ctx.Layout.Rect(el).Width
	}
	if half <= 0 {
		half = 1 // degenerate layout; keep the math defined
	}
	speed := cfg.Float("speed", 50) // px per second
	reverse := cfg.Enum("direction", "left", "left", "right") == "right"

	ctx.Record(trace.KindTween, Marquee, el, "loop")
	elapsed := 0.0
	ctx.Tween.OnTick(func(dt float64) {
		elapsed += dt
		offset := math.Mod(elapsed*speed, half)
		if reverse {
			offset = half - offset
		}
		render(el, tween.Values{chX: -offset})
	})
}

// cloneSubtree deep-copies an element for marquee duplication.
// Handler-owned clones never carry effect markers, so the scanner cannot
// pick them up on a hypothetical re-scan.
func cloneSubtree(el *dom.Element) *dom.Element {
	c := dom.NewElement(el.Tag)
	c.Text = el.Text
	c.SetAttr("aria-hidden", "true")
	for _, cls := range el.Classes() {
		c.AddClass(cls)
	}
	for _, child := range el.Children() {
		c.AppendChild(cloneSubtree(child))
	}
	return c
}

// borderBeamHandler sweeps a highlight around the element's border.
func borderBeamHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	ctx.Record(trace.KindTween, BorderBeam, el, "loop")
	ctx.Tween.To(tween.Spec{
		From:     tween.Values{"angle": 0},
		To:       tween.Values{"angle": 360},
		Duration: cfg.Duration("duration", 4),
		Ease:     tween.ByName("linear"),
		Loop:     true,
		OnUpdate: func(v tween.Values) {
			el.SetStyle("--beam-angle", fmt.Sprintf("%sdeg", num(v["angle"])))
		},
	})
}

// shimmerHandler slides a highlight band across the element forever.
func shimmerHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	ctx.Record(trace.KindTween, Shimmer, el, "loop")
	ctx.Tween.To(tween.Spec{
		From:     tween.Values{"pos": -100},
		To:       tween.Values{"pos": 200},
		Duration: cfg.Duration("duration", 2.4),
		Ease:     tween.ByName("linear"),
		Loop:     true,
		OnUpdate: func(v tween.Values) {
			el.SetStyle("background-position", fmt.Sprintf("%s%% 0", num(v["pos"])))
		},
	})
}

// particle is one particle's state inside a field.
type particle struct {
	x, y   float64
	vx, vy float64
}

// particlesHandler maintains a drifting particle field on a handler-owned
// canvas child. The redraw loop is gated by viewport visibility: while the
// container is off-screen the field performs no work at all (stop
// producing, don't queue).
func particlesHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")

	canvas := dom.NewElement("canvas")
	canvas.SetAttr("data-particle-canvas", "")
	canvas.SetAttr("data-frames", "0")
	el.AppendChild(canvas)

	rect := ctx.Layout.Rect(el)
	w, h := rect.Width, rect.Height
	if w <= 0 {
		w = ctx.Profile.ViewportWidth
	}
	if h <= 0 {
		h = ctx.Profile.ViewportHeight
	}

	count := cfg.Int("count", 40)
	if count < 1 {
		count = 1
	}
	speed := cfg.Float("speed", 12)

	// Deterministic placement: a fixed low-discrepancy spread, not a RNG,
	// so replays produce identical fields.
	field := make([]particle, count)
	for i := range field {
		f := float64(i)
		field[i] = particle{
			x:  math.Mod(f*0.618033988749895, 1) * w,
			y:  math.Mod(f*0.381966011250105, 1) * h,
			vx: math.Cos(f) * speed,
			vy: math.Sin(f) * speed,
		}
	}

	visible := false
	frames := 0
	ctx.Coord.Observe(el,
		func() { visible = true },
		func() { visible = false },
	)

	ctx.Record(trace.KindTween, Particles, el, "loop")
	ctx.Tween.OnTick(func(dt float64) {
		if !visible {
			return
		}
		for i := range field {
			p := &field[i]
			p.x = wrap(p.x+p.vx*dt, w)
			p.y = wrap(p.y+p.vy*dt, h)
		}
		frames++
		canvas.SetAttr("data-frames", strconv.Itoa(frames))
	})
}

func wrap(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	v = math.Mod(v, max)
	if v < 0 {
		v += max
	}
	return v
}
