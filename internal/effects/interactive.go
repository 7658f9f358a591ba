package effects

import (
	"fmt"

	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// Interactive handlers subscribe to the injected pointer bus. Nothing here
// registers a listener under a low-power profile - the registry's policy
// table prunes hover effects before their handler runs, and the remaining
// handlers degrade touch input to their pointer path.

// inside reports whether a page-coordinate point is inside the rect.
func inside(r dom.Rect, x, y float64) bool {
	return x >= r.Left && x <= r.Left+r.Width && y >= r.Top && y <= r.Top+r.Height
}

// magneticHandler pulls the element toward a nearby pointer and releases
// it smoothly when the pointer leaves the attraction radius.
func magneticHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	strength := cfg.Float("strength", 0.3)
	radius := cfg.Float("radius", 120)

	ctx.Input.OnMove(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		cx := r.Left + r.Width/2
		cy := r.Top + r.Height/2
		dx := ev.X - cx
		dy := ev.Y - cy
		if dx*dx+dy*dy <= radius*radius {
			render(el, tween.Values{chX: dx * strength, chY: dy * strength})
		} else {
			render(el, tween.Values{chX: 0, chY: 0})
		}
	})
}

// tiltHandler rotates the element in 3D toward the pointer while hovered.
func tiltHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("transform-style", "preserve-3d")
	maxAngle := cfg.Float("angle", 12)

	ctx.Input.OnMove(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			render(el, tween.Values{chRotateX: 0, chRotateY: 0})
			return
		}
		// Normalized offset from center in [-1, 1].
		nx := (ev.X - r.Left - r.Width/2) / (r.Width / 2)
		ny := (ev.Y - r.Top - r.Height/2) / (r.Height / 2)
		render(el, tween.Values{
			chRotateX: -ny * maxAngle,
			chRotateY: nx * maxAngle,
		})
	})
}

// card3DHandler is tilt plus depth scale and a pointer-tracking shine.
func card3DHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("transform-style", "preserve-3d")
	maxAngle := cfg.Float("angle", 10)
	hoverScale := cfg.Float("hover-scale", 1.04)

	ctx.Input.OnMove(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			render(el, tween.Values{chRotateX: 0, chRotateY: 0, chScale: 1})
			el.SetStyle("--shine-x", "50%")
			el.SetStyle("--shine-y", "50%")
			return
		}
		nx := (ev.X - r.Left) / r.Width
		ny := (ev.Y - r.Top) / r.Height
		render(el, tween.Values{
			chRotateX: -(ny - 0.5) * 2 * maxAngle,
			chRotateY: (nx - 0.5) * 2 * maxAngle,
			chScale:   hoverScale,
		})
		el.SetStyle("--shine-x", fmt.Sprintf("%s%%", num(nx*100)))
		el.SetStyle("--shine-y", fmt.Sprintf("%s%%", num(ny*100)))
	})
}

// spotlightHandler tracks the pointer with a radial highlight.
func spotlightHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("--spot-x", "50%")
	el.SetStyle("--spot-y", "50%")

	ctx.Input.OnMove(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			return
		}
		el.SetStyle("--spot-x", fmt.Sprintf("%s%%", num((ev.X-r.Left)/r.Width*100)))
		el.SetStyle("--spot-y", fmt.Sprintf("%s%%", num((ev.Y-r.Top)/r.Height*100)))
	})
}

// rippleHandler expands a helper span from the click point. Spent ripples
// stay in the tree at opacity 0 (no teardown by design).
func rippleHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("overflow", "hidden")
	dur := cfg.Duration("duration", 0.6)

	ctx.Input.OnClick(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			return
		}
		ripple := dom.NewElement("span")
		ripple.AddClass("fx-ripple")
		ripple.SetStyle("left", fmt.Sprintf("%spx", num(ev.X-r.Left)))
		ripple.SetStyle("top", fmt.Sprintf("%spx", num(ev.Y-r.Top)))
		el.AppendChild(ripple)

		ctx.Record(trace.KindTween, Ripple, el, "")
		ctx.Tween.To(tween.Spec{
			From:     tween.Values{chScale: 0, chOpacity: 0.35},
			To:       tween.Values{chScale: 4, chOpacity: 0},
			Duration: dur,
			Ease:     tween.ByName("power2.out"),
			OnUpdate: func(v tween.Values) { render(ripple, v) },
		})
	})
}

// beforeAfterHandler is the pointer-scrubbed comparison slider: the reveal
// position is a pure function of the pointer's horizontal position over
// the element, so moving back exactly reverses the state.
func beforeAfterHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	overlay := dom.NewElement("div")
	overlay.AddClass("fx-before")
	overlay.SetStyle("width", "50%")
	handle := dom.NewElement("div")
	handle.AddClass("fx-handle")
	handle.SetStyle("left", "50%")
	el.AppendChild(overlay)
	el.AppendChild(handle)

	ctx.Input.OnMove(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			return
		}
		p := clamp01((ev.X - r.Left) / r.Width)
		pct := fmt.Sprintf("%s%%", num(p*100))
		overlay.SetStyle("width", pct)
		handle.SetStyle("left", pct)
	})
}

// carouselHandler autoplays a snap carousel: the track advances one slide
// per interval on the library's frame ticks and wraps around.
func carouselHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("overflow", "hidden")
	slides := el.Children()
	if len(slides) < 2 {
		RevealStatic(el)
		return
	}
	interval := cfg.Duration("interval", 4)
	if interval <= 0 {
		interval = 4
	}

	index := 0
	elapsed := 0.0
	apply := func() {
		for i, s := range slides {
			if i == index {
				s.SetStyle("opacity", "1")
			} else {
				s.SetStyle("opacity", "0")
			}
		}
		el.SetAttr("data-slide", fmt.Sprintf("%d", index))
	}
	apply()

	ctx.Record(trace.KindTween, Carousel, el, "loop")
	ctx.Tween.OnTick(func(dt float64) {
		elapsed += dt
		for elapsed >= interval {
			elapsed -= interval
			index = (index + 1) % len(slides)
			apply()
		}
	})

	// A tap/click inside the carousel advances immediately and restarts
	// the autoplay window.
	ctx.Input.OnClick(func(ev input.Event) {
		r := ctx.Layout.Rect(el)
		if !inside(r, ev.X, ev.Y) {
			return
		}
		elapsed = 0
		index = (index + 1) % len(slides)
		apply()
	})
}
