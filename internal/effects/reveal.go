package effects

import (
	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// Shared one-shot defaults. Individual parameters are still overridable
// per directive via data-* attributes.
const (
	defaultDuration = 0.8
	defaultDistance = 40.0
)

// identityFor maps each hidden-state channel to its resting value.
func identityFor(from tween.Values) tween.Values {
	to := make(tween.Values, len(from))
	for ch := range from {
		switch ch {
		case chOpacity, chScale:
			to[ch] = 1
		default:
			to[ch] = 0
		}
	}
	return to
}

// oneShot implements the common reveal-on-enter shape: apply the hidden
// state now, then play a single transition to identity the first time the
// trigger region is entered. The coordinator's fire-once latch guarantees
// idempotence.
func oneShot(ctx *Context, id ID, el *dom.Element, cfg config.Config, from tween.Values) {
	from[chOpacity] = 0
	to := identityFor(from)
	render(el, from)

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, id, el, "")
		playTween(ctx, id, el, cfg, from, to, nil)
	})
}

// playTween starts the standard configured transition for a directive.
func playTween(ctx *Context, id ID, el *dom.Element, cfg config.Config, from, to tween.Values, onComplete func()) tween.Handle {
	ctx.Record(trace.KindTween, id, el, "")
	return ctx.Tween.To(tween.Spec{
		From:       from,
		To:         to,
		Duration:   cfg.Duration("duration", defaultDuration),
		Delay:      cfg.Delay("delay", 0),
		Ease:       tween.ByName(cfg.String("ease", tween.DefaultEase)),
		OnUpdate:   func(v tween.Values) { render(el, v) },
		OnComplete: onComplete,
	})
}

func fadeHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, Fade, el, cfg, tween.Values{})
}

func fadeUpHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, FadeUp, el, cfg, tween.Values{chY: cfg.Float("distance", defaultDistance)})
}

func fadeDownHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, FadeDown, el, cfg, tween.Values{chY: -cfg.Float("distance", defaultDistance)})
}

func fadeLeftHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, FadeLeft, el, cfg, tween.Values{chX: cfg.Float("distance", defaultDistance)})
}

func fadeRightHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, FadeRight, el, cfg, tween.Values{chX: -cfg.Float("distance", defaultDistance)})
}

// Slides travel further than fades by default.
const slideDistance = 100.0

func slideUpHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, SlideUp, el, cfg, tween.Values{chY: cfg.Float("distance", slideDistance)})
}

func slideDownHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, SlideDown, el, cfg, tween.Values{chY: -cfg.Float("distance", slideDistance)})
}

func slideLeftHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, SlideLeft, el, cfg, tween.Values{chX: cfg.Float("distance", slideDistance)})
}

func slideRightHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, SlideRight, el, cfg, tween.Values{chX: -cfg.Float("distance", slideDistance)})
}

func scaleInHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, ScaleIn, el, cfg, tween.Values{chScale: cfg.Float("from-scale", 0.8)})
}

func blurInHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, BlurIn, el, cfg, tween.Values{chBlur: cfg.Float("blur", 12)})
}

func clipRevealHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, ClipReveal, el, cfg, tween.Values{chClip: 100})
}

func rotateInHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	oneShot(ctx, RotateIn, el, cfg, tween.Values{
		chRotate: cfg.Float("angle", -8),
		chY:      cfg.Float("distance", defaultDistance),
	})
}

func flipInHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	axis := cfg.Enum("axis", "x", "x", "y")
	from := tween.Values{}
	if axis == "y" {
		from[chRotateY] = cfg.Float("angle", 90)
	} else {
		from[chRotateX] = cfg.Float("angle", 90)
	}
	el.SetStyle("transform-style", "preserve-3d")
	oneShot(ctx, FlipIn, el, cfg, from)
}
