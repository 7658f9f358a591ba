package effects

import (
	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// ItemAttr marks an element as a pre-declared child of a compound
// directive. When absent, the container's direct children are the items.
const ItemAttr = "data-stagger-item"

// CompoundIDs are the effects whose children must be enumerated after the
// container is found - child count and order determine per-item timing.
var CompoundIDs = map[ID]bool{
	Stagger:      true,
	StaggerScale: true,
	Sequence:     true,
}

// staggerItems resolves a compound directive's items: marked descendants
// if any are declared, otherwise the container's direct children.
func staggerItems(el *dom.Element) []*dom.Element {
	var marked []*dom.Element
	var walk func(*dom.Element)
	walk = func(e *dom.Element) {
		for _, c := range e.Children() {
			if c.HasAttr(ItemAttr) {
				marked = append(marked, c)
			}
			walk(c)
		}
	}
	walk(el)
	if len(marked) > 0 {
		return marked
	}
	return el.Children()
}

// staggerGroup is the shared shape of stagger and stagger-scale: hide every
// item, then play one tween per item with index-scaled delays on first
// container entry.
func staggerGroup(ctx *Context, id ID, el *dom.Element, cfg config.Config, from tween.Values) {
	items := staggerItems(el)
	if len(items) == 0 {
		RevealStatic(el)
		return
	}
	to := identityFor(from)
	for _, item := range items {
		render(item, from)
	}
	el.SetStyle("opacity", "1")

	step := cfg.Duration("stagger", 0.1)
	dur := cfg.Duration("duration", 0.6)
	ease := tween.ByName(cfg.String("ease", tween.DefaultEase))

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, id, el, "")
		ctx.Record(trace.KindTween, id, el, "")
		for i, item := range items {
			it := item
			ctx.Tween.To(tween.Spec{
				From:     from.Clone(),
				To:       to.Clone(),
				Duration: dur,
				Delay:    cfg.Delay("delay", 0) + float64(i)*step,
				Ease:     ease,
				OnUpdate: func(v tween.Values) { render(it, v) },
			})
		}
	})
}

func staggerHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	staggerGroup(ctx, Stagger, el, cfg, tween.Values{
		chOpacity: 0,
		chY:       cfg.Float("distance", 24),
	})
}

func staggerScaleHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	staggerGroup(ctx, StaggerScale, el, cfg, tween.Values{
		chOpacity: 0,
		chScale:   cfg.Float("from-scale", 0.85),
	})
}

// sequenceHandler plays the items strictly one after another: each step
// starts when the previous one completes (a timeline, not a stagger).
func sequenceHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	items := staggerItems(el)
	if len(items) == 0 {
		RevealStatic(el)
		return
	}
	from := tween.Values{chOpacity: 0, chY: cfg.Float("distance", 24)}
	to := identityFor(from)
	for _, item := range items {
		render(item, from)
	}
	el.SetStyle("opacity", "1")

	dur := cfg.Duration("duration", 0.5)
	ease := tween.ByName(cfg.String("ease", tween.DefaultEase))

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, Sequence, el, "")
		ctx.Record(trace.KindTween, Sequence, el, "")
		steps := make([]tween.Spec, 0, len(items))
		for i, item := range items {
			it := item
			delay := 0.0
			if i == 0 {
				delay = cfg.Delay("delay", 0)
			}
			steps = append(steps, tween.Spec{
				From:     from.Clone(),
				To:       to.Clone(),
				Duration: dur,
				Delay:    delay,
				Ease:     ease,
				OnUpdate: func(v tween.Values) { render(it, v) },
			})
		}
		ctx.Tween.Timeline(steps...)
	})
}
