package effects

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/tween"
)

// Scrubbed handlers never hide their element: a scrub must be visible at
// progress 0 and progress 1, and every intermediate state is a pure
// function of live scroll position.

// parallaxHandler translates the element against scroll direction by a
// configurable speed factor across its whole viewport traversal.
func parallaxHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	speed := cfg.Float("speed", 0.3)
	travel := ctx.Profile.ViewportHeight * speed
	el.SetStyle("opacity", "1")
	el.SetStyle("will-change", "transform")

	ctx.Coord.Scrub(el, scroll.ScrubOpts{}, func(p float64) {
		// Centered: zero offset at the middle of the traversal.
		render(el, tween.Values{chY: (0.5 - p) * travel})
	})
}

// parallaxLayersHandler drives pre-declared layer children at per-layer
// speeds (data-depth on each layer, deeper moves less).
func parallaxLayersHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	layers := el.Children()
	if len(layers) == 0 {
		RevealStatic(el)
		return
	}
	el.SetStyle("opacity", "1")
	base := cfg.Float("speed", 0.5)
	depths := make([]float64, len(layers))
	for i, layer := range layers {
		depth := 1.0 - float64(i)/float64(len(layers))
		if raw, ok := layer.Attr("data-depth"); ok {
			if d := parseFloatOr(raw, depth); d >= 0 {
				depth = d
			}
		}
		depths[i] = depth
		layer.SetStyle("will-change", "transform")
	}
	travel := ctx.Profile.ViewportHeight * base

	ctx.Coord.Scrub(el, scroll.ScrubOpts{}, func(p float64) {
		for i, layer := range layers {
			render(layer, tween.Values{chY: (0.5 - p) * travel * depths[i]})
		}
	})
}

// imageZoomHandler scales the element from a zoomed-in state to identity
// as it traverses the viewport.
func imageZoomHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	from := cfg.Float("from-scale", 1.25)
	el.SetStyle("opacity", "1")
	el.SetStyle("will-change", "transform")

	ctx.Coord.Scrub(el, scroll.ScrubOpts{}, func(p float64) {
		render(el, tween.Values{chScale: from + (1-from)*p})
	})
}

// sectionRevealHandler fades and lifts a whole section in proportion to
// its entry progress. Unlike one-shot fades this is reversible.
func sectionRevealHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	distance := cfg.Float("distance", 60)
	opts := scroll.ScrubOpts{
		Start: scroll.EnterBottom,
		End:   scroll.Edge{Elem: 0, View: 0.4},
	}
	ctx.Coord.Scrub(el, opts, func(p float64) {
		render(el, tween.Values{chOpacity: p, chY: (1 - p) * distance})
	})
}

// pinHeroHandler pins the hero for one viewport height while its content
// fades and scales away.
func pinHeroHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	fadeTo := cfg.Float("fade-to", 0.0)
	scaleTo := cfg.Float("scale-to", 0.92)

	opts := scroll.ScrubOpts{
		Start: scroll.Edge{Elem: 0, View: 0},
		End:   scroll.Edge{Elem: 1, View: 0},
		Pin:   true,
	}
	ctx.Coord.Scrub(el, opts, func(p float64) {
		render(el, tween.Values{
			chOpacity: 1 + (fadeTo-1)*p,
			chScale:   1 + (scaleTo-1)*p,
		})
	})
}

// horizontalScrollHandler converts vertical progress into horizontal track
// translation: the track's overflow width is traversed once while the
// container stays pinned.
func horizontalScrollHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	track := el
	if kids := el.Children(); len(kids) > 0 {
		track = kids[0]
	}
	trackW := ctx.Layout.Rect(track).Width
	if w := cfg.Float("track-width", 0); w > 0 {
		trackW = w
	}
	overflow := trackW - ctx.Profile.ViewportWidth
	if overflow < 0 {
		overflow = 0
	}

	opts := scroll.ScrubOpts{
		Start: scroll.Edge{Elem: 0, View: 0},
		End:   scroll.Edge{Elem: 1, View: 1},
		Pin:   true,
	}
	ctx.Coord.Scrub(el, opts, func(p float64) {
		render(track, tween.Values{chX: -overflow * p})
	})
}

// scrollRotate3DHandler rotates the element in 3D across its traversal.
func scrollRotate3DHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	el.SetStyle("transform-style", "preserve-3d")
	angle := cfg.Float("angle", 35)

	ctx.Coord.Scrub(el, scroll.ScrubOpts{}, func(p float64) {
		render(el, tween.Values{chRotateX: angle * (1 - p)})
	})
}

// stickyRevealHandler holds the element while a clip wipe uncovers it.
func stickyRevealHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	opts := scroll.ScrubOpts{
		Start: scroll.EnterBottom,
		End:   scroll.Edge{Elem: 0, View: 0.25},
	}
	ctx.Coord.Scrub(el, opts, func(p float64) {
		render(el, tween.Values{chClip: (1 - p) * 100})
	})
}

// progressBarHandler maps whole-page scroll progress onto the element's
// width, for reading-progress indicators.
func progressBarHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("opacity", "1")
	target := ctx.Doc.Root
	opts := scroll.ScrubOpts{
		Start: scroll.Edge{Elem: 0, View: 0},
		End:   scroll.Edge{Elem: 1, View: 1},
	}
	ctx.Coord.Scrub(target, opts, func(p float64) {
		el.SetStyle("width", fmt.Sprintf("%s%%", num(p*100)))
	})
}

func parseFloatOr(raw string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return def
	}
	return f
}
