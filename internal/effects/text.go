package effects

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// splitRunes returns the element's text as NFC-normalized runes.
// Generated content arrives in whatever normal form the model emitted;
// normalizing first keeps accented characters in one piece.
func splitRunes(text string) []rune {
	return []rune(norm.NFC.String(text))
}

// textSplitHandler splits the text into per-character helper spans and
// reveals them with a per-character stagger. The original text node is
// cleared; the spans are owned by this handler.
func textSplitHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	runes := splitRunes(el.TextContent())
	if len(runes) == 0 {
		RevealStatic(el)
		return
	}
	el.Text = ""

	spans := make([]*dom.Element, 0, len(runes))
	for _, r := range runes {
		span := dom.NewElement("span")
		span.Text = string(r)
		span.SetStyle("display", "inline-block")
		render(span, tween.Values{chOpacity: 0, chY: cfg.Float("distance", 16)})
		el.AppendChild(span)
		spans = append(spans, span)
	}
	el.SetStyle("opacity", "1")

	stagger := cfg.Duration("stagger", 0.03)
	dur := cfg.Duration("duration", 0.5)
	ease := tween.ByName(cfg.String("ease", tween.DefaultEase))

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, TextSplit, el, "")
		ctx.Record(trace.KindTween, TextSplit, el, "")
		for i, span := range spans {
			sp := span
			ctx.Tween.To(tween.Spec{
				From:     tween.Values{chOpacity: 0, chY: cfg.Float("distance", 16)},
				To:       tween.Values{chOpacity: 1, chY: 0},
				Duration: dur,
				Delay:    cfg.Delay("delay", 0) + float64(i)*stagger,
				Ease:     ease,
				OnUpdate: func(v tween.Values) { render(sp, v) },
			})
		}
	})
}

// textRevealHandler wraps each word in a clipping helper span and slides
// the words up with a per-word stagger.
func textRevealHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	words := strings.Fields(norm.NFC.String(el.TextContent()))
	if len(words) == 0 {
		RevealStatic(el)
		return
	}
	el.Text = ""

	inners := make([]*dom.Element, 0, len(words))
	for i, w := range words {
		clip := dom.NewElement("span")
		clip.SetStyle("display", "inline-block")
		clip.SetStyle("overflow", "hidden")
		inner := dom.NewElement("span")
		inner.Text = w
		if i < len(words)-1 {
			inner.Text += " "
		}
		inner.SetStyle("display", "inline-block")
		render(inner, tween.Values{chY: 110, chOpacity: 0})
		clip.AppendChild(inner)
		el.AppendChild(clip)
		inners = append(inners, inner)
	}
	el.SetStyle("opacity", "1")

	stagger := cfg.Duration("stagger", 0.08)
	dur := cfg.Duration("duration", 0.7)
	ease := tween.ByName(cfg.String("ease", tween.DefaultEase))

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, TextReveal, el, "")
		ctx.Record(trace.KindTween, TextReveal, el, "")
		for i, inner := range inners {
			in := inner
			ctx.Tween.To(tween.Spec{
				From:     tween.Values{chY: 110, chOpacity: 0},
				To:       tween.Values{chY: 0, chOpacity: 1},
				Duration: dur,
				Delay:    cfg.Delay("delay", 0) + float64(i)*stagger,
				Ease:     ease,
				OnUpdate: func(v tween.Values) { render(in, v) },
			})
		}
	})
}

// typewriterHandler reveals the text one character at a time at a fixed
// character rate. The element stays fully opaque; only the text grows.
func typewriterHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	runes := splitRunes(el.TextContent())
	if len(runes) == 0 {
		RevealStatic(el)
		return
	}
	el.Text = ""
	el.SetStyle("opacity", "1")

	cps := cfg.Float("speed", 30) // characters per second
	if cps <= 0 {
		cps = 30
	}
	total := float64(len(runes)) / cps

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, Typewriter, el, "")
		ctx.Record(trace.KindTween, Typewriter, el, "")
		ctx.Tween.To(tween.Spec{
			From:     tween.Values{"count": 0},
			To:       tween.Values{"count": float64(len(runes))},
			Duration: cfg.Duration("duration", total),
			Delay:    cfg.Delay("delay", 0),
			Ease:     tween.ByName("linear"),
			OnUpdate: func(v tween.Values) {
				n := int(v["count"])
				if n > len(runes) {
					n = len(runes)
				}
				el.Text = string(runes[:n])
			},
			OnComplete: func() { el.Text = string(runes) },
		})
	})
}
