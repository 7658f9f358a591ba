package effects

import (
	"math"
	"strings"
	"unicode"

	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// CounterTarget is the parsed form of a counter directive's raw text.
// "€1.234,56 /mese" resolves to prefix "€", value 1234.56, suffix "/mese",
// grouping '.', decimal ',' and two decimals; formatting reuses the same
// separator convention so the animated text matches the authored one.
type CounterTarget struct {
	Prefix   string
	Suffix   string
	Value    float64
	Decimals int
	Group    rune // 0 when the source had no grouping separator
	Decimal  rune // 0 when the source had no decimal part
}

// ParseCounterTarget extracts the numeric target from raw text.
// Returns ok=false when no digits are present.
func ParseCounterTarget(raw string) (CounterTarget, bool) {
	first := strings.IndexFunc(raw, unicode.IsDigit)
	if first < 0 {
		return CounterTarget{}, false
	}

	// The numeric run is digits plus '.' and ',' separators; it ends at
	// the first character that is neither.
	end := first
	for end < len(raw) {
		c := raw[end]
		if c >= '0' && c <= '9' || c == '.' || c == ',' {
			end++
			continue
		}
		break
	}
	// Trailing separators belong to the suffix ("1,234." is not a number).
	for end > first && (raw[end-1] == '.' || raw[end-1] == ',') {
		end--
	}

	numText := raw[first:end]
	t := CounterTarget{
		Prefix: strings.TrimSpace(raw[:first]),
		Suffix: strings.TrimSpace(raw[end:]),
	}

	lastDot := strings.LastIndexByte(numText, '.')
	lastComma := strings.LastIndexByte(numText, ',')

	var decimal rune
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the later one is the decimal separator.
		if lastComma > lastDot {
			decimal, t.Group = ',', '.'
		} else {
			decimal, t.Group = '.', ','
		}
	case lastComma >= 0:
		decimal = ','
		if sepIsGrouping(numText, lastComma, ',') {
			decimal, t.Group = 0, ','
		}
	case lastDot >= 0:
		decimal = '.'
		if sepIsGrouping(numText, lastDot, '.') {
			decimal, t.Group = 0, '.'
		}
	}

	intPart := numText
	fracPart := ""
	if decimal != 0 {
		if i := strings.LastIndexByte(numText, byte(decimal)); i >= 0 {
			intPart, fracPart = numText[:i], numText[i+1:]
		}
		t.Decimal = decimal
		t.Decimals = len(fracPart)
	}

	var value float64
	for _, c := range intPart {
		if c >= '0' && c <= '9' {
			value = value*10 + float64(c-'0')
		}
	}
	scale := 0.1
	for _, c := range fracPart {
		value += float64(c-'0') * scale
		scale /= 10
	}
	t.Value = value
	return t, true
}

// sepIsGrouping decides whether a lone separator is grouping rather than
// decimal: it groups when it appears more than once, or when exactly three
// digits follow it (the "1.234" convention).
func sepIsGrouping(numText string, last int, sep byte) bool {
	if strings.Count(numText, string(sep)) > 1 {
		return true
	}
	return len(numText)-last-1 == 3
}

// Format renders v with the target's separator convention, clamped to the
// target's decimal count.
func (t CounterTarget) Format(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	pow := math.Pow(10, float64(t.Decimals))
	scaled := math.Round(v * pow)
	intVal := int64(scaled / pow)
	fracVal := int64(scaled) - intVal*int64(pow)

	intText := groupDigits(intVal, t.Group)

	var b strings.Builder
	b.WriteString(t.Prefix)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intText)
	if t.Decimals > 0 && t.Decimal != 0 {
		b.WriteRune(t.Decimal)
		frac := padLeft(fracVal, t.Decimals)
		b.WriteString(frac)
	}
	b.WriteString(t.Suffix)
	return b.String()
}

func groupDigits(n int64, group rune) string {
	digits := []byte{}
	if n == 0 {
		digits = append(digits, '0')
	}
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	// digits are reversed
	var b strings.Builder
	total := len(digits)
	for i := total - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
		if group != 0 && i > 0 && i%3 == 0 {
			b.WriteRune(group)
		}
	}
	return b.String()
}

func padLeft(n int64, width int) string {
	s := ""
	for i := 0; i < width; i++ {
		s = string(byte('0'+n%10)) + s
		n /= 10
	}
	return s
}

// counterHandler animates the element's numeric text from zero to its
// authored value, preserving prefix, suffix and separator convention.
func counterHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	runCounter(ctx, Counter, el, cfg, 2.0, "power1.out")
}

// numberTickerHandler is the counter variant used for dashboard-style
// numbers: faster, with a sharper ease.
func numberTickerHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	runCounter(ctx, NumberTicker, el, cfg, 1.2, "power3.out")
}

func runCounter(ctx *Context, id ID, el *dom.Element, cfg config.Config, defDur float64, defEase string) {
	target, ok := ParseCounterTarget(el.TextContent())
	if !ok {
		RevealStatic(el)
		ctx.Record(trace.KindReveal, id, el, "no numeric content")
		return
	}

	el.Text = target.Format(0)
	el.SetStyle("opacity", "1")

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, id, el, "")
		ctx.Record(trace.KindTween, id, el, "")
		ctx.Tween.To(tween.Spec{
			From:     tween.Values{"value": cfg.Float("from", 0)},
			To:       tween.Values{"value": target.Value},
			Duration: cfg.Duration("duration", defDur),
			Delay:    cfg.Delay("delay", 0),
			Ease:     tween.ByName(cfg.String("ease", defEase)),
			OnUpdate: func(v tween.Values) {
				el.Text = target.Format(v["value"])
			},
			OnComplete: func() {
				el.Text = target.Format(target.Value)
			},
		})
	})
}

// drawLineHandler animates an SVG stroke from invisible to fully drawn
// the first time the element enters the viewport.
func drawLineHandler(ctx *Context, el *dom.Element, cfg config.Config) {
	el.SetStyle("stroke-dasharray", "100")
	el.SetStyle("stroke-dashoffset", "100")
	el.SetStyle("opacity", "1")

	ctx.Coord.Once(el, cfg.Float("threshold", scroll.DefaultEnterView), func() {
		ctx.Record(trace.KindFire, DrawLine, el, "")
		ctx.Record(trace.KindTween, DrawLine, el, "")
		ctx.Tween.To(tween.Spec{
			From:     tween.Values{chDraw: 100},
			To:       tween.Values{chDraw: 0},
			Duration: cfg.Duration("duration", 1.5),
			Delay:    cfg.Delay("delay", 0),
			Ease:     tween.ByName(cfg.String("ease", "power2.inout")),
			OnUpdate: func(v tween.Values) { render(el, v) },
		})
	})
}
