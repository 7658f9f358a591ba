// Package scan walks the rendered document once and collects directives.
//
// The pass is O(n) in marked-element count and preserves document order,
// which downstream registration relies on for deterministic traces.
// Compound directives (stagger containers, multi-step sequences) get a
// second, container-scoped pass at registration time: their pre-declared
// children determine per-item timing offsets, which can only be computed
// after the container itself is found.
package scan

import (
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/effects"
)

// Directive is one marked element with its effect id.
type Directive struct {
	Element *dom.Element
	Effect  effects.ID
}

// Collect gathers all directives in document order.
func Collect(doc *dom.Document) []Directive {
	var out []Directive
	doc.Walk(func(el *dom.Element) bool {
		if id, ok := el.Attr(effects.MarkerAttr); ok && id != "" {
			out = append(out, Directive{Element: el, Effect: effects.ID(id)})
		}
		return true
	})
	return out
}

// Elements returns just the marked elements, in document order. The
// fallback manager iterates these when forcing visibility.
func Elements(doc *dom.Document) []*dom.Element {
	ds := Collect(doc)
	out := make([]*dom.Element, len(ds))
	for i, d := range ds {
		out[i] = d.Element
	}
	return out
}

// GroupByEffect buckets directives by effect id, preserving document order
// within each bucket. Used by the scan CLI command.
func GroupByEffect(ds []Directive) map[effects.ID][]*dom.Element {
	out := make(map[effects.ID][]*dom.Element)
	for _, d := range ds {
		out[d.Effect] = append(out[d.Effect], d.Element)
	}
	return out
}
