package effects

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pageforge/flourish/internal/capability"
	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/testutil"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// rig assembles a full handler context over a parsed fragment with an
// explicit layout, so tests control geometry and time directly.
type rig struct {
	doc    *dom.Document
	core   *tween.Core
	coord  *scroll.Coordinator
	bus    *input.Bus
	log    *trace.Log
	layout *dom.MapLayout
	ctx    *Context
}

func desktopProfile() capability.Profile {
	return capability.Profile{
		PrimitivesAvailable: true,
		ViewportWidth:       1440,
		ViewportHeight:      900,
	}
}

func lowPowerProfile() capability.Profile {
	p := desktopProfile()
	p.IsLowPower = true
	return p
}

func newRig(t *testing.T, html string, profile capability.Profile) *rig {
	t.Helper()
	doc, err := dom.ParseHTMLString(html)
	require.NoError(t, err)

	layout := &dom.MapLayout{
		Rects: map[*dom.Element]dom.Rect{},
		// Below the fold by default: one-shots must not fire at
		// registration unless a test scrolls there.
		Default: dom.Rect{Top: 2000, Width: 1200, Height: 300},
	}
	core := tween.NewCore()
	coord := scroll.New(layout, profile.ViewportHeight)
	bus := input.NewBus()
	log := trace.NewLog()
	clk := testutil.NewDeterministicClock()
	ctx := NewContext(doc, profile, core, coord, bus, layout, log, clk.Next)
	return &rig{doc: doc, core: core, coord: coord, bus: bus, log: log, layout: layout, ctx: ctx}
}

func (r *rig) el(t *testing.T, id string) *dom.Element {
	t.Helper()
	var found *dom.Element
	r.doc.Walk(func(e *dom.Element) bool {
		if e.AttrOr("id", "") == id {
			found = e
			return false
		}
		return true
	})
	require.NotNil(t, found, "element #%s", id)
	return found
}

func (r *rig) place(el *dom.Element, rect dom.Rect) {
	r.layout.Rects[el] = rect
}

// apply dispatches the element's authored directive through the registry,
// the same path the engine takes.
func (r *rig) apply(t *testing.T, el *dom.Element) {
	t.Helper()
	id, ok := el.Attr(MarkerAttr)
	require.True(t, ok, "element carries no directive")
	cfg := config.NewResolver(r.doc, nil).Resolve(el, id)
	Apply(r.ctx, el, ID(id), cfg)
}

func (r *rig) kindCount(kind trace.Kind) int {
	n := 0
	for _, ev := range r.log.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
