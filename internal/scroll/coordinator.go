// Package scroll adapts the external scroll-coordination primitive.
//
// The coordinator owns the engine's notion of scroll position and maps it
// onto registered trigger regions. Two binding modes exist:
//
//   - fire-once: a callback plays exactly one time, the first time the
//     element's trigger point enters the viewport. Re-entering never
//     replays.
//   - scrub: progress is re-derived from the live scroll position on every
//     event - never integrated - so duplicate, skipped or out-of-order
//     scroll events cannot drift the visual state, and scrolling back
//     exactly reverses it.
//
// Bindings are evaluated in registration order. No binding may assume
// anything about another binding's registration.
package scroll

import (
	"github.com/pageforge/flourish/internal/dom"
)

// DefaultEnterView is the default fire-once trigger policy: play when the
// element's top reaches 85% of the viewport height.
const DefaultEnterView = 0.85

// Edge names a trigger boundary: the scroll position at which a fraction
// of the element (Elem: 0=top, 1=bottom) meets a fraction of the viewport
// (View: 0=top, 1=bottom).
type Edge struct {
	Elem float64
	View float64
}

// position converts the edge into an absolute scroll position for rect.
func (e Edge) position(rect dom.Rect, viewportH float64) float64 {
	return rect.Top + rect.Height*e.Elem - viewportH*e.View
}

// EnterBottom is the scrub default start: element top meets viewport bottom.
var EnterBottom = Edge{Elem: 0, View: 1}

// LeaveTop is the scrub default end: element bottom meets viewport top.
var LeaveTop = Edge{Elem: 1, View: 0}

type bindingMode int

const (
	modeOnce bindingMode = iota
	modeScrub
)

type binding struct {
	mode   bindingMode
	el     *dom.Element
	start  Edge
	end    Edge
	pin    bool
	pinned bool
	fired  bool
	onFire func()
	onMove func(progress float64)
}

type observer struct {
	el      *dom.Element
	visible bool
	primed  bool
	onEnter func()
	onLeave func()
}

// Coordinator binds directives to viewport-intersection and scroll-position
// events. One instance per page; every effect registers independently.
type Coordinator struct {
	layout    dom.Layout
	viewportH float64
	pos       float64

	bindings  []*binding
	observers []*observer
}

// New creates a coordinator at scroll position 0.
func New(layout dom.Layout, viewportH float64) *Coordinator {
	return &Coordinator{layout: layout, viewportH: viewportH}
}

// Pos returns the coordinator's current scroll position.
func (c *Coordinator) Pos() float64 { return c.pos }

// BindingCount returns the number of registered bindings, for diagnostics
// and the "no listeners registered" test properties.
func (c *Coordinator) BindingCount() int { return len(c.bindings) }

// Once registers a fire-once binding: fire plays the first time the
// element's top reaches viewFrac of the viewport height. Elements already
// past the trigger at registration time fire on the next position update.
func (c *Coordinator) Once(el *dom.Element, viewFrac float64, fire func()) {
	if viewFrac <= 0 || viewFrac > 1 {
		viewFrac = DefaultEnterView
	}
	b := &binding{
		mode:   modeOnce,
		el:     el,
		start:  Edge{Elem: 0, View: viewFrac},
		onFire: fire,
	}
	c.bindings = append(c.bindings, b)
	c.evaluate(b)
}

// ScrubOpts configures a scrub binding.
type ScrubOpts struct {
	Start Edge
	End   Edge
	// Pin holds the element fixed at the viewport top for the region's
	// duration while progress scrubs.
	Pin bool
}

// Scrub registers a scrub binding: onProgress receives clamped progress in
// [0,1], a pure function of the live scroll position between start and end.
func (c *Coordinator) Scrub(el *dom.Element, opts ScrubOpts, onProgress func(float64)) {
	if opts.Start == (Edge{}) {
		opts.Start = EnterBottom
	}
	if opts.End == (Edge{}) {
		opts.End = LeaveTop
	}
	b := &binding{
		mode:   modeScrub,
		el:     el,
		start:  opts.Start,
		end:    opts.End,
		pin:    opts.Pin,
		onMove: onProgress,
	}
	c.bindings = append(c.bindings, b)
	c.evaluate(b)
}

// Observe registers viewport-intersection tracking for an element.
// onEnter/onLeave are edge-triggered; the initial state is reported on the
// first position update (or immediately if already resolved).
func (c *Coordinator) Observe(el *dom.Element, onEnter, onLeave func()) {
	o := &observer{el: el, onEnter: onEnter, onLeave: onLeave}
	c.observers = append(c.observers, o)
	c.check(o)
}

// Scroll handles a native scroll event.
func (c *Coordinator) Scroll(pos float64) {
	c.update(pos)
}

// Resync refreshes the internal scroll position from the smooth-scroll
// layer. The smooth layer intercepts native scrolling, so this explicit
// refresh - not native scroll events - is the source of truth while it
// is active.
func (c *Coordinator) Resync(pos float64) {
	c.update(pos)
}

func (c *Coordinator) update(pos float64) {
	if pos < 0 {
		pos = 0
	}
	c.pos = pos
	for _, b := range c.bindings {
		c.evaluate(b)
	}
	for _, o := range c.observers {
		c.check(o)
	}
}

func (c *Coordinator) evaluate(b *binding) {
	rect := c.layout.Rect(b.el)
	startPos := b.start.position(rect, c.viewportH)

	switch b.mode {
	case modeOnce:
		if b.fired {
			return
		}
		if c.pos >= startPos {
			b.fired = true
			if b.onFire != nil {
				b.onFire()
			}
		}

	case modeScrub:
		endPos := b.end.position(rect, c.viewportH)
		p := progress(c.pos, startPos, endPos)
		if b.pin {
			c.applyPin(b, p)
		}
		if b.onMove != nil {
			b.onMove(p)
		}
	}
}

// progress is the scrub invariant: a pure clamp of the live position.
func progress(pos, start, end float64) float64 {
	if end <= start {
		if pos >= start {
			return 1
		}
		return 0
	}
	p := (pos - start) / (end - start)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// applyPin holds the element fixed while progress is strictly inside the
// region and releases it at either boundary.
func (c *Coordinator) applyPin(b *binding, p float64) {
	active := p > 0 && p < 1
	if active == b.pinned {
		return
	}
	b.pinned = active
	if active {
		b.el.SetStyle("position", "fixed")
		b.el.SetStyle("top", "0px")
	} else {
		b.el.SetStyle("position", "")
		b.el.SetStyle("top", "")
	}
}

func (c *Coordinator) check(o *observer) {
	rect := c.layout.Rect(o.el)
	visible := rect.Bottom() > c.pos && rect.Top < c.pos+c.viewportH
	if o.primed && visible == o.visible {
		return
	}
	o.primed = true
	o.visible = visible
	if visible {
		if o.onEnter != nil {
			o.onEnter()
		}
	} else if o.onLeave != nil {
		o.onLeave()
	}
}
