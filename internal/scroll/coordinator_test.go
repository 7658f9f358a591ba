package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageforge/flourish/internal/dom"
)

// fixedLayout places one element at a known rect inside a 900px viewport.
func fixedLayout(el *dom.Element, r dom.Rect) dom.Layout {
	return &dom.MapLayout{Rects: map[*dom.Element]dom.Rect{el: r}}
}

func TestOnce_FiresAtTriggerPoint(t *testing.T) {
	el := dom.NewElement("div")
	// Trigger at pos = 900 - 900*0.85 = 135.
	c := New(fixedLayout(el, dom.Rect{Top: 900, Height: 300}), 900)

	fired := 0
	c.Once(el, 0.85, func() { fired++ })
	assert.Equal(t, 0, fired, "below the trigger at registration")

	c.Scroll(134)
	assert.Equal(t, 0, fired)

	c.Scroll(135)
	assert.Equal(t, 1, fired)
}

func TestOnce_NeverReplays(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 900, Height: 300}), 900)

	fired := 0
	c.Once(el, 0.85, func() { fired++ })

	c.Scroll(500)
	c.Scroll(0) // scroll back above the trigger
	c.Scroll(500)
	assert.Equal(t, 1, fired, "re-entering the region must not replay")
}

func TestOnce_AlreadyPastAtRegistration(t *testing.T) {
	el := dom.NewElement("div")
	// Element at the very top of the page: trigger position is negative,
	// so position 0 is already past it.
	c := New(fixedLayout(el, dom.Rect{Top: 0, Height: 300}), 900)

	fired := 0
	c.Once(el, 0.85, func() { fired++ })
	assert.Equal(t, 1, fired, "elements above the fold fire at registration")
}

func TestOnce_InvalidViewFracUsesDefault(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 900, Height: 300}), 900)

	fired := 0
	c.Once(el, 0, func() { fired++ }) // invalid, falls back to 0.85

	c.Scroll(134)
	assert.Equal(t, 0, fired)
	c.Scroll(135)
	assert.Equal(t, 1, fired)
}

func TestScrub_ProgressIsPureFunctionOfPosition(t *testing.T) {
	el := dom.NewElement("div")
	// Defaults: start = top meets viewport bottom = 1200-900 = 300;
	// end = bottom meets viewport top = 1500.
	c := New(fixedLayout(el, dom.Rect{Top: 1200, Height: 300}), 900)

	var got []float64
	c.Scrub(el, ScrubOpts{}, func(p float64) { got = append(got, p) })

	c.Scroll(300)
	c.Scroll(900)
	c.Scroll(1500)
	c.Scroll(900) // reverse
	c.Scroll(900) // duplicate event

	// Registration evaluates once at pos 0.
	require.Len(t, got, 6)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
	assert.Equal(t, 0.5, got[2])
	assert.Equal(t, 1.0, got[3])
	assert.Equal(t, 0.5, got[4], "scrolling back exactly reverses")
	assert.Equal(t, 0.5, got[5], "duplicate events cannot drift progress")
}

func TestScrub_ClampsOutsideRegion(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 1200, Height: 300}), 900)

	var last float64 = -1
	c.Scrub(el, ScrubOpts{}, func(p float64) { last = p })

	c.Scroll(0)
	assert.Equal(t, 0.0, last)
	c.Scroll(99999)
	assert.Equal(t, 1.0, last)
}

func TestScrub_CustomEdges(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 0, Height: 600}), 900)

	var last float64 = -1
	// Start when element top is at viewport top, end when 40% of the
	// viewport has passed the element top.
	c.Scrub(el, ScrubOpts{
		Start: Edge{Elem: 0, View: 0},
		End:   Edge{Elem: 1, View: 0.4},
	}, func(p float64) { last = p })

	// start = 0, end = 600 - 360 = 240.
	c.Scroll(120)
	assert.Equal(t, 0.5, last)
}

func TestScrub_Pin_AppliedStrictlyInsideRegion(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 900, Height: 900}), 900)

	c.Scrub(el, ScrubOpts{
		Start: Edge{Elem: 0, View: 0}, // 900
		End:   Edge{Elem: 1, View: 0}, // 1800
		Pin:   true,
	}, nil)

	assert.Empty(t, el.Style("position"), "not pinned before the region")

	c.Scroll(1350) // p = 0.5
	assert.Equal(t, "fixed", el.Style("position"))
	assert.Equal(t, "0px", el.Style("top"))

	c.Scroll(1800) // p = 1, boundary releases
	assert.Empty(t, el.Style("position"))
	assert.Empty(t, el.Style("top"))

	c.Scroll(1350)
	assert.Equal(t, "fixed", el.Style("position"), "re-entering re-pins")

	c.Scroll(900) // p = 0 boundary
	assert.Empty(t, el.Style("position"))
}

func TestScrub_DegenerateRegion(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 500, Height: 100}), 900)

	var last float64 = -1
	// End before start: progress becomes a step function at start.
	c.Scrub(el, ScrubOpts{
		Start: Edge{Elem: 0, View: 0}, // 500
		End:   Edge{Elem: 0, View: 1}, // -400
	}, func(p float64) { last = p })

	c.Scroll(499)
	assert.Equal(t, 0.0, last)
	c.Scroll(500)
	assert.Equal(t, 1.0, last)
}

func TestObserve_EdgeTriggered(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 2000, Height: 300}), 900)

	enters, leaves := 0, 0
	c.Observe(el, func() { enters++ }, func() { leaves++ })

	// Initial state (off-screen) is reported at registration.
	assert.Equal(t, 0, enters)
	assert.Equal(t, 1, leaves)

	c.Scroll(500)
	assert.Equal(t, 1, leaves, "staying off-screen repeats nothing")

	c.Scroll(1200) // element top (2000) < 1200+900
	assert.Equal(t, 1, enters)

	c.Scroll(1300)
	assert.Equal(t, 1, enters, "staying visible repeats nothing")

	c.Scroll(0)
	assert.Equal(t, 2, leaves)
}

func TestObserve_InitiallyVisible(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 100, Height: 300}), 900)

	enters := 0
	c.Observe(el, func() { enters++ }, nil)
	assert.Equal(t, 1, enters)
}

func TestScroll_NegativePositionClamped(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 100, Height: 100}), 900)

	c.Scroll(-50)
	assert.Equal(t, 0.0, c.Pos())
}

func TestCoordinator_BindingCount(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 100, Height: 100}), 900)
	assert.Equal(t, 0, c.BindingCount())

	c.Once(el, 0.85, nil)
	c.Scrub(el, ScrubOpts{}, nil)
	assert.Equal(t, 2, c.BindingCount())
}

func TestResync_UpdatesLikeScroll(t *testing.T) {
	el := dom.NewElement("div")
	c := New(fixedLayout(el, dom.Rect{Top: 900, Height: 300}), 900)

	fired := 0
	c.Once(el, 0.85, func() { fired++ })

	c.Resync(200)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 200.0, c.Pos())
}
