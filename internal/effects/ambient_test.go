package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageforge/flourish/internal/dom"
)

func TestFloat_DriftsAndReturns(t *testing.T) {
	r := newRig(t, `<html><body><div id="orb" data-effect="float"></div></body></html>`, desktopProfile())
	el := r.el(t, "orb")
	r.apply(t, el)

	assert.Equal(t, "1", el.Style("opacity"))

	// Duration 3s, sine.inout, yoyo between -10 and +10: the midpoint of
	// the first cycle is the resting offset.
	r.core.Tick(1.5)
	assert.Equal(t, "translate(0px, 0px)", el.Style("transform"))

	// Full cycle later the element is back where the yoyo reversed it.
	r.core.Tick(3)
	assert.Equal(t, "translate(0px, 0px)", el.Style("transform"))
}

func TestGradientFlow(t *testing.T) {
	r := newRig(t, `<html><body><div id="bg" data-effect="gradient-flow"></div></body></html>`, desktopProfile())
	el := r.el(t, "bg")
	r.apply(t, el)

	assert.Equal(t, "200% 200%", el.Style("background-size"))

	r.core.Tick(3) // t = 0.5 of a 6s linear loop
	assert.Equal(t, "50% 50%", el.Style("background-position"))
}

func TestMarquee_DuplicatesChildrenExactlyOnce(t *testing.T) {
	r := newRig(t, `<html><body>
		<div id="strip" data-effect="marquee">
			<span id="a">alpha</span><span id="b">beta</span>
		</div>
	</body></html>`, desktopProfile())
	el := r.el(t, "strip")

	r.apply(t, el)
	require.Equal(t, 4, el.ChildCount(), "children are doubled for the seamless wrap")

	kids := el.Children()
	assert.Equal(t, "alpha", kids[2].Text)
	assert.Equal(t, "true", kids[2].AttrOr("aria-hidden", ""))
	assert.False(t, kids[2].HasAttr(MarkerAttr), "clones carry no directive markers")

	// A second registration must not double again.
	r.apply(t, el)
	assert.Equal(t, 4, el.ChildCount())
}

func TestMarquee_OffsetWrapsSeamlessly(t *testing.T) {
	r := newRig(t, `<html><body>
		<div id="strip" data-effect="marquee" data-content-width="600">
			<span>alpha</span>
		</div>
	</body></html>`, desktopProfile())
	el := r.el(t, "strip")
	r.apply(t, el)

	// Default speed 50 px/s.
	r.core.Tick(1)
	assert.Equal(t, "translate(-50px, 0px)", el.Style("transform"))

	// 12s total: offset = mod(600, 600) = 0, the wrap boundary.
	r.core.Tick(11)
	assert.Equal(t, "translate(0px, 0px)", el.Style("transform"))
}

func TestMarquee_ReverseDirection(t *testing.T) {
	r := newRig(t, `<html><body>
		<div id="strip" data-effect="marquee" data-content-width="600" data-direction="right">
			<span>alpha</span>
		</div>
	</body></html>`, desktopProfile())
	el := r.el(t, "strip")
	r.apply(t, el)

	r.core.Tick(1)
	assert.Equal(t, "translate(-550px, 0px)", el.Style("transform"))
}

func TestBorderBeam(t *testing.T) {
	r := newRig(t, `<html><body><div id="card" data-effect="border-beam"></div></body></html>`, desktopProfile())
	el := r.el(t, "card")
	r.apply(t, el)

	r.core.Tick(1) // t = 0.25 of a 4s linear loop
	assert.Equal(t, "90deg", el.Style("--beam-angle"))
}

func TestShimmer(t *testing.T) {
	r := newRig(t, `<html><body><div id="skeleton" data-effect="shimmer"></div></body></html>`, desktopProfile())
	el := r.el(t, "skeleton")
	r.apply(t, el)

	r.core.Tick(1.2) // t = 0.5: pos = -100 + 300*0.5 = 50
	assert.Equal(t, "50% 0", el.Style("background-position"))
}

func TestParticles_GatedByVisibility(t *testing.T) {
	r := newRig(t, `<html><body><div id="field" data-effect="particles"></div></body></html>`, desktopProfile())
	el := r.el(t, "field")
	// Off-screen at scroll position 0.
	r.place(el, dom.Rect{Top: 2000, Width: 1200, Height: 600})

	r.apply(t, el)
	require.Equal(t, 1, el.ChildCount())
	canvas := el.Children()[0]
	assert.Equal(t, "canvas", canvas.Tag)
	assert.Equal(t, "0", canvas.AttrOr("data-frames", ""))

	// Off-screen: the field must do no work at all.
	r.core.Tick(1)
	r.core.Tick(1)
	assert.Equal(t, "0", canvas.AttrOr("data-frames", ""))

	// Scroll it into view and the redraw loop resumes.
	r.coord.Scroll(1500)
	r.core.Tick(1)
	assert.Equal(t, "1", canvas.AttrOr("data-frames", ""))
	r.core.Tick(1)
	assert.Equal(t, "2", canvas.AttrOr("data-frames", ""))

	// Leaving the viewport pauses it again.
	r.coord.Scroll(0)
	r.core.Tick(1)
	assert.Equal(t, "2", canvas.AttrOr("data-frames", ""))
}

func TestCloneSubtree_DeepCopy(t *testing.T) {
	src := dom.NewElement("div")
	src.Text = "outer"
	src.AddClass("item")
	child := dom.NewElement("span")
	child.Text = "inner"
	src.AppendChild(child)

	clone := cloneSubtree(src)
	require.Equal(t, 1, clone.ChildCount())
	assert.Equal(t, "outer", clone.Text)
	assert.True(t, clone.HasClass("item"))
	assert.Equal(t, "inner", clone.Children()[0].Text)
	assert.Equal(t, "true", clone.AttrOr("aria-hidden", ""))

	// Mutating the clone leaves the source untouched.
	clone.Children()[0].Text = "changed"
	assert.Equal(t, "inner", src.Children()[0].Text)
}
