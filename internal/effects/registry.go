package effects

import (
	"github.com/pageforge/flourish/internal/capability"
	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// MarkerAttr is the attribute carrying the effect id on a directive.
const MarkerAttr = "data-effect"

// ID identifies one effect in the catalog.
type ID string

// One-shot reveal-on-enter effects. Play exactly once on first region
// entry; re-entering never replays.
const (
	Fade         ID = "fade"
	FadeUp       ID = "fade-up"
	FadeDown     ID = "fade-down"
	FadeLeft     ID = "fade-left"
	FadeRight    ID = "fade-right"
	SlideUp      ID = "slide-up"
	SlideDown    ID = "slide-down"
	SlideLeft    ID = "slide-left"
	SlideRight   ID = "slide-right"
	ScaleIn      ID = "scale-in"
	BlurIn       ID = "blur-in"
	ClipReveal   ID = "clip-reveal"
	RotateIn     ID = "rotate-in"
	FlipIn       ID = "flip-in"
	TextSplit    ID = "text-split"
	TextReveal   ID = "text-reveal"
	Typewriter   ID = "typewriter"
	Counter      ID = "counter"
	NumberTicker ID = "number-ticker"
	DrawLine     ID = "draw-line"
	Stagger      ID = "stagger"
	StaggerScale ID = "stagger-scale"
	Sequence     ID = "sequence"
)

// Scroll-scrubbed effects. Progress is a pure function of live scroll
// position: continuous, reversible, no hysteresis.
const (
	Parallax         ID = "parallax"
	ParallaxLayers   ID = "parallax-layers"
	ImageZoom        ID = "image-zoom"
	SectionReveal    ID = "section-reveal"
	PinHero          ID = "pin-hero"
	HorizontalScroll ID = "horizontal-scroll"
	ScrollRotate3D   ID = "scroll-rotate-3d"
	StickyReveal     ID = "sticky-reveal"
	ProgressBar      ID = "progress-bar"
)

// Continuous/ambient effects. Loop for the page's lifetime; only the
// particle field pauses while its container is off-screen.
const (
	Float        ID = "float"
	GradientFlow ID = "gradient-flow"
	Marquee      ID = "marquee"
	BorderBeam   ID = "border-beam"
	Shimmer      ID = "shimmer"
	Particles    ID = "particles"
)

// Interactive effects. Driven by pointer/touch events rather than scroll.
const (
	Magnetic    ID = "magnetic"
	Tilt        ID = "tilt"
	Card3D      ID = "card-3d"
	Spotlight   ID = "spotlight"
	Ripple      ID = "ripple"
	BeforeAfter ID = "before-after"
	Carousel    ID = "carousel"
)

// Class is an effect's behavioral class.
type Class int

const (
	// ClassOneShot plays once on first trigger-region entry.
	ClassOneShot Class = iota + 1
	// ClassScrubbed interpolates with live scroll position.
	ClassScrubbed
	// ClassAmbient loops indefinitely.
	ClassAmbient
	// ClassInteractive reacts to pointer/touch events.
	ClassInteractive
)

// Handler wires one directive. Handlers are independent; none may assume
// ordering relative to another handler's registration.
type Handler func(ctx *Context, el *dom.Element, cfg config.Config)

type entry struct {
	class   Class
	handler Handler
}

// catalog is the closed dispatch table. Adding an effect means adding an
// id constant, a handler, and a row here.
var catalog = map[ID]entry{
	Fade:         {ClassOneShot, fadeHandler},
	FadeUp:       {ClassOneShot, fadeUpHandler},
	FadeDown:     {ClassOneShot, fadeDownHandler},
	FadeLeft:     {ClassOneShot, fadeLeftHandler},
	FadeRight:    {ClassOneShot, fadeRightHandler},
	SlideUp:      {ClassOneShot, slideUpHandler},
	SlideDown:    {ClassOneShot, slideDownHandler},
	SlideLeft:    {ClassOneShot, slideLeftHandler},
	SlideRight:   {ClassOneShot, slideRightHandler},
	ScaleIn:      {ClassOneShot, scaleInHandler},
	BlurIn:       {ClassOneShot, blurInHandler},
	ClipReveal:   {ClassOneShot, clipRevealHandler},
	RotateIn:     {ClassOneShot, rotateInHandler},
	FlipIn:       {ClassOneShot, flipInHandler},
	TextSplit:    {ClassOneShot, textSplitHandler},
	TextReveal:   {ClassOneShot, textRevealHandler},
	Typewriter:   {ClassOneShot, typewriterHandler},
	Counter:      {ClassOneShot, counterHandler},
	NumberTicker: {ClassOneShot, numberTickerHandler},
	DrawLine:     {ClassOneShot, drawLineHandler},
	Stagger:      {ClassOneShot, staggerHandler},
	StaggerScale: {ClassOneShot, staggerScaleHandler},
	Sequence:     {ClassOneShot, sequenceHandler},

	Parallax:         {ClassScrubbed, parallaxHandler},
	ParallaxLayers:   {ClassScrubbed, parallaxLayersHandler},
	ImageZoom:        {ClassScrubbed, imageZoomHandler},
	SectionReveal:    {ClassScrubbed, sectionRevealHandler},
	PinHero:          {ClassScrubbed, pinHeroHandler},
	HorizontalScroll: {ClassScrubbed, horizontalScrollHandler},
	ScrollRotate3D:   {ClassScrubbed, scrollRotate3DHandler},
	StickyReveal:     {ClassScrubbed, stickyRevealHandler},
	ProgressBar:      {ClassScrubbed, progressBarHandler},

	Float:        {ClassAmbient, floatHandler},
	GradientFlow: {ClassAmbient, gradientFlowHandler},
	Marquee:      {ClassAmbient, marqueeHandler},
	BorderBeam:   {ClassAmbient, borderBeamHandler},
	Shimmer:      {ClassAmbient, shimmerHandler},
	Particles:    {ClassAmbient, particlesHandler},

	Magnetic:    {ClassInteractive, magneticHandler},
	Tilt:        {ClassInteractive, tiltHandler},
	Card3D:      {ClassInteractive, card3DHandler},
	Spotlight:   {ClassInteractive, spotlightHandler},
	Ripple:      {ClassInteractive, rippleHandler},
	BeforeAfter: {ClassInteractive, beforeAfterHandler},
	Carousel:    {ClassInteractive, carouselHandler},
}

// lowPowerSkip lists effects replaced by a static fully-visible state on
// low-power profiles. Scroll-heavy effects cost too much on weak devices;
// magnetic, tilt and card-3d depend on continuous pointer hover, which
// touch lacks.
var lowPowerSkip = map[ID]bool{
	Parallax:         true,
	ParallaxLayers:   true,
	PinHero:          true,
	SectionReveal:    true,
	ScrollRotate3D:   true,
	StickyReveal:     true,
	HorizontalScroll: true,
	Magnetic:         true,
	Tilt:             true,
	Card3D:           true,
}

// Known reports whether id is in the catalog.
func Known(id ID) bool {
	_, ok := catalog[id]
	return ok
}

// ClassOf returns the behavioral class of a known id (0 for unknown).
func ClassOf(id ID) Class {
	return catalog[id].class
}

// IDs returns every catalog id, unordered.
func IDs() []ID {
	out := make([]ID, 0, len(catalog))
	for id := range catalog {
		out = append(out, id)
	}
	return out
}

// SkippedOnLowPower reports whether the device-class policy prunes id.
func SkippedOnLowPower(id ID) bool {
	return lowPowerSkip[id]
}

// Context carries the injected collaborators a handler may use. One
// Context per page run; the profile is read-only.
type Context struct {
	Doc     *dom.Document
	Profile capability.Profile
	Tween   tween.Library
	Coord   *scroll.Coordinator
	Input   *input.Bus
	Layout  dom.Layout

	// Disabled lists effect ids switched off by the theme manifest.
	Disabled map[ID]bool

	rec trace.Recorder
	seq func() int64
}

// NewContext builds a handler context. rec and seq may be nil (no tracing).
func NewContext(doc *dom.Document, profile capability.Profile, lib tween.Library, coord *scroll.Coordinator, bus *input.Bus, layout dom.Layout, rec trace.Recorder, seq func() int64) *Context {
	if rec == nil {
		rec = trace.Nop{}
	}
	if seq == nil {
		n := int64(0)
		seq = func() int64 { n++; return n }
	}
	return &Context{
		Doc:     doc,
		Profile: profile,
		Tween:   lib,
		Coord:   coord,
		Input:   bus,
		Layout:  layout,
		rec:     rec,
		seq:     seq,
	}
}

// Record appends a trace event stamped with the next sequence number.
func (ctx *Context) Record(kind trace.Kind, effect ID, el *dom.Element, detail string) {
	ctx.rec.Record(trace.Event{
		Seq:    ctx.seq(),
		Kind:   kind,
		Effect: string(effect),
		Target: trace.Describe(el),
		Detail: detail,
	})
}

// Apply dispatches one directive. Unknown or theme-disabled ids and
// policy-pruned effects degrade to a static reveal - a directive must
// never leave its element invisible.
func Apply(ctx *Context, el *dom.Element, id ID, cfg config.Config) {
	ent, ok := catalog[id]
	if !ok {
		ctx.Record(trace.KindSkip, id, el, "unknown effect")
		RevealStatic(el)
		ctx.Record(trace.KindReveal, id, el, "")
		return
	}
	if ctx.Disabled[id] {
		ctx.Record(trace.KindSkip, id, el, "disabled by theme")
		RevealStatic(el)
		ctx.Record(trace.KindReveal, id, el, "")
		return
	}
	if ctx.Profile.IsLowPower && lowPowerSkip[id] {
		ctx.Record(trace.KindSkip, id, el, "low-power profile")
		RevealStatic(el)
		ctx.Record(trace.KindReveal, id, el, "")
		return
	}

	ctx.Record(trace.KindDirective, id, el, "")
	ent.handler(ctx, el, cfg)
}

// RevealStatic forces full visibility with identity transform. Used for
// degraded directives and by the fallback manager's force-reveal paths.
func RevealStatic(el *dom.Element) {
	el.SetStyle("opacity", "1")
	el.SetStyle("transform", "none")
	el.SetStyle("visibility", "visible")
	el.SetStyle("filter", "")
	el.SetStyle("clip-path", "")
}

// Hidden reports whether an element still looks unrevealed: the fallback
// manager uses it to decide which marked elements the watchdog must touch.
func Hidden(el *dom.Element) bool {
	switch el.Style("opacity") {
	case "", "1":
	default:
		return true
	}
	if v := el.Style("visibility"); v == "hidden" {
		return true
	}
	return false
}
