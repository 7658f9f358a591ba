package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pageforge/flourish/internal/capability"
	"github.com/pageforge/flourish/internal/config"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/effects"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/scan"
	"github.com/pageforge/flourish/internal/scroll"
	"github.com/pageforge/flourish/internal/theme"
	"github.com/pageforge/flourish/internal/trace"
	"github.com/pageforge/flourish/internal/tween"
)

// ReducedMotionClass is written on the document root when the host
// requests reduced motion, so generated stylesheets can style statically.
const ReducedMotionClass = "reduced-motion"

// Options configures an Engine. Doc and Env are required; everything else
// has a sensible default.
type Options struct {
	Doc *dom.Document
	Env capability.Env

	// Layout supplies element geometry. Nil selects a FlowLayout over
	// the marked elements.
	Layout dom.Layout

	// Lib is the tween primitive. Nil selects the in-repo deterministic
	// core. Note that availability is still decided by the Env probe -
	// the engine must behave as if the primitive never loaded when the
	// probe says so, whatever is injected here.
	Lib tween.Library

	// Recorder receives trace events. Nil discards them.
	Recorder trace.Recorder

	// Theme is the optional validated theme manifest.
	Theme *theme.Theme

	// DisableSmoothScroll turns off the smooth-scroll layer even outside
	// embedded contexts.
	DisableSmoothScroll bool
}

// Engine is the single-writer animation engine for one page load.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Step(): same goroutine as Run (or instead of Run, in tests)
//
// Once force-revealed, the engine stays in its safe mode: a late Ready
// event is ignored rather than re-hiding content the fallback already
// made visible.
type Engine struct {
	doc    *dom.Document
	env    capability.Env
	layout dom.Layout
	lib    tween.Library
	rec    trace.Recorder
	them   *theme.Theme

	clock *Clock
	queue *eventQueue

	profile capability.Profile
	coord   *scroll.Coordinator
	bus     *input.Bus
	smooth  *scroll.Smooth

	state   State
	wd      watchdog
	started bool

	noSmooth bool

	// navbar show/hide state (ambient behavior)
	navbarEl *dom.Element
	navLast  float64
}

// New creates an engine. Nothing runs until a Ready event is processed.
func New(opts Options) *Engine {
	lib := opts.Lib
	if lib == nil {
		lib = tween.NewCore()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = trace.Nop{}
	}
	e := &Engine{
		doc:      opts.Doc,
		env:      opts.Env,
		layout:   opts.Layout,
		lib:      lib,
		rec:      rec,
		them:     opts.Theme,
		clock:    NewClock(),
		queue:    newEventQueue(),
		noSmooth: opts.DisableSmoothScroll,
	}
	// The watchdog covers the whole window from injection to Running: a
	// Ready that never arrives is the same failure as a setup that stalls.
	e.wd.arm(0)
	return e
}

// Enqueue submits a host event for processing by the Run loop.
// Thread-safe. Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// Run starts the single-writer event loop. Blocks until the context is
// cancelled or Stop() is called.
//
// ERROR HANDLING: handler failures are contained inside Step - the loop
// never aborts because an effect mishandled an event. The page must stay
// readable whatever the animation layer does.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting")

	for {
		event, ok := e.queue.TryDequeue()
		if ok {
			e.Step(event)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			if e.queue.Len() == 0 {
				slog.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Step processes one host event synchronously. Must only be called from
// the Run goroutine; tests and the harness call it directly instead of
// running the loop.
func (e *Engine) Step(ev Event) {
	switch ev.Type {
	case EventReady:
		e.onReady()

	case EventScroll:
		if e.smooth != nil {
			e.smooth.Intent(ev.Pos)
		} else if e.coord != nil {
			e.coord.Scroll(ev.Pos)
		}
		e.updateNavbar(ev.Pos)

	case EventPointer:
		if e.bus != nil {
			e.bus.Dispatch(ev.Pointer)
		}

	case EventFrame:
		e.clock.Advance(ev.Dt)
		if e.wd.expired(e.clock.Elapsed()) {
			e.wd.markFired()
			slog.Warn("watchdog fired: initialization incomplete", "timeout", WatchdogTimeout)
			e.forceRevealHidden("watchdog timeout")
		}
		e.lib.Tick(ev.Dt)
		if e.smooth != nil {
			e.smooth.Tick(ev.Dt)
		}

	default:
		slog.Error("unknown host event", "type", ev.Type)
	}
}

// State returns the fallback manager's current state.
func (e *Engine) State() State { return e.state }

// Profile returns the resolved capability profile (zero before Ready).
func (e *Engine) Profile() capability.Profile { return e.profile }

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock { return e.clock }

// Coordinator returns the scroll coordinator (nil before Ready or after an
// environment short-circuit).
func (e *Engine) Coordinator() *scroll.Coordinator { return e.coord }

// InputBus returns the pointer bus (nil before Ready or after an
// environment short-circuit).
func (e *Engine) InputBus() *input.Bus { return e.bus }

// QueueLen returns the number of pending host events.
func (e *Engine) QueueLen() int { return e.queue.Len() }

// onReady enters Initializing and runs setup. Duplicate Ready events are
// ignored, as is a Ready arriving after the watchdog already force-revealed
// the page.
func (e *Engine) onReady() {
	if e.started {
		slog.Debug("duplicate ready event ignored")
		return
	}
	if e.state == StateForceRevealed {
		slog.Warn("ready after force-reveal ignored")
		return
	}
	e.started = true
	e.transition(StateInitializing, "document ready")
	e.setup()
}

// setup is the whole initialization pass: probe, short-circuits, scan,
// resolve, register, ambient install. Any panic is recovered and converges
// on the force-reveal fallback.
func (e *Engine) setup() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("setup panicked", "panic", r)
			e.revealAllMarked("setup failure")
		}
	}()

	e.profile = capability.Probe(e.env)
	e.record(trace.KindProbe, "", nil, fmt.Sprintf(
		"primitives=%t embedded=%t reduced=%t lowpower=%t",
		e.profile.PrimitivesAvailable,
		e.profile.IsEmbedded,
		e.profile.PrefersReducedMotion,
		e.profile.IsLowPower,
	))

	// Hard stop: without the tween/scroll primitives nothing can animate.
	// Content must never stay invisible because a dependency failed to
	// load.
	if !e.profile.PrimitivesAvailable {
		slog.Warn("animation primitives missing, revealing all content")
		e.revealAllMarked("primitives missing")
		return
	}

	// Hard stop: reduced motion gets plain content plus a root class the
	// generated stylesheet styles statically.
	if e.profile.PrefersReducedMotion {
		e.doc.Root.AddClass(ReducedMotionClass)
		e.revealAllMarked("reduced motion")
		return
	}

	// Soft stop: preview/editor embeddings must render complete, not
	// partially. No scroll coupling, no ambient behaviors, no smooth
	// scroll.
	if e.profile.IsEmbedded {
		slog.Info("embedded context, revealing without animation")
		e.revealAllMarked("embedded context")
		return
	}

	if e.layout == nil {
		e.layout = dom.NewFlowLayout(e.doc, effects.MarkerAttr,
			e.profile.ViewportHeight*0.8, e.profile.ViewportWidth)
	}
	e.coord = scroll.New(e.layout, e.profile.ViewportHeight)
	e.bus = input.NewBus()

	resolver := config.NewResolver(e.doc, e.themeOverrides())
	if e.them != nil && e.them.Speed > 0 {
		resolver.OverrideSpeed(e.them.Speed)
	}

	ctx := effects.NewContext(e.doc, e.profile, e.lib, e.coord, e.bus,
		e.layout, e.rec, e.clock.Next)
	ctx.Disabled = e.disabledEffects()

	directives := scan.Collect(e.doc)
	for _, d := range directives {
		effects.Apply(ctx, d.Element, d.Effect, resolver.Resolve(d.Element, string(d.Effect)))
	}
	slog.Info("directives registered", "count", len(directives))

	e.installAmbient()

	if !e.noSmooth {
		e.smooth = scroll.NewSmooth(e.coord, 0)
	}

	e.wd.disarm()
	e.transition(StateRunning, "setup complete")
}

// revealAllMarked forces every marked element to plain visibility. Used by
// the environment short-circuits and the setup panic path, where no effect
// has run yet and everything must end visible.
func (e *Engine) revealAllMarked(reason string) {
	e.wd.disarm()
	for _, el := range scan.Elements(e.doc) {
		effects.RevealStatic(el)
		e.record(trace.KindForceReveal, "", el, reason)
	}
	e.transition(StateForceRevealed, reason)
}

// forceRevealHidden is the watchdog's narrower reveal: only elements still
// invisible are touched; anything an effect already revealed is left to
// its natural completion.
func (e *Engine) forceRevealHidden(reason string) {
	for _, el := range scan.Elements(e.doc) {
		if effects.Hidden(el) {
			effects.RevealStatic(el)
			e.record(trace.KindForceReveal, "", el, reason)
		}
	}
	e.transition(StateForceRevealed, reason)
}

func (e *Engine) transition(s State, reason string) {
	e.state = s
	e.record(trace.KindState, "", nil, fmt.Sprintf("%s: %s", s, reason))
}

func (e *Engine) record(kind trace.Kind, effect effects.ID, el *dom.Element, detail string) {
	e.rec.Record(trace.Event{
		Seq:    e.clock.Next(),
		Kind:   kind,
		Effect: string(effect),
		Target: trace.Describe(el),
		Detail: detail,
	})
}

func (e *Engine) themeOverrides() map[string]map[string]string {
	if e.them == nil {
		return nil
	}
	return e.them.Overrides
}

func (e *Engine) disabledEffects() map[effects.ID]bool {
	if e.them == nil || len(e.them.Disabled) == 0 {
		return nil
	}
	out := make(map[effects.ID]bool, len(e.them.Disabled))
	for _, id := range e.them.Disabled {
		out[effects.ID(id)] = true
	}
	return out
}
