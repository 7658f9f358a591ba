// Package tween is the engine's tween/timeline primitive.
//
// It stands in for the external animation library the original runtime
// depends on: immediate property sets, animated transitions with easing,
// sequential timelines, and a ticking mechanism. The implementation is
// fully deterministic - nothing moves unless Tick is called - so the
// engine's event loop (and the test harness) owns time.
//
// Tweens animate named numeric channels ("opacity", "y", "scale", ...);
// rendering those channels into element styles is the caller's job via
// OnUpdate. This keeps the primitive ignorant of the document.
package tween

import "sort"

// Values is a set of named numeric animation channels.
type Values map[string]float64

// Clone copies a Values map so shared from/to maps cannot alias live state.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Keys returns channel names sorted, for deterministic iteration.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Spec describes one transition.
type Spec struct {
	From Values
	To   Values

	// Duration and Delay are in seconds. A zero Duration completes on
	// the first tick after its delay elapses.
	Duration float64
	Delay    float64

	Ease Ease

	// Loop repeats the tween forever. Yoyo additionally reverses
	// direction on alternate cycles (floating motion).
	Loop bool
	Yoyo bool

	// OnUpdate receives the interpolated channel values each tick.
	OnUpdate func(Values)
	// OnComplete fires once when a non-looping tween finishes.
	OnComplete func()
}

// Handle is an opaque reference to a live tween or timeline.
// The engine holds handles only for explicitly infinite loops.
type Handle interface {
	// Kill stops the tween without firing OnComplete.
	Kill()
	// Done reports whether the tween finished naturally.
	Done() bool
	// Progress is the eased progress of the current cycle in [0,1].
	Progress() float64
}

// Library is the primitive surface effects animate through.
type Library interface {
	// Set applies channel values immediately (no animation).
	Set(v Values, apply func(Values))
	// To starts an animated transition.
	To(s Spec) Handle
	// Timeline runs specs sequentially; each step's delay is relative
	// to the previous step's completion.
	Timeline(steps ...Spec) Handle
	// Tick advances all live tweens by dt seconds, then invokes
	// registered frame callbacks.
	Tick(dt float64)
	// OnTick registers a per-frame callback. This is the library's
	// ticking mechanism; the particle field and the autoplay carousel
	// hang off it.
	OnTick(fn func(dt float64))
	// Active returns the number of live tweens, for diagnostics.
	Active() int
}

// Core is the in-repo deterministic Library implementation.
type Core struct {
	live    []*tween
	tickFns []func(dt float64)
}

// NewCore creates an empty tween core.
func NewCore() *Core {
	return &Core{}
}

type tween struct {
	spec    Spec
	elapsed float64 // time since start, excluding delay
	waiting float64 // remaining delay
	killed  bool
	done    bool
	eased   float64
}

// Set implements Library.
func (c *Core) Set(v Values, apply func(Values)) {
	if apply != nil {
		apply(v.Clone())
	}
}

// To implements Library.
func (c *Core) To(s Spec) Handle {
	if s.Ease == nil {
		s.Ease = ByName(DefaultEase)
	}
	tw := &tween{spec: s, waiting: s.Delay}
	c.live = append(c.live, tw)
	return tw
}

// Timeline implements Library. Steps are chained by rewriting each step's
// delay to the cumulative end time of its predecessor.
func (c *Core) Timeline(steps ...Spec) Handle {
	offset := 0.0
	handles := make([]*tween, 0, len(steps))
	for _, s := range steps {
		s.Delay += offset
		offset = s.Delay + s.Duration
		handles = append(handles, c.To(s).(*tween))
	}
	return timelineHandle(handles)
}

// Tick implements Library.
func (c *Core) Tick(dt float64) {
	if dt < 0 {
		return
	}
	kept := c.live[:0]
	for _, tw := range c.live {
		tw.step(dt)
		if !tw.killed && !tw.done {
			kept = append(kept, tw)
		}
	}
	// Zero dropped slots so finished tweens can be collected.
	for i := len(kept); i < len(c.live); i++ {
		c.live[i] = nil
	}
	c.live = kept

	for _, fn := range c.tickFns {
		fn(dt)
	}
}

// OnTick implements Library.
func (c *Core) OnTick(fn func(dt float64)) {
	if fn != nil {
		c.tickFns = append(c.tickFns, fn)
	}
}

// Active implements Library.
func (c *Core) Active() int { return len(c.live) }

func (tw *tween) step(dt float64) {
	if tw.killed || tw.done {
		return
	}
	if tw.waiting > 0 {
		tw.waiting -= dt
		if tw.waiting > 0 {
			return
		}
		// Spill the overshoot into elapsed time.
		dt = -tw.waiting
		tw.waiting = 0
	}
	tw.elapsed += dt

	var t float64
	switch {
	case tw.spec.Duration <= 0:
		t = 1
	case tw.spec.Loop:
		cycle := tw.elapsed / tw.spec.Duration
		t = cycle - float64(int(cycle))
		if tw.spec.Yoyo && int(cycle)%2 == 1 {
			t = 1 - t
		}
	default:
		t = tw.elapsed / tw.spec.Duration
		if t >= 1 {
			t = 1
		}
	}

	tw.eased = tw.spec.Ease(t)
	if tw.spec.OnUpdate != nil {
		tw.spec.OnUpdate(tw.at(tw.eased))
	}

	if !tw.spec.Loop && t >= 1 {
		tw.done = true
		if tw.spec.OnComplete != nil {
			tw.spec.OnComplete()
		}
	}
}

// at interpolates channel values at eased progress p. Channels present
// only in To are treated as starting from zero.
func (tw *tween) at(p float64) Values {
	out := make(Values, len(tw.spec.To))
	for k, to := range tw.spec.To {
		from := tw.spec.From[k]
		out[k] = from + (to-from)*p
	}
	return out
}

func (tw *tween) Kill()             { tw.killed = true }
func (tw *tween) Done() bool        { return tw.done }
func (tw *tween) Progress() float64 { return tw.eased }

// timelineHandle aggregates sequential tween handles.
type timelineHandle []*tween

func (h timelineHandle) Kill() {
	for _, tw := range h {
		tw.Kill()
	}
}

func (h timelineHandle) Done() bool {
	for _, tw := range h {
		if !tw.Done() {
			return false
		}
	}
	return true
}

func (h timelineHandle) Progress() float64 {
	if len(h) == 0 {
		return 1
	}
	sum := 0.0
	for _, tw := range h {
		sum += tw.Progress()
	}
	return sum / float64(len(h))
}
