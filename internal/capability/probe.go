// Package capability detects host constraints and produces the capability
// profile every other component consults.
//
// The profile is computed exactly once per page load and never mutated.
// Components receive it by value at construction - there is no ambient
// global, which keeps the engine testable with synthetic profiles.
package capability

// LowPowerViewportWidth is the viewport width below which a device is
// treated as low-power. Matches the original runtime's mobile breakpoint.
const LowPowerViewportWidth = 768

// Env is the host surface the probe reads. Production hosts adapt real
// browser facts; tests and the CLI use StaticEnv.
type Env interface {
	// SameOriginTop reports whether the top document is same-origin
	// reachable. A non-nil error means the access probe itself was
	// denied (cross-origin sandbox).
	SameOriginTop() (bool, error)

	// PrefersReducedMotion reports the reduced-motion media preference.
	PrefersReducedMotion() bool

	// ViewportWidth and ViewportHeight are the visual viewport in px.
	ViewportWidth() float64
	ViewportHeight() float64

	// TouchPrimary reports whether the primary input is touch
	// (no hover semantics).
	TouchPrimary() bool

	// PrimitivesAvailable reports whether the external tween/timeline
	// and scroll-coordination primitives loaded.
	PrimitivesAvailable() bool
}

// Profile is the resolved set of environment facts.
// Read-only after Probe returns.
type Profile struct {
	// PrimitivesAvailable is false when a required external primitive
	// failed to load. The engine must then reveal everything and exit.
	PrimitivesAvailable bool

	// IsEmbedded is true inside a restricted/sandboxed embedding
	// (preview iframes, editors). Fails safe: a denied access probe
	// counts as embedded.
	IsEmbedded bool

	// PrefersReducedMotion mirrors the accessibility preference.
	PrefersReducedMotion bool

	// IsLowPower is true on narrow viewports or touch-primary input.
	// Expensive scroll effects and hover effects are pruned under it.
	IsLowPower bool

	// ViewportWidth and ViewportHeight are captured for trigger-region
	// math so the coordinator never re-reads the host.
	ViewportWidth  float64
	ViewportHeight float64
}

// Probe computes the capability profile. Pure except for the one defensive
// same-origin read; never panics, never errors - every failure mode folds
// into a conservative profile field.
func Probe(env Env) Profile {
	p := Profile{
		PrimitivesAvailable:  env.PrimitivesAvailable(),
		PrefersReducedMotion: env.PrefersReducedMotion(),
		ViewportWidth:        env.ViewportWidth(),
		ViewportHeight:       env.ViewportHeight(),
	}

	sameOrigin, err := env.SameOriginTop()
	if err != nil {
		// Access denied means a cross-origin sandbox. Fail toward
		// "disable animation", never toward "silently break".
		p.IsEmbedded = true
	} else {
		p.IsEmbedded = !sameOrigin
	}

	p.IsLowPower = p.ViewportWidth < LowPowerViewportWidth || env.TouchPrimary()

	return p
}

// StaticEnv is a fixed Env for tests, scenarios and CLI simulation.
type StaticEnv struct {
	SameOrigin    bool
	SameOriginErr error
	ReducedMotion bool
	Width         float64
	Height        float64
	Touch         bool
	PrimitivesOK  bool
}

// DefaultEnv returns a desktop-class environment with primitives loaded,
// the configuration the CLI simulates when no overrides are given.
func DefaultEnv() StaticEnv {
	return StaticEnv{
		SameOrigin:   true,
		Width:        1440,
		Height:       900,
		PrimitivesOK: true,
	}
}

func (s StaticEnv) SameOriginTop() (bool, error) { return s.SameOrigin, s.SameOriginErr }
func (s StaticEnv) PrefersReducedMotion() bool   { return s.ReducedMotion }
func (s StaticEnv) ViewportWidth() float64       { return s.Width }
func (s StaticEnv) ViewportHeight() float64      { return s.Height }
func (s StaticEnv) TouchPrimary() bool           { return s.Touch }
func (s StaticEnv) PrimitivesAvailable() bool    { return s.PrimitivesOK }
