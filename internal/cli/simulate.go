package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pageforge/flourish/internal/capability"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/engine"
	"github.com/pageforge/flourish/internal/scan"
	"github.com/pageforge/flourish/internal/theme"
	"github.com/pageforge/flourish/internal/trace"
)

// simOptions configures one simulated page load. The JSON form is stored
// with persisted runs so replay rebuilds the identical environment.
type simOptions struct {
	ThemePath     string  `json:"theme,omitempty"`
	Embedded      bool    `json:"embedded,omitempty"`
	ReducedMotion bool    `json:"reduced_motion,omitempty"`
	Touch         bool    `json:"touch,omitempty"`
	NoPrimitives  bool    `json:"no_primitives,omitempty"`
	Smooth        bool    `json:"smooth,omitempty"`
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
}

// encodeSimOptions serializes options for run metadata.
func encodeSimOptions(opts simOptions) string {
	b, err := json.Marshal(opts)
	if err != nil {
		return ""
	}
	return string(b)
}

// decodeSimOptions restores the options persisted with a run. An empty
// string decodes to the defaults.
func decodeSimOptions(raw string) (simOptions, error) {
	var opts simOptions
	if raw == "" {
		return opts, nil
	}
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return opts, fmt.Errorf("decode run options: %w", err)
	}
	return opts, nil
}

// simResult is what a simulated load produced.
type simResult struct {
	Doc        *dom.Document
	Profile    capability.Profile
	State      string
	Directives int
	Events     []trace.Event
}

// frameStep is the simulated frame delta, 1/60 s.
const frameStep = 1.0 / 60.0

// simulate runs one full deterministic page load: document ready, a scroll
// pass over the whole page in half-viewport steps with frames between, and
// a settling period long enough for every tween and the watchdog window.
//
// The same page with the same options always produces the same trace; the
// replay command depends on this.
func simulate(pagePath string, opts simOptions) (*simResult, error) {
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	doc, err := dom.ParseHTMLString(string(data))
	if err != nil {
		return nil, err
	}

	env := capability.DefaultEnv()
	if opts.Width > 0 {
		env.Width = opts.Width
	}
	if opts.Height > 0 {
		env.Height = opts.Height
	}
	env.ReducedMotion = opts.ReducedMotion
	env.Touch = opts.Touch
	if opts.Embedded {
		env.SameOrigin = false
	}
	if opts.NoPrimitives {
		env.PrimitivesOK = false
	}

	var th *theme.Theme
	if opts.ThemePath != "" {
		th, err = theme.Load(opts.ThemePath)
		if err != nil {
			return nil, err
		}
	}

	log := trace.NewLog()
	eng := engine.New(engine.Options{
		Doc:                 doc,
		Env:                 env,
		Recorder:            log,
		Theme:               th,
		DisableSmoothScroll: !opts.Smooth,
	})

	marked := len(scan.Elements(doc))

	eng.Step(engine.Ready())

	// Scroll pass over the simulated page. The engine's flow layout stacks
	// marked elements at 0.8 viewport heights each.
	blockH := env.Height * 0.8
	pageH := float64(marked) * blockH
	maxScroll := pageH - env.Height
	if maxScroll < 0 {
		maxScroll = 0
	}
	for pos := 0.0; ; pos += env.Height / 2 {
		if pos > maxScroll {
			pos = maxScroll
		}
		eng.Step(engine.ScrollTo(pos))
		for i := 0; i < 6; i++ {
			eng.Step(engine.Frame(frameStep))
		}
		if pos >= maxScroll {
			break
		}
	}

	// Settle: long enough for the slowest tween and the watchdog window.
	for i := 0; i < 300; i++ {
		eng.Step(engine.Frame(frameStep))
	}

	slog.Debug("simulation complete",
		"page", pagePath,
		"directives", marked,
		"state", eng.State().String(),
	)

	return &simResult{
		Doc:        doc,
		Profile:    eng.Profile(),
		State:      eng.State().String(),
		Directives: marked,
		Events:     log.Events(),
	}, nil
}

// describeProfile renders a profile for run metadata.
func describeProfile(p capability.Profile) string {
	return fmt.Sprintf("primitives=%t embedded=%t reduced=%t lowpower=%t viewport=%.0fx%.0f",
		p.PrimitivesAvailable, p.IsEmbedded, p.PrefersReducedMotion, p.IsLowPower,
		p.ViewportWidth, p.ViewportHeight)
}

// configureLogging routes slog to stderr at the level the verbose flag asks
// for. Stdout stays clean for formatted command output.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// countByKind summarizes a trace for command output.
func countByKind(events []trace.Event) map[string]int {
	out := make(map[string]int)
	for _, ev := range events {
		out[string(ev.Kind)]++
	}
	return out
}
