package harness

import (
	"fmt"

	"github.com/pageforge/flourish/internal/capability"
	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/engine"
	"github.com/pageforge/flourish/internal/input"
	"github.com/pageforge/flourish/internal/theme"
	"github.com/pageforge/flourish/internal/trace"
)

// defaultFrameStep is the per-frame delta for advance steps, 1/60 s.
const defaultFrameStep = 1.0 / 60.0

// Result holds everything a scenario run produced.
type Result struct {
	Scenario *Scenario
	Doc      *dom.Document
	Engine   *engine.Engine
	Trace    []trace.Event
}

// Run executes a scenario: parse the page, build the environment, feed the
// event script through the engine synchronously, and capture the trace.
//
// Running is deterministic: the same scenario always yields the same Result.
func Run(s *Scenario) (*Result, error) {
	doc, err := dom.ParseHTMLString(s.HTML)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	env := buildEnv(s.Capabilities)

	var th *theme.Theme
	if s.Theme != "" {
		th, err = theme.Parse(s.Theme, s.Name+".theme.cue")
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
	}

	log := trace.NewLog()
	eng := engine.New(engine.Options{
		Doc:                 doc,
		Env:                 env,
		Layout:              buildLayout(s, doc, env),
		Recorder:            log,
		Theme:               th,
		DisableSmoothScroll: !s.SmoothScroll,
	})

	for i, step := range s.Events {
		if err := apply(eng, doc, step); err != nil {
			return nil, fmt.Errorf("scenario %s: events[%d]: %w", s.Name, i, err)
		}
	}

	return &Result{
		Scenario: s,
		Doc:      doc,
		Engine:   eng,
		Trace:    log.Events(),
	}, nil
}

func buildEnv(c *CapabilitySpec) capability.StaticEnv {
	env := capability.DefaultEnv()
	if c == nil {
		return env
	}
	if c.PrimitivesMissing {
		env.PrimitivesOK = false
	}
	if c.Embedded {
		env.SameOrigin = false
	}
	if c.ProbeDenied {
		env.SameOriginErr = fmt.Errorf("cross-origin access denied")
	}
	env.ReducedMotion = c.ReducedMotion
	env.Touch = c.Touch
	if c.ViewportWidth > 0 {
		env.Width = c.ViewportWidth
	}
	if c.ViewportHeight > 0 {
		env.Height = c.ViewportHeight
	}
	return env
}

// buildLayout returns a MapLayout when the scenario pins geometry, else nil
// so the engine falls back to its flow layout.
func buildLayout(s *Scenario, doc *dom.Document, env capability.StaticEnv) dom.Layout {
	if len(s.Layout) == 0 {
		return nil
	}
	rects := make(map[*dom.Element]dom.Rect, len(s.Layout))
	for id, r := range s.Layout {
		if el := elementByID(doc, id); el != nil {
			rects[el] = dom.Rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
		}
	}
	return &dom.MapLayout{
		Rects:   rects,
		Default: dom.Rect{Width: env.Width, Height: env.Height},
	}
}

func apply(eng *engine.Engine, doc *dom.Document, step EventStep) error {
	switch {
	case step.Ready:
		eng.Step(engine.Ready())

	case step.Scroll != nil:
		eng.Step(engine.ScrollTo(*step.Scroll))

	case step.Frame != nil:
		eng.Step(engine.Frame(*step.Frame))

	case step.Advance != nil:
		dt := step.Advance.Step
		if dt <= 0 {
			dt = defaultFrameStep
		}
		for t := 0.0; t < step.Advance.Seconds; t += dt {
			eng.Step(engine.Frame(dt))
		}

	case step.Pointer != nil:
		ev, err := pointerEvent(doc, step.Pointer)
		if err != nil {
			return err
		}
		eng.Step(engine.Pointer(ev))
	}
	return nil
}

func pointerEvent(doc *dom.Document, p *PointerStep) (input.Event, error) {
	ev := input.Event{X: p.X, Y: p.Y}
	switch p.Kind {
	case "move":
		ev.Kind = input.Move
	case "down":
		ev.Kind = input.Down
	case "up":
		ev.Kind = input.Up
	case "click":
		ev.Kind = input.Click
	default:
		return ev, fmt.Errorf("unknown pointer kind %q", p.Kind)
	}
	if p.Target != "" {
		el := elementByID(doc, p.Target)
		if el == nil {
			return ev, fmt.Errorf("pointer target %q not found", p.Target)
		}
		ev.Target = el
	}
	return ev, nil
}

func elementByID(doc *dom.Document, id string) *dom.Element {
	var found *dom.Element
	doc.Walk(func(el *dom.Element) bool {
		if el.AttrOr("id", "") == id {
			found = el
			return false
		}
		return true
	})
	return found
}
