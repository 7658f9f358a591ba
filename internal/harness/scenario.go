package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one simulated page load.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// HTML is the page markup. Elements carry their data-effect markers
	// and parameters exactly as a generated page would.
	HTML string `yaml:"html"`

	// Layout optionally pins element geometry by id. Elements not listed
	// fall back to the engine's flow layout.
	Layout map[string]RectSpec `yaml:"layout,omitempty"`

	// Capabilities overrides the simulated host environment.
	Capabilities *CapabilitySpec `yaml:"capabilities,omitempty"`

	// Theme is an optional inline theme manifest (CUE source).
	Theme string `yaml:"theme,omitempty"`

	// SmoothScroll enables the smooth-scroll layer. Off by default so
	// scroll events apply instantly and assertions stay simple; scenarios
	// exercising the smoothing turn it on and script frames.
	SmoothScroll bool `yaml:"smooth_scroll,omitempty"`

	// Events is the host event script, applied in order.
	Events []EventStep `yaml:"events"`

	// Assertions validate the final trace and document state.
	Assertions []Assertion `yaml:"assertions"`
}

// RectSpec is an element rect in page coordinates.
type RectSpec struct {
	Top    float64 `yaml:"top"`
	Left   float64 `yaml:"left"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// CapabilitySpec overrides the simulated environment. Zero values keep the
// desktop defaults (1440x900, primitives loaded, same-origin).
type CapabilitySpec struct {
	PrimitivesMissing bool    `yaml:"primitives_missing,omitempty"`
	Embedded          bool    `yaml:"embedded,omitempty"`
	ProbeDenied       bool    `yaml:"probe_denied,omitempty"`
	ReducedMotion     bool    `yaml:"reduced_motion,omitempty"`
	Touch             bool    `yaml:"touch,omitempty"`
	ViewportWidth     float64 `yaml:"viewport_width,omitempty"`
	ViewportHeight    float64 `yaml:"viewport_height,omitempty"`
}

// EventStep is one scripted host event. Exactly one field must be set.
type EventStep struct {
	// Ready fires the document-ready event.
	Ready bool `yaml:"ready,omitempty"`

	// Scroll sets the scroll position (page px).
	Scroll *float64 `yaml:"scroll,omitempty"`

	// Frame advances logical time by the given seconds.
	Frame *float64 `yaml:"frame,omitempty"`

	// Advance emits repeated frames: Seconds total in Step increments.
	Advance *AdvanceStep `yaml:"advance,omitempty"`

	// Pointer dispatches a pointer event.
	Pointer *PointerStep `yaml:"pointer,omitempty"`
}

// AdvanceStep scripts a span of frames.
type AdvanceStep struct {
	Seconds float64 `yaml:"seconds"`
	// Step is the per-frame delta; defaults to 1/60 s.
	Step float64 `yaml:"step,omitempty"`
}

// PointerStep scripts one pointer event. Target is an element id.
type PointerStep struct {
	Kind   string  `yaml:"kind"` // move, down, up, click
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Target string  `yaml:"target,omitempty"`
}

// Assertion validates trace or final document state.
type Assertion struct {
	// Type selects the assertion:
	//   trace_contains - an event with the given kind/effect/target exists
	//   trace_order    - events with the given kinds/effects appear in order
	//   trace_count    - events matching kind/effect appear exactly Count times
	//   final_style    - element's style props match exactly
	//   final_class    - element carries (or lacks) a class
	//   state          - the engine's final lifecycle state
	Type string `yaml:"type"`

	Kind   string `yaml:"kind,omitempty"`
	Effect string `yaml:"effect,omitempty"`
	// Target matches the trace descriptor ("div#hero") for trace
	// assertions, or the element id for final_style/final_class.
	Target string `yaml:"target,omitempty"`
	// DetailContains is a substring match on the event detail.
	DetailContains string `yaml:"detail_contains,omitempty"`

	Count int `yaml:"count,omitempty"`

	// Steps lists kind/effect pairs for trace_order.
	Steps []OrderStep `yaml:"steps,omitempty"`

	// Styles lists expected style properties for final_style.
	Styles map[string]string `yaml:"styles,omitempty"`

	// Class and Absent drive final_class.
	Class  string `yaml:"class,omitempty"`
	Absent bool   `yaml:"absent,omitempty"`

	// State is the expected lifecycle state for the state assertion.
	State string `yaml:"state,omitempty"`
}

// OrderStep is one entry of a trace_order assertion.
type OrderStep struct {
	Kind   string `yaml:"kind"`
	Effect string `yaml:"effect,omitempty"`
	Target string `yaml:"target,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalStyle    = "final_style"
	AssertFinalClass    = "final_class"
	AssertState         = "state"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos ("assertion:" for "assertions:") fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.HTML == "" {
		return fmt.Errorf("html is required")
	}
	if len(s.Events) == 0 {
		return fmt.Errorf("events list is required and must be non-empty")
	}

	for i, step := range s.Events {
		if err := validateEventStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateEventStep(index int, step EventStep) error {
	set := 0
	if step.Ready {
		set++
	}
	if step.Scroll != nil {
		set++
	}
	if step.Frame != nil {
		set++
	}
	if step.Advance != nil {
		set++
	}
	if step.Pointer != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("events[%d]: exactly one of ready/scroll/frame/advance/pointer must be set", index)
	}
	if step.Pointer != nil {
		switch step.Pointer.Kind {
		case "move", "down", "up", "click":
		default:
			return fmt.Errorf("events[%d]: unknown pointer kind %q", index, step.Pointer.Kind)
		}
	}
	if step.Advance != nil && step.Advance.Seconds <= 0 {
		return fmt.Errorf("events[%d]: advance.seconds must be positive", index)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Steps) == 0 {
			return fmt.Errorf("assertions[%d]: steps list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" && a.Effect == "" {
			return fmt.Errorf("assertions[%d]: kind or effect is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertFinalStyle:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: target is required for final_style", index)
		}
		if len(a.Styles) == 0 {
			return fmt.Errorf("assertions[%d]: styles is required for final_style", index)
		}
	case AssertFinalClass:
		if a.Target == "" || a.Class == "" {
			return fmt.Errorf("assertions[%d]: target and class are required for final_class", index)
		}
	case AssertState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state value is required", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
