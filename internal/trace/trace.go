// Package trace records every observable engine action with a logical
// sequence number. Traces drive golden tests, the replay determinism check,
// and the CLI's inspection commands.
package trace

import (
	"fmt"
	"sync"

	"github.com/pageforge/flourish/internal/dom"
)

// Kind categorizes trace events.
type Kind string

const (
	// KindProbe records the resolved capability profile.
	KindProbe Kind = "probe"
	// KindState records a fallback-manager state transition.
	KindState Kind = "state"
	// KindDirective records a directive registered with its effect.
	KindDirective Kind = "directive"
	// KindSkip records an effect skipped by policy (low-power, disabled,
	// unknown id).
	KindSkip Kind = "skip"
	// KindReveal records a static reveal without animation.
	KindReveal Kind = "reveal"
	// KindFire records a fire-once trigger playing.
	KindFire Kind = "fire"
	// KindTween records an animated transition starting.
	KindTween Kind = "tween"
	// KindForceReveal records the fallback manager forcing visibility.
	KindForceReveal Kind = "force_reveal"
	// KindAmbient records a global behavior being installed.
	KindAmbient Kind = "ambient"
)

// Event is one recorded engine action.
type Event struct {
	Seq    int64  `json:"seq"`
	Kind   Kind   `json:"kind"`
	Effect string `json:"effect,omitempty"`
	Target string `json:"target,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Recorder receives trace events. Implementations must tolerate being
// called from the engine loop only (no internal ordering guarantees are
// needed beyond call order).
type Recorder interface {
	Record(ev Event)
}

// Nop discards all events.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(Event) {}

// Log is an append-only in-memory recorder.
type Log struct {
	mu     sync.Mutex
	events []Event
}

// NewLog creates an empty trace log.
func NewLog() *Log {
	return &Log{}
}

// Record implements Recorder.
func (l *Log) Record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

// Events returns a copy of the recorded events in call order.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Describe renders a stable element descriptor for trace targets:
// the tag plus the authored id when present ("div#hero", "span").
func Describe(el *dom.Element) string {
	if el == nil {
		return ""
	}
	if id, ok := el.Attr("id"); ok && id != "" {
		return fmt.Sprintf("%s#%s", el.Tag, id)
	}
	return el.Tag
}
